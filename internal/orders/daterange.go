package orders

import "time"

// Range is the half-open instant range [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// ResolveBucket maps a date_filter name to a range in now's location.
// "today" starts at local midnight; "week" and "month" are rolling windows
// ending now. Unknown names, "all" included, report false.
func ResolveBucket(name string, now time.Time) (Range, bool) {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	switch name {
	case "today":
		return Range{Start: midnight, End: now}, true
	case "yesterday":
		return Range{Start: midnight.AddDate(0, 0, -1), End: midnight}, true
	case "week":
		return Range{Start: now.AddDate(0, 0, -7), End: now}, true
	case "month":
		return Range{Start: now.AddDate(0, 0, -30), End: now}, true
	}
	return Range{}, false
}
