package orders

import "strings"

// StatusFilter is the `status` query value of the order listing.
type StatusFilter string

const (
	StatusAll         StatusFilter = "all"
	StatusFulfilled   StatusFilter = "fulfilled"
	StatusUnfulfilled StatusFilter = "unfulfilled"
)

func ParseStatus(s string) StatusFilter {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StatusAll
	}
	return StatusFilter(s)
}

// Fulfillment reports whether the value filters on fulfillment status, which
// is done client-side. Any other value except "all" is a financial status
// and is sent upstream.
func (s StatusFilter) Fulfillment() bool {
	return s == StatusFulfilled || s == StatusUnfulfilled
}

func (s StatusFilter) financial() string {
	if s == StatusAll || s.Fulfillment() {
		return ""
	}
	return string(s)
}

// fulfilled treats an absent fulfillment status as unfulfilled. Partially
// fulfilled orders count as unfulfilled.
func fulfilled(status string) bool {
	return status == "fulfilled"
}
