package shopify

import (
	"net/url"
	"regexp"
)

var nextLinkRe = regexp.MustCompile(`<[^>]*page_info=([^&>]+)[^>]*>;\s*rel="next"`)

// NextPageInfo extracts the cursor of the rel="next" entry of a Link header.
// It returns "" when there is no further page.
func NextPageInfo(link string) string {
	m := nextLinkRe.FindStringSubmatch(link)
	if m == nil {
		return ""
	}
	if v, err := url.QueryUnescape(m[1]); err == nil {
		return v
	}
	return m[1]
}
