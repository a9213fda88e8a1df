package gorevalidate

import (
	"net/http"
	"time"
)

// FormatHTTPDate renders t in the RFC 1123 form required for HTTP date
// headers, always in GMT.
func FormatHTTPDate(t time.Time) string {
	return t.UTC().Format(http.TimeFormat)
}

// ParseHTTPDate parses an HTTP date header in any of the three formats
// RFC 7231 section 7.1.1.1 allows. Parsing fails soft: malformed input
// returns ok=false and is treated by callers as an absent header, never
// as a request error.
func ParseHTTPDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := http.ParseTime(s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// sameOrBefore compares two times at second granularity; HTTP dates carry
// no finer precision, so sub-second differences count as equal.
func sameOrBefore(t, ref time.Time) bool {
	return !t.Truncate(time.Second).After(ref.Truncate(time.Second))
}
