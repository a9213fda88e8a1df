package gorevalidate

import (
	"net/http"
	"strings"
	"time"
)

const (
	headerCacheControl = "Cache-Control"
	headerExpires      = "Expires"
	headerETag         = "ETag"
	headerLastModified = "Last-Modified"

	headerIfMatch           = "If-Match"
	headerIfNoneMatch       = "If-None-Match"
	headerIfModifiedSince   = "If-Modified-Since"
	headerIfUnmodifiedSince = "If-Unmodified-Since"
)

// Outcome is the decision the evaluator reaches for one request.
type Outcome int

const (
	// OutcomePass means full processing proceeds and a fresh validator
	// is computed and stored afterwards.
	OutcomePass Outcome = iota

	// OutcomeNotModified short-circuits to 304 with no body.
	OutcomeNotModified

	// OutcomePreconditionFailed short-circuits to 412 with no body,
	// before the request reaches business logic.
	OutcomePreconditionFailed
)

// String names the outcome for logs and metrics labels. An out-of-range
// value reports as "unknown" rather than folding into an existing label.
func (o Outcome) String() string {
	switch o {
	case OutcomePass:
		return "pass"
	case OutcomeNotModified:
		return "not-modified"
	case OutcomePreconditionFailed:
		return "precondition-failed"
	default:
		return "unknown"
	}
}

// StatusCode returns the HTTP status the outcome maps to, or 0 for Pass.
func (o Outcome) StatusCode() int {
	switch o {
	case OutcomeNotModified:
		return http.StatusNotModified
	case OutcomePreconditionFailed:
		return http.StatusPreconditionFailed
	default:
		return 0
	}
}

// Conditionals holds the parsed conditional headers of one request. A nil
// time or an empty list means the corresponding header was absent or
// unparseable; malformed values never fail a request.
type Conditionals struct {
	IfMatch           ETagList
	IfNoneMatch       ETagList
	IfModifiedSince   *time.Time
	IfUnmodifiedSince *time.Time
}

// ParseConditionals extracts the conditional headers from h. Malformed
// dates and wholly malformed tag lists degrade to "header absent".
// If-Match and If-None-Match are list-valued, so repeated field lines
// combine into one list before parsing.
func ParseConditionals(h http.Header) Conditionals {
	var c Conditionals
	if v := strings.Join(h.Values(headerIfMatch), ","); v != "" {
		c.IfMatch = ParseETagList(v)
	}
	if v := strings.Join(h.Values(headerIfNoneMatch), ","); v != "" {
		c.IfNoneMatch = ParseETagList(v)
	}
	if t, ok := ParseHTTPDate(h.Get(headerIfModifiedSince)); ok {
		c.IfModifiedSince = &t
	}
	if t, ok := ParseHTTPDate(h.Get(headerIfUnmodifiedSince)); ok {
		c.IfUnmodifiedSince = &t
	}
	return c
}

func safeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

// Evaluate runs the conditional-request decision for one request against
// the stored validator, in the precedence order of RFC 7232 section 6:
// If-Match, then If-Unmodified-Since, then If-None-Match, then
// If-Modified-Since. ETag validators take precedence over date validators,
// so If-Modified-Since is only consulted when If-None-Match is absent, and
// only for GET and HEAD.
//
// A nil stored value means there is nothing to validate against: every
// conditional falls through and the outcome is Pass.
func Evaluate(method string, c Conditionals, stored *ValidatorValue) Outcome {
	if stored == nil {
		return OutcomePass
	}

	if !c.IfMatch.Empty() {
		if !c.IfMatch.StrongMatches(stored.ETag) {
			return OutcomePreconditionFailed
		}
	} else if c.IfUnmodifiedSince != nil {
		if !sameOrBefore(stored.LastModified, *c.IfUnmodifiedSince) {
			return OutcomePreconditionFailed
		}
	}

	if !c.IfNoneMatch.Empty() {
		if c.IfNoneMatch.WeakMatches(stored.ETag) {
			if safeMethod(method) {
				return OutcomeNotModified
			}
			return OutcomePreconditionFailed
		}
		return OutcomePass
	}

	if c.IfModifiedSince != nil && safeMethod(method) {
		if sameOrBefore(stored.LastModified, *c.IfModifiedSince) {
			return OutcomeNotModified
		}
	}

	return OutcomePass
}
