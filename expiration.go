package gorevalidate

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ExpirationHeaders synthesizes the Cache-Control token list and Expires
// header for a resolved policy. no-store suppresses every other directive;
// callers must also skip validator generation for such a response (see
// ResolvedPolicy.SuppressValidators).
//
// Token order is fixed: location, no-cache, max-age, s-maxage,
// must-revalidate, proxy-revalidate, no-transform.
func ExpirationHeaders(p ResolvedPolicy, now time.Time) http.Header {
	h := make(http.Header)

	if p.NoStore {
		h.Set(headerCacheControl, "no-store")
		return h
	}

	var tokens []string
	switch {
	case p.Public:
		tokens = append(tokens, "public")
	case p.Private:
		tokens = append(tokens, "private")
	}
	if p.NoCache {
		tokens = append(tokens, "no-cache")
	}
	if p.HasMaxAge {
		tokens = append(tokens, "max-age="+strconv.Itoa(p.MaxAge))
	}
	if p.HasSharedAge {
		tokens = append(tokens, "s-maxage="+strconv.Itoa(p.SharedMaxAge))
	}
	if p.MustRevalidate {
		tokens = append(tokens, "must-revalidate")
	}
	if p.ProxyRevalidate {
		tokens = append(tokens, "proxy-revalidate")
	}
	if p.NoTransform {
		tokens = append(tokens, "no-transform")
	}

	if len(tokens) > 0 {
		h.Set(headerCacheControl, strings.Join(tokens, ", "))
	}

	// Expires mirrors max-age for clients that predate Cache-Control.
	if p.HasMaxAge {
		h.Set(headerExpires, FormatHTTPDate(now.Add(time.Duration(p.MaxAge)*time.Second)))
	}

	return h
}

// SuppressValidators reports whether validator generation is disabled for
// responses under this policy. no-store disables it entirely.
func (p ResolvedPolicy) SuppressValidators() bool {
	return p.NoStore
}
