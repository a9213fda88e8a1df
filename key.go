package gorevalidate

import (
	"net/url"
	"sort"
	"strings"
)

// StoreKey is the canonical identity of one cacheable resource variant.
// Two requests a downstream cache would treat as the same variant produce
// an identical key.
type StoreKey string

// Contains reports whether the key contains part, optionally ignoring case.
func (k StoreKey) Contains(part string, ignoreCase bool) bool {
	if ignoreCase {
		return strings.Contains(strings.ToLower(string(k)), strings.ToLower(part))
	}
	return strings.Contains(string(k), part)
}

// KeyGenerator derives a StoreKey from a request descriptor. Implementations
// must be pure: deterministic and free of side effects.
type KeyGenerator interface {
	Key(path string, query url.Values, headers map[string][]string, varyBy []string) StoreKey
}

// DefaultKeyGenerator builds keys of the form
//
//	/employees?page=2#accept=application/json
//
// with query parameters and vary-by header names sorted for determinism.
// Absent vary-by headers contribute an empty value rather than failing.
type DefaultKeyGenerator struct{}

func (DefaultKeyGenerator) Key(path string, query url.Values, headers map[string][]string, varyBy []string) StoreKey {
	var b strings.Builder
	b.WriteString(normalizePath(path))

	if len(query) > 0 {
		names := make([]string, 0, len(query))
		for name := range query {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteByte('?')
		for i, name := range names {
			vals := append([]string(nil), query[name]...)
			sort.Strings(vals)
			for j, v := range vals {
				if i > 0 || j > 0 {
					b.WriteByte('&')
				}
				b.WriteString(name)
				b.WriteByte('=')
				b.WriteString(v)
			}
		}
	}

	if len(varyBy) > 0 {
		names := make([]string, 0, len(varyBy))
		for _, name := range varyBy {
			names = append(names, strings.ToLower(name))
		}
		sort.Strings(names)

		for _, name := range names {
			b.WriteByte('#')
			b.WriteString(name)
			b.WriteByte('=')
			b.WriteString(headerValue(headers, name))
		}
	}

	return StoreKey(b.String())
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

// headerValue looks a header up case-insensitively and joins multiple
// values the way they would appear on the wire.
func headerValue(headers map[string][]string, name string) string {
	for k, vals := range headers {
		if strings.EqualFold(k, name) {
			return strings.Join(vals, ", ")
		}
	}
	return ""
}
