//go:build !integration

package gorevalidate_test

import (
	"net/url"
	"testing"

	gorevalidate "github.com/validstore/go-revalidate"
)

func TestDefaultKeyGenerator(t *testing.T) {
	t.Parallel()

	gen := gorevalidate.DefaultKeyGenerator{}

	tests := []struct {
		name     string
		path     string
		query    url.Values
		headers  map[string][]string
		varyBy   []string
		expected gorevalidate.StoreKey
	}{
		{
			name:     "path only",
			path:     "/employees",
			expected: "/employees",
		},
		{
			name:     "empty path normalizes to root",
			path:     "",
			expected: "/",
		},
		{
			name:     "trailing slash stripped",
			path:     "/employees/",
			expected: "/employees",
		},
		{
			name:     "query parameters sorted",
			path:     "/employees",
			query:    url.Values{"page": {"2"}, "limit": {"10"}},
			expected: "/employees?limit=10&page=2",
		},
		{
			name:     "repeated query values sorted",
			path:     "/employees",
			query:    url.Values{"tag": {"b", "a"}},
			expected: "/employees?tag=a&tag=b",
		},
		{
			name:     "vary-by header included",
			path:     "/employees",
			headers:  map[string][]string{"Accept": {"application/json"}},
			varyBy:   []string{"Accept"},
			expected: "/employees#accept=application/json",
		},
		{
			name:     "vary-by names sorted and lower-cased",
			path:     "/employees",
			headers:  map[string][]string{"Accept": {"text/csv"}, "Accept-Language": {"fi"}},
			varyBy:   []string{"Accept-Language", "ACCEPT"},
			expected: "/employees#accept=text/csv#accept-language=fi",
		},
		{
			name:     "absent vary-by header is an empty component",
			path:     "/employees",
			varyBy:   []string{"Accept"},
			expected: "/employees#accept=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := gen.Key(tt.path, tt.query, tt.headers, tt.varyBy)
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestDefaultKeyGeneratorDeterministic(t *testing.T) {
	t.Parallel()

	gen := gorevalidate.DefaultKeyGenerator{}
	query := url.Values{"b": {"2"}, "a": {"1"}, "c": {"3"}}
	headers := map[string][]string{"Accept": {"application/json"}, "Accept-Language": {"en"}}
	varyBy := []string{"Accept", "Accept-Language"}

	first := gen.Key("/employees", query, headers, varyBy)
	for range 100 {
		if got := gen.Key("/employees", query, headers, varyBy); got != first {
			t.Fatalf("key not deterministic: %q vs %q", first, got)
		}
	}
}

func TestStoreKeyContains(t *testing.T) {
	t.Parallel()

	key := gorevalidate.StoreKey("/Employees?page=2")

	if !key.Contains("/Employees", false) {
		t.Error("expected case-sensitive match")
	}
	if key.Contains("/employees", false) {
		t.Error("unexpected case-sensitive match")
	}
	if !key.Contains("/employees", true) {
		t.Error("expected case-insensitive match")
	}
}
