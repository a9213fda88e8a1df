//go:build !integration

package gorevalidate_test

import (
	"testing"
	"time"

	gorevalidate "github.com/validstore/go-revalidate"
)

func TestExpirationHeaders(t *testing.T) {
	t.Parallel()

	now := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		policy          gorevalidate.ResolvedPolicy
		expectedCC      string
		expectedExpires string
	}{
		{
			name:       "empty policy emits nothing",
			policy:     gorevalidate.ResolvedPolicy{},
			expectedCC: "",
		},
		{
			name:       "no-store suppresses all other directives",
			policy:     gorevalidate.ResolvedPolicy{NoStore: true, NoCache: true, MustRevalidate: true, HasMaxAge: true, MaxAge: 60, Public: true},
			expectedCC: "no-store",
		},
		{
			name:            "max-age emits expires",
			policy:          gorevalidate.ResolvedPolicy{HasMaxAge: true, MaxAge: 60},
			expectedCC:      "max-age=60",
			expectedExpires: "Thu, 01 Jun 2023 12:01:00 GMT",
		},
		{
			name:            "zero max-age with must-revalidate",
			policy:          gorevalidate.ResolvedPolicy{HasMaxAge: true, MaxAge: 0, MustRevalidate: true},
			expectedCC:      "max-age=0, must-revalidate",
			expectedExpires: "Thu, 01 Jun 2023 12:00:00 GMT",
		},
		{
			name:       "public with shared max-age",
			policy:     gorevalidate.ResolvedPolicy{Public: true, HasSharedAge: true, SharedMaxAge: 300},
			expectedCC: "public, s-maxage=300",
		},
		{
			name:       "private no-cache",
			policy:     gorevalidate.ResolvedPolicy{Private: true, NoCache: true},
			expectedCC: "private, no-cache",
		},
		{
			name:       "full directive ordering",
			policy:     gorevalidate.ResolvedPolicy{Public: true, NoCache: true, HasMaxAge: true, MaxAge: 30, HasSharedAge: true, SharedMaxAge: 60, MustRevalidate: true, ProxyRevalidate: true, NoTransform: true},
			expectedCC: "public, no-cache, max-age=30, s-maxage=60, must-revalidate, proxy-revalidate, no-transform",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := gorevalidate.ExpirationHeaders(tt.policy, now)
			if got := h.Get("Cache-Control"); got != tt.expectedCC {
				t.Errorf("Cache-Control: expected %q, got %q", tt.expectedCC, got)
			}
			if got := h.Get("Expires"); got != tt.expectedExpires {
				t.Errorf("Expires: expected %q, got %q", tt.expectedExpires, got)
			}
		})
	}
}

func TestSuppressValidators(t *testing.T) {
	t.Parallel()

	if !(gorevalidate.ResolvedPolicy{NoStore: true}).SuppressValidators() {
		t.Error("no-store must disable validator generation")
	}
	if (gorevalidate.ResolvedPolicy{NoCache: true}).SuppressValidators() {
		t.Error("no-cache must not disable validator generation")
	}
}
