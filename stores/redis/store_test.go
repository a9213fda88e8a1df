//go:build !integration

package redis

import (
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/validstore/go-revalidate/stores"
)

func TestNew(t *testing.T) {
	t.Parallel()

	var ve stores.ValidationError
	if _, err := New(nil, nil); !errors.As(err, &ve) {
		t.Fatalf("expected a validation error for a nil client, got %v", err)
	}

	s, err := New(redis.NewClient(&redis.Options{}), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ttl != stores.DefaultRecordTTL {
		t.Errorf("expected default ttl, got %v", s.ttl)
	}

	s, err = New(redis.NewClient(&redis.Options{}), &Config{RecordTTL: time.Hour})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ttl != time.Hour {
		t.Errorf("expected configured ttl, got %v", s.ttl)
	}
}

func TestEscapeMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "/employees", "/employees"},
		{"star is literal", "/a*b", `/a\*b`},
		{"question mark is literal", "/a?b", `/a\?b`},
		{"brackets are literal", "/a[0]", `/a\[0\]`},
		{"backslash escaped first", `\*`, `\\\*`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := escapeMatch(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
