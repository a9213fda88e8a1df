//go:build !integration

package gorevalidate_test

import (
	"testing"

	gorevalidate "github.com/validstore/go-revalidate"
)

func TestParseETag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected gorevalidate.ETag
		ok       bool
	}{
		{"strong quoted", `"abc123"`, gorevalidate.ETag{Value: "abc123"}, true},
		{"weak quoted", `W/"abc123"`, gorevalidate.ETag{Value: "abc123", Weak: true}, true},
		{"lowercase weak prefix", `w/"abc123"`, gorevalidate.ETag{Value: "abc123", Weak: true}, true},
		{"unquoted", "abc123", gorevalidate.ETag{Value: "abc123"}, true},
		{"surrounding space", ` "abc123" `, gorevalidate.ETag{Value: "abc123"}, true},
		{"empty", "", gorevalidate.ETag{}, false},
		{"star is not a tag", "*", gorevalidate.ETag{}, false},
		{"empty quotes", `""`, gorevalidate.ETag{}, false},
		{"unterminated quote", `"abc`, gorevalidate.ETag{}, false},
		{"bare weak prefix", `W/""`, gorevalidate.ETag{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := gorevalidate.ParseETag(tt.input)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if got != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}

func TestETagString(t *testing.T) {
	t.Parallel()

	if got := (gorevalidate.ETag{Value: "abc123"}).String(); got != `"abc123"` {
		t.Errorf("expected quoted tag, got %s", got)
	}
	if got := (gorevalidate.ETag{Value: "abc123", Weak: true}).String(); got != `W/"abc123"` {
		t.Errorf("expected weak prefix, got %s", got)
	}
}

func TestETagComparison(t *testing.T) {
	t.Parallel()

	strong := gorevalidate.ETag{Value: "abc123"}
	weak := gorevalidate.ETag{Value: "abc123", Weak: true}
	other := gorevalidate.ETag{Value: "def456"}

	tests := []struct {
		name         string
		a, b         gorevalidate.ETag
		strongResult bool
		weakResult   bool
	}{
		{"strong vs strong equal", strong, strong, true, true},
		{"strong vs weak equal value", strong, weak, false, true},
		{"weak vs weak equal value", weak, weak, false, true},
		{"strong vs strong different", strong, other, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.a.StrongMatch(tt.b); got != tt.strongResult {
				t.Errorf("StrongMatch: expected %v, got %v", tt.strongResult, got)
			}
			if got := tt.a.WeakMatch(tt.b); got != tt.weakResult {
				t.Errorf("WeakMatch: expected %v, got %v", tt.weakResult, got)
			}
		})
	}
}

func TestParseETagList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		star     bool
		expected int
	}{
		{"single tag", `"abc123"`, false, 1},
		{"multiple tags", `"abc123", W/"def456", "ghi789"`, false, 3},
		{"wildcard", "*", true, 0},
		{"malformed members skipped", `"abc123", "bad, "def456"`, false, 2},
		{"all malformed parses empty", `"bad, "also"bad`, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := gorevalidate.ParseETagList(tt.input)
			if got.Star != tt.star {
				t.Errorf("expected star=%v, got %v", tt.star, got.Star)
			}
			if len(got.Tags) != tt.expected {
				t.Errorf("expected %d tags, got %d (%v)", tt.expected, len(got.Tags), got.Tags)
			}
		})
	}
}

func TestContentHashETagGenerator(t *testing.T) {
	t.Parallel()

	gen := gorevalidate.ContentHashETagGenerator{}

	first := gen.Generate("/employees", []byte("value1,value2"))
	second := gen.Generate("/employees", []byte("value1,value2"))
	if first != second {
		t.Error("identical key and body must produce the identical tag")
	}
	if first.Weak {
		t.Error("default generator must produce strong tags")
	}

	changed := gen.Generate("/employees", []byte("value1,value2,value3"))
	if changed.Value == first.Value {
		t.Error("changed body must produce a different tag")
	}

	otherKey := gen.Generate("/reports", []byte("value1,value2"))
	if otherKey.Value == first.Value {
		t.Error("different store keys must produce different tags")
	}

	empty := gen.Generate("/employees", nil)
	if empty.IsZero() {
		t.Error("empty body is valid input and must still produce a tag")
	}

	weak := gorevalidate.ContentHashETagGenerator{Weak: true}.Generate("/employees", []byte("x"))
	if !weak.Weak {
		t.Error("expected a weak tag")
	}
}
