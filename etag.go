package gorevalidate

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// ETag is an entity tag as defined by RFC 7232 section 2.3. Value holds the
// opaque tag without quotes or the W/ prefix.
type ETag struct {
	Value string
	Weak  bool
}

// String renders the tag in wire form: quoted, W/-prefixed when weak.
func (e ETag) String() string {
	if e.Weak {
		return `W/"` + e.Value + `"`
	}
	return `"` + e.Value + `"`
}

// IsZero reports whether the tag carries no value.
func (e ETag) IsZero() bool {
	return e.Value == ""
}

// StrongMatch implements the strong comparison function: the tags are
// equal and neither is weak.
func (e ETag) StrongMatch(o ETag) bool {
	return !e.Weak && !o.Weak && e.Value == o.Value
}

// WeakMatch implements the weak comparison function: the tags are equal
// regardless of weakness.
func (e ETag) WeakMatch(o ETag) bool {
	return e.Value == o.Value
}

// ParseETag parses one wire-form entity tag. It accepts unquoted tags,
// which some clients still send. The second return is false for input
// that cannot be an entity tag at all.
func ParseETag(s string) (ETag, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return ETag{}, false
	}

	var e ETag
	if strings.HasPrefix(s, "W/") || strings.HasPrefix(s, "w/") {
		e.Weak = true
		s = s[2:]
	}
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	if s == "" || strings.Contains(s, `"`) {
		return ETag{}, false
	}
	e.Value = s
	return e, true
}

// ETagList is a parsed If-Match or If-None-Match header value.
type ETagList struct {
	Star bool
	Tags []ETag
}

// ParseETagList parses a comma-separated entity-tag list. Malformed
// members are skipped rather than failing the whole header; a header
// whose members are all malformed parses to an empty list.
func ParseETagList(header string) ETagList {
	var l ETagList
	for _, member := range strings.Split(header, ",") {
		member = strings.TrimSpace(member)
		if member == "" {
			continue
		}
		if member == "*" {
			l.Star = true
			continue
		}
		if tag, ok := ParseETag(member); ok {
			l.Tags = append(l.Tags, tag)
		}
	}
	return l
}

// Empty reports whether the list names neither tags nor the wildcard.
func (l ETagList) Empty() bool {
	return !l.Star && len(l.Tags) == 0
}

// StrongMatches reports whether any member strong-matches stored. The
// wildcard matches any existing tag.
func (l ETagList) StrongMatches(stored ETag) bool {
	if l.Star {
		return true
	}
	for _, tag := range l.Tags {
		if tag.StrongMatch(stored) {
			return true
		}
	}
	return false
}

// WeakMatches reports whether any member weak-matches stored. The
// wildcard matches any existing tag.
func (l ETagList) WeakMatches(stored ETag) bool {
	if l.Star {
		return true
	}
	for _, tag := range l.Tags {
		if tag.WeakMatch(stored) {
			return true
		}
	}
	return false
}

// ETagGenerator computes the entity tag for a response. Implementations
// backed by a resource-aware source (a database revision stamp, say) can
// replace the content-hash default without changing the evaluator's
// contract.
type ETagGenerator interface {
	Generate(key StoreKey, body []byte) ETag
}

// ContentHashETagGenerator derives a strong tag from an MD5 digest of the
// store key and the response body. Identical key and body always produce
// the identical tag, so 304 decisions hold across processes and restarts.
// An empty body is valid input.
type ContentHashETagGenerator struct {
	// Weak marks generated tags weak, for routes configured for
	// semantic-equivalence validation.
	Weak bool
}

func (g ContentHashETagGenerator) Generate(key StoreKey, body []byte) ETag {
	h := md5.New()
	h.Write([]byte(key))
	h.Write(body)
	return ETag{Value: hex.EncodeToString(h.Sum(nil)), Weak: g.Weak}
}
