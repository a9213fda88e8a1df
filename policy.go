package gorevalidate

import (
	"errors"
	"fmt"
)

var (
	// ErrConflictingCacheLocation is returned when a resolved policy claims
	// both public and private.
	ErrConflictingCacheLocation = errors.New("cache policy sets both public and private")

	// ErrNegativeMaxAge is returned for a negative max-age or s-maxage.
	ErrNegativeMaxAge = errors.New("cache policy max-age must be non-negative")
)

// ExpirationPolicy configures the Cache-Control and Expires headers emitted
// for a response. Optional fields are pointers so an override level can
// distinguish "unset" from an explicit false or zero.
type ExpirationPolicy struct {
	NoStore         *bool
	NoCache         *bool
	MustRevalidate  *bool
	ProxyRevalidate *bool
	NoTransform     *bool

	// MaxAge and SharedMaxAge are in seconds.
	MaxAge       *int
	SharedMaxAge *int

	Public  *bool
	Private *bool
}

// ValidationPolicy configures validator generation and which conditional
// headers are honored.
type ValidationPolicy struct {
	// GenerateETag and GenerateLastModified control which validators the
	// write path computes and emits. Both default to true.
	GenerateETag         *bool
	GenerateLastModified *bool

	// WeakETag marks generated tags weak.
	WeakETag *bool

	MustRevalidate *bool

	// VaryBy lists the request headers that distinguish variants of this
	// resource; their values become part of the StoreKey.
	VaryBy []string
}

// Policy is the merged expiration and validation configuration applied to
// one route.
type Policy struct {
	Expiration ExpirationPolicy
	Validation ValidationPolicy
}

// ResolvedPolicy is the outcome of a precedence merge, with every optional
// field collapsed to a concrete value. It is computed once per route
// registration, never per request.
type ResolvedPolicy struct {
	NoStore         bool
	NoCache         bool
	MustRevalidate  bool
	ProxyRevalidate bool
	NoTransform     bool

	MaxAge       int
	HasMaxAge    bool
	SharedMaxAge int
	HasSharedAge bool

	Public  bool
	Private bool

	GenerateETag         bool
	GenerateLastModified bool
	WeakETag             bool
	VaryBy               []string
}

// Resolve merges policy layers from least to most specific (global,
// resource, action): the most specific layer that sets a field wins
// outright. Conflicting settings are configuration errors surfaced here,
// at registration time, never deferred to request time.
func Resolve(layers ...Policy) (ResolvedPolicy, error) {
	r := ResolvedPolicy{
		GenerateETag:         true,
		GenerateLastModified: true,
	}

	for _, l := range layers {
		mergeBool(&r.NoStore, l.Expiration.NoStore)
		mergeBool(&r.NoCache, l.Expiration.NoCache)
		mergeBool(&r.ProxyRevalidate, l.Expiration.ProxyRevalidate)
		mergeBool(&r.NoTransform, l.Expiration.NoTransform)
		mergeBool(&r.MustRevalidate, l.Expiration.MustRevalidate)
		mergeBool(&r.MustRevalidate, l.Validation.MustRevalidate)

		if l.Expiration.MaxAge != nil {
			r.MaxAge, r.HasMaxAge = *l.Expiration.MaxAge, true
		}
		if l.Expiration.SharedMaxAge != nil {
			r.SharedMaxAge, r.HasSharedAge = *l.Expiration.SharedMaxAge, true
		}

		// A layer that sets a cache location overrides the other location
		// outright rather than merging with it.
		if l.Expiration.Public != nil || l.Expiration.Private != nil {
			r.Public, r.Private = false, false
			mergeBool(&r.Public, l.Expiration.Public)
			mergeBool(&r.Private, l.Expiration.Private)
		}

		mergeBool(&r.GenerateETag, l.Validation.GenerateETag)
		mergeBool(&r.GenerateLastModified, l.Validation.GenerateLastModified)
		mergeBool(&r.WeakETag, l.Validation.WeakETag)
		if l.Validation.VaryBy != nil {
			r.VaryBy = append([]string(nil), l.Validation.VaryBy...)
		}
	}

	if r.Public && r.Private {
		return ResolvedPolicy{}, ErrConflictingCacheLocation
	}
	if r.HasMaxAge && r.MaxAge < 0 {
		return ResolvedPolicy{}, fmt.Errorf("%w: max-age=%d", ErrNegativeMaxAge, r.MaxAge)
	}
	if r.HasSharedAge && r.SharedMaxAge < 0 {
		return ResolvedPolicy{}, fmt.Errorf("%w: s-maxage=%d", ErrNegativeMaxAge, r.SharedMaxAge)
	}

	return r, nil
}

func mergeBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// Bool returns a pointer to b, for building policy literals.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to i, for building policy literals.
func Int(i int) *int { return &i }
