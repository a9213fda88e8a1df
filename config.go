package gorevalidate

// Options configures the validation middleware beyond its store and policy.
// The zero value is usable; nil fields fall back to the defaults named on
// each field.
type Options struct {
	// Registry is consulted before trusting a stored validator. When nil,
	// out-of-band invalidation is disabled for this route.
	Registry *InvalidationRegistry

	// KeyGenerator defaults to DefaultKeyGenerator.
	KeyGenerator KeyGenerator

	// ETagGenerator defaults to ContentHashETagGenerator. A handler that
	// sets its own ETag response header overrides the generator for that
	// response.
	ETagGenerator ETagGenerator

	// LastModified defaults to GenerationTimeSource; see its documented
	// limitation.
	LastModified LastModifiedSource

	// FailClosed rejects requests with 503 when the store is unreachable
	// instead of degrading to a cache miss.
	FailClosed bool
}

// DefaultOptions returns the options used when New receives nil.
func DefaultOptions() Options {
	return Options{}
}
