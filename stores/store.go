package stores

import "time"

var (
	// DefaultRecordTTL is how long validator records stay in an external
	// backend before the backend may discard them. Independent of the
	// HTTP freshness the engine emits; a discarded record only costs one
	// extra full response.
	DefaultRecordTTL = 24 * time.Hour

	// DefaultExpiredTaskTimer is the default interval of backend cleanup
	// tasks that sweep expired records.
	DefaultExpiredTaskTimer = 10 * time.Minute
)
