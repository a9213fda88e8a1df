package gorevalidate

import (
	"net/http"
	"time"
)

// LastModifiedSource supplies the Last-Modified timestamp for a response.
// Resources with a true modification time should provide their own source;
// without one, date-based validation is only as good as GenerationTimeSource
// documents.
type LastModifiedSource interface {
	LastModified(r *http.Request) time.Time
}

// GenerationTimeSource is the default LastModifiedSource: it reports the
// time the response was generated, truncated to one second.
//
// Known limitation of this default: two responses generated within the same
// second carry the same Last-Modified value, so If-Modified-Since validation
// can report a resource unchanged even though the payload differs. This is
// the documented behavior of the default policy, not a bug; supply a custom
// source for resources that track a real modification time.
type GenerationTimeSource struct {
	Now func() time.Time
}

func (s GenerationTimeSource) LastModified(*http.Request) time.Time {
	now := s.Now
	if now == nil {
		now = time.Now
	}
	return now().UTC().Truncate(time.Second)
}
