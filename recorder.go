package gorevalidate

import (
	"bytes"
	"net/http"
)

// responseRecorder buffers the downstream handler's status and body so
// validators can be computed before anything is written to the client.
type responseRecorder struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func newResponseRecorder() *responseRecorder {
	return &responseRecorder{
		header: make(http.Header),
		status: http.StatusOK,
	}
}

func (r *responseRecorder) Header() http.Header {
	return r.header
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
}

func (r *responseRecorder) Write(p []byte) (int, error) {
	return r.body.Write(p)
}

// flush copies the recorded response to w, headers first.
func (r *responseRecorder) flush(w http.ResponseWriter) error {
	for name, vals := range r.header {
		for _, v := range vals {
			w.Header().Add(name, v)
		}
	}
	w.WriteHeader(r.status)
	_, err := w.Write(r.body.Bytes())
	return err
}
