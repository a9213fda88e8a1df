package gorevalidate

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ValidationMiddleware wraps an http.Handler with conditional-request
// evaluation and caching-header synthesis for one route. It owns no
// response bodies; it stores only (ETag, Last-Modified) validator records
// keyed by the request's StoreKey and uses them to answer with 304 or 412
// before the wrapped handler runs.
type ValidationMiddleware struct {
	next http.Handler

	store    Store
	registry *InvalidationRegistry
	policy   ResolvedPolicy

	keys         KeyGenerator
	etags        ETagGenerator
	lastModified LastModifiedSource

	failClosed bool
	logger     *slog.Logger
	now        func() time.Time
}

// New builds a middleware constructor for one route from its resolved
// policy and a shared validator store.
//
// If now is nil, time.Now is used. If logger is nil, a no-op logger
// writing to io.Discard is used. If opts is nil, DefaultOptions applies.
func New(
	store Store,
	policy ResolvedPolicy,
	opts *Options,
	now func() time.Time,
	logger *slog.Logger,
) func(http.Handler) http.Handler {
	nowFunc := now
	if nowFunc == nil {
		nowFunc = time.Now
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	if o.KeyGenerator == nil {
		o.KeyGenerator = DefaultKeyGenerator{}
	}
	if o.ETagGenerator == nil {
		o.ETagGenerator = ContentHashETagGenerator{Weak: policy.WeakETag}
	}
	if o.LastModified == nil {
		o.LastModified = GenerationTimeSource{Now: nowFunc}
	}

	return func(next http.Handler) http.Handler {
		return &ValidationMiddleware{
			next:         next,
			store:        store,
			registry:     o.Registry,
			policy:       policy,
			keys:         o.KeyGenerator,
			etags:        o.ETagGenerator,
			lastModified: o.LastModified,
			failClosed:   o.FailClosed,
			logger:       logger,
			now:          nowFunc,
		}
	}
}

func (m *ValidationMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// no-store disables expiration and validation alike: no lookup, no
	// validator generation, only the bare directive.
	if m.policy.SuppressValidators() {
		applyHeaders(w.Header(), ExpirationHeaders(m.policy, m.now()))
		m.next.ServeHTTP(w, r)
		return
	}

	key := m.keys.Key(r.URL.Path, r.URL.Query(), r.Header, m.policy.VaryBy)

	stored, err := m.store.Get(ctx, key)
	if err != nil {
		stored = nil
		if !errors.Is(err, ErrNotFound) {
			StoreErrors.WithLabelValues("get").Inc()
			if m.failClosed {
				m.logger.ErrorContext(ctx, "validator store unavailable", "key", key, "error", err)
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}
			m.logger.WarnContext(ctx, "validator store get failed, treating as miss", "key", key, "error", err)
		}
	}

	// A pending invalidation mark forces the no-validator state and evicts
	// the physical entry so a stale validator cannot leak into a later
	// evaluation. The mark is spent by every read that consults the store,
	// even one that found nothing: a mark left pending across a fresh Set
	// would evict the validator that Set just wrote.
	if m.registry != nil && m.registry.Consume(key) {
		InvalidationsConsumed.Inc()
		m.logger.DebugContext(ctx, "invalidation mark consumed", "key", key)
		if stored != nil {
			stored = nil
			if delErr := m.store.Delete(ctx, key); delErr != nil {
				StoreErrors.WithLabelValues("delete").Inc()
				m.logger.WarnContext(ctx, "evicting invalidated validator failed", "key", key, "error", delErr)
			}
		}
	}

	outcome := Evaluate(r.Method, ParseConditionals(r.Header), stored)
	EvaluationOutcomes.WithLabelValues(outcome.String()).Inc()

	switch outcome {
	case OutcomeNotModified:
		m.logger.DebugContext(ctx, "request not modified", "key", key, "etag", stored.ETag.String())
		m.writeValidators(w.Header(), stored)
		applyHeaders(w.Header(), ExpirationHeaders(m.policy, m.now()))
		w.WriteHeader(http.StatusNotModified)
		return

	case OutcomePreconditionFailed:
		m.logger.DebugContext(ctx, "precondition failed", "key", key)
		w.WriteHeader(http.StatusPreconditionFailed)
		return
	}

	rec := newResponseRecorder()
	m.next.ServeHTTP(rec, r)

	if rec.status >= 200 && rec.status < 300 {
		fresh, genErr := m.freshValidator(r, key, rec)
		if genErr != nil {
			// A generator breaking its contract would corrupt every later
			// validation, so fail the response rather than store it.
			m.logger.ErrorContext(ctx, "validator generation failed", "key", key, "error", genErr)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		m.writeValidators(rec.Header(), fresh)

		if setErr := m.store.Set(ctx, key, fresh); setErr != nil {
			StoreErrors.WithLabelValues("set").Inc()
			// A lost update is safe: the next request passes through once
			// more instead of seeing a false 304.
			m.logger.WarnContext(ctx, "validator store set failed", "key", key, "error", setErr)
		}
	}

	applyHeaders(rec.Header(), ExpirationHeaders(m.policy, m.now()))

	if err := rec.flush(w); err != nil {
		m.logger.WarnContext(ctx, "writing response failed", "error", err)
	}
}

var errEmptyETag = errors.New("etag generator produced an empty tag")

// freshValidator computes the validator record for a response the wrapped
// handler just produced. A handler-supplied ETag or Last-Modified header
// takes precedence over the configured generators.
func (m *ValidationMiddleware) freshValidator(r *http.Request, key StoreKey, rec *responseRecorder) (*ValidatorValue, error) {
	var v ValidatorValue

	if m.policy.GenerateETag {
		if handlerTag, ok := ParseETag(rec.Header().Get(headerETag)); ok {
			v.ETag = handlerTag
		} else {
			v.ETag = m.etags.Generate(key, rec.body.Bytes())
			if v.ETag.IsZero() {
				return nil, errEmptyETag
			}
		}
	}

	if m.policy.GenerateLastModified {
		if t, ok := ParseHTTPDate(rec.Header().Get(headerLastModified)); ok {
			v.LastModified = t
		} else {
			v.LastModified = m.lastModified.LastModified(r)
		}
	}

	return &v, nil
}

func (m *ValidationMiddleware) writeValidators(h http.Header, v *ValidatorValue) {
	if m.policy.GenerateETag && !v.ETag.IsZero() {
		h.Set(headerETag, v.ETag.String())
	}
	if m.policy.GenerateLastModified && !v.LastModified.IsZero() {
		h.Set(headerLastModified, FormatHTTPDate(v.LastModified))
	}
}

func applyHeaders(dst, src http.Header) {
	for name, vals := range src {
		dst[name] = vals
	}
}
