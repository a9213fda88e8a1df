// Command revalidate-demo serves a small in-memory resource collection
// behind the validation middleware, with per-route cache policies loaded
// from a YAML file. It exists to exercise the engine end to end:
//
//	go run ./cmd/revalidate-demo -config demo.yaml
//	curl -i localhost:8080/employees
//	curl -i -H 'If-None-Match: "<etag from above>"' localhost:8080/employees
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	gorevalidate "github.com/validstore/go-revalidate"
	"github.com/validstore/go-revalidate/stores/memory"
)

type resourceStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func (rs *resourceStore) get(name string) (string, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	v, ok := rs.data[name]
	return v, ok
}

func (rs *resourceStore) put(name, body string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.data[name] = body
}

func main() {
	configPath := flag.String("config", "", "path to YAML route/policy config")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("loading config failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	store := memory.New()
	registry := gorevalidate.NewInvalidationRegistry()
	resources := &resourceStore{data: map[string]string{
		"employees": "value1,value2",
	}}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Handle("/metrics", promhttp.Handler())

	// Partial-URI invalidation entry point: every stored key containing
	// the given part is marked, then regenerated on its next read.
	r.Post("/-/invalidate", func(w http.ResponseWriter, req *http.Request) {
		part := req.URL.Query().Get("part")
		if part == "" {
			http.Error(w, "missing part parameter", http.StatusBadRequest)
			return
		}
		if err := registry.MarkKeysByPart(req.Context(), store, part, true); err != nil {
			logger.Warn("invalidation scan failed", "part", part, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	})

	for _, route := range cfg.Routes {
		resolved, err := gorevalidate.Resolve(cfg.Defaults.policy(), route.Policy.policy())
		if err != nil {
			logger.Error("invalid cache policy", "path", route.Path, "error", err)
			os.Exit(1)
		}

		validate := gorevalidate.New(store, resolved, &gorevalidate.Options{
			Registry: registry,
		}, time.Now, logger)

		name := strings.Trim(route.Path, "/")
		r.With(validate).Get(route.Path, func(w http.ResponseWriter, req *http.Request) {
			body, ok := resources.get(name)
			if !ok {
				http.NotFound(w, req)
				return
			}
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte(body))
		})
		r.With(validate).Put(route.Path, func(w http.ResponseWriter, req *http.Request) {
			body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, 1<<20))
			if err != nil {
				http.Error(w, "body too large", http.StatusRequestEntityTooLarge)
				return
			}
			resources.put(name, string(body))
			w.Header().Set("Content-Type", "text/plain")
			w.Write(body)
		})
	}

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.Listen)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
