package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/amadren/relkit/internal/catalog"
	"github.com/amadren/relkit/internal/errs"
	"github.com/amadren/relkit/internal/logger"
)

// schemaHandler answers schema queries by running the catalog traversals
// against the configured source.
type schemaHandler struct {
	in      *catalog.Introspector
	timeout time.Duration
	log     *logger.Logger
}

func newRouter(in *catalog.Introspector, timeout time.Duration, log *logger.Logger) http.Handler {
	h := &schemaHandler{in: in, timeout: timeout, log: log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/healthz", h.health)
	r.Get("/schema", h.schema)
	r.Get("/tables", h.tables)
	r.Get("/tables/{name}", h.table)
	r.Get("/relationships", h.relationships)
	return r
}

// requestLogger logs one structured line per request.
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Z().Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

func (h *schemaHandler) queryCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

func (h *schemaHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// schema returns the full entity/relationship graph.
func (h *schemaHandler) schema(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryCtx(r)
	defer cancel()

	entities, err := h.in.LoadEntities(ctx)
	if err != nil {
		h.fail(w, "load entities", err)
		return
	}
	relationships, err := h.in.LoadRelationships(ctx)
	if err != nil {
		h.fail(w, "load relationships", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entities":      entities,
		"relationships": relationships,
	})
}

func (h *schemaHandler) tables(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryCtx(r)
	defer cancel()

	entities, err := h.in.LoadEntities(ctx)
	if err != nil {
		h.fail(w, "load entities", err)
		return
	}
	writeJSON(w, http.StatusOK, entities)
}

func (h *schemaHandler) table(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryCtx(r)
	defer cancel()

	name := chi.URLParam(r, "name")
	entities, err := h.in.LoadEntities(ctx)
	if err != nil {
		h.fail(w, "load entities", err)
		return
	}
	for _, e := range entities {
		if e.Name == name {
			writeJSON(w, http.StatusOK, e)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown table " + name})
}

func (h *schemaHandler) relationships(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryCtx(r)
	defer cancel()

	relationships, err := h.in.LoadRelationships(ctx)
	if err != nil {
		h.fail(w, "load relationships", err)
		return
	}
	writeJSON(w, http.StatusOK, relationships)
}

func (h *schemaHandler) fail(w http.ResponseWriter, op string, err error) {
	h.log.ErrorWith(op, err)

	status := http.StatusInternalServerError
	if errs.IsTimeout(err) {
		status = http.StatusGatewayTimeout
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
