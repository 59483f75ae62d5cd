// Package api exposes a read-only HTTP interface over an okved.Classifier.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/okved-cli/internal/okved"
)

// Options configures the router.
type Options struct {
	CORSOrigins []string
}

type handler struct {
	c *okved.Classifier
}

// NewRouter builds the HTTP routes for c.
func NewRouter(c *okved.Classifier, opts Options) http.Handler {
	h := &handler{c: c}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/sections", h.sections)
		r.Get("/top-sections", h.topSections)
		r.Get("/top-sections/{id}", h.topSectionChildren)
		r.Get("/top-sections/{id}/codes", h.topSectionCodes)
		r.Get("/codes/{code}", h.lookup)
		r.Get("/codes/{code}/children", h.children)
		r.Get("/codes/{code}/children/codes", h.childrenCodes)
		r.Get("/list", h.fullList)
		r.Get("/search", h.search)
	})
	return r
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", w.Header().Get("X-Request-ID")),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sections": h.c.Len(),
	})
}

func (h *handler) sections(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.c.AllSections())
}

func (h *handler) topSections(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.c.AllTopSections())
}

func (h *handler) topSectionChildren(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entries, err := h.c.ChildrenByTopSection(id)
	if eris.Is(err, okved.ErrTopSectionNotFound) {
		writeError(w, http.StatusNotFound, okved.NotFoundMessage(id))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *handler) topSectionCodes(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	codes, err := h.c.ChildrenCodesByTopSection(id)
	if eris.Is(err, okved.ErrTopSectionNotFound) {
		writeError(w, http.StatusNotFound, okved.NotFoundMessage(id))
		return
	}
	writeJSON(w, http.StatusOK, codes)
}

func (h *handler) lookup(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	node, ok := h.c.Lookup(code)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("code %s not found", code))
		return
	}
	writeJSON(w, http.StatusOK, node)
}

func (h *handler) children(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.c.ChildrenByCode(chi.URLParam(r, "code")))
}

func (h *handler) childrenCodes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.c.ChildrenCodesByCode(chi.URLParam(r, "code")))
}

func (h *handler) fullList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.c.FullList())
}

func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	writeJSON(w, http.StatusOK, h.c.Search(q))
}
