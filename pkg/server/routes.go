package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/crafttable/pkg/buildinfo"
	"github.com/matzehuels/crafttable/pkg/errors"
	"github.com/matzehuels/crafttable/pkg/index"
	pkgio "github.com/matzehuels/crafttable/pkg/io"
	"github.com/matzehuels/crafttable/pkg/store"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/manifest", s.handleManifest)
		r.Get("/recipes/{namespace}/{name}", s.handleRecipe)
		r.Get("/loops", s.handleLoops)
		r.Get("/loops/{stub}", s.handlePartners)
		r.Post("/rebuild", s.handleRebuild)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, errors.ErrCodeNotFound, "no such route")
	})
	return r
}

type healthResponse struct {
	Status  string         `json:"status"`
	Build   buildinfo.Info `json:"build"`
	RunID   string         `json:"run_id,omitempty"`
	BuiltAt *time.Time     `json:"built_at,omitempty"`
	Groups  int            `json:"groups"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.current()
	resp := healthResponse{Status: "ok", Build: buildinfo.Get(), RunID: snap.runID, Groups: len(snap.manifest)}
	if !snap.builtAt.IsZero() {
		resp.BuiltAt = &snap.builtAt
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.current().manifest)
}

// handleRecipe serves the stored group bytes unchanged, so clients see the
// exact artifact the pipeline wrote. Only groups listed in the current
// snapshot's manifest are served.
func (s *Server) handleRecipe(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "namespace") + "/" + chi.URLParam(r, "name")
	if err := store.ValidateKey(key); err != nil || index.IsInternal(key) {
		writeError(w, r, http.StatusBadRequest, errors.ErrCodeInvalidKey, "invalid recipe id "+key)
		return
	}
	if _, ok := slices.BinarySearch(s.current().manifest, key); !ok {
		writeError(w, r, http.StatusNotFound, errors.ErrCodeNotFound, "no recipes produce "+key)
		return
	}

	data, err := s.cfg.Store.Read(r.Context(), key)
	switch {
	case stderrors.Is(err, store.ErrNotFound):
		writeError(w, r, http.StatusNotFound, errors.ErrCodeNotFound, "no recipes produce "+key)
		return
	case err != nil:
		s.logger.Error("read recipe group", "key", key, "error", err)
		writeError(w, r, http.StatusInternalServerError, errors.ErrCodeInternal, "failed to read recipe group")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleLoops(w http.ResponseWriter, r *http.Request) {
	table := s.current().loops
	enc := pkgio.EncodingMap
	if f := r.URL.Query().Get("format"); f != "" {
		parsed, err := pkgio.ParseEncoding(f)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, errors.ErrCodeInvalidConfig, err.Error())
			return
		}
		enc = parsed
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := pkgio.WriteLoops(table, w, enc, pkgio.FormatJSON); err != nil {
		s.logger.Error("write loops", "error", err)
	}
}

func (s *Server) handlePartners(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.current().loops.Partners(chi.URLParam(r, "stub")))
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	res, err := s.Rebuild(r.Context())
	if err != nil {
		s.logger.Error("rebuild failed", "error", err)
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		writeError(w, r, http.StatusInternalServerError, code, errors.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code errors.Code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Code:      code,
		Message:   msg,
		RequestID: RequestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
