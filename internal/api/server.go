package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ajitpratap0/kotoba/internal/generator"
	"github.com/ajitpratap0/kotoba/internal/models"
	"github.com/ajitpratap0/kotoba/internal/semantic"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Options configures request handling.
type Options struct {
	AuthToken   string // empty = no auth required
	MaxAttempts int    // coherent_only retry budget
	BatchLimit  int    // largest accepted batch count
}

// Server is an HTTP API server that exposes sentence generation.
type Server struct {
	generators *generator.Provider
	logger     *slog.Logger
	opts       Options
}

// NewServer creates a new Server with the given dependencies.
func NewServer(p *generator.Provider, logger *slog.Logger, opts Options) *Server {
	return &Server{
		generators: p,
		logger:     logger,
		opts:       opts,
	}
}

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	// Health check and metrics: no auth required.
	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.auth)
		r.Get("/themes", s.handleThemes)
		r.Post("/sentences", s.handleGenerate)
		r.Post("/sentences/batch", s.handleBatch)
		r.Post("/coherence", s.handleCoherence)
		r.Get("/score", s.handleScore)
	})

	return r
}

// --- middleware ---

// auth enforces Bearer token authentication when a token is configured.
func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.AuthToken == "" {
			next.ServeHTTP(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.opts.AuthToken)) != 1 {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs each request through slog at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method, "path", r.URL.Path, "status", ww.Status(),
			"duration", time.Since(start), "request_id", middleware.GetReqID(r.Context()))
	})
}

// --- handlers ---

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// themeInfo describes one theme in GET /v1/themes.
type themeInfo struct {
	Name         string                  `json:"name"`
	Structure    string                  `json:"structure"`
	Relationship models.RelationshipType `json:"relationship"`
	Description  string                  `json:"description,omitempty"`
	Slots        []string                `json:"slots"`
}

// themesResponse is returned by GET /v1/themes.
type themesResponse struct {
	Themes []themeInfo `json:"themes"`
}

func (s *Server) handleThemes(w http.ResponseWriter, _ *http.Request) {
	c := s.generators.Get().Corpus()
	names := c.ThemeNames()
	resp := themesResponse{Themes: make([]themeInfo, 0, len(names))}
	for _, name := range names {
		rule, _ := c.Rule(name)
		info := themeInfo{
			Name:         name,
			Structure:    rule.Structure,
			Relationship: semantic.RelationshipForStructure(rule.Structure),
			Description:  rule.Description,
		}
		for _, slot := range rule.Slots {
			info.Slots = append(info.Slots, slot.Name)
		}
		resp.Themes = append(resp.Themes, info)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// generateRequest is the body accepted by POST /v1/sentences.
type generateRequest struct {
	Theme        string  `json:"theme"`
	Seed         *uint64 `json:"seed"`
	Debug        bool    `json:"debug"`
	CoherentOnly bool    `json:"coherent_only"`
}

// sentenceResponse is returned by POST /v1/sentences.
type sentenceResponse struct {
	Seed uint64 `json:"seed"`
	models.Sentence
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !s.decode(w, r, &req) {
		return
	}

	seed := seedOf(req.Seed)
	g := s.generators.Get()
	rng := generator.NewRand(seed)
	opts := generator.Options{Debug: req.Debug}

	var (
		sentence models.Sentence
		err      error
	)
	if req.CoherentOnly {
		sentence, err = g.GenerateCoherent(req.Theme, rng, opts, s.opts.MaxAttempts)
	} else {
		sentence, err = g.Generate(req.Theme, rng, opts)
	}
	switch {
	case errors.Is(err, generator.ErrUnknownTheme):
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, generator.ErrNoCoherentSentence):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		s.logger.Error("failed to generate sentence", "theme", req.Theme, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to generate sentence")
		return
	}

	s.writeJSON(w, http.StatusOK, sentenceResponse{Seed: seed, Sentence: sentence})
}

// batchRequest is the body accepted by POST /v1/sentences/batch.
type batchRequest struct {
	Theme string  `json:"theme"`
	Seed  *uint64 `json:"seed"`
	Count int     `json:"count"`
}

// batchResponse is returned by POST /v1/sentences/batch.
type batchResponse struct {
	Seed      uint64            `json:"seed"`
	Sentences []models.Sentence `json:"sentences"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Count <= 0 {
		s.writeError(w, http.StatusBadRequest, "count must be greater than 0")
		return
	}
	if s.opts.BatchLimit > 0 && req.Count > s.opts.BatchLimit {
		s.writeError(w, http.StatusBadRequest, "count exceeds batch limit")
		return
	}

	seed := seedOf(req.Seed)
	sentences, err := s.generators.Get().GenerateBatch(r.Context(), req.Count, req.Theme, seed, generator.Options{})
	switch {
	case errors.Is(err, generator.ErrUnknownTheme):
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		s.logger.Error("failed to generate batch", "theme", req.Theme, "count", req.Count, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to generate batch")
		return
	}

	s.writeJSON(w, http.StatusOK, batchResponse{Seed: seed, Sentences: sentences})
}

func (s *Server) handleCoherence(w http.ResponseWriter, r *http.Request) {
	var sentence models.Sentence
	if !s.decode(w, r, &sentence) {
		return
	}
	s.writeJSON(w, http.StatusOK, s.generators.Get().Checker().Check(sentence))
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a := models.EntityType(q.Get("a"))
	b := models.EntityType(q.Get("b"))
	if !a.IsValid() || !b.IsValid() {
		s.writeError(w, http.StatusBadRequest, "a and b must be entity types")
		return
	}
	rel, ok := models.ParseRelationship(q.Get("relationship"))
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid relationship")
		return
	}
	s.writeJSON(w, http.StatusOK, s.generators.Get().Model().Score(a, b, rel))
}

// --- helpers ---

// decode reads a size-limited JSON body into dst, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// seedOf treats an absent or zero seed as a request for a random one.
func seedOf(seed *uint64) uint64 {
	if seed == nil {
		return generator.SeedOrRandom(0)
	}
	return generator.SeedOrRandom(*seed)
}

// writeJSON encodes v as JSON and writes it to w with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(v); encErr != nil {
		s.logger.Error("failed to encode response", "error", encErr)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// Shutdown gracefully shuts down an http.Server with the given timeout.
// This is a convenience helper used by the serve command.
func Shutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
