// Package httpapi serves profiles, curves and recommendations over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cognicore/vinograph/internal/logger"
	"github.com/cognicore/vinograph/internal/metrics"
	"github.com/cognicore/vinograph/pkg/vinograph"
	"github.com/cognicore/vinograph/pkg/vinograph/catalog"
	"github.com/cognicore/vinograph/pkg/vinograph/curve"
	"github.com/cognicore/vinograph/pkg/vinograph/internalerr"
	"github.com/cognicore/vinograph/pkg/vinograph/profile"
)

// maxTopK bounds the k query parameter of /similar.
const maxTopK = 100

// Server answers read-only requests against one loaded catalog.
type Server struct {
	engine  *vinograph.Engine
	wines   []catalog.Wine
	byID    map[catalog.WineID]int
	reviews *catalog.ReviewCounter
	topK    int
	logger  *zap.Logger
}

// Options configures a Server
type Options struct {
	Engine  *vinograph.Engine
	Wines   []catalog.Wine
	Reviews *catalog.ReviewCounter // optional; adds review counts to search hits
	TopK    int
	Logger  *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(opts Options) *Server {
	s := &Server{
		engine:  opts.Engine,
		wines:   opts.Wines,
		byID:    make(map[catalog.WineID]int, len(opts.Wines)),
		reviews: opts.Reviews,
		topK:    opts.TopK,
		logger:  opts.Logger,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.topK <= 0 {
		s.topK = 10
	}
	for i, w := range opts.Wines {
		s.byID[w.ID] = i
	}
	return s
}

// Router mounts every route with the standard middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())

	r.Get("/healthz", s.Health)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Route("/wines", func(r chi.Router) {
		r.Get("/", s.SearchWines)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetWine)
			r.Get("/profile", s.GetProfile)
			r.Get("/curves", s.GetCurves)
			r.Get("/similar", s.GetSimilar)
		})
	})
	return r
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok", "wines": len(s.wines)}
	if s.reviews != nil {
		resp["review_counts_cached"] = s.reviews.Cached()
	}
	writeJSON(w, http.StatusOK, resp)
}

// SearchWines handles GET /wines?q=...
func (s *Server) SearchWines(w http.ResponseWriter, r *http.Request) {
	hits := catalog.Search(s.wines, r.URL.Query().Get("q"))
	out := make([]wineResponse, 0, len(hits))
	for _, h := range hits {
		out = append(out, s.wineToResponse(r, h))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetWine handles GET /wines/{id}.
func (s *Server) GetWine(w http.ResponseWriter, r *http.Request) {
	wine, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.wineToResponse(r, wine))
}

// GetProfile handles GET /wines/{id}/profile. The body uses the same layout
// as the on-disk artifact.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	wine, ok := s.lookup(w, r)
	if !ok {
		return
	}
	p, err := s.engine.ProfileFor(r.Context(), wine.ID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = profile.Encode(w, p)
}

// GetCurves handles GET /wines/{id}/curves?fidelity=full|thumbnail.
func (s *Server) GetCurves(w http.ResponseWriter, r *http.Request) {
	f, ok := curve.ParseFidelity(r.URL.Query().Get("fidelity"))
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "fidelity must be full or thumbnail")
		return
	}
	wine, ok := s.lookup(w, r)
	if !ok {
		return
	}
	set, err := s.engine.CurvesFor(r.Context(), wine.ID, f)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, curvesToResponse(wine.ID, set))
}

// GetSimilar handles GET /wines/{id}/similar?k=N.
func (s *Server) GetSimilar(w http.ResponseWriter, r *http.Request) {
	k := s.topK
	if raw := r.URL.Query().Get("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxTopK {
			writeError(w, http.StatusBadRequest, "bad_request", "k must be between 1 and 100")
			return
		}
		k = n
	}
	wine, ok := s.lookup(w, r)
	if !ok {
		return
	}
	out, res, err := s.engine.Recommend(r.Context(), wine, s.wines, k)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, similarResponse{
		Target: wine.ID,
		Stats:  statsToResponse(res.Stats),
		Cards:  cardsToResponse(out),
	})
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (catalog.Wine, bool) {
	id := catalog.WineID(chi.URLParam(r, "id"))
	i, ok := s.byID[id]
	if !ok {
		writeError(w, http.StatusNotFound, "wine_not_found", "unknown wine "+id.String())
		return catalog.Wine{}, false
	}
	return s.wines[i], true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	switch {
	case errors.Is(err, internalerr.ErrInsufficientData):
		writeError(w, http.StatusUnprocessableEntity, "insufficient_data", "not enough flavor data for this wine")
	case errors.Is(err, internalerr.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "not found")
	default:
		log.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
