// internal/httpserver/routes_results.go
//
// HTTP routes for the finished-game ledger:
//   - GET /results/recent?limit=N   → latest finished games (default 20, max 100)
//   - GET /results/summary?date=D   → win/draw totals for a UTC day (default today)

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/rubberband/internal/results"
)

const maxRecentLimit = 100

// mountResults registers the /results routes.
func (s *Server) mountResults(r chi.Router) {
	r.Route("/results", func(r chi.Router) {
		r.Use(s.requireLedger)
		r.Get("/recent", s.handleRecent)
		r.Get("/summary", s.handleSummary)
	})
}

// requireLedger answers 503 when the server runs without a results database.
func (s *Server) requireLedger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.results == nil {
			writeError(w, http.StatusServiceUnavailable, "results_disabled")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recentRes is returned by /results/recent.
type recentRes struct {
	Games []results.Record `json:"games"`
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := results.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "bad_limit")
			return
		}
		limit = min(n, maxRecentLimit)
	}
	rows, err := s.results.Recent(r.Context(), limit)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("recent results")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = json.NewEncoder(w).Encode(recentRes{Games: rows})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = results.DateKey(s.now())
	}
	sum, err := s.results.Summary(r.Context(), date)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("date", date).Msg("results summary")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = json.NewEncoder(w).Encode(sum)
}
