// internal/httpserver/server.go
//
// HTTP server wiring for the rubber band backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Game endpoints: POST /game/new, GET /game/{id}, POST /game/{id}/select,
//     POST /game/{id}/reset, GET /game/{id}/live (websocket).
//   - Results endpoints: GET /results/recent, GET /results/summary.
//
// Notes:
//   - Each board is hot-seat: both players share one client and one game token.
//   - Mutating routes require the game token (bearer or cookie) minted by /game/new.
//   - Finished games are written to the results ledger on a best-effort basis.
//   - Idle boards are evicted by Sweep (run periodically via RunJanitor).

package httpserver

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rubberband/internal/game"
	"github.com/robalobadob/rubberband/internal/results"
	"github.com/robalobadob/rubberband/internal/store"
)

// Config carries the environment-driven settings of the server.
type Config struct {
	GridSize     int           // default board size for /game/new
	JWTSecret    string        // HS256 key for game tokens
	TokenTTL     time.Duration // game token lifetime
	IdleTTL      time.Duration // boards untouched this long are evicted
	MaxGames     int           // live boards held at once; 0 means unlimited
	ClientOrigin string        // single CORS origin
	CookieName   string        // game token cookie
	Secure       bool          // Secure + SameSite=None cookies
}

// ConfigFromEnv reads Config from the process environment. Out-of-range
// numbers fall back to their defaults with a warning.
func ConfigFromEnv() Config {
	return Config{
		GridSize:     envIntRange("GRID_SIZE", game.DefaultGridSize, game.MinGridSize, game.MaxGridSize),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		TokenTTL:     time.Duration(envIntRange("GAME_TOKEN_HOURS", 24, 1, 24*365)) * time.Hour,
		IdleTTL:      time.Duration(envIntRange("GAME_IDLE_MINUTES", 120, 1, 24*60*365)) * time.Minute,
		MaxGames:     envIntRange("MAX_GAMES", 10000, 0, 1<<20),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		CookieName:   getEnv("COOKIE_NAME", "rubberband_token"),
		Secure:       os.Getenv("NODE_ENV") == "production",
	}
}

// Server bundles router, in-memory game store, results ledger and live feed.
type Server struct {
	r       *chi.Mux
	cfg     Config
	store   store.Store
	results *results.Store
	live    *liveHub
	now     func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
// res may be nil, in which case finished games are not recorded.
func New(cfg Config, st store.Store, res *results.Store) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		cfg:     cfg,
		store:   st,
		results: res,
		live:    newLiveHub(),
		now:     time.Now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)             // add X-Request-ID
	s.r.Use(chimw.RealIP)                // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)             // recover from panics
	s.r.Use(hlog.NewHandler(log.Logger)) // request-scoped zerolog logger
	s.r.Use(accessLog)                   // one line per request
	s.r.Use(jsonContentType)             // default JSON responses
	s.r.Use(s.cors)                      // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"rubberband-go","endpoints":["/health","POST /game/new","GET /game/{id}","POST /game/{id}/select","POST /game/{id}/reset","GET /game/{id}/live","/results/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// The websocket route must not sit behind the handler timeout.
	s.r.Get("/game/{id}/live", s.handleLive)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		s.mountGame(r)
		s.mountResults(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Sweep evicts boards idle longer than IdleTTL and closes their live feeds.
func (s *Server) Sweep(ctx context.Context) int {
	ids, err := s.store.Evict(ctx, s.cfg.IdleTTL)
	if err != nil {
		log.Warn().Err(err).Msg("evict idle games")
		return 0
	}
	for _, id := range ids {
		s.live.closeGame(id)
	}
	if len(ids) > 0 {
		log.Info().Int("evicted", len(ids)).Int("live", s.store.Len()).Msg("idle games evicted")
	}
	return len(ids)
}

// RunJanitor calls Sweep every interval until ctx is done.
func (s *Server) RunJanitor(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep(ctx)
		}
	}
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one zerolog line per request at debug level.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("reqId", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("took", d).
		Msg("request")
})

// cors enables credentialed CORS for the configured origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeError writes {"error":code} with status.
func writeError(w http.ResponseWriter, status int, code string) {
	http.Error(w, `{"error":"`+code+`"}`, status)
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envIntRange is envInt limited to [lo, hi].
func envIntRange(k string, def, lo, hi int) int {
	n := envInt(k, def)
	if n < lo || n > hi {
		log.Warn().Str("key", k).Int("value", n).Int("min", lo).Int("max", hi).Int("default", def).
			Msg("env value out of range, using default")
		return def
	}
	return n
}

// envInt parses k as an int, falling back to def.
func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer env value")
	}
	return def
}
