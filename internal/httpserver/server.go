// internal/httpserver/server.go
//
// HTTP server wiring for the concentration backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): /game/new, /game/select, /game/double, ...
//   - Live board events over websocket: GET /game/{id}/events.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints (require auth): /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The websocket route is mounted outside the request timeout; it lives as
//     long as the client stays connected.

package httpserver

import (
	"database/sql"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/rhysstever/CardMatchGame/internal/board"
	"github.com/rhysstever/CardMatchGame/internal/config"
	"github.com/rhysstever/CardMatchGame/internal/events"
	"github.com/rhysstever/CardMatchGame/internal/game"
	"github.com/rhysstever/CardMatchGame/internal/store"
)

// Server bundles router, in-memory session store, DB handle and config.
type Server struct {
	r        *chi.Mux
	store    store.Store
	db       *sql.DB
	cfg      *config.Config
	pub      events.Publisher
	defaults game.Options
	daily    *dailyServer
}

// New constructs a Server, installs middleware, and registers routes.
// pub may be nil, in which case events are dropped.
func New(st store.Store, db *sql.DB, cfg *config.Config, pub events.Publisher) (*Server, error) {
	defaults, err := cfg.GameOptions()
	if err != nil {
		return nil, err
	}
	if pub == nil {
		pub = events.Nop{}
	}
	s := &Server{r: chi.NewRouter(), store: st, db: db, cfg: cfg, pub: pub, defaults: defaults}

	// --- middleware ---
	s.r.Use(chimw.RequestID)        // add X-Request-ID
	s.r.Use(chimw.RealIP)           // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)        // recover from panics
	s.r.Use(jsonContentType)        // default JSON responses
	s.r.Use(cors(s.clientOrigin())) // credentials-friendly CORS

	// Live events: no handler timeout.
	s.r.Get("/game/{id}/events", s.handleEvents)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"concentration-go","endpoints":["/health","POST /game/new","POST /game/select","GET /game/{id}/events","/daily/*","/auth/*"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		// Game endpoints: OPTIONAL AUTH (guests can play)
		r.Group(func(r chi.Router) {
			r.Use(s.withOptionalAuth())
			r.Post("/game/new", s.handleNewGame)
			r.Get("/game/{id}", s.handleGetGame)
			r.Post("/game/select", s.handleSelect)
			r.Post("/game/double", s.handleDouble)
			r.Post("/game/pause", s.handlePause)
			r.Post("/game/resume", s.handleResume)
			r.Post("/game/abort", s.handleAbort)

			// Daily Challenge: progress persisted on win
			s.mountDaily(r)
		})

		// Auth + profile/stats (require auth)
		s.mountAuthRoutes(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s, nil
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

func (s *Server) clientOrigin() string {
	if s.cfg.Server.ClientOrigin != "" {
		return s.cfg.Server.ClientOrigin
	}
	return "http://localhost:5173"
}

// originPatterns returns the hosts allowed to open websockets cross-origin.
func (s *Server) originPatterns() []string {
	u, err := url.Parse(s.clientOrigin())
	if err != nil || u.Host == "" {
		return nil
	}
	return []string{u.Host}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
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
}

// ------------------------------- errors ------------------------------------

var (
	errBadJSON       = errors.New("bad json")
	errBoardTooLarge = errors.New("board too large") // above maxCells
	errDailyGame     = errors.New("daily game")      // played through /daily only
)

const maxCells = 400

// writeError maps domain errors onto a JSON error code and HTTP status.
func writeError(w http.ResponseWriter, err error) {
	code, status := "server_error", http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadJSON):
		code, status = "bad_json", http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		code, status = "not_found", http.StatusNotFound
	case errors.Is(err, board.ErrInvalidSize):
		code, status = "invalid_size", http.StatusBadRequest
	case errors.Is(err, board.ErrOddCells):
		code, status = "odd_cells", http.StatusBadRequest
	case errors.Is(err, board.ErrEmptyDeck):
		code, status = "empty_deck", http.StatusBadRequest
	case errors.Is(err, errBoardTooLarge):
		code, status = "board_too_large", http.StatusBadRequest
	case errors.Is(err, game.ErrUnknownFill):
		code, status = "unknown_fill", http.StatusBadRequest
	case errors.Is(err, game.ErrEnded):
		code, status = "game_ended", http.StatusConflict
	case errors.Is(err, game.ErrNotPlaying):
		code, status = "not_playing", http.StatusConflict
	case errors.Is(err, game.ErrNotPaused):
		code, status = "not_paused", http.StatusConflict
	case errors.Is(err, errDailyGame):
		code, status = "daily_game", http.StatusConflict
	default:
		log.Error().Err(err).Msg("unhandled error")
	}
	http.Error(w, `{"error":"`+code+`"}`, status)
}
