// internal/httpserver/server.go
//
// HTTP server wiring for the arcade backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, optional auth).
//   - Public endpoints: "/", "/health".
//   - Game endpoints for click, typing, memory and reaction sessions (guests allowed).
//   - Scores, daily challenge, easter egg and auth endpoints.
//   - The reporter that turns a finished game into a stored best and a published event.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The memory WebSocket route sits outside the request timeout.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/arcade/internal/daily"
	"github.com/robalobadob/arcade/internal/events"
	"github.com/robalobadob/arcade/internal/game"
	"github.com/robalobadob/arcade/internal/scores"
	"github.com/robalobadob/arcade/internal/store"
	"github.com/robalobadob/arcade/internal/words"
)

// Server bundles the router, the live session registry and persistence.
type Server struct {
	r      *chi.Mux
	store  store.Store
	db     *sql.DB
	scores scores.Store
	daily  *dailyServer
	pub    events.Publisher
	sched  game.Scheduler
	words  []string
}

// Option customizes a Server.
type Option func(*Server)

// WithScheduler replaces the real clock used by every game engine.
func WithScheduler(sc game.Scheduler) Option { return func(s *Server) { s.sched = sc } }

// WithPublisher sets where finished-game outcomes are published.
func WithPublisher(p events.Publisher) Option { return func(s *Server) { s.pub = p } }

// WithScores replaces the SQL-backed score store.
func WithScores(st scores.Store) Option { return func(s *Server) { s.scores = st } }

// WithWords sets the typing-test word list.
func WithWords(list []string) Option { return func(s *Server) { s.words = list } }

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, opts ...Option) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		store: st,
		db:    db,
		pub:   events.Nop(),
		sched: game.RealScheduler,
	}
	for _, o := range opts {
		o(s)
	}
	if s.scores == nil {
		s.scores = scores.NewSQLStore(db)
	}
	if s.words == nil {
		s.words = words.List()
	}
	s.daily = &dailyServer{
		srv:      s,
		store:    daily.NewStore(db),
		salt:     getEnv("DAILY_SALT", "local_dev_salt"),
		sessions: make(map[string]string),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(corsFromEnv)
	s.r.Use(s.withOptionalAuth())

	// Long-lived; no request timeout.
	s.r.Get("/memory/{id}/ws", s.handleMemoryWS)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(jsonContentType)

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"service": "arcade-go",
				"games":   []game.Kind{game.KindClick, game.KindTyping, game.KindMemory, game.KindReaction},
				"endpoints": []string{
					"/health", "/scores", "POST /memory/new", "POST /click/new",
					"POST /typing/new", "POST /reaction/new", "POST /daily/new",
					"POST /easter-egg/key", "/auth/*",
				},
			})
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"ok":       true,
				"sessions": store.Len(s.store),
				"words":    len(s.words),
			})
		})

		s.mountScores(r)
		s.mountMemory(r)
		s.mountClick(r)
		s.mountTyping(r)
		s.mountReaction(r)
		s.mountDaily(r)
		s.mountEasterEgg(r)
		s.mountAuthRoutes(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info().Msg("shutting down http server")
	return hs.Shutdown(shutdownCtx)
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- reporting -----------------------------------

// bestKey maps each game to the score it persists.
var bestKey = map[game.Kind]scores.Key{
	game.KindClick:    scores.BestCPS,
	game.KindTyping:   scores.BestWPM,
	game.KindReaction: scores.BestReaction,
	game.KindMemory:   scores.BestMemory,
}

// reporter returns the game.Reporter for owner: it records the outcome if it beats
// the stored best, logs it and publishes it. Storage or broker failures are logged
// and reported as "not a new best".
func (s *Server) reporter(owner string) game.Reporter {
	return func(o game.Outcome) bool {
		key := bestKey[o.Kind]
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		newBest, err := s.scores.RecordIfBetter(ctx, owner, key, o.Score, key.Direction())
		if err != nil {
			log.Warn().Err(err).Str("owner", owner).Str("key", string(key)).Msg("record best")
		}
		log.Info().
			Str("owner", owner).
			Str("game", string(o.Kind)).
			Str("score", o.Score.String()).
			Bool("newBest", newBest).
			Msg("game finished")

		if err := s.pub.Publish(events.SubjectOutcome, events.Outcome{
			Owner:   owner,
			Game:    string(o.Kind),
			Score:   o.Score,
			Rating:  o.Rating,
			NewBest: newBest,
			At:      s.sched.Now().UTC(),
		}); err != nil {
			log.Warn().Err(err).Str("game", string(o.Kind)).Msg("publish outcome")
		}
		return newBest
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// clientOrigin is the single origin allowed for CORS and WebSocket upgrades.
func clientOrigin() string { return getEnv("CLIENT_ORIGIN", "http://localhost:5173") }

// corsFromEnv enables credentialed CORS for CLIENT_ORIGIN.
func corsFromEnv(next http.Handler) http.Handler {
	origin := clientOrigin()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decode reads a JSON body into v, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_json")
		return false
	}
	return true
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
