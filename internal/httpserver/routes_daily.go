// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily memory challenge:
//   - POST /daily/new         → start (or resume) today's board
//   - GET  /daily/leaderboard → top 20 results for today (or ?date=YYYY-MM-DD)
//
// Everyone gets the same shuffle on a given UTC date. The board is an ordinary
// memory session, so it is played through /memory/{id}/flip and /memory/{id}/ws.
// Each owner can record one result per day; the first win is persisted.

package httpserver

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/arcade/internal/daily"
	"github.com/robalobadob/arcade/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	mu       sync.Mutex
	sessions map[string]string // owner|date → memory session ID
}

func (s *Server) mountDaily(r chi.Router) {
	r.Post("/daily/new", s.daily.handleNew)
	r.Get("/daily/leaderboard", s.daily.handleLeaderboard)
}

type dailyNewRes struct {
	Date   string     `json:"date"`
	Played bool       `json:"played"`
	Board  *memoryRes `json:"board,omitempty"`
}

// handleNew returns today's board for the caller.
//   - Already recorded a result today → played=true, no board.
//   - A live daily session exists → it is returned as-is.
//   - Otherwise a new session is created from today's seed.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	owner := d.srv.ownerID(w, r)
	now := d.srv.sched.Now()
	date := daily.DateKey(now)

	played, err := d.store.AlreadyPlayed(r.Context(), owner, date)
	if err != nil {
		log.Error().Err(err).Str("owner", owner).Msg("daily already played")
		httpError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	key := owner + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	for k := range d.sessions {
		if !strings.HasSuffix(k, "|"+date) {
			delete(d.sessions, k)
		}
	}
	if id, ok := d.sessions[key]; ok {
		if sess, err := d.srv.store.Get(r.Context(), id); err == nil {
			if m, ok := sess.(*session[*game.Memory]); ok {
				writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Board: &memoryRes{ID: m.id, MemorySnapshot: m.engine.View()}})
				return
			}
		}
		delete(d.sessions, key)
	}

	sess := d.srv.newMemory(owner, game.WithRand(game.SeededRand(daily.Seed(now, d.salt))))
	sess.daily = true
	sess.engine.Subscribe(func(ev game.MemoryEvent) {
		if ev.Type == game.EventWon && ev.Result != nil {
			d.record(owner, date, *ev.Result)
		}
	})
	if !d.srv.save(w, r, sess) {
		return
	}
	d.sessions[key] = sess.id
	writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Board: &memoryRes{ID: sess.id, MemorySnapshot: sess.engine.View()}})
}

// record persists a daily win. It runs on the engine's timer goroutine.
func (d *dailyServer) record(owner, date string, res game.MemoryResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	inserted, err := d.store.InsertResult(ctx, daily.Result{
		OwnerID:   owner,
		Date:      date,
		Moves:     res.Moves,
		ElapsedMs: res.Elapsed.Milliseconds(),
	})
	if err != nil {
		log.Warn().Err(err).Str("owner", owner).Str("date", date).Msg("insert daily result")
		return
	}
	if inserted {
		log.Info().Str("owner", owner).Str("date", date).Int("moves", res.Moves).Msg("daily result recorded")
	}
}

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for ?date= (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.sched.Now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		httpError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	rows, err := d.store.Leaderboard(r.Context(), date, daily.DefaultLimit)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("daily leaderboard")
		httpError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
