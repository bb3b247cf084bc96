// internal/httpserver/routes_memory.go
//
// Memory-match sessions:
//   - POST   /memory/new        → new shuffled board, already playing
//   - GET    /memory/{id}       → current view (face-down symbols withheld)
//   - POST   /memory/{id}/flip  → {"index": n}
//   - POST   /memory/{id}/reset → fresh board, counters zeroed (409 for daily boards)
//   - DELETE /memory/{id}
//   - GET    /memory/{id}/ws    → event stream (see ws.go)

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/arcade/internal/game"
)

type memoryRes struct {
	ID string `json:"id"`
	game.MemorySnapshot
}

type flipReq struct {
	Index *int `json:"index"`
}

type flipRes struct {
	Accepted bool `json:"accepted"`
	memoryRes
}

func (s *Server) mountMemory(r chi.Router) {
	r.Post("/memory/new", s.handleMemoryNew)
	r.Get("/memory/{id}", s.handleMemoryGet)
	r.Post("/memory/{id}/flip", s.handleMemoryFlip)
	r.Post("/memory/{id}/reset", s.handleMemoryReset)
	r.Delete("/memory/{id}", deleteSession[*game.Memory](s))
}

// newMemory builds a started engine for owner with the server's clock and reporter.
func (s *Server) newMemory(owner string, opts ...game.MemoryOption) *session[*game.Memory] {
	opts = append([]game.MemoryOption{
		game.WithScheduler(s.sched),
		game.WithReporter(s.reporter(owner)),
	}, opts...)
	m := game.NewMemory(opts...)
	m.Start()
	return newSession(owner, game.KindMemory, m)
}

func (s *Server) handleMemoryNew(w http.ResponseWriter, r *http.Request) {
	sess := s.newMemory(s.ownerID(w, r))
	if !s.save(w, r, sess) {
		return
	}
	writeJSON(w, http.StatusOK, memoryRes{ID: sess.id, MemorySnapshot: sess.engine.View()})
}

func (s *Server) handleMemoryGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookup[*game.Memory](s, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, memoryRes{ID: sess.id, MemorySnapshot: sess.engine.View()})
}

func (s *Server) handleMemoryFlip(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookup[*game.Memory](s, w, r)
	if !ok {
		return
	}
	var req flipReq
	if !decode(w, r, &req) {
		return
	}
	if req.Index == nil {
		httpError(w, http.StatusBadRequest, "index required")
		return
	}
	accepted := sess.engine.Flip(*req.Index)
	writeJSON(w, http.StatusOK, flipRes{
		Accepted:  accepted,
		memoryRes: memoryRes{ID: sess.id, MemorySnapshot: sess.engine.View()},
	})
}

func (s *Server) handleMemoryReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookup[*game.Memory](s, w, r)
	if !ok {
		return
	}
	if sess.daily {
		httpError(w, http.StatusConflict, "daily board cannot be reset")
		return
	}
	sess.engine.Reset()
	writeJSON(w, http.StatusOK, memoryRes{ID: sess.id, MemorySnapshot: sess.engine.View()})
}
