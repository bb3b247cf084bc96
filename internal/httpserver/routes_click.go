package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/arcade/internal/game"
)

type clickRes struct {
	ID string `json:"id"`
	game.ClickSnapshot
}

type hitRes struct {
	Counted bool `json:"counted"`
	clickRes
}

// mountClick registers the click-speed test: new, start, hit, reset, get, delete.
func (s *Server) mountClick(r chi.Router) {
	r.Post("/click/new", func(w http.ResponseWriter, r *http.Request) {
		owner := s.ownerID(w, r)
		sess := newSession(owner, game.KindClick, game.NewClick(s.sched, s.reporter(owner)))
		if !s.save(w, r, sess) {
			return
		}
		writeJSON(w, http.StatusOK, clickRes{ID: sess.id, ClickSnapshot: sess.engine.Snapshot()})
	})
	r.Get("/click/{id}", s.clickAction(func(*game.Click) {}))
	r.Post("/click/{id}/start", s.clickAction((*game.Click).Start))
	r.Post("/click/{id}/reset", s.clickAction((*game.Click).Reset))
	r.Post("/click/{id}/hit", func(w http.ResponseWriter, r *http.Request) {
		sess, ok := lookup[*game.Click](s, w, r)
		if !ok {
			return
		}
		counted := sess.engine.Hit()
		writeJSON(w, http.StatusOK, hitRes{Counted: counted, clickRes: clickRes{ID: sess.id, ClickSnapshot: sess.engine.Snapshot()}})
	})
	r.Delete("/click/{id}", deleteSession[*game.Click](s))
}

// clickAction applies fn to the session's engine and answers with its snapshot.
func (s *Server) clickAction(fn func(*game.Click)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := lookup[*game.Click](s, w, r)
		if !ok {
			return
		}
		fn(sess.engine)
		writeJSON(w, http.StatusOK, clickRes{ID: sess.id, ClickSnapshot: sess.engine.Snapshot()})
	}
}
