package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/arcade/internal/game"
)

type reactionRes struct {
	ID string `json:"id"`
	game.ReactionSnapshot
}

type reactionClickRes struct {
	Click game.ReactionClick `json:"click"`
	reactionRes
}

// mountReaction registers the reaction test. One endpoint (click) drives the whole
// idle → waiting → ready cycle, like the single box on the page.
func (s *Server) mountReaction(r chi.Router) {
	r.Post("/reaction/new", func(w http.ResponseWriter, r *http.Request) {
		owner := s.ownerID(w, r)
		sess := newSession(owner, game.KindReaction, game.NewReaction(s.sched, nil, s.reporter(owner)))
		if !s.save(w, r, sess) {
			return
		}
		writeJSON(w, http.StatusOK, reactionRes{ID: sess.id, ReactionSnapshot: sess.engine.Snapshot()})
	})
	r.Get("/reaction/{id}", func(w http.ResponseWriter, r *http.Request) {
		sess, ok := lookup[*game.Reaction](s, w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, reactionRes{ID: sess.id, ReactionSnapshot: sess.engine.Snapshot()})
	})
	r.Post("/reaction/{id}/click", func(w http.ResponseWriter, r *http.Request) {
		sess, ok := lookup[*game.Reaction](s, w, r)
		if !ok {
			return
		}
		click := sess.engine.Click()
		writeJSON(w, http.StatusOK, reactionClickRes{Click: click, reactionRes: reactionRes{ID: sess.id, ReactionSnapshot: sess.engine.Snapshot()}})
	})
	r.Post("/reaction/{id}/reset", func(w http.ResponseWriter, r *http.Request) {
		sess, ok := lookup[*game.Reaction](s, w, r)
		if !ok {
			return
		}
		sess.engine.Reset()
		writeJSON(w, http.StatusOK, reactionRes{ID: sess.id, ReactionSnapshot: sess.engine.Snapshot()})
	})
	r.Delete("/reaction/{id}", deleteSession[*game.Reaction](s))
}
