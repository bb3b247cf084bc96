package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/arcade/internal/game"
)

type typingRes struct {
	ID string `json:"id"`
	game.TypingSnapshot
}

type inputReq struct {
	Text string `json:"text"`
}

type inputRes struct {
	Correct bool `json:"correct"`
	typingRes
}

// mountTyping registers the typing-speed test: new, start, input, reset, get, delete.
func (s *Server) mountTyping(r chi.Router) {
	r.Post("/typing/new", func(w http.ResponseWriter, r *http.Request) {
		owner := s.ownerID(w, r)
		sess := newSession(owner, game.KindTyping, game.NewTyping(s.words, s.sched, nil, s.reporter(owner)))
		if !s.save(w, r, sess) {
			return
		}
		writeJSON(w, http.StatusOK, typingRes{ID: sess.id, TypingSnapshot: sess.engine.Snapshot()})
	})
	r.Get("/typing/{id}", s.typingAction(func(*game.Typing) {}))
	r.Post("/typing/{id}/start", s.typingAction((*game.Typing).Start))
	r.Post("/typing/{id}/reset", s.typingAction((*game.Typing).Reset))
	r.Post("/typing/{id}/input", func(w http.ResponseWriter, r *http.Request) {
		sess, ok := lookup[*game.Typing](s, w, r)
		if !ok {
			return
		}
		var req inputReq
		if !decode(w, r, &req) {
			return
		}
		correct := sess.engine.Input(req.Text)
		writeJSON(w, http.StatusOK, inputRes{Correct: correct, typingRes: typingRes{ID: sess.id, TypingSnapshot: sess.engine.Snapshot()}})
	})
	r.Delete("/typing/{id}", deleteSession[*game.Typing](s))
}

func (s *Server) typingAction(fn func(*game.Typing)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := lookup[*game.Typing](s, w, r)
		if !ok {
			return
		}
		fn(sess.engine)
		writeJSON(w, http.StatusOK, typingRes{ID: sess.id, TypingSnapshot: sess.engine.Snapshot()})
	}
}
