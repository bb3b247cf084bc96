package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/arcade/internal/game"
	"github.com/robalobadob/arcade/internal/store"
)

// engine is what every game engine offers the session registry.
type engine interface{ Close() }

// session adapts one game engine to store.Session.
type session[E engine] struct {
	id     string
	owner  string
	kind   game.Kind
	engine E
	daily  bool // seeded board shared by everyone today
}

func newSession[E engine](owner string, kind game.Kind, e E) *session[E] {
	return &session[E]{id: uuid.NewString(), owner: owner, kind: kind, engine: e}
}

func (s *session[E]) ID() string    { return s.id }
func (s *session[E]) Owner() string { return s.owner }
func (s *session[E]) Close()        { s.engine.Close() }

// save registers sess, answering 500 on failure.
func (s *Server) save(w http.ResponseWriter, r *http.Request, sess store.Session) bool {
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Str("session", sess.ID()).Msg("save session")
		sess.Close()
		httpError(w, http.StatusInternalServerError, "save_failed")
		return false
	}
	return true
}

// ownsSession reports whether the caller of r is owner, either as the logged-in user
// or through the anonymous cookie that created the session.
func ownsSession(r *http.Request, owner string) bool {
	if me := currentUser(r); me != nil && me.ID == owner {
		return true
	}
	return owner != "" && anonID(r) == owner
}

// lookup resolves the {id} URL parameter to a session of engine type E owned by the
// caller. Unknown IDs, other players' sessions and sessions of another game all
// answer 404.
func lookup[E engine](s *Server, w http.ResponseWriter, r *http.Request) (*session[E], bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	gs, ok := sess.(*session[E])
	if !ok || !ownsSession(r, gs.owner) {
		httpError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	return gs, true
}

// deleteSession returns the DELETE /{game}/{id} handler for engine type E.
func deleteSession[E engine](s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gs, ok := lookup[E](s, w, r)
		if !ok {
			return
		}
		_ = s.store.Delete(r.Context(), gs.id)
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
