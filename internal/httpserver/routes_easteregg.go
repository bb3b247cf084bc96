package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/arcade/internal/easteregg"
)

// eggSession keeps one detector per owner in the session registry, so idle
// eviction also forgets half-typed sequences.
type eggSession struct {
	owner string
	*easteregg.Detector
}

func (e *eggSession) ID() string    { return "egg:" + e.owner }
func (e *eggSession) Owner() string { return e.owner }
func (e *eggSession) Close()        {}

type keyReq struct {
	Code string `json:"code"`
}

type keyRes struct {
	Triggered bool   `json:"triggered"`
	Progress  int    `json:"progress"`
	Message   string `json:"message,omitempty"`
}

// mountEasterEgg registers POST /easter-egg/key {"code": "ArrowUp"}.
func (s *Server) mountEasterEgg(r chi.Router) {
	msg := getEnv("EASTER_EGG_MESSAGE", easteregg.DefaultMessage)
	r.Post("/easter-egg/key", func(w http.ResponseWriter, r *http.Request) {
		var req keyReq
		if !decode(w, r, &req) {
			return
		}
		owner := s.ownerID(w, r)
		egg, ok := s.detector(w, r, owner)
		if !ok {
			return
		}
		res := keyRes{Triggered: egg.Press(req.Code), Progress: egg.Progress()}
		if res.Triggered {
			res.Message = msg
		}
		writeJSON(w, http.StatusOK, res)
	})
}

// detector returns owner's detector, creating it on first use.
func (s *Server) detector(w http.ResponseWriter, r *http.Request, owner string) (*eggSession, bool) {
	id := (&eggSession{owner: owner}).ID()
	if sess, err := s.store.Get(r.Context(), id); err == nil {
		if egg, ok := sess.(*eggSession); ok {
			return egg, true
		}
	}
	egg := &eggSession{owner: owner, Detector: easteregg.NewDetector()}
	if !s.save(w, r, egg) {
		return nil, false
	}
	return egg, true
}
