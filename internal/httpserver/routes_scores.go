package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/robalobadob/arcade/internal/scores"
)

type scoreRes struct {
	Key   scores.Key       `json:"key"`
	Value *decimal.Decimal `json:"value"`
}

// mountScores registers the best-score reads:
//   - GET /scores       → every best of the caller, keyed by name (unset keys omitted)
//   - GET /scores/{key} → one best; value is null when nothing is recorded
func (s *Server) mountScores(r chi.Router) {
	r.Get("/scores", func(w http.ResponseWriter, r *http.Request) {
		all, err := s.scores.All(r.Context(), s.ownerID(w, r))
		if err != nil {
			log.Error().Err(err).Msg("load scores")
			httpError(w, http.StatusInternalServerError, "db_error")
			return
		}
		writeJSON(w, http.StatusOK, all)
	})
	r.Get("/scores/{key}", func(w http.ResponseWriter, r *http.Request) {
		key := scores.Key(chi.URLParam(r, "key"))
		if !key.Valid() {
			httpError(w, http.StatusBadRequest, scores.ErrUnknownKey.Error())
			return
		}
		v, ok, err := s.scores.Best(r.Context(), s.ownerID(w, r), key)
		if err != nil {
			log.Error().Err(err).Str("key", string(key)).Msg("load score")
			httpError(w, http.StatusInternalServerError, "db_error")
			return
		}
		res := scoreRes{Key: key}
		if ok {
			res.Value = &v
		}
		writeJSON(w, http.StatusOK, res)
	})
}
