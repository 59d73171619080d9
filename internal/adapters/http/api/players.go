package api

import (
	"net/http"
	"strconv"

	"github.com/clanhq/chestboard/internal/domain/ranking"
)

// PlayersHandler serves the ranked player table.
type PlayersHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewPlayersHandler creates a players handler.
func NewPlayersHandler(deps Dependencies, maxLimit int) *PlayersHandler {
	return &PlayersHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetPlayers handles GET /players requests. Query parameters:
// sort (field name), dir (asc|desc), limit, and the filters name
// (substring), premium (bool), minScore/maxScore (inclusive range).
func (h *PlayersHandler) HandleGetPlayers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	limit := h.maxLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "bad_limit", ErrBadRequest)
			return
		}
		limit = n
	}

	criteria := ranking.Criteria{}
	if name := q.Get("name"); name != "" {
		criteria["name"] = name
	}
	if raw := q.Get("premium"); raw != "" {
		premium, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_premium", ErrBadRequest)
			return
		}
		criteria["premium"] = premium
	}
	if scoreRange, ok, err := rangeParam(q.Get("minScore"), q.Get("maxScore")); err != nil {
		writeError(w, http.StatusBadRequest, "bad_score_range", ErrBadRequest)
		return
	} else if ok {
		criteria["totalScore"] = scoreRange
	}
	if len(criteria) == 0 {
		criteria = nil
	}

	players := h.deps.Players(r.Context(), q.Get("sort"), ranking.Direction(q.Get("dir")), criteria)
	if limit < len(players) {
		players = players[:limit]
	}
	writeJSON(w, http.StatusOK, players)
}

func rangeParam(minRaw, maxRaw string) (ranking.Range, bool, error) {
	var r ranking.Range
	if minRaw == "" && maxRaw == "" {
		return r, false, nil
	}
	if minRaw != "" {
		n, err := strconv.ParseFloat(minRaw, 64)
		if err != nil {
			return r, false, err
		}
		r.Min = &n
	}
	if maxRaw != "" {
		n, err := strconv.ParseFloat(maxRaw, 64)
		if err != nil {
			return r, false, err
		}
		r.Max = &n
	}
	return r, true, nil
}
