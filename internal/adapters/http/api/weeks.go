package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/clanhq/chestboard/internal/app"
	"github.com/clanhq/chestboard/internal/domain/model"
)

// WeeksHandler serves the week selector and week switching.
type WeeksHandler struct {
	deps Dependencies
}

// NewWeeksHandler creates a weeks handler.
func NewWeeksHandler(deps Dependencies) *WeeksHandler {
	return &WeeksHandler{deps: deps}
}

type weeksResponse struct {
	Current string                 `json:"current,omitempty"`
	Weeks   []model.WeekDescriptor `json:"weeks"`
}

// HandleGetWeeks handles GET /weeks requests; weeks come back in
// selector order, newest first.
func (h *WeeksHandler) HandleGetWeeks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	descs, current := h.deps.Weeks(r.Context())
	if descs == nil {
		descs = []model.WeekDescriptor{}
	}
	writeJSON(w, http.StatusOK, weeksResponse{Current: current, Weeks: descs})
}

// HandleSelectWeek handles POST /weeks/{id}/select requests.
func (h *WeeksHandler) HandleSelectWeek(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/weeks/")
	weekID, action, found := strings.Cut(rest, "/")
	if !found || action != "select" || weekID == "" {
		http.NotFound(w, r)
		return
	}

	snap, err := h.deps.SwitchWeek(r.Context(), weekID)
	switch {
	case errors.Is(err, app.ErrWeekNotFound):
		writeError(w, http.StatusNotFound, "week_not_found", err)
		return
	case errors.Is(err, app.ErrStaleLoad):
		// A newer switch won the race; the slot already holds its result.
		writeJSON(w, http.StatusConflict, errorResponse{Code: "superseded", Message: err.Error()})
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "load_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, weekSummary(snap))
}

type weekSummaryResponse struct {
	Week    string `json:"week"`
	Players int    `json:"players"`
}

func weekSummary(snap model.WeekSnapshot) weekSummaryResponse {
	return weekSummaryResponse{Week: snap.WeekID, Players: len(snap.Players)}
}
