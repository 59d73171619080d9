// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/clanhq/chestboard/internal/app"
	"github.com/clanhq/chestboard/internal/domain/model"
	"github.com/clanhq/chestboard/internal/domain/ranking"
	"github.com/clanhq/chestboard/internal/domain/stats"
)

// Dependencies required by HTTP handlers. An interface bundle keeps
// the handler layer loosely coupled to the app service.
type Dependencies interface {
	// Players returns a ranked, filtered view of the current week.
	Players(ctx context.Context, key string, dir ranking.Direction, criteria ranking.Criteria) []model.PlayerRecord

	// Summary aggregates the current week.
	Summary() model.Summary

	// ScoreHistogram buckets the current week's total scores.
	ScoreHistogram(bucketCount int) []stats.Bucket

	// Weeks lists selector-ordered descriptors and the selected id.
	Weeks(ctx context.Context) ([]model.WeekDescriptor, string)

	// SwitchWeek replaces the current week.
	SwitchWeek(ctx context.Context, weekID string) (model.WeekSnapshot, error)

	// State reports the current-week slot state.
	State() app.SlotState
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	playersHandler *PlayersHandler
	statsHandler   *StatsHandler
	weeksHandler   *WeeksHandler
	exportHandler  *ExportHandler
	healthHandler  *HealthHandler
}

// NewServer creates an API server with all handlers.
func NewServer(deps Dependencies, maxPlayersLimit, defaultBuckets int) *Server {
	return &Server{
		playersHandler: NewPlayersHandler(deps, maxPlayersLimit),
		statsHandler:   NewStatsHandler(deps, defaultBuckets),
		weeksHandler:   NewWeeksHandler(deps),
		exportHandler:  NewExportHandler(deps, defaultBuckets),
		healthHandler:  NewHealthHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandleGetPlayers, "players"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleGetStats, "stats"))
	mux.HandleFunc("/stats/histogram", MetricsMiddleware(s.statsHandler.HandleGetHistogram, "histogram"))
	mux.HandleFunc("/weeks", MetricsMiddleware(s.weeksHandler.HandleGetWeeks, "weeks"))
	mux.HandleFunc("/weeks/", MetricsMiddleware(s.weeksHandler.HandleSelectWeek, "weeks_select"))
	mux.HandleFunc("/export.xlsx", MetricsMiddleware(s.exportHandler.HandleExportXLSX, "export_xlsx"))
	mux.HandleFunc("/chart.png", MetricsMiddleware(s.exportHandler.HandleChartPNG, "chart_png"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
