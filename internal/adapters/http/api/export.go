package api

import (
	"errors"
	"net/http"

	"github.com/clanhq/chestboard/internal/adapters/export"
	"github.com/clanhq/chestboard/internal/domain/ranking"
)

// ExportHandler serves downloadable artifacts of the current week.
type ExportHandler struct {
	deps           Dependencies
	defaultBuckets int
}

// NewExportHandler creates an export handler.
func NewExportHandler(deps Dependencies, defaultBuckets int) *ExportHandler {
	return &ExportHandler{deps: deps, defaultBuckets: defaultBuckets}
}

// HandleExportXLSX handles GET /export.xlsx requests: the current
// week's ranked table as a workbook.
func (h *ExportHandler) HandleExportXLSX(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	players := h.deps.Players(r.Context(), ranking.DefaultKey, ranking.Desc, nil)
	data, err := export.WriteXLSX(players)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export_failed", err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="chestboard.xlsx"`)
	_, _ = w.Write(data)
}

// HandleChartPNG handles GET /chart.png requests: the current week's
// score distribution as a bar chart.
func (h *ExportHandler) HandleChartPNG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	buckets := h.deps.ScoreHistogram(h.defaultBuckets)
	data, err := export.RenderHistogramPNG(buckets)
	if errors.Is(err, export.ErrNoData) {
		writeError(w, http.StatusNotFound, "no_data", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "chart_failed", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(data)
}
