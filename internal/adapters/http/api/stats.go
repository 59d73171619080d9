package api

import (
	"net/http"
	"strconv"

	"github.com/clanhq/chestboard/internal/app"
	"github.com/clanhq/chestboard/internal/domain/model"
	"github.com/clanhq/chestboard/internal/domain/stats"
)

// maxHistogramBuckets bounds GET /stats/histogram?buckets.
const maxHistogramBuckets = 100

// StatsHandler serves aggregate statistics.
type StatsHandler struct {
	deps           Dependencies
	defaultBuckets int
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(deps Dependencies, defaultBuckets int) *StatsHandler {
	return &StatsHandler{deps: deps, defaultBuckets: defaultBuckets}
}

type statsResponse struct {
	State   app.SlotState `json:"state"`
	Summary model.Summary `json:"summary"`
}

// HandleGetStats handles GET /stats requests. An empty slot comes back
// as a zero summary with the slot state, not as an error.
func (h *StatsHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		State:   h.deps.State(),
		Summary: h.deps.Summary(),
	})
}

type histogramResponse struct {
	Metric  string         `json:"metric"`
	Buckets []stats.Bucket `json:"buckets"`
}

// HandleGetHistogram handles GET /stats/histogram?buckets=N requests.
func (h *StatsHandler) HandleGetHistogram(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	bucketCount := h.defaultBuckets
	if raw := r.URL.Query().Get("buckets"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistogramBuckets {
			writeError(w, http.StatusBadRequest, "bad_buckets", ErrBadRequest)
			return
		}
		bucketCount = n
	}
	buckets := h.deps.ScoreHistogram(bucketCount)
	if buckets == nil {
		buckets = []stats.Bucket{}
	}
	writeJSON(w, http.StatusOK, histogramResponse{Metric: "totalScore", Buckets: buckets})
}
