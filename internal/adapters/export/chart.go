package export

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/clanhq/chestboard/internal/domain/stats"
)

// ErrNoData reports an empty bucket set; callers surface it as an
// empty state rather than rendering a blank image.
var ErrNoData = errors.New("no histogram data to render")

// RenderHistogramPNG draws the score-distribution histogram as a PNG
// bar chart, one bar per bucket labeled with its value range.
func RenderHistogramPNG(buckets []stats.Bucket) ([]byte, error) {
	if len(buckets) == 0 {
		return nil, ErrNoData
	}

	bars := make([]chart.Value, len(buckets))
	for i, b := range buckets {
		bars[i] = chart.Value{
			Label: b.Label,
			Value: float64(b.Count),
		}
	}

	graph := chart.BarChart{
		Title:    "Score distribution",
		Width:    900,
		Height:   400,
		BarWidth: 40,
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("rendering histogram: %w", err)
	}
	return buf.Bytes(), nil
}
