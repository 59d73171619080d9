// Package stats reduces player collections into summary statistics,
// score-distribution histograms and top-N slices.
package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/clanhq/chestboard/internal/domain/model"
)

// Summarize computes the aggregate counters for a player set. Missing
// numeric fields count as zero and averages of an empty set are zero,
// so the result never carries NaN.
func Summarize(players []model.PlayerRecord) model.Summary {
	s := model.Summary{PlayerCount: len(players)}
	for _, p := range players {
		s.TotalScore += p.TotalScore
		s.TotalChests += p.ChestCount
		if p.Premium {
			s.PremiumCount++
		}
	}
	if s.PlayerCount > 0 {
		s.AverageScore = s.TotalScore / float64(s.PlayerCount)
		s.AverageChests = float64(s.TotalChests) / float64(s.PlayerCount)
	}
	return s
}

// Bucket is one histogram bar.
type Bucket struct {
	Label string  `json:"label"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Count int     `json:"count"`
}

// Histogram distributes the named metric over bucketCount equal-width
// buckets. The maximum value is forced into the last bucket so it does
// not spill into a phantom overflow bucket. Records without the metric
// contribute a zero value. Returns nil for an empty input or a
// non-positive bucket count.
func Histogram(players []model.PlayerRecord, metric string, bucketCount int) []Bucket {
	if len(players) == 0 || bucketCount <= 0 {
		return nil
	}

	values := make([]float64, len(players))
	for i, p := range players {
		values[i] = metricValue(p, metric)
	}

	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}

	bucketSize := (maxVal - minVal) / float64(bucketCount)
	buckets := make([]Bucket, bucketCount)
	for i := range buckets {
		start := minVal + float64(i)*bucketSize
		end := start + bucketSize
		buckets[i] = Bucket{
			Label: fmt.Sprintf("%d-%d", int(math.Round(start)), int(math.Round(end))),
			Start: start,
			End:   end,
		}
	}

	for _, v := range values {
		idx := 0
		if bucketSize > 0 {
			idx = int(math.Floor((v - minVal) / bucketSize))
		}
		if idx >= bucketCount {
			idx = bucketCount - 1
		}
		buckets[idx].Count++
	}
	return buckets
}

// TopN returns the n highest players by the named metric. The sort is
// stable and descending; ties keep their original order with no
// secondary key. The input is not mutated.
func TopN(players []model.PlayerRecord, metric string, n int) []model.PlayerRecord {
	if n <= 0 || len(players) == 0 {
		return nil
	}
	out := make([]model.PlayerRecord, len(players))
	copy(out, players)
	sort.SliceStable(out, func(i, j int) bool {
		return metricValue(out[i], metric) > metricValue(out[j], metric)
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

func metricValue(p model.PlayerRecord, metric string) float64 {
	v, ok := p.Field(metric)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
