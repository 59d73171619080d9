package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clanhq/chestboard/internal/domain/model"
	"github.com/clanhq/chestboard/pkg/logger"
	"github.com/clanhq/chestboard/pkg/metrics"
)

// CachedWeekID names the synthetic week committed from a cache blob.
const CachedWeekID = "cached"

// cachedBlob mirrors the persisted state layout written by the
// display layer: one JSON object under a single storage key.
type cachedBlob struct {
	AllPlayersData []map[string]any  `json:"allPlayersData"`
	ScoreRules     []model.ScoreRule `json:"scoreRules"`
	DateUpdated    string            `json:"dateUpdated"`
}

// LoadCached re-enters the pipeline with an already-normalized player
// dataset from a persisted blob. The rows pass through the normalizer's
// canonical fast path (so nothing is transformed twice), then scoring
// and ranking run as usual. Rules carried in the blob replace the
// active set first. On success the result is committed to the slot as
// a synthetic "cached" week, subject to the same stale-token discard
// as a regular switch.
func (s *Service) LoadCached(ctx context.Context, blob []byte) error {
	var cached cachedBlob
	if err := json.Unmarshal(blob, &cached); err != nil {
		return fmt.Errorf("decoding cached blob: %w", err)
	}
	if len(cached.AllPlayersData) == 0 {
		return ErrEmptyCache
	}
	if len(cached.ScoreRules) > 0 {
		s.ReplaceRules(ctx, cached.ScoreRules)
	}

	token := s.loadToken.Add(1)
	players, _ := s.RunPipeline(ctx, cached.AllPlayersData)
	snap := model.WeekSnapshot{
		WeekID:   CachedWeekID,
		Players:  players,
		LoadedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token <= s.appliedToken {
		metrics.RecordWeekSwitchStale()
		return ErrStaleLoad
	}
	s.appliedToken = token
	s.current = snap
	s.state = SlotReady
	metrics.UpdateCurrentPlayers(len(snap.Players))
	s.log.Info(ctx, "cached dataset restored",
		logger.Int("players", len(snap.Players)),
		logger.String("dateUpdated", cached.DateUpdated),
	)
	return nil
}
