// Package app wires the pipeline stages together and owns the single
// current-week slot the HTTP surface reads from.
package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/clanhq/chestboard/internal/adapters/source"
	"github.com/clanhq/chestboard/internal/domain/model"
	"github.com/clanhq/chestboard/internal/domain/normalize"
	"github.com/clanhq/chestboard/internal/domain/ranking"
	"github.com/clanhq/chestboard/internal/domain/scoring"
	"github.com/clanhq/chestboard/internal/domain/stats"
	"github.com/clanhq/chestboard/internal/domain/weeks"
	"github.com/clanhq/chestboard/pkg/logger"
	"github.com/clanhq/chestboard/pkg/metrics"
)

// SlotState tracks the lifecycle of the current-week slot.
type SlotState string

const (
	SlotUninitialized SlotState = "uninitialized"
	SlotLoading       SlotState = "loading"
	SlotReady         SlotState = "ready"
	SlotEmpty         SlotState = "empty"
)

// Service runs the pipeline and owns the current-week slot. The slot
// is replaced wholesale on every successful week switch; a failed
// switch restores the previous state. Stale completions (an older
// switch finishing after a newer one) are discarded by token.
type Service struct {
	mu sync.RWMutex

	fetcher    source.Fetcher
	normalizer *normalize.Normalizer
	ranker     *ranking.Engine
	resolver   *weeks.Resolver
	rules      *scoring.RuleSet
	engine     *scoring.Engine

	defaultSortKey string
	defaultSortDir ranking.Direction
	syntheticNames bool

	state      SlotState
	current    model.WeekSnapshot
	weeksIndex []model.WeekDescriptor

	// loadToken increases on every switch; appliedToken is the newest
	// token whose result was committed.
	loadToken    atomic.Uint64
	appliedToken uint64

	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFetcher sets the snapshot source.
func WithFetcher(f source.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithSyntheticNames forwards the nameless-row policy to the
// normalizer.
func WithSyntheticNames(allow bool) Option {
	return func(s *Service) {
		s.syntheticNames = allow
	}
}

// WithRankPolicy sets the rank-assignment policy.
func WithRankPolicy(p ranking.Policy) Option {
	return func(s *Service) {
		s.ranker = ranking.New(ranking.WithPolicy(p))
	}
}

// WithDefaultSort sets the sort applied when building a snapshot.
func WithDefaultSort(key string, dir ranking.Direction) Option {
	return func(s *Service) {
		if key != "" {
			s.defaultSortKey = key
		}
		if dir == ranking.Asc || dir == ranking.Desc {
			s.defaultSortDir = dir
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaultSortKey: ranking.DefaultKey,
		defaultSortDir: ranking.Desc,
		state:          SlotUninitialized,
		rules:          scoring.NewRuleSet(nil),
		log:            logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ranker == nil {
		s.ranker = ranking.New()
	}
	s.normalizer = normalize.New(
		normalize.WithSyntheticNames(s.syntheticNames),
		normalize.WithLogger(s.log),
	)
	s.resolver = weeks.New(weeks.WithLogger(s.log))
	s.engine = scoring.NewEngine(s.rules, scoring.WithLogger(s.log))
	return s
}

// Start loads the rule table and the weeks index, then selects the
// latest week. Every failure degrades: missing rules mean provided
// totals are kept, a missing index leaves the slot empty. Start never
// returns an error for input problems, only logs them.
func (s *Service) Start(ctx context.Context) error {
	if s.fetcher == nil {
		s.mu.Lock()
		s.state = SlotEmpty
		s.mu.Unlock()
		s.log.Warn(ctx, "no fetcher configured; starting with an empty slot")
		return nil
	}

	if text, err := s.fetcher.Rules(ctx); err != nil {
		s.log.Warn(ctx, "score rules unavailable; keeping provided totals", logger.Error(err))
	} else {
		s.ReplaceRules(ctx, scoring.ParseRulesCSV(ctx, text, s.log))
	}

	descs, err := s.fetcher.WeeksIndex(ctx)
	if err != nil {
		s.log.Warn(ctx, "weeks index unavailable; starting empty", logger.Error(err))
		s.mu.Lock()
		s.state = SlotEmpty
		s.mu.Unlock()
		return nil
	}
	s.mu.Lock()
	s.weeksIndex = descs
	s.mu.Unlock()

	latest, err := s.resolver.ResolveLatest(ctx, descs)
	if err != nil {
		s.log.Warn(ctx, "weeks index empty; starting empty")
		s.mu.Lock()
		s.state = SlotEmpty
		s.mu.Unlock()
		return nil
	}

	if _, err := s.SwitchWeek(ctx, latest.WeekID); err != nil {
		s.log.Warn(ctx, "initial week load failed; starting empty",
			logger.String("week", latest.WeekID), logger.Error(err))
	}
	return nil
}

// ReplaceRules swaps the active rule set and rebuilds the engine.
func (s *Service) ReplaceRules(ctx context.Context, rules []model.ScoreRule) {
	rs := scoring.NewRuleSet(rules)
	s.mu.Lock()
	s.rules = rs
	s.engine = scoring.NewEngine(rs, scoring.WithLogger(s.log))
	s.mu.Unlock()
	s.log.Info(ctx, "score rules replaced", logger.Int("rules", rs.Len()))
}

// RunPipeline executes normalize -> score -> rank -> aggregate over raw
// rows. It is a pure batch transform: the same input and rule set
// always produce the same output.
func (s *Service) RunPipeline(ctx context.Context, rows []map[string]any) ([]model.PlayerRecord, model.Summary) {
	start := time.Now()

	s.mu.RLock()
	engine := s.engine
	key, dir := s.defaultSortKey, s.defaultSortDir
	s.mu.RUnlock()

	players := s.normalizer.Normalize(ctx, rows)
	players = engine.Apply(ctx, players)
	players = s.ranker.Rank(ctx, players, key, dir, nil)
	summary := stats.Summarize(players)

	metrics.ObservePipeline(float64(time.Since(start).Milliseconds()))
	return players, summary
}

// SwitchWeek loads weekID's snapshot through the full pipeline and
// commits it to the current-week slot. Completions that lost the race
// against a newer switch are discarded and reported as ErrStaleLoad;
// the slot is never left half-updated.
func (s *Service) SwitchWeek(ctx context.Context, weekID string) (model.WeekSnapshot, error) {
	token := s.loadToken.Add(1)
	loadID := uuid.NewString()

	s.mu.Lock()
	desc, found := descriptorByID(s.weeksIndex, weekID)
	if !found {
		s.mu.Unlock()
		return model.WeekSnapshot{}, ErrWeekNotFound
	}
	prevState := s.state
	s.state = SlotLoading
	s.mu.Unlock()

	s.log.Info(ctx, "loading week",
		logger.String("week", weekID),
		logger.String("load_id", loadID),
	)

	rows, err := s.fetcher.Snapshot(ctx, desc.SourceFile)
	if err != nil {
		metrics.RecordWeekLoadFailure()
		s.restoreSlot(prevState)
		s.log.Warn(ctx, "week load failed",
			logger.String("week", weekID),
			logger.String("load_id", loadID),
			logger.Error(err),
		)
		return model.WeekSnapshot{}, err
	}

	players, _ := s.RunPipeline(ctx, rows)
	snap := model.WeekSnapshot{
		WeekID:     desc.WeekID,
		SourceFile: desc.SourceFile,
		Players:    players,
		LoadedAt:   time.Now(),
	}
	if t, ok := weeks.WeekDate(desc); ok {
		snap.EndDate = t
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token <= s.appliedToken {
		metrics.RecordWeekSwitchStale()
		s.log.Debug(ctx, "discarding stale week load",
			logger.String("week", weekID),
			logger.String("load_id", loadID),
		)
		return snap, ErrStaleLoad
	}
	s.appliedToken = token
	s.current = snap
	s.state = SlotReady
	metrics.RecordWeekLoad()
	metrics.UpdateCurrentPlayers(len(snap.Players))
	s.log.Info(ctx, "week ready",
		logger.String("week", weekID),
		logger.Int("players", len(snap.Players)),
	)
	return snap, nil
}

// restoreSlot returns the slot to its pre-load state after a failure.
func (s *Service) restoreSlot(prev SlotState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SlotLoading {
		return
	}
	if prev == SlotReady {
		s.state = SlotReady
		return
	}
	s.state = SlotEmpty
}

// Current returns the current snapshot; the second return is false
// while the slot holds no data.
func (s *Service) Current() (model.WeekSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.state == SlotReady
}

// State returns the current slot state.
func (s *Service) State() SlotState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Players returns a ranked, filtered view of the current snapshot.
// The snapshot itself is never modified.
func (s *Service) Players(ctx context.Context, key string, dir ranking.Direction, criteria ranking.Criteria) []model.PlayerRecord {
	snap, ok := s.Current()
	if !ok {
		return []model.PlayerRecord{}
	}
	return s.ranker.Rank(ctx, snap.Players, key, dir, criteria)
}

// Summary aggregates the current snapshot.
func (s *Service) Summary() model.Summary {
	snap, ok := s.Current()
	if !ok {
		return model.Summary{}
	}
	return stats.Summarize(snap.Players)
}

// ScoreHistogram buckets the current snapshot's total scores.
func (s *Service) ScoreHistogram(bucketCount int) []stats.Bucket {
	snap, ok := s.Current()
	if !ok {
		return nil
	}
	return stats.Histogram(snap.Players, "totalScore", bucketCount)
}

// TopPlayers returns the current snapshot's top n by metric.
func (s *Service) TopPlayers(metric string, n int) []model.PlayerRecord {
	snap, ok := s.Current()
	if !ok {
		return nil
	}
	return stats.TopN(snap.Players, metric, n)
}

// Weeks returns the selector ordering and the currently selected id.
func (s *Service) Weeks(ctx context.Context) ([]model.WeekDescriptor, string) {
	s.mu.RLock()
	index := s.weeksIndex
	currentID := ""
	if s.state == SlotReady {
		currentID = s.current.WeekID
	}
	s.mu.RUnlock()
	return s.resolver.SelectorOrder(ctx, index), currentID
}

func descriptorByID(descs []model.WeekDescriptor, weekID string) (model.WeekDescriptor, bool) {
	for _, d := range descs {
		if d.WeekID == weekID {
			return d, true
		}
	}
	return model.WeekDescriptor{}, false
}
