// Package scoring computes derived scores from category counts using a
// configurable (type, level) -> points rule table.
package scoring

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/clanhq/chestboard/internal/domain/model"
	"github.com/clanhq/chestboard/pkg/logger"
	"github.com/clanhq/chestboard/pkg/metrics"
)

// KeinLevel is the sentinel level for levelless chest types; the
// exports encode it as a literal "KEIN" token in the category key.
const KeinLevel = 0

type ruleKey struct {
	typ   string
	level int
}

// RuleSet indexes score rules by lowercased type and exact level.
// When the input contains duplicate (type, level) pairs the first one
// wins. A RuleSet is immutable after construction, which keeps scoring
// idempotent.
type RuleSet struct {
	points map[ruleKey]float64
	rules  []model.ScoreRule
}

// NewRuleSet builds an index over rules.
func NewRuleSet(rules []model.ScoreRule) *RuleSet {
	rs := &RuleSet{
		points: make(map[ruleKey]float64, len(rules)),
		rules:  make([]model.ScoreRule, 0, len(rules)),
	}
	for _, r := range rules {
		key := ruleKey{typ: strings.ToLower(r.CategoryType), level: r.Level}
		if _, dup := rs.points[key]; dup {
			continue
		}
		rs.points[key] = r.Points
		rs.rules = append(rs.rules, r)
	}
	return rs
}

// Lookup returns the points for a (type, level) pair. Type matching is
// case-insensitive, level matching exact.
func (rs *RuleSet) Lookup(categoryType string, level int) (float64, bool) {
	pts, ok := rs.points[ruleKey{typ: strings.ToLower(categoryType), level: level}]
	return pts, ok
}

// Len returns the number of distinct rules.
func (rs *RuleSet) Len() int { return len(rs.rules) }

// Rules returns a copy of the indexed rules in insertion order.
func (rs *RuleSet) Rules() []model.ScoreRule {
	out := make([]model.ScoreRule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// ParseCategoryKey splits an encoded category key like "Gold_3" or
// "Ancient_KEIN" into its type and level. The level token is either an
// integer or the KEIN sentinel (case-insensitive). Keys without a
// parsable level token do not match.
func ParseCategoryKey(key string) (categoryType string, level int, ok bool) {
	idx := strings.LastIndex(key, "_")
	if idx <= 0 || idx == len(key)-1 {
		return "", 0, false
	}
	categoryType = key[:idx]
	token := key[idx+1:]
	if strings.EqualFold(token, "KEIN") {
		return categoryType, KeinLevel, true
	}
	n, err := strconv.Atoi(token)
	if err != nil || n < 0 {
		return "", 0, false
	}
	return categoryType, n, true
}

// Result is the outcome of scoring one player.
type Result struct {
	Breakdown map[string]model.CategoryScore
	Total     float64
}

// Engine scores players against one rule set.
type Engine struct {
	rules *RuleSet
	log   logger.Logger
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger for the engine.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// NewEngine creates an Engine over the given rule set.
func NewEngine(rules *RuleSet, opts ...Option) *Engine {
	e := &Engine{rules: rules, log: logger.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score computes the per-category breakdown and rounded total for one
// player. Unmatched category keys and rule misses contribute zero and
// a warning; the run never fails. Neither the player nor the rule set
// is mutated, so repeated calls yield identical results.
func (e *Engine) Score(ctx context.Context, p model.PlayerRecord) Result {
	candidates := p.CategoryCandidates()
	res := Result{Breakdown: make(map[string]model.CategoryScore, len(candidates))}

	var total float64
	for _, key := range model.SortedKeys(candidates) {
		count := candidates[key]
		categoryType, level, ok := ParseCategoryKey(key)
		if !ok {
			e.log.Warn(ctx, "category key does not match TYPE_LEVEL pattern",
				logger.String("key", key), logger.String("player", p.Name))
			continue
		}
		points, found := e.rules.Lookup(categoryType, level)
		if !found {
			e.log.Warn(ctx, "no score rule for category",
				logger.String("type", categoryType),
				logger.Int("level", level),
				logger.String("player", p.Name),
			)
			metrics.RecordRuleMiss()
			res.Breakdown[key] = model.CategoryScore{Count: count, Score: 0}
			continue
		}
		score := points * count
		res.Breakdown[key] = model.CategoryScore{Count: count, Score: score}
		total += score
	}
	res.Total = round1(total)
	return res
}

// Apply returns scored copies of players: each record gets its
// breakdown attached, and when the breakdown carries any scored
// category the derived total replaces the provided one. Input records
// are never mutated.
func (e *Engine) Apply(ctx context.Context, players []model.PlayerRecord) []model.PlayerRecord {
	out := make([]model.PlayerRecord, 0, len(players))
	for _, p := range players {
		res := e.Score(ctx, p)
		rec := p.Clone()
		rec.Breakdown = res.Breakdown
		if len(res.Breakdown) > 0 {
			rec.TotalScore = res.Total
		}
		out = append(out, rec)
	}
	return out
}

// round1 rounds to one decimal place, half away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
