// Package ranking sorts, filters and ranks canonical player records.
package ranking

import (
	"context"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/clanhq/chestboard/internal/domain/model"
	"github.com/clanhq/chestboard/pkg/logger"
)

// Direction of a sort.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Policy selects how ranks are assigned after sorting.
type Policy string

const (
	// PolicyDense assigns sequential ranks 1..n in sorted order; ties
	// keep their stable relative order and get distinct ranks.
	PolicyDense Policy = "dense"

	// PolicyShared gives records with an equal sort metric the same
	// rank and skips the following integers (1, 2, 2, 4).
	PolicyShared Policy = "shared"
)

// DefaultKey is the sort key used when the caller passes none.
const DefaultKey = "totalScore"

// Engine ranks player collections. The zero-value configuration sorts
// with dense ranks.
type Engine struct {
	log    logger.Logger
	policy Policy
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithPolicy sets the rank-assignment policy. The policy is a one-time
// configuration choice; it applies uniformly to every ranking run.
func WithPolicy(p Policy) Option {
	return func(e *Engine) {
		if p == PolicyDense || p == PolicyShared {
			e.policy = p
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New creates an Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{log: logger.Nop(), policy: PolicyDense}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the configured rank-assignment policy.
func (e *Engine) Policy() Policy { return e.policy }

// Rank filters, sorts and ranks players. The input slice is never
// mutated; ranked copies are returned. Filtering happens before
// sorting; all criteria must match. Records missing the sort key sort
// as the lowest possible value in ascending order.
func (e *Engine) Rank(ctx context.Context, players []model.PlayerRecord, key string, dir Direction, criteria Criteria) []model.PlayerRecord {
	if players == nil {
		e.log.Debug(ctx, "rank called with nil input")
		return players
	}
	if key == "" {
		key = DefaultKey
	}
	if dir != Asc && dir != Desc {
		dir = Desc
	}

	filtered := e.Filter(ctx, players, criteria)

	out := make([]model.PlayerRecord, 0, len(filtered))
	for _, p := range filtered {
		out = append(out, p.Clone())
	}

	// One collator per run: collators carry scratch buffers and are not
	// safe for concurrent use.
	coll := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		cmp := compareByField(coll, out[i], out[j], key)
		if dir == Desc {
			return cmp > 0
		}
		return cmp < 0
	})

	e.assignRanks(out, key)
	return out
}

// assignRanks writes ranks in sorted order according to the policy.
func (e *Engine) assignRanks(players []model.PlayerRecord, key string) {
	if e.policy != PolicyShared {
		for i := range players {
			players[i].Rank = i + 1
		}
		return
	}
	for i := range players {
		if i > 0 && sameMetric(players[i], players[i-1], key) {
			players[i].Rank = players[i-1].Rank
			continue
		}
		players[i].Rank = i + 1
	}
}

func sameMetric(a, b model.PlayerRecord, key string) bool {
	av, aok := a.Field(key)
	bv, bok := b.Field(key)
	if !aok || !bok {
		return aok == bok
	}
	an, aNum := coerceNumber(av)
	bn, bNum := coerceNumber(bv)
	if aNum && bNum {
		return an == bn
	}
	return stringForm(av) == stringForm(bv)
}
