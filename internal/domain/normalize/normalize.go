// Package normalize maps raw snapshot rows with inconsistent legacy
// column names onto the canonical player record shape.
package normalize

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/clanhq/chestboard/internal/domain/model"
	"github.com/clanhq/chestboard/pkg/logger"
	"github.com/clanhq/chestboard/pkg/metrics"
)

// Ordered alias tables. Resolution checks each alias in order and takes
// the first present value; downstream stages only ever see the
// canonical field, never the aliases.
var (
	nameAliases      = []string{"PLAYER", "playerName", "Player", "NAME", "name"}
	firstNameAliases = []string{"FIRST_NAME", "firstName"}
	lastNameAliases  = []string{"LAST_NAME", "lastName"}
	scoreAliases     = []string{"SCORE", "TOTAL_SCORE", "totalScore", "score"}
	chestAliases     = []string{"CHEST_COUNT", "chestCount", "CHESTS", "chests"}
	premiumAliases   = []string{"PREMIUM", "premium"}
	idAliases        = []string{"ID", "id", "playerId"}
	categoryAliases  = []string{"categories", "skills"}
)

// consumedKeys is the union of all alias tables; these never pass
// through to the open field map.
var consumedKeys = func() map[string]struct{} {
	out := make(map[string]struct{})
	for _, table := range [][]string{
		nameAliases, firstNameAliases, lastNameAliases,
		scoreAliases, chestAliases, premiumAliases, idAliases, categoryAliases,
	} {
		for _, k := range table {
			out[k] = struct{}{}
		}
	}
	return out
}()

// Normalizer converts raw rows into canonical player records.
type Normalizer struct {
	log            logger.Logger
	syntheticNames bool
}

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithSyntheticNames controls what happens to rows with no resolvable
// name: when true they get a "Player {index}" placeholder, when false
// (the default) they are dropped.
func WithSyntheticNames(allow bool) Option {
	return func(n *Normalizer) {
		n.syntheticNames = allow
	}
}

// WithLogger sets a custom logger for the normalizer.
func WithLogger(log logger.Logger) Option {
	return func(n *Normalizer) {
		if log != nil {
			n.log = log
		}
	}
}

// New creates a Normalizer with the given options.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{log: logger.Nop()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts a batch of raw rows. Rows without a usable name
// are dropped (unless synthetic names are enabled); the result may be
// empty but is never nil.
func (n *Normalizer) Normalize(ctx context.Context, rows []map[string]any) []model.PlayerRecord {
	out := make([]model.PlayerRecord, 0, len(rows))
	for i, row := range rows {
		rec, ok := n.NormalizeRow(ctx, row, i)
		if !ok {
			metrics.RecordPlayerDropped()
			continue
		}
		out = append(out, rec)
	}
	return out
}

// NormalizeRow converts one raw row. The index within the batch seeds
// synthesized ids and placeholder names. The second return is false
// when the row is dropped.
func (n *Normalizer) NormalizeRow(ctx context.Context, row map[string]any, index int) (model.PlayerRecord, bool) {
	if isCanonical(row) {
		return n.passThrough(ctx, row, index), true
	}

	name, ok := n.resolveName(row, index)
	if !ok {
		n.log.Debug(ctx, "dropping row with no resolvable name", logger.Int("index", index))
		return model.PlayerRecord{}, false
	}

	rec := model.PlayerRecord{
		ID:         resolveID(row, index),
		Name:       name,
		TotalScore: resolveNumber(row, scoreAliases),
		ChestCount: int(resolveNumber(row, chestAliases)),
		Premium:    resolvePremium(row),
		Categories: n.resolveCategories(ctx, row),
	}
	if rec.TotalScore < 0 || math.IsNaN(rec.TotalScore) {
		rec.TotalScore = 0
	}
	if rec.ChestCount < 0 {
		rec.ChestCount = 0
	}

	// Open passthrough: canonical fields are already set, so a colliding
	// source key never overrides them.
	for k, v := range row {
		if _, consumed := consumedKeys[k]; consumed {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]any)
		}
		rec.Extra[k] = v
	}
	return rec, true
}

// isCanonical detects rows that already expose the canonical shape, so
// cached data is not transformed twice.
func isCanonical(row map[string]any) bool {
	for _, k := range []string{"playerName", "totalScore", "chestCount"} {
		if _, ok := row[k]; ok {
			return true
		}
	}
	return false
}

// passThrough shallow-copies an already-canonical row into a record.
func (n *Normalizer) passThrough(ctx context.Context, row map[string]any, index int) model.PlayerRecord {
	rec := model.PlayerRecord{
		ID:         resolveID(row, index),
		Premium:    resolvePremium(row),
		Categories: n.resolveCategories(ctx, row),
	}
	if v, ok := row["playerName"]; ok {
		rec.Name = strings.TrimSpace(toString(v))
	} else if v, ok := row["name"]; ok {
		rec.Name = strings.TrimSpace(toString(v))
	}
	if v, ok := row["totalScore"]; ok {
		num, _ := toNumber(v)
		rec.TotalScore = num
	}
	if v, ok := row["chestCount"]; ok {
		num, _ := toNumber(v)
		rec.ChestCount = int(num)
	}
	if v, ok := row["rank"]; ok {
		if num, isNum := toNumber(v); isNum {
			rec.Rank = int(num)
		}
	}
	for k, v := range row {
		if _, consumed := consumedKeys[k]; consumed {
			continue
		}
		if k == "rank" {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]any)
		}
		rec.Extra[k] = v
	}
	return rec
}

func (n *Normalizer) resolveName(row map[string]any, index int) (string, bool) {
	for _, alias := range nameAliases {
		if v, ok := row[alias]; ok {
			if s := strings.TrimSpace(toString(v)); s != "" {
				return s, true
			}
		}
	}
	first := firstPresent(row, firstNameAliases)
	last := firstPresent(row, lastNameAliases)
	if first != "" || last != "" {
		return strings.TrimSpace(first + " " + last), true
	}
	if n.syntheticNames {
		return fmt.Sprintf("Player %d", index+1), true
	}
	return "", false
}

// resolveCategories reads a nested category mapping that may arrive as
// an object or as a JSON-encoded string. A broken encoding yields an
// empty mapping and a warning, never an error.
func (n *Normalizer) resolveCategories(ctx context.Context, row map[string]any) map[string]float64 {
	for _, alias := range categoryAliases {
		v, ok := row[alias]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case map[string]any:
			return numericValues(val)
		case map[string]float64:
			out := make(map[string]float64, len(val))
			for k, c := range val {
				out[k] = c
			}
			return out
		case string:
			if strings.TrimSpace(val) == "" {
				return nil
			}
			var decoded map[string]any
			if err := json.Unmarshal([]byte(val), &decoded); err != nil {
				n.log.Warn(ctx, "unparsable nested category field",
					logger.String("field", alias), logger.Error(err))
				return map[string]float64{}
			}
			return numericValues(decoded)
		}
	}
	return nil
}

func numericValues(m map[string]any) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if num, ok := toNumber(v); ok {
			out[k] = num
		}
	}
	return out
}

func resolveID(row map[string]any, index int) string {
	for _, alias := range idAliases {
		if v, ok := row[alias]; ok {
			if s := strings.TrimSpace(toString(v)); s != "" {
				return s
			}
		}
	}
	return fmt.Sprintf("player-%d", index+1)
}

// resolveNumber takes the first present alias and coerces it; missing
// or unparsable values are 0, never NaN.
func resolveNumber(row map[string]any, aliases []string) float64 {
	for _, alias := range aliases {
		if v, ok := row[alias]; ok {
			if num, isNum := toNumber(v); isNum {
				return num
			}
			return 0
		}
	}
	return 0
}

// resolvePremium is true only for boolean true or the exact string
// "true"; the legacy export wrote the flag case-sensitively.
func resolvePremium(row map[string]any) bool {
	for _, alias := range premiumAliases {
		if v, ok := row[alias]; ok {
			switch val := v.(type) {
			case bool:
				return val
			case string:
				return val == "true"
			}
			return false
		}
	}
	return false
}

func firstPresent(row map[string]any, aliases []string) string {
	for _, alias := range aliases {
		if v, ok := row[alias]; ok {
			if s := strings.TrimSpace(toString(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

func toString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

func toNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, true
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
			return n, true
		}
	}
	return 0, false
}
