package ranking

import (
	"context"
	"strings"

	"github.com/clanhq/chestboard/internal/domain/model"
	"github.com/clanhq/chestboard/pkg/logger"
)

// Criteria maps field names to predicate values. The predicate's type
// picks the comparison: string means case-insensitive substring,
// number means exact equality, slice means set membership, Range means
// inclusive bounds and bool means exact match. A record survives only
// when every criterion matches.
type Criteria map[string]any

// Range is an inclusive numeric range; either bound may be nil.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Filter applies criteria to players and returns the survivors. With
// no criteria the input is returned as-is.
func (e *Engine) Filter(ctx context.Context, players []model.PlayerRecord, criteria Criteria) []model.PlayerRecord {
	if len(criteria) == 0 {
		return players
	}
	out := make([]model.PlayerRecord, 0, len(players))
	for _, p := range players {
		if e.matchesAll(ctx, p, criteria) {
			out = append(out, p)
		}
	}
	return out
}

func (e *Engine) matchesAll(ctx context.Context, p model.PlayerRecord, criteria Criteria) bool {
	for field, pred := range criteria {
		if !e.matches(ctx, p, field, pred) {
			return false
		}
	}
	return true
}

func (e *Engine) matches(ctx context.Context, p model.PlayerRecord, field string, pred any) bool {
	value, ok := p.Field(field)
	if !ok {
		return false
	}

	switch want := pred.(type) {
	case string:
		return strings.Contains(strings.ToLower(stringForm(value)), strings.ToLower(want))
	case bool:
		have, isBool := value.(bool)
		return isBool && have == want
	case float64, float32, int, int64:
		wantN, _ := coerceNumber(want)
		haveN, isNum := coerceNumber(value)
		return isNum && haveN == wantN
	case Range:
		return inRange(value, want)
	case *Range:
		if want == nil {
			return true
		}
		return inRange(value, *want)
	case []string:
		for _, member := range want {
			if stringForm(value) == member {
				return true
			}
		}
		return false
	case []float64:
		haveN, isNum := coerceNumber(value)
		if !isNum {
			return false
		}
		for _, member := range want {
			if haveN == member {
				return true
			}
		}
		return false
	case []any:
		for _, member := range want {
			if memberEqual(value, member) {
				return true
			}
		}
		return false
	case map[string]any:
		// JSON-shaped {min, max} range objects.
		return inRange(value, rangeFromMap(want))
	}

	e.log.Debug(ctx, "unsupported filter predicate type; criterion ignored",
		logger.String("field", field))
	return true
}

func memberEqual(value, member any) bool {
	if vn, vIsNum := coerceNumber(value); vIsNum {
		if mn, mIsNum := coerceNumber(member); mIsNum {
			return vn == mn
		}
	}
	return stringForm(value) == stringForm(member)
}

func inRange(value any, r Range) bool {
	n, isNum := coerceNumber(value)
	if !isNum {
		return false
	}
	if r.Min != nil && n < *r.Min {
		return false
	}
	if r.Max != nil && n > *r.Max {
		return false
	}
	return true
}

func rangeFromMap(m map[string]any) Range {
	var r Range
	if v, ok := m["min"]; ok {
		if n, isNum := coerceNumber(v); isNum {
			r.Min = &n
		}
	}
	if v, ok := m["max"]; ok {
		if n, isNum := coerceNumber(v); isNum {
			r.Max = &n
		}
	}
	return r
}
