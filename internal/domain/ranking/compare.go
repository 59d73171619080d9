package ranking

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/collate"

	"github.com/clanhq/chestboard/internal/domain/model"
)

// compareByField orders two records by a named field: -1 when a sorts
// before b ascending, 0 when equal, 1 otherwise. A missing field is
// the lowest possible value, so in descending order those records land
// at the end. Numbers compare numerically (string-encoded numbers are
// coerced); everything else compares as collated, case-insensitive
// text.
func compareByField(coll *collate.Collator, a, b model.PlayerRecord, key string) int {
	av, aok := a.Field(key)
	bv, bok := b.Field(key)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}

	an, aNum := coerceNumber(av)
	bn, bNum := coerceNumber(bv)
	switch {
	case aNum && bNum:
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	case aNum != bNum:
		// Numbers sort before text, matching the lowest-value treatment
		// of non-comparable cells.
		if aNum {
			return -1
		}
		return 1
	}
	return coll.CompareString(stringForm(av), stringForm(bv))
}

// coerceNumber extracts a numeric value from a field for comparison.
// Booleans order false before true.
func coerceNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func stringForm(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
