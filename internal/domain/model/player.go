// Package model contains domain models passed between pipeline stages.
package model

import "sort"

// Reserved field names that are never treated as category counts.
// Covers both canonical names and the legacy export aliases.
var reservedFields = map[string]struct{}{
	"PLAYER":      {},
	"playerName":  {},
	"name":        {},
	"SCORE":       {},
	"TOTAL_SCORE": {},
	"totalScore":  {},
	"CHEST_COUNT": {},
	"chestCount":  {},
	"chests":      {},
	"PREMIUM":     {},
	"premium":     {},
	"ID":          {},
	"id":          {},
	"playerId":    {},
	"rank":        {},
}

// IsReservedField reports whether name is a canonical field or one of
// its legacy aliases, as opposed to a category column.
func IsReservedField(name string) bool {
	_, ok := reservedFields[name]
	return ok
}

// CategoryScore is one line of a player's score breakdown.
type CategoryScore struct {
	Count float64 `json:"count"`
	Score float64 `json:"score"`
}

// PlayerRecord is the canonical, alias-resolved representation of one
// player row. All downstream stages consume this shape only.
type PlayerRecord struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	TotalScore float64 `json:"totalScore"`
	ChestCount int     `json:"chestCount"`
	Premium    bool    `json:"premium"`

	// Categories maps encoded category keys like "Gold_3" to counts.
	Categories map[string]float64 `json:"categories,omitempty"`

	// Breakdown is populated by the score engine; nil until scoring runs.
	Breakdown map[string]CategoryScore `json:"scoreBreakdown,omitempty"`

	// Rank is assigned by the ranking engine; 0 before ranking.
	Rank int `json:"rank,omitempty"`

	// Extra holds passthrough columns kept for display. Canonical fields
	// always win over a colliding passthrough key.
	Extra map[string]any `json:"extra,omitempty"`
}

// Clone returns a deep copy. Pipeline stages never mutate their input,
// so every stage that writes to a record clones it first.
func (p PlayerRecord) Clone() PlayerRecord {
	out := p
	if p.Categories != nil {
		out.Categories = make(map[string]float64, len(p.Categories))
		for k, v := range p.Categories {
			out.Categories[k] = v
		}
	}
	if p.Breakdown != nil {
		out.Breakdown = make(map[string]CategoryScore, len(p.Breakdown))
		for k, v := range p.Breakdown {
			out.Breakdown[k] = v
		}
	}
	if p.Extra != nil {
		out.Extra = make(map[string]any, len(p.Extra))
		for k, v := range p.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// Field resolves a named field for sorting and filtering: canonical
// fields first, then passthrough columns, then category counts.
// The second return reports whether the field exists at all.
func (p PlayerRecord) Field(name string) (any, bool) {
	switch name {
	case "id":
		return p.ID, true
	case "name":
		return p.Name, true
	case "totalScore", "score":
		return p.TotalScore, true
	case "chestCount", "chests":
		return p.ChestCount, true
	case "premium":
		return p.Premium, true
	case "rank":
		return p.Rank, true
	}
	if p.Extra != nil {
		if v, ok := p.Extra[name]; ok {
			return v, true
		}
	}
	if p.Categories != nil {
		if v, ok := p.Categories[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// CategoryCandidates returns the category keys eligible for scoring:
// positive numeric counts under non-reserved keys. The Categories map
// wins over a same-named numeric passthrough column. Keys are returned
// sorted so scoring output is deterministic.
func (p PlayerRecord) CategoryCandidates() map[string]float64 {
	out := make(map[string]float64, len(p.Categories))
	for k, v := range p.Extra {
		if IsReservedField(k) {
			continue
		}
		if n, ok := asNumber(v); ok && n > 0 {
			out[k] = n
		}
	}
	for k, v := range p.Categories {
		if v > 0 && !IsReservedField(k) {
			out[k] = v
		}
	}
	return out
}

// SortedKeys returns map keys in ascending order; used wherever a
// deterministic iteration order matters.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
