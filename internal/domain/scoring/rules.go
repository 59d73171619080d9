package scoring

import (
	"context"
	"strconv"
	"strings"

	"github.com/clanhq/chestboard/internal/domain/model"
	"github.com/clanhq/chestboard/internal/domain/rowparse"
	"github.com/clanhq/chestboard/pkg/logger"
)

// Rules CSV header aliases. The original exports use the German
// Typ/Stufe/Punkte headers; later ones switched to English.
var (
	ruleTypeHeaders   = []string{"Typ", "Type", "type", "categoryType"}
	ruleLevelHeaders  = []string{"Stufe", "Level", "level", "stufe"}
	rulePointsHeaders = []string{"Punkte", "Points", "points", "punkte"}
)

// ParseRulesCSV reads a score-rule table from delimited text. Missing
// or extra headers degrade with a warning rather than failing: absent
// levels default to KEIN, absent points to zero. Only a missing type
// column makes the table unusable, in which case an empty rule list is
// returned.
func ParseRulesCSV(ctx context.Context, text string, log logger.Logger) []model.ScoreRule {
	if log == nil {
		log = logger.Nop()
	}
	parser := rowparse.NewParser(rowparse.WithLogger(log))
	rows := parser.Parse(ctx, text)
	if len(rows) == 0 {
		log.Warn(ctx, "score rules file has no data rows")
		return nil
	}

	header := rows[0].Columns
	typeCol := findHeader(header, ruleTypeHeaders)
	levelCol := findHeader(header, ruleLevelHeaders)
	pointsCol := findHeader(header, rulePointsHeaders)

	if typeCol == "" {
		log.Warn(ctx, "score rules file is missing a type column; no rules loaded")
		return nil
	}
	if levelCol == "" {
		log.Warn(ctx, "score rules file is missing a level column; levels default to KEIN")
	}
	if pointsCol == "" {
		log.Warn(ctx, "score rules file is missing a points column; points default to 0")
	}

	rules := make([]model.ScoreRule, 0, len(rows))
	for i, row := range rows {
		categoryType := strings.TrimSpace(stringAt(row, typeCol))
		if categoryType == "" {
			log.Warn(ctx, "skipping rule row without a type", logger.Int("row", i+1))
			continue
		}
		rules = append(rules, model.ScoreRule{
			CategoryType: categoryType,
			Level:        levelAt(row, levelCol),
			Points:       numberAt(row, pointsCol),
		})
	}
	return rules
}

func findHeader(header []string, aliases []string) string {
	for _, alias := range aliases {
		for _, h := range header {
			if h == alias {
				return h
			}
		}
	}
	return ""
}

func stringAt(row rowparse.Row, col string) string {
	if col == "" {
		return ""
	}
	v, ok := row.Get(col)
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	return ""
}

func numberAt(row rowparse.Row, col string) float64 {
	if col == "" {
		return 0
	}
	v, ok := row.Get(col)
	if !ok {
		return 0
	}
	switch val := v.(type) {
	case float64:
		return val
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return n
		}
	}
	return 0
}

// levelAt reads a level cell: integers pass through, the KEIN sentinel
// and anything unparsable map to level 0.
func levelAt(row rowparse.Row, col string) int {
	if col == "" {
		return KeinLevel
	}
	v, ok := row.Get(col)
	if !ok {
		return KeinLevel
	}
	switch val := v.(type) {
	case float64:
		return int(val)
	case string:
		if strings.EqualFold(strings.TrimSpace(val), "KEIN") {
			return KeinLevel
		}
		if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return n
		}
	}
	return KeinLevel
}
