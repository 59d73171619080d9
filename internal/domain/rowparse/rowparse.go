// Package rowparse turns raw delimited text into ordered rows of
// string-keyed values with best-effort numeric coercion.
package rowparse

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/clanhq/chestboard/pkg/logger"
	"github.com/clanhq/chestboard/pkg/metrics"
)

// numericPattern accepts full-string integers and decimals only; no
// exponents, no partial matches. Empty string is not numeric.
var numericPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// Row is one parsed data line. Columns preserves the header order;
// Values holds string or float64 entries aligned with Columns.
type Row struct {
	Columns []string
	Values  []any
}

// Get returns the value under a column name.
func (r Row) Get(name string) (any, bool) {
	for i, c := range r.Columns {
		if c == name {
			return r.Values[i], true
		}
	}
	return nil, false
}

// Map returns the row as a name-to-value mapping. Duplicate header
// names keep the last occurrence, mirroring object-assignment order.
func (r Row) Map() map[string]any {
	out := make(map[string]any, len(r.Columns))
	for i, c := range r.Columns {
		out[c] = r.Values[i]
	}
	return out
}

// Parser parses delimited snapshot text.
type Parser struct {
	log logger.Logger
}

// Option applies a configuration option to the Parser.
type Option func(*Parser)

// WithLogger sets a custom logger for the parser.
func WithLogger(log logger.Logger) Option {
	return func(p *Parser) {
		if log != nil {
			p.log = log
		}
	}
}

// NewParser creates a Parser with the given options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{log: logger.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse splits text into rows. The first non-blank line is the header.
// With fewer than two non-blank lines there is nothing to parse and an
// empty slice is returned. Short rows are padded with empty strings and
// long rows truncated; both are diagnostics, not failures.
func (p *Parser) Parse(ctx context.Context, text string) []Row {
	lines := make([]string, 0, strings.Count(text, "\n")+1)
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(strings.TrimSuffix(line, "\r")) != "" {
			lines = append(lines, strings.TrimSuffix(line, "\r"))
		}
	}
	if len(lines) < 2 {
		p.log.Warn(ctx, "snapshot text has no data rows", logger.Int("lines", len(lines)))
		return []Row{}
	}

	header := splitLine(lines[0])
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(lines)-1)
	for n, line := range lines[1:] {
		fields := splitLine(line)
		if len(fields) != len(header) {
			p.log.Warn(ctx, "row field count differs from header",
				logger.Int("row", n+1),
				logger.Int("fields", len(fields)),
				logger.Int("header", len(header)),
			)
			metrics.RecordRowMalformed()
		}
		values := make([]any, len(header))
		for i := range header {
			if i < len(fields) {
				values[i] = coerce(fields[i])
			} else {
				values[i] = ""
			}
		}
		rows = append(rows, Row{Columns: header, Values: values})
	}
	metrics.RecordRowsParsed(len(rows))
	return rows
}

// splitLine splits one CSV line on commas, honoring double-quoted
// fields. A quote flips the in-quote state; commas inside quotes do
// not split. Quotes are stripped from the output.
func splitLine(line string) []string {
	var (
		fields  []string
		current strings.Builder
		inQuote bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == ',' && !inQuote:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, current.String())
	return fields
}

// coerce trims a raw field and converts it to float64 when the whole
// string is numeric. Empty stays an empty string; empty-to-zero is the
// normalizer's decision, not the parser's.
func coerce(raw string) any {
	s := strings.TrimSpace(raw)
	if numericPattern.MatchString(s) {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n
		}
	}
	return s
}
