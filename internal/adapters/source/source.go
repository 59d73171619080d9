// Package source loads weeks indexes, snapshot files and rule tables
// from a local data directory. It is the only place the pipeline's
// inputs touch the filesystem; the domain packages never do.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/clanhq/chestboard/internal/domain/model"
	"github.com/clanhq/chestboard/internal/domain/rowparse"
	"github.com/clanhq/chestboard/pkg/logger"
)

// Fetcher provides the raw inputs of a pipeline run.
type Fetcher interface {
	// WeeksIndex reads the weeks index (a JSON array of descriptors).
	WeeksIndex(ctx context.Context) ([]model.WeekDescriptor, error)

	// Snapshot reads one week's source file into raw rows.
	Snapshot(ctx context.Context, file string) ([]map[string]any, error)

	// Rules reads the score-rule table as delimited text.
	Rules(ctx context.Context) (string, error)
}

// DirFetcher implements Fetcher over a data directory.
type DirFetcher struct {
	dir       string
	weeksFile string
	rulesFile string
	parser    *rowparse.Parser
	log       logger.Logger
}

// Option applies a configuration option to the DirFetcher.
type Option func(*DirFetcher)

// WithWeeksFile overrides the weeks index filename.
func WithWeeksFile(name string) Option {
	return func(f *DirFetcher) {
		if name != "" {
			f.weeksFile = name
		}
	}
}

// WithRulesFile overrides the rules table filename.
func WithRulesFile(name string) Option {
	return func(f *DirFetcher) {
		if name != "" {
			f.rulesFile = name
		}
	}
}

// WithLogger sets a custom logger for the fetcher.
func WithLogger(log logger.Logger) Option {
	return func(f *DirFetcher) {
		if log != nil {
			f.log = log
		}
	}
}

// NewDirFetcher creates a fetcher rooted at dir.
func NewDirFetcher(dir string, opts ...Option) *DirFetcher {
	f := &DirFetcher{
		dir:       dir,
		weeksFile: "weeks.json",
		rulesFile: "rules.csv",
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.parser = rowparse.NewParser(rowparse.WithLogger(f.log))
	return f
}

// WeeksIndex reads and decodes the weeks index file.
func (f *DirFetcher) WeeksIndex(ctx context.Context) ([]model.WeekDescriptor, error) {
	path := filepath.Join(f.dir, f.weeksFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading weeks index %s: %w", path, err)
	}
	var descs []model.WeekDescriptor
	if err := json.Unmarshal(data, &descs); err != nil {
		return nil, fmt.Errorf("decoding weeks index %s: %w", path, err)
	}
	f.log.Debug(ctx, "weeks index loaded", logger.Int("weeks", len(descs)))
	return descs, nil
}

// Snapshot reads one snapshot file. CSV files go through the row
// parser; .xlsx workbooks are read sheet-first and converted to the
// same row shape.
func (f *DirFetcher) Snapshot(ctx context.Context, file string) ([]map[string]any, error) {
	if file == "" {
		return nil, ErrNoSourceFile
	}
	path := filepath.Join(f.dir, filepath.Base(file))
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return f.snapshotXLSX(ctx, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	rows := f.parser.Parse(ctx, string(data))
	out := make([]map[string]any, len(rows))
	for i, r := range rows {
		out[i] = r.Map()
	}
	return out, nil
}

// Rules reads the score-rule table text. A missing rules file is not
// fatal for the pipeline, so callers treat the error as a degradation.
func (f *DirFetcher) Rules(ctx context.Context) (string, error) {
	path := filepath.Join(f.dir, f.rulesFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading rules %s: %w", path, err)
	}
	return string(data), nil
}
