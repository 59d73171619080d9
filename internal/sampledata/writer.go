package sampledata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/clanhq/chestboard/pkg/logger"
)

// File permission constants.
const (
	dirPermission  = 0o750
	filePermission = 0o600
)

// WriteDir materializes a generated dataset into dir: weeks.json,
// rules.csv and one CSV per week.
func WriteDir(ctx context.Context, dir string, ds Dataset, log logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}
	if err := os.MkdirAll(dir, dirPermission); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	index, err := json.MarshalIndent(ds.Index, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding weeks index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "weeks.json"), index, filePermission); err != nil {
		return fmt.Errorf("writing weeks index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "rules.csv"), []byte(ds.Rules), filePermission); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	for _, wf := range ds.Weeks {
		path := filepath.Join(dir, wf.Descriptor.SourceFile)
		if err := os.WriteFile(path, []byte(wf.CSV), filePermission); err != nil {
			return fmt.Errorf("writing %s: %w", wf.Descriptor.SourceFile, err)
		}
	}

	log.Info(ctx, "sample dataset written",
		logger.String("dir", dir),
		logger.Int("weeks", len(ds.Weeks)),
	)
	return nil
}
