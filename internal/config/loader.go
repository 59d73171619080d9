package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env
// vars. Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if CHESTBOARD_CONFIG is set
//  3. env (prefix CHESTBOARD_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("CHESTBOARD_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: CHESTBOARD_ADDR, CHESTBOARD_DATA_DIR, ...
	// Underscores stay as-is to match the koanf struct tags.
	envProvider := env.Provider("CHESTBOARD_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "chestboard_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.RankPolicy {
	case "dense", "shared":
	default:
		return fmt.Errorf("%w: rank_policy must be dense or shared, got %q", ErrInvalidConfig, c.RankPolicy)
	}
	switch c.DefaultSortDir {
	case "asc", "desc":
	default:
		return fmt.Errorf("%w: default_sort_dir must be asc or desc, got %q", ErrInvalidConfig, c.DefaultSortDir)
	}
	if c.HistogramBuckets <= 0 {
		return fmt.Errorf("%w: histogram_buckets must be positive", ErrInvalidConfig)
	}
	if c.MaxPlayersLimit <= 0 {
		return fmt.Errorf("%w: max_players_limit must be positive", ErrInvalidConfig)
	}
	return nil
}
