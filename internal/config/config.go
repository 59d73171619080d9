// Package config defines service configuration structures and loading.
//
// Conventions:
// - Defaults come from New; Load layers file and env on top.
// - External errors are wrapped via this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir is the directory holding weeks.json, snapshot files and
	// the score-rule table.
	DataDir string `koanf:"data_dir"`

	// WeeksFile and RulesFile override the index and rule filenames
	// inside DataDir.
	WeeksFile string `koanf:"weeks_file"`
	RulesFile string `koanf:"rules_file"`

	// RankPolicy selects rank assignment: "dense" or "shared".
	RankPolicy string `koanf:"rank_policy"`

	// SyntheticNames gives nameless rows a "Player N" placeholder
	// instead of dropping them.
	SyntheticNames bool `koanf:"synthetic_names"`

	// DefaultSortKey and DefaultSortDir shape freshly built snapshots.
	DefaultSortKey string `koanf:"default_sort_key"`
	DefaultSortDir string `koanf:"default_sort_dir"`

	// MaxPlayersLimit caps GET /players?limit.
	MaxPlayersLimit int `koanf:"max_players_limit"`

	// HistogramBuckets is the default score-distribution bucket count.
	HistogramBuckets int `koanf:"histogram_buckets"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9090",
		DataDir:          "data",
		WeeksFile:        "weeks.json",
		RulesFile:        "rules.csv",
		RankPolicy:       "dense",
		SyntheticNames:   false,
		DefaultSortKey:   "totalScore",
		DefaultSortDir:   "desc",
		MaxPlayersLimit:  1000,
		HistogramBuckets: 10,
	}
}
