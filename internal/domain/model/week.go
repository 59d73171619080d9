package model

import "time"

// ScoreRule maps a (category type, level) pair to points. Level 0 is
// the "KEIN" sentinel for levelless chest types.
type ScoreRule struct {
	CategoryType string  `json:"categoryType"`
	Level        int     `json:"level"`
	Points       float64 `json:"points"`
}

// WeekDescriptor is one entry of the weeks index (format: JSON array of
// {week, file, startDate?, endDate?}).
type WeekDescriptor struct {
	WeekID     string `json:"week"`
	SourceFile string `json:"file,omitempty"`
	StartDate  string `json:"startDate,omitempty"`
	EndDate    string `json:"endDate,omitempty"`
}

// WeekSnapshot is one fully processed weekly export. Snapshots are
// immutable once built; switching weeks replaces the current snapshot
// wholesale, it never merges or mutates in place.
type WeekSnapshot struct {
	WeekID     string         `json:"week"`
	SourceFile string         `json:"file,omitempty"`
	StartDate  time.Time      `json:"startDate,omitzero"`
	EndDate    time.Time      `json:"endDate,omitzero"`
	Players    []PlayerRecord `json:"players"`
	LoadedAt   time.Time      `json:"loadedAt"`
}

// Summary holds the aggregate statistics for one player set.
type Summary struct {
	PlayerCount   int     `json:"playerCount"`
	TotalScore    float64 `json:"totalScore"`
	TotalChests   int     `json:"totalChests"`
	AverageScore  float64 `json:"averageScore"`
	AverageChests float64 `json:"averageChests"`
	PremiumCount  int     `json:"premiumCount"`
}
