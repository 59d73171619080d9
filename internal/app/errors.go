package app

import "errors"

// Sentinel kinds for slot and pipeline errors.
var (
	ErrWeekNotFound = errors.New("week not found in index")
	ErrStaleLoad    = errors.New("week load superseded by a newer switch")
	ErrEmptyCache   = errors.New("cached blob holds no player data")
)
