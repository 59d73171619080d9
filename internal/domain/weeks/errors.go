package weeks

import "errors"

// Sentinel kinds for week resolution errors.
var (
	ErrNoWeeks = errors.New("weeks index is empty")
)
