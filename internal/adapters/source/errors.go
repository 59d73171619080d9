package source

import "errors"

// Sentinel kinds for source errors.
var (
	ErrNoSourceFile  = errors.New("week descriptor has no source file")
	ErrEmptyWorkbook = errors.New("workbook contains no sheets")
)
