package source

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/clanhq/chestboard/pkg/logger"
)

var xlsxNumericPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// snapshotXLSX reads the first sheet of a workbook into raw rows. The
// first sheet row is the header; short rows pad with empty strings and
// long rows truncate, mirroring the CSV contract.
func (f *DirFetcher) snapshotXLSX(ctx context.Context, path string) ([]map[string]any, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s: %w", path, ErrEmptyWorkbook)
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		f.log.Warn(ctx, "workbook sheet has no data rows", logger.String("path", path))
		return []map[string]any{}, nil
	}

	header := rows[0]
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	out := make([]map[string]any, 0, len(rows)-1)
	for n, cells := range rows[1:] {
		if len(cells) != len(header) {
			f.log.Warn(ctx, "workbook row cell count differs from header",
				logger.Int("row", n+1),
				logger.Int("cells", len(cells)),
				logger.Int("header", len(header)),
			)
		}
		row := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(cells) {
				row[col] = coerceCell(cells[i])
			} else {
				row[col] = ""
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func coerceCell(raw string) any {
	s := strings.TrimSpace(raw)
	if xlsxNumericPattern.MatchString(s) {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n
		}
	}
	return s
}
