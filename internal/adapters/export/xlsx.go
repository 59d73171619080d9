// Package export renders pipeline output into downloadable artifacts:
// an XLSX workbook of the ranked table and a PNG of the score
// distribution.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/clanhq/chestboard/internal/domain/model"
)

const playersSheet = "Players"

var xlsxHeader = []string{"Rank", "Player", "Total Score", "Chest Count", "Premium"}

// WriteXLSX renders the ranked player table as a workbook. Rows come
// out in input order, so callers pass an already-ranked slice.
func WriteXLSX(players []model.PlayerRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(playersSheet)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("dropping default sheet: %w", err)
	}

	for col, title := range xlsxHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(playersSheet, cell, title); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	for i, p := range players {
		values := []any{p.Rank, p.Name, p.TotalScore, p.ChestCount, p.Premium}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(playersSheet, cell, v); err != nil {
				return nil, fmt.Errorf("writing row %d: %w", i+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
