package spreadsheet

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
)

// XLSXSource reads one Excel export. The first sheet is the export; counties
// do not ship multi-sheet files.
type XLSXSource struct {
	path string
}

func NewXLSXSource(path string) *XLSXSource {
	return &XLSXSource{path: path}
}

func (s *XLSXSource) ReadAll(ctx context.Context) ([]string, []domain.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open xlsx file %s: %w", s.path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("xlsx file %s has no sheets", s.path)
	}

	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(grid) == 0 {
		return nil, nil, fmt.Errorf("xlsx file %s is empty", s.path)
	}

	headerIdx := probeHeaderRow(grid)
	headers := trimCells(grid[headerIdx])
	rows := buildRows(headers, grid[headerIdx+1:])

	return headers, rows, nil
}
