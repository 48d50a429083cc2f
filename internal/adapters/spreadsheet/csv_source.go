package spreadsheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
)

// CSVSource reads one comma-separated export.
type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) ReadAll(ctx context.Context) ([]string, []domain.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open csv file %s: %w", s.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // banner rows above the header have fewer cells

	grid, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv file %s: %w", s.path, err)
	}
	if len(grid) == 0 {
		return nil, nil, fmt.Errorf("csv file %s is empty", s.path)
	}

	headerIdx := probeHeaderRow(grid)
	headers := trimCells(grid[headerIdx])
	rows := buildRows(headers, grid[headerIdx+1:])

	return headers, rows, nil
}
