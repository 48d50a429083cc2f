package port

import (
	"context"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
)

// TabularSourcePort supplies the raw rows of one export file. The spreadsheet
// adapters implement it; they own header-row probing, so the headers returned
// here are the resolved header row, and rows start at the first data row.
type TabularSourcePort interface {
	ReadAll(ctx context.Context) (headers []string, rows []domain.RawRow, err error)
}
