package spreadsheet

import (
	"strings"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/ingestion"
)

// maxProbeRows bounds how deep the probe looks for the header row. County
// exports put title banners and generation timestamps above the real header,
// but never more than a handful of lines of them.
const maxProbeRows = 10

// probeHeaderRow finds the index of the header row among the leading rows of
// an export. The row that resolves the most canonical fields wins; ties go to
// the earliest row. A row resolving every required field wins immediately.
func probeHeaderRow(rows [][]string) int {
	bestIdx := 0
	bestScore := -1

	limit := len(rows)
	if limit > maxProbeRows {
		limit = maxProbeRows
	}

	for i := 0; i < limit; i++ {
		headers := trimCells(rows[i])
		if countNonEmpty(headers) == 0 {
			continue
		}

		cm, _ := ingestion.ResolveColumns(headers)

		required := 0
		for _, f := range ingestion.RequiredFields {
			if _, ok := cm.Resolved(f); ok {
				required++
			}
		}
		if required == len(ingestion.RequiredFields) {
			return i
		}

		if len(cm) > bestScore {
			bestScore = len(cm)
			bestIdx = i
		}
	}

	return bestIdx
}

// buildRows turns the raw cell grid below the header row into RawRows. Fully
// empty rows are skipped; short rows are padded implicitly by the map lookup.
func buildRows(headers []string, grid [][]string) []domain.RawRow {
	rows := make([]domain.RawRow, 0, len(grid))
	for _, cells := range grid {
		cells = trimCells(cells)
		if countNonEmpty(cells) == 0 {
			continue
		}

		cellMap := make(map[string]string, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(cells) {
				cellMap[h] = cells[i]
			}
		}

		rows = append(rows, domain.RawRow{
			Headers: headers,
			Cells:   cellMap,
		})
	}
	return rows
}

func trimCells(cells []string) []string {
	trimmed := make([]string, len(cells))
	for i, c := range cells {
		trimmed[i] = strings.TrimSpace(c)
	}
	return trimmed
}

func countNonEmpty(cells []string) int {
	n := 0
	for _, c := range cells {
		if c != "" {
			n++
		}
	}
	return n
}
