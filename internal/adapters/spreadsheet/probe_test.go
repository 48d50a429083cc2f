package spreadsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeHeaderRow_SkipsBannerRows(t *testing.T) {
	grid := [][]string{
		{"TAX DELINQUENCY EXPORT"},
		{"Generated 2026-08-01"},
		{},
		{"CAN", "OWNER NAME", "ADDRSTRING", "LEGALSTATUS", "TOT_PERCAN"},
		{"100500", "Jane Doe", "123 Oak St", "PENDING", "12.5"},
	}

	assert.Equal(t, 3, probeHeaderRow(grid))
}

func TestProbeHeaderRow_HeaderFirst(t *testing.T) {
	grid := [][]string{
		{"CAN", "ADDRSTRING", "LEGALSTATUS"},
		{"1", "1 Elm St", "A"},
	}

	assert.Equal(t, 0, probeHeaderRow(grid))
}

func TestProbeHeaderRow_BestPartialRowWins(t *testing.T) {
	// No row resolves every required field; the row resolving the most
	// canonical fields is still picked over the banner above it.
	grid := [][]string{
		{"County Export", "Page 1"},
		{"CAN", "OWNER NAME", "TOTAL DUE"},
		{"100", "Jane Doe", "$12.00"},
	}

	assert.Equal(t, 1, probeHeaderRow(grid))
}

func TestProbeHeaderRow_TieGoesToEarliestRow(t *testing.T) {
	grid := [][]string{
		{"nothing", "recognizable", "here"},
		{"also", "no", "match"},
	}

	assert.Equal(t, 0, probeHeaderRow(grid))
}

func TestProbeHeaderRow_LooksNoDeeperThanLimit(t *testing.T) {
	grid := make([][]string, 0, maxProbeRows+2)
	for i := 0; i < maxProbeRows; i++ {
		grid = append(grid, []string{"banner"})
	}
	grid = append(grid, []string{"CAN", "ADDRSTRING", "LEGALSTATUS"})

	// The real header sits past the probe window, so the probe settles on an
	// earlier row instead.
	assert.Less(t, probeHeaderRow(grid), maxProbeRows)
}

func TestBuildRows_SkipsEmptyAndPadsShortRows(t *testing.T) {
	headers := []string{"CAN", "ADDRSTRING", "LEGALSTATUS"}
	grid := [][]string{
		{"100", "1 Oak St", "P"},
		{"", "  ", ""},
		{"200", "2 Oak St"}, // short row, no status cell
	}

	rows := buildRows(headers, grid)

	require.Len(t, rows, 2)
	assert.Equal(t, "100", rows[0].Cells["CAN"])
	assert.Equal(t, "P", rows[0].Cells["LEGALSTATUS"])

	assert.Equal(t, "200", rows[1].Cells["CAN"])
	_, ok := rows[1].Cells["LEGALSTATUS"]
	assert.False(t, ok)
}

func TestBuildRows_IgnoresUnnamedColumns(t *testing.T) {
	headers := []string{"CAN", "", "LEGALSTATUS"}
	grid := [][]string{{"100", "stray", "P"}}

	rows := buildRows(headers, grid)

	require.Len(t, rows, 1)
	assert.Equal(t, map[string]string{"CAN": "100", "LEGALSTATUS": "P"}, rows[0].Cells)
}

func TestBuildRows_TrimsWhitespace(t *testing.T) {
	headers := []string{"CAN", "OWNER NAME"}
	grid := [][]string{{" 100 ", "  Jane Doe  "}}

	rows := buildRows(headers, grid)

	require.Len(t, rows, 1)
	assert.Equal(t, "100", rows[0].Cells["CAN"])
	assert.Equal(t, "Jane Doe", rows[0].Cells["OWNER NAME"])
}
