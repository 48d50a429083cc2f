package ingestion

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
)

func makeRow(headers []string, cells ...string) domain.RawRow {
	m := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(cells) {
			m[h] = cells[i]
		}
	}
	return domain.RawRow{Headers: headers, Cells: m}
}

func TestExtract_CountyExportRow(t *testing.T) {
	headers := []string{"CAN", "OWNER NAME", "ADDRSTRING", "LEGALSTATUS", "TOT_PERCAN"}
	cm, missing := ResolveColumns(headers)
	require.Empty(t, missing)

	rows := []domain.RawRow{
		makeRow(headers, "100500", "Jane Doe", "123 Oak St", "PENDING LAWSUIT", "12.5"),
	}

	records, stats, err := NewExtractor().Extract(context.Background(), rows, cm)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "100500", rec.AccountNumber)
	assert.Equal(t, "Jane Doe", rec.OwnerName)
	assert.Equal(t, "123 Oak St", rec.PropertyAddress)
	assert.Equal(t, domain.StatusPending, rec.Status)
	assert.Equal(t, 12.5, rec.PercentageDue)

	assert.Equal(t, 1, stats.RowsIn)
	assert.Equal(t, 1, stats.RowsExtracted)
	assert.Equal(t, 0, stats.RowsDroppedNoIdentity)
}

func TestExtract_StatusMapping(t *testing.T) {
	headers := []string{"CAN", "LEGALSTATUS"}
	cm, _ := ResolveColumns(headers)

	tests := []struct {
		raw  string
		want domain.PropertyStatus
	}{
		{"PENDING LAWSUIT", domain.StatusPending},
		{"pending", domain.StatusPending},
		{"ACTIVE LAWSUIT", domain.StatusActive},
		{"JUDGMENT", domain.StatusJudgment},
		{"judgement rendered", domain.StatusJudgment},
		{"DISMISSED", domain.StatusUnknown},
		{"", domain.StatusUnknown},
	}
	for _, tc := range tests {
		rows := []domain.RawRow{makeRow(headers, "1", tc.raw)}
		records, _, err := NewExtractor().Extract(context.Background(), rows, cm)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, tc.want, records[0].Status, "raw status %q", tc.raw)
	}
}

func TestExtract_StatusIgnoresLookalikeHeaders(t *testing.T) {
	// Status must come from the literal LEGALSTATUS header only. A file with
	// a similarly-named column and no LEGALSTATUS yields UNKNOWN, never a
	// misread from the lookalike.
	headers := []string{"CAN", "SUIT STATUS"}
	rows := []domain.RawRow{makeRow(headers, "42", "ACTIVE")}
	cm, _ := ResolveColumns([]string{"CAN"})

	records, _, err := NewExtractor().Extract(context.Background(), rows, cm)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.StatusUnknown, records[0].Status)
}

func TestExtract_DropsRowsWithoutIdentity(t *testing.T) {
	headers := []string{"CAN", "ADDRSTRING", "LEGALSTATUS"}
	cm, _ := ResolveColumns(headers)

	rows := []domain.RawRow{
		makeRow(headers, "111", "1 Elm St", "P"),
		makeRow(headers, "", "2 Elm St", "P"), // no identity anywhere
		makeRow(headers, "333", "3 Elm St", "A"),
	}

	records, stats, err := NewExtractor().Extract(context.Background(), rows, cm)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "111", records[0].AccountNumber)
	assert.Equal(t, "333", records[1].AccountNumber)
	assert.Equal(t, 3, stats.RowsIn)
	assert.Equal(t, 2, stats.RowsExtracted)
	assert.Equal(t, 1, stats.RowsDroppedNoIdentity)
}

func TestExtract_FallbackIdentityScan(t *testing.T) {
	// The column map resolved nothing, but the row carries a CAN-like header;
	// the per-row fallback scan recovers the identity.
	headers := []string{"PROP CAN", "ADDRSTRING"}
	rows := []domain.RawRow{makeRow(headers, "777", "9 Pine Rd")}

	records, stats, err := NewExtractor().Extract(context.Background(), rows, domain.ColumnMap{})
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "777", records[0].AccountNumber)
	assert.Equal(t, 1, stats.FallbackIdentityRows)
}

func TestExtract_SentinelsForMissingRequiredText(t *testing.T) {
	headers := []string{"CAN"}
	cm, _ := ResolveColumns(headers)
	rows := []domain.RawRow{makeRow(headers, "55")}

	records, _, err := NewExtractor().Extract(context.Background(), rows, cm)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, domain.UnknownSentinel, records[0].OwnerName)
	assert.Equal(t, domain.UnknownSentinel, records[0].PropertyAddress)
	assert.Nil(t, records[0].MailingAddress)
	assert.Equal(t, []string{}, records[0].Exemptions)
	assert.Equal(t, []string{}, records[0].Jurisdictions)
}

func TestExtract_MoneyAndListParsing(t *testing.T) {
	headers := []string{"CAN", "TOTAL DUE", "MARKET VALUE", "YEAR BUILT", "TAXING UNITS"}
	cm, _ := ResolveColumns(headers)

	rows := []domain.RawRow{
		makeRow(headers, "88", "$1,234.56", "$250,000", "1987", "CITY, COUNTY, ISD"),
	}

	records, _, err := NewExtractor().Extract(context.Background(), rows, cm)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, 1234.56, rec.TotalDue)
	require.NotNil(t, rec.MarketValue)
	assert.Equal(t, 250000.0, *rec.MarketValue)
	require.NotNil(t, rec.YearBuilt)
	assert.Equal(t, 1987, *rec.YearBuilt)
	assert.Equal(t, []string{"CITY", "COUNTY", "ISD"}, rec.Jurisdictions)
}

func TestExtract_UnparsableMoneyIsZeroOrNil(t *testing.T) {
	headers := []string{"CAN", "TOTAL DUE", "MARKET VALUE"}
	cm, _ := ResolveColumns(headers)

	rows := []domain.RawRow{makeRow(headers, "99", "N/A", "pending appraisal")}

	records, _, err := NewExtractor().Extract(context.Background(), rows, cm)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, 0.0, records[0].TotalDue)
	assert.Nil(t, records[0].MarketValue)
}

func TestExtract_PreservesInputOrderAcrossChunks(t *testing.T) {
	headers := []string{"CAN"}
	cm, _ := ResolveColumns(headers)

	e := &Extractor{chunkSize: 10}
	rows := make([]domain.RawRow, 100)
	for i := range rows {
		rows[i] = makeRow(headers, fmt.Sprintf("%04d", i))
	}

	records, stats, err := e.Extract(context.Background(), rows, cm)
	require.NoError(t, err)
	require.Len(t, records, 100)
	assert.Equal(t, 100, stats.RowsExtracted)

	for i, rec := range records {
		assert.Equal(t, fmt.Sprintf("%04d", i), rec.AccountNumber)
	}
}

func TestExtract_CancelledContext(t *testing.T) {
	headers := []string{"CAN"}
	cm, _ := ResolveColumns(headers)
	rows := []domain.RawRow{makeRow(headers, "1")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewExtractor().Extract(ctx, rows, cm)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtract_EmptyInput(t *testing.T) {
	records, stats, err := NewExtractor().Extract(context.Background(), nil, domain.ColumnMap{})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 0, stats.RowsIn)
}
