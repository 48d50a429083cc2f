package ingestion

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
)

// statusHeader is the only header the status field is ever read from. Fuzzy
// matching is deliberately not applied here: the exports carry several
// similarly-named columns (status date, suit status) and a partial match
// would silently misclassify every record in the file.
const statusHeader = "LEGALSTATUS"

const defaultChunkSize = 500

// Extractor converts raw rows into canonical records. Rows are independent:
// no cross-row state, so the same input always yields the same output and
// chunks can run in parallel.
type Extractor struct {
	chunkSize int
}

func NewExtractor() *Extractor {
	return &Extractor{chunkSize: defaultChunkSize}
}

// Extract applies the column map to every row. Rows with no derivable account
// number are dropped and counted; everything else is returned as a fully
// constructed record. Output preserves input row positions, with dropped rows
// compacted out. Cancellation is honored between chunks; an already-started
// chunk runs to completion.
func (e *Extractor) Extract(ctx context.Context, rows []domain.RawRow, cm domain.ColumnMap) ([]domain.DelinquentProperty, domain.ExtractionStats, error) {
	stats := domain.ExtractionStats{RowsIn: len(rows)}
	if len(rows) == 0 {
		return []domain.DelinquentProperty{}, stats, nil
	}

	chunk := e.chunkSize
	if chunk <= 0 {
		chunk = defaultChunkSize
	}

	type chunkStats struct {
		dropped  int
		fallback int
	}

	slots := make([]*domain.DelinquentProperty, len(rows))
	numChunks := (len(rows) + chunk - 1) / chunk
	perChunk := make([]chunkStats, numChunks)

	var wg sync.WaitGroup
	cancelled := false
	for c := 0; c < numChunks; c++ {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		start := c * chunk
		end := start + chunk
		if end > len(rows) {
			end = len(rows)
		}
		wg.Add(1)
		go func(c, start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				rec, usedFallback, ok := extractRow(rows[i], cm)
				if !ok {
					perChunk[c].dropped++
					continue
				}
				if usedFallback {
					perChunk[c].fallback++
				}
				slots[i] = rec
			}
		}(c, start, end)
	}
	wg.Wait()

	if cancelled {
		return nil, stats, ctx.Err()
	}

	for _, cs := range perChunk {
		stats.RowsDroppedNoIdentity += cs.dropped
		stats.FallbackIdentityRows += cs.fallback
	}

	out := make([]domain.DelinquentProperty, 0, len(rows)-stats.RowsDroppedNoIdentity)
	for _, rec := range slots {
		if rec != nil {
			out = append(out, *rec)
		}
	}
	stats.RowsExtracted = len(out)
	return out, stats, nil
}

// extractRow builds one canonical record. The second result reports whether
// the identity came from the per-row fallback scan rather than the column
// map; the third is false when the row has no derivable identity at all.
func extractRow(row domain.RawRow, cm domain.ColumnMap) (*domain.DelinquentProperty, bool, bool) {
	account := mappedCell(row, cm, domain.FieldAccountNumber)
	usedFallback := false
	if account == "" {
		account = fallbackScan(row, "can")
		usedFallback = account != ""
	}
	if account == "" {
		return nil, false, false
	}

	address := mappedCell(row, cm, domain.FieldPropertyAddress)
	if address == "" {
		address = fallbackScan(row, "addr")
	}
	if address == "" {
		address = domain.UnknownSentinel
	}

	owner := mappedCell(row, cm, domain.FieldOwnerName)
	if owner == "" {
		owner = domain.UnknownSentinel
	}

	rec := &domain.DelinquentProperty{
		AccountNumber:   account,
		OwnerName:       owner,
		PropertyAddress: address,
		Status:          statusFromRow(row),
		TotalDue:        moneyOrZero(mappedCell(row, cm, domain.FieldTotalDue)),
		PercentageDue:   moneyOrZero(mappedCell(row, cm, domain.FieldPercentageDue)),

		MailingAddress:    optString(mappedCell(row, cm, domain.FieldMailingAddress)),
		LegalDescription:  optString(mappedCell(row, cm, domain.FieldLegalDescription)),
		MarketValue:       optMoney(mappedCell(row, cm, domain.FieldMarketValue)),
		LandValue:         optMoney(mappedCell(row, cm, domain.FieldLandValue)),
		ImprovementValue:  optMoney(mappedCell(row, cm, domain.FieldImprovementValue)),
		AssessedValue:     optMoney(mappedCell(row, cm, domain.FieldAssessedValue)),
		YearBuilt:         optInt(mappedCell(row, cm, domain.FieldYearBuilt)),
		Acreage:           optMoney(mappedCell(row, cm, domain.FieldAcreage)),
		LawsuitNumber:     optString(mappedCell(row, cm, domain.FieldLawsuitNumber)),
		JudgmentDate:      optString(mappedCell(row, cm, domain.FieldJudgmentDate)),
		LastPaymentDate:   optString(mappedCell(row, cm, domain.FieldLastPaymentDate)),
		LastPaymentAmount: optMoney(mappedCell(row, cm, domain.FieldLastPaymentAmount)),

		Exemptions:    splitList(mappedCell(row, cm, domain.FieldExemptions)),
		Jurisdictions: splitList(mappedCell(row, cm, domain.FieldJurisdictions)),
	}
	return rec, usedFallback, true
}

// statusFromRow reads status exclusively from the literal LEGALSTATUS header,
// case-insensitive but never fuzzy.
func statusFromRow(row domain.RawRow) domain.PropertyStatus {
	for _, h := range row.Headers {
		if strings.EqualFold(strings.TrimSpace(h), statusHeader) {
			return domain.ParseLegalStatus(strings.TrimSpace(row.Get(h)))
		}
	}
	return domain.StatusUnknown
}

func mappedCell(row domain.RawRow, cm domain.ColumnMap, field domain.CanonicalField) string {
	header, ok := cm.Resolved(field)
	if !ok {
		return ""
	}
	return strings.TrimSpace(row.Get(header))
}

// fallbackScan walks the row's headers in source order and returns the first
// non-empty cell under a header whose normalized form equals or contains
// needle. Evaluated per row, so global scan order cannot leak in.
func fallbackScan(row domain.RawRow, needle string) string {
	for _, h := range row.Headers {
		nh := normalizeHeader(h)
		if nh == needle || strings.Contains(nh, needle) {
			if v := strings.TrimSpace(row.Get(h)); v != "" {
				return v
			}
		}
	}
	return ""
}

// parseMoney handles the county's money/number formatting: "$1,234.56",
// "12.5", " 1,000 ". Anything else fails.
func parseMoney(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func moneyOrZero(raw string) float64 {
	f, _ := parseMoney(raw)
	return f
}

func optMoney(raw string) *float64 {
	if f, ok := parseMoney(raw); ok {
		return &f
	}
	return nil
}

func optInt(raw string) *int {
	f, ok := parseMoney(raw)
	if !ok {
		return nil
	}
	n := int(f)
	return &n
}

func optString(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}

func splitList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
