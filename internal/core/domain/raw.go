package domain

// CanonicalField names one field of the canonical record shape. Values are
// the keys of the alias tables in the ingestion package.
type CanonicalField string

const (
	FieldAccountNumber     CanonicalField = "accountNumber"
	FieldOwnerName         CanonicalField = "ownerName"
	FieldPropertyAddress   CanonicalField = "propertyAddress"
	FieldMailingAddress    CanonicalField = "mailingAddress"
	FieldStatus            CanonicalField = "status"
	FieldTotalDue          CanonicalField = "totalDue"
	FieldPercentageDue     CanonicalField = "percentageDue"
	FieldLegalDescription  CanonicalField = "legalDescription"
	FieldMarketValue       CanonicalField = "marketValue"
	FieldLandValue         CanonicalField = "landValue"
	FieldImprovementValue  CanonicalField = "improvementValue"
	FieldAssessedValue     CanonicalField = "assessedValue"
	FieldYearBuilt         CanonicalField = "yearBuilt"
	FieldAcreage           CanonicalField = "acreage"
	FieldLawsuitNumber     CanonicalField = "lawsuitNumber"
	FieldJudgmentDate      CanonicalField = "judgmentDate"
	FieldLastPaymentDate   CanonicalField = "lastPaymentDate"
	FieldLastPaymentAmount CanonicalField = "lastPaymentAmount"
	FieldExemptions        CanonicalField = "exemptions"
	FieldJurisdictions     CanonicalField = "jurisdictions"
)

// RawRow is one data row as read from an export, before canonicalization.
// Headers preserves the source column order; Cells maps header -> raw text.
// Produced by the spreadsheet adapters, consumed by the extractor.
type RawRow struct {
	Headers []string
	Cells   map[string]string
}

// Get returns the raw cell under the given source header, or "" when the
// column is absent.
func (r RawRow) Get(header string) string {
	return r.Cells[header]
}

// ColumnMap maps canonical fields to the source header that was resolved for
// them. Built once per file by the resolver and immutable afterwards; fields
// with no match are simply absent.
type ColumnMap map[CanonicalField]string

// Resolved reports the source header for a canonical field, if any.
func (m ColumnMap) Resolved(field CanonicalField) (string, bool) {
	h, ok := m[field]
	return h, ok
}

// ExtractionStats are the diagnostics surfaced alongside extraction output.
// Dropped rows and resolution gaps are never errors, but operators need to
// see them: a failed accountNumber resolution silently inflates "new" counts
// downstream.
type ExtractionStats struct {
	RowsIn                int              `json:"rows_in"`
	RowsExtracted         int              `json:"rows_extracted"`
	RowsDroppedNoIdentity int              `json:"rows_dropped_no_identity"`
	FallbackIdentityRows  int              `json:"fallback_identity_rows"`
	UnresolvedFields      []CanonicalField `json:"unresolved_fields"`
}
