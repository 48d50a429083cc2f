package ingestion

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
)

// fieldOrder fixes the order in which fields are resolved. Resolution is
// independent per field, but a fixed order keeps the diagnostics stable.
var fieldOrder = []domain.CanonicalField{
	domain.FieldAccountNumber,
	domain.FieldOwnerName,
	domain.FieldPropertyAddress,
	domain.FieldMailingAddress,
	domain.FieldStatus,
	domain.FieldTotalDue,
	domain.FieldPercentageDue,
	domain.FieldLegalDescription,
	domain.FieldMarketValue,
	domain.FieldLandValue,
	domain.FieldImprovementValue,
	domain.FieldAssessedValue,
	domain.FieldYearBuilt,
	domain.FieldAcreage,
	domain.FieldLawsuitNumber,
	domain.FieldJudgmentDate,
	domain.FieldLastPaymentDate,
	domain.FieldLastPaymentAmount,
	domain.FieldExemptions,
	domain.FieldJurisdictions,
}

// fieldAliases maps each canonical field to its known source headers, most
// specific first. The county renames columns between export runs; this table
// is the accumulated vocabulary of every variant seen so far.
var fieldAliases = map[domain.CanonicalField][]string{
	domain.FieldAccountNumber:     {"can", "account", "account number", "account_number", "acct", "acct no"},
	domain.FieldOwnerName:         {"owner name", "ownername", "owner_name", "owner", "taxpayer name"},
	domain.FieldPropertyAddress:   {"addrstring", "property address", "situs", "situs address", "property addr"},
	domain.FieldMailingAddress:    {"mailing address", "mail address", "owner address", "mail addr"},
	domain.FieldStatus:            {"legalstatus", "legal status"},
	domain.FieldTotalDue:          {"total due", "totaldue", "total_due", "amount due", "tot due", "total amount due"},
	domain.FieldPercentageDue:     {"tot_percan", "percentage due", "percent due", "pct due", "pct_due"},
	domain.FieldLegalDescription:  {"legal description", "legal desc", "legal_desc"},
	domain.FieldMarketValue:       {"market value", "market_value", "mkt value", "mkt val"},
	domain.FieldLandValue:         {"land value", "land_value", "land val"},
	domain.FieldImprovementValue:  {"improvement value", "imprv value", "improvement_value", "imprv val"},
	domain.FieldAssessedValue:     {"assessed value", "assessed_value", "assd value"},
	domain.FieldYearBuilt:         {"year built", "yr built", "year_built"},
	domain.FieldAcreage:           {"acreage", "acres", "land acres"},
	domain.FieldLawsuitNumber:     {"lawsuit number", "lawsuit", "cause number", "cause no", "suit number", "suit no"},
	domain.FieldJudgmentDate:      {"judgment date", "judgement date", "judgment_date"},
	domain.FieldLastPaymentDate:   {"last payment date", "last pmt date", "last_payment_date"},
	domain.FieldLastPaymentAmount: {"last payment amount", "last pmt amount", "last payment amt"},
	domain.FieldExemptions:        {"exemptions", "exemption codes", "exempt codes"},
	domain.FieldJurisdictions:     {"jurisdictions", "taxing units", "taxing jurisdictions"},
}

// RequiredFields are the fields whose failed resolution degrades
// classification quality. Callers log these; the extractor still has its own
// fallbacks.
var RequiredFields = []domain.CanonicalField{
	domain.FieldAccountNumber,
	domain.FieldPropertyAddress,
	domain.FieldStatus,
}

// normalizeHeader folds a header or alias to its comparable form: NFKD
// decomposition, then lowercase alphanumerics only. "Acct. No" and "ACCT_NO"
// both become "acctno".
func normalizeHeader(s string) string {
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
