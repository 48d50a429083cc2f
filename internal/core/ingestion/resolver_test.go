package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/domain"
)

func TestResolveColumns_CountyExportHeaders(t *testing.T) {
	headers := []string{"CAN", "OWNER NAME", "ADDRSTRING", "LEGALSTATUS", "TOT_PERCAN"}

	cm, missing := ResolveColumns(headers)

	assert.Empty(t, missing)
	assert.Equal(t, "CAN", cm[domain.FieldAccountNumber])
	assert.Equal(t, "OWNER NAME", cm[domain.FieldOwnerName])
	assert.Equal(t, "ADDRSTRING", cm[domain.FieldPropertyAddress])
	assert.Equal(t, "LEGALSTATUS", cm[domain.FieldStatus])
	assert.Equal(t, "TOT_PERCAN", cm[domain.FieldPercentageDue])
}

func TestResolveColumns_NormalizedMatch(t *testing.T) {
	// Punctuation and casing differences disappear after normalization.
	headers := []string{"Acct. No", "Owner_Name", "Total-Due"}

	cm, _ := ResolveColumns(headers)

	assert.Equal(t, "Acct. No", cm[domain.FieldAccountNumber])
	assert.Equal(t, "Owner_Name", cm[domain.FieldOwnerName])
	assert.Equal(t, "Total-Due", cm[domain.FieldTotalDue])
}

func TestResolveColumns_SubstringMatch(t *testing.T) {
	headers := []string{"PROPERTY ACCT NUMBER", "SITUS ADDRESS LINE"}

	cm, _ := ResolveColumns(headers)

	assert.Equal(t, "PROPERTY ACCT NUMBER", cm[domain.FieldAccountNumber])
	assert.Equal(t, "SITUS ADDRESS LINE", cm[domain.FieldPropertyAddress])
}

func TestResolveColumns_ExactBeatsSubstring(t *testing.T) {
	// Both headers could claim accountNumber; the exact alias match must win
	// over the later containment layer.
	headers := []string{"ACCOUNT NUMBER SUFFIX", "CAN"}

	cm, _ := ResolveColumns(headers)

	assert.Equal(t, "CAN", cm[domain.FieldAccountNumber])
}

func TestResolveColumns_FirstMatchLocksField(t *testing.T) {
	headers := []string{"ACCOUNT", "ACCT"}

	cm, _ := ResolveColumns(headers)

	// Both are exact aliases; the earlier alias in the table wins and the
	// field is never reassigned.
	assert.Equal(t, "ACCOUNT", cm[domain.FieldAccountNumber])
}

func TestResolveColumns_ReportsMissingRequiredFields(t *testing.T) {
	headers := []string{"MARKET VALUE", "YEAR BUILT"}

	cm, missing := ResolveColumns(headers)

	require.Len(t, missing, 3)
	assert.Contains(t, missing, domain.FieldAccountNumber)
	assert.Contains(t, missing, domain.FieldPropertyAddress)
	assert.Contains(t, missing, domain.FieldStatus)

	_, ok := cm.Resolved(domain.FieldAccountNumber)
	assert.False(t, ok)
}

func TestResolveColumns_StatusNeverFuzzyMatchesOtherColumns(t *testing.T) {
	// "SUIT STATUS" must not resolve the status field; its aliases are
	// deliberately narrow.
	headers := []string{"CAN", "SUIT STATUS DATE"}

	cm, _ := ResolveColumns(headers)

	_, ok := cm.Resolved(domain.FieldStatus)
	assert.False(t, ok)
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acct. No", "acctno"},
		{"ACCT_NO", "acctno"},
		{"  Owner Name  ", "ownername"},
		{"TOT_PERCAN", "totpercan"},
		{"", ""},
		{"---", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, normalizeHeader(tc.in), "input %q", tc.in)
	}
}
