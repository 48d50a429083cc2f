package domain

// PropertyStatus is the legal status of a delinquent account. It is a closed
// set: extraction maps anything it does not recognize to StatusUnknown and no
// other value ever enters the system.
type PropertyStatus string

const (
	StatusPending  PropertyStatus = "PENDING"
	StatusActive   PropertyStatus = "ACTIVE"
	StatusJudgment PropertyStatus = "JUDGMENT"
	StatusUnknown  PropertyStatus = "UNKNOWN"
)

// UnknownSentinel fills required text fields that could not be resolved, so
// consumers never branch on absence.
const UnknownSentinel = "Unknown"

// DelinquentProperty is the canonical record produced from one export row.
// AccountNumber (the county CAN) is the identity key used to match records
// across snapshots. Optional fields use pointers to distinguish "not in this
// export" from a real zero value; slice fields are always non-nil.
type DelinquentProperty struct {
	AccountNumber   string         `json:"account_number"`
	OwnerName       string         `json:"owner_name"`
	PropertyAddress string         `json:"property_address"`
	MailingAddress  *string        `json:"mailing_address"`
	Status          PropertyStatus `json:"status"`
	TotalDue        float64        `json:"total_due"`
	PercentageDue   float64        `json:"percentage_due"`

	LegalDescription  *string  `json:"legal_description"`
	MarketValue       *float64 `json:"market_value"`
	LandValue         *float64 `json:"land_value"`
	ImprovementValue  *float64 `json:"improvement_value"`
	AssessedValue     *float64 `json:"assessed_value"`
	YearBuilt         *int     `json:"year_built"`
	Acreage           *float64 `json:"acreage"`
	LawsuitNumber     *string  `json:"lawsuit_number"`
	JudgmentDate      *string  `json:"judgment_date"`
	LastPaymentDate   *string  `json:"last_payment_date"`
	LastPaymentAmount *float64 `json:"last_payment_amount"`

	Exemptions    []string `json:"exemptions"`
	Jurisdictions []string `json:"jurisdictions"`
}

// ParseLegalStatus maps the raw LEGALSTATUS cell by its first character:
// P -> PENDING, A -> ACTIVE, J -> JUDGMENT, anything else -> UNKNOWN.
func ParseLegalStatus(raw string) PropertyStatus {
	for _, r := range raw {
		switch r {
		case 'P', 'p':
			return StatusPending
		case 'A', 'a':
			return StatusActive
		case 'J', 'j':
			return StatusJudgment
		default:
			return StatusUnknown
		}
	}
	return StatusUnknown
}
