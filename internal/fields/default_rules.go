package fields

import "github.com/Veraticus/formsiq/internal/model"

// Field names as the extraction prompt asks the LLM to emit them.
const (
	BorrowerName    = "Borrower Name"
	LoanAmount      = "Loan Amount"
	PropertyAddress = "Property Address"
	AnnualIncome    = "Annual Income"
	EmploymentInfo  = "Employment Info"
	PropertyType    = "Property Type"
	LoanPurpose     = "Loan Purpose"
)

// Form 1003 section labels.
const (
	SectionBorrower   = "Section I: Borrower Information"
	SectionEmployment = "Section 1a: Employment Information"
	SectionLoan       = "Section L: Loan and Property Information"
)

const currencyFormat = `^\$?\d{1,3}(?:,\d{3})*(?:\.\d{2})?$`

// DefaultRules returns the Uniform Residential Loan Application field rules.
func DefaultRules() []model.FieldRule {
	return []model.FieldRule{
		{
			Name:    BorrowerName,
			Section: SectionBorrower,
			Triggers: []string{
				`borrower(?:'s)?\s+name\s+is\b`,
				`speaking\s+with\b`,
				`\b(?:mr|mrs|ms|dr)\.\s+`,
				`(?:I am|I'm|this is)\s+`,
			},
			Format:    `^[A-Za-z\s\.-]+$`,
			Competing: `\b(?:mr|mrs|ms|dr)\.\s+`,
			Mention:   `\b(?i:mr|mrs|ms|dr)\.\s+[A-Z][A-Za-z'-]*`,
			MinTokens: 2,
		},
		{
			Name:    LoanAmount,
			Section: SectionLoan,
			Triggers: []string{
				`loan\s+(?:amount|of|for)\s+`,
				`requesting\s+(?:a\s+)?(?:loan\s+)?(?:of\s+)?\$?`,
				`borrow(?:ing)?\s+`,
				`mortgage\s+(?:of|for)\s+`,
			},
			Format:    currencyFormat,
			Competing: `\b(?:income|salary|payment)\b`,
			Strict:    `^\$\d{1,3}(?:,\d{3})*(?:\.\d{2})?$`,
		},
		{
			Name:    PropertyAddress,
			Section: SectionLoan,
			Triggers: []string{
				`(?:property|address|located)\s+(?:at|is)\s+`,
				`looking\s+at\s+`,
				`buying\s+(?:at|in)\s+`,
			},
			Format:    `^\d+\s+[A-Za-z0-9\s,\.]+$`,
			Competing: `\b(?:address|location|property)\b`,
		},
		{
			Name:    AnnualIncome,
			Section: SectionEmployment,
			Triggers: []string{
				`(?:annual|yearly|base)\s+income\s+(?:is|of)\s+`,
				`makes\s+`,
				`earning\s+`,
				`salary\s+(?:is|of)\s+`,
			},
			Format:    currencyFormat,
			Competing: `\b(?:income|salary|earning|makes)\b`,
		},
		{
			Name:    EmploymentInfo,
			Section: SectionEmployment,
			Triggers: []string{
				`(?:work(?:s|ing)?|employed)\s+(?:at|with|for)\s+`,
				`(?:job|position|role)\s+(?:is|as)\s+`,
			},
			Format: `^.+$`,
		},
		{
			Name:    PropertyType,
			Section: SectionLoan,
			Triggers: []string{
				`(?:property|home)\s+(?:is|type)\s+(?:a)?\s+`,
				`(?:buying|looking at)\s+(?:a)?\s+`,
			},
			Format:      `^[A-Za-z\s\-]+$`,
			Enumeration: []string{"Single Family", "Condo", "Townhouse", "Multi-Family", "Manufactured"},
		},
		{
			Name:    LoanPurpose,
			Section: SectionLoan,
			Triggers: []string{
				`(?:looking to|want to|planning to)\s+`,
				`(?:refinance|purchase|buying)\b`,
			},
			Format: `^(?:Purchase|Refinance)$`,
		},
	}
}
