package fields

import (
	"testing"

	"github.com/Veraticus/formsiq/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	reg := Default()

	assert.Equal(t, []string{
		BorrowerName, LoanAmount, PropertyAddress, AnnualIncome,
		EmploymentInfo, PropertyType, LoanPurpose,
	}, reg.Names())

	for _, name := range reg.Names() {
		rule := reg.Lookup(name)
		assert.NotEmpty(t, rule.Section, "field %s should have a section", name)
		assert.NotEmpty(t, rule.Triggers, "field %s should have triggers", name)
	}
}

func TestNewRegistry_Errors(t *testing.T) {
	tests := []struct {
		name   string
		errMsg string
		rules  []model.FieldRule
	}{
		{
			name:   "missing name",
			rules:  []model.FieldRule{{Format: `^x$`}},
			errMsg: "name is required",
		},
		{
			name:   "duplicate name",
			rules:  []model.FieldRule{{Name: "A"}, {Name: "A"}},
			errMsg: "duplicate field rule",
		},
		{
			name:   "invalid trigger",
			rules:  []model.FieldRule{{Name: "A", Triggers: []string{`(unclosed`}}},
			errMsg: "failed to compile trigger",
		},
		{
			name:   "invalid format",
			rules:  []model.FieldRule{{Name: "A", Format: `[`}},
			errMsg: "failed to compile format",
		},
		{
			name:   "invalid competing",
			rules:  []model.FieldRule{{Name: "A", Competing: `(?P<`}},
			errMsg: "failed to compile competing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.rules)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestRegistry_LookupUnknown(t *testing.T) {
	reg := Default()

	rule := reg.Lookup("Favourite Colour")
	require.NotNil(t, rule)
	assert.Equal(t, "Favourite Colour", rule.Name)
	assert.True(t, rule.IsEmpty())
	assert.False(t, reg.Has("Favourite Colour"))
	assert.False(t, rule.Triggered("anything at all"))
	assert.False(t, rule.Formatted("anything"))
	assert.False(t, rule.HasCompeting())
	assert.Zero(t, rule.CompetingCount("income income income"))
}

func TestRule_Triggered(t *testing.T) {
	reg := Default()

	tests := []struct {
		field string
		text  string
		want  bool
	}{
		{BorrowerName, "The BORROWER'S NAME IS Jane", true},
		{BorrowerName, "I'm speaking with Jane", true},
		{BorrowerName, "Dr. Garcia called", true},
		{BorrowerName, "nothing relevant here", false},
		{LoanAmount, "requesting a loan of $5", true},
		{LoanAmount, "the mortgage for the house", true},
		{PropertyAddress, "the property is at 12 Elm", true},
		{AnnualIncome, "she makes a lot", true},
		{EmploymentInfo, "works at Acme", true},
		{LoanPurpose, "we plan to refinance", true},
	}

	for _, tt := range tests {
		t.Run(tt.field+"/"+tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, reg.Lookup(tt.field).Triggered(tt.text))
		})
	}
}

func TestRule_Formatted(t *testing.T) {
	reg := Default()

	tests := []struct {
		field string
		value string
		want  bool
	}{
		{BorrowerName, "Mary-Jane Watson", true},
		{BorrowerName, "Jean-Pierre O'Connor", false},
		{LoanAmount, "$250,000", true},
		{LoanAmount, "250,000.50", true},
		{LoanAmount, "250000", false},
		{PropertyAddress, "123 Main St, Boston", true},
		{PropertyAddress, "Main St", false},
		{LoanPurpose, "Refinance", true},
		{LoanPurpose, "refinance", false},
	}

	for _, tt := range tests {
		t.Run(tt.field+"/"+tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, reg.Lookup(tt.field).Formatted(tt.value))
		})
	}
}

func TestRule_CompetingCount(t *testing.T) {
	reg := Default()

	assert.Equal(t, 2, reg.Lookup(BorrowerName).CompetingCount("Mr. John Smith and Mrs. Jane Smith"))
	assert.Equal(t, 1, reg.Lookup(BorrowerName).CompetingCount("Mr. John Smith alone"))
	assert.Equal(t, 3, reg.Lookup(AnnualIncome).CompetingCount("Income is high, salary is fixed, he makes more"))
	assert.Zero(t, reg.Lookup(EmploymentInfo).CompetingCount("income salary"))
}

func TestRule_StrictAndEnumeration(t *testing.T) {
	reg := Default()

	assert.True(t, reg.Lookup(LoanAmount).StrictlyFormatted("$1,250,000.00"))
	assert.False(t, reg.Lookup(LoanAmount).StrictlyFormatted("1,250,000"))

	assert.True(t, reg.Lookup(PropertyType).InEnumeration("a cozy condo"))
	assert.True(t, reg.Lookup(PropertyType).InEnumeration("MULTI-FAMILY"))
	assert.False(t, reg.Lookup(PropertyType).InEnumeration("Houseboat"))
}

func TestRegistry_Sections(t *testing.T) {
	sections := Default().Sections()
	require.Len(t, sections, 3)

	assert.Equal(t, SectionBorrower, sections[0].Label)
	assert.Equal(t, []string{BorrowerName}, sections[0].Fields)
	assert.Equal(t, SectionLoan, sections[1].Label)
	assert.Equal(t, []string{LoanAmount, PropertyAddress, PropertyType, LoanPurpose}, sections[1].Fields)
	assert.Equal(t, SectionEmployment, sections[2].Label)
	assert.Equal(t, []string{AnnualIncome, EmploymentInfo}, sections[2].Fields)
}

func TestRule_MentionCount(t *testing.T) {
	rule := Default().Lookup(BorrowerName)

	assert.Equal(t, 2, rule.MentionCount("Mr. John Smith... Mrs. Jane Smith..."))
	assert.Equal(t, 1, rule.MentionCount("DR. Maria Garcia and mrs. nobody"))
	assert.Zero(t, rule.MentionCount("no honorifics here"))
	assert.Zero(t, Default().Lookup(LoanAmount).MentionCount("Mr. John Smith and Mrs. Jane Smith"))
}
