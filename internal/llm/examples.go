package llm

import "github.com/Veraticus/formsiq/internal/model"

// ExampleKind classifies a few-shot example.
type ExampleKind int

// Example kinds, in the order they are presented.
const (
	ExamplePositive ExampleKind = iota
	ExampleComplex
	ExampleEdge
	ExampleNegative
)

// Heading returns the section heading for examples of this kind.
func (k ExampleKind) Heading() string {
	switch k {
	case ExamplePositive:
		return "POSITIVE EXAMPLES (Clear, straightforward cases)"
	case ExampleComplex:
		return "COMPLEX EXAMPLES (Multiple or indirect mentions)"
	case ExampleEdge:
		return "EDGE CASES (Unusual formats or partial information)"
	case ExampleNegative:
		return "NEGATIVE EXAMPLES (Invalid or unclear cases)"
	default:
		return "EXAMPLES"
	}
}

// Example is a worked transcript with the expected extraction.
type Example struct {
	Title      string
	Transcript string
	Output     []FieldPair
	Kind       ExampleKind
}

func out(pairs ...string) []FieldPair {
	names := []string{"Borrower Name", "Loan Amount", "Property Address", "Annual Income", "Employment Info", "Property Type", "Loan Purpose"}
	result := make([]FieldPair, len(names))
	for i, name := range names {
		value := model.NotSpecified
		if i < len(pairs) && pairs[i] != "" {
			value = pairs[i]
		}
		result[i] = FieldPair{Name: name, Value: value}
	}
	return result
}

// DefaultExamples returns the worked examples covering clear, complex, edge
// and negative cases.
func DefaultExamples() []Example {
	return []Example{
		{
			Kind:       ExamplePositive,
			Title:      "Standard Case",
			Transcript: "Hi, I'm John Smith. I'm looking to get a $300,000 mortgage for 123 Main St, Boston. I make $85,000 a year working as a software engineer at Tech Corp.",
			Output:     out("John Smith", "$300,000", "123 Main St, Boston", "$85,000", "Software Engineer at Tech Corp", "", "Purchase"),
		},
		{
			Kind:       ExamplePositive,
			Title:      "Refinance Case",
			Transcript: "I'd like to refinance my condo at 456 Park Ave, NYC. My name is Sarah Johnson, I earn $120,000 annually as a marketing director.",
			Output:     out("Sarah Johnson", "", "456 Park Ave, NYC", "$120,000", "Marketing Director", "Condo", "Refinance"),
		},
		{
			Kind:       ExamplePositive,
			Title:      "Complete Information",
			Transcript: "Hello, Dr. Maria Garcia-Rodriguez here. I want to purchase a single-family home at 789 Oak Drive, Austin, TX. The loan amount would be $450,000, and I'm currently making $175,000 per year as a senior physician at Central Hospital.",
			Output:     out("Dr. Maria Garcia-Rodriguez", "$450,000", "789 Oak Drive, Austin, TX", "$175,000", "Senior Physician at Central Hospital", "Single-family", "Purchase"),
		},
		{
			Kind:       ExampleComplex,
			Title:      "Multiple Amounts",
			Transcript: "I'm Robert Chen, earning about $95,000 base salary plus $30,000 bonus. Looking at a $425,000 loan for a townhouse at 321 Pine Street, Seattle.",
			Output:     out("Robert Chen", "$425,000", "321 Pine Street, Seattle", "$125,000", "", "Townhouse", ""),
		},
		{
			Kind:       ExampleComplex,
			Title:      "Indirect References",
			Transcript: "The property we discussed last time, you know, that manufactured home on 567 Lake Road, Miami? I'm ready to move forward. As discussed, my yearly take-home is one-fifty thousand, and we'll need financing for three-twenty-five thousand.",
			Output:     out("", "$325,000", "567 Lake Road, Miami", "$150,000", "", "Manufactured", ""),
		},
		{
			Kind:       ExampleEdge,
			Title:      "Hyphenated/Special Characters",
			Transcript: "Jean-Pierre O'Connor speaking. Looking at 42-B West 73rd St., Apt. 5C, New York, NY. Currently at Deutsche-Bank making $225K/year.",
			Output:     out("Jean-Pierre O'Connor", "", "42-B West 73rd St., Apt. 5C, New York, NY", "$225,000", "Deutsche-Bank", "", ""),
		},
		{
			Kind:       ExampleEdge,
			Title:      "Informal Language",
			Transcript: "Hey there! Name's Mike - Michael Thompson officially. Making around 6 figures - about 100k actually, working remote for Apple. Wanna buy this sweet multi-family unit at 888 Beach Blvd.",
			Output:     out("Michael Thompson", "", "888 Beach Blvd", "$100,000", "Apple", "Multi-family", "Purchase"),
		},
		{
			Kind:       ExampleEdge,
			Title:      "Minimal Information",
			Transcript: "James Wilson. Need 275k for the condo.",
			Output:     out("James Wilson", "$275,000", "", "", "", "Condo", ""),
		},
		{
			Kind:       ExampleNegative,
			Title:      "Ambiguous Information",
			Transcript: "Someone mentioned a property on Oak Street, might be interested in that or the one on Pine Avenue. Income varies, sometimes 80k, sometimes more.",
			Output:     out(),
		},
		{
			Kind:       ExampleNegative,
			Title:      "Conflicting Information",
			Transcript: "John Smith - no wait, it's James Smith. The loan would be 400k - actually, make that 450k. Located at 123 Main St - sorry, 321 Main St.",
			Output:     out(),
		},
	}
}
