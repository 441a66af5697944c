package model

// FieldRule declares how a form field is recognised in a transcript.
// Patterns are regular expressions; triggers and the competing pattern are
// matched case-insensitively, the format pattern is matched as written.
type FieldRule struct {
	Name string
	// Section is the Form 1003 section label, for display only.
	Section string
	// Triggers are phrases suggesting the field is being discussed. Any match is sufficient.
	Triggers []string
	// Format is the shape a well-formed value has.
	Format string
	// Competing matches terms that make several candidate values plausible.
	Competing string
	// Mention matches one explicit candidate, such as an honorific followed by
	// a name. It is matched as written; every mention past the first is penalised.
	Mention string
	// Strict is a tighter format whose match earns an extra bonus.
	Strict string
	// Enumeration lists known values; containing one earns an extra bonus.
	Enumeration []string
	// MinTokens is the whitespace token count at which a value earns an extra bonus.
	MinTokens int
}

// IsEmpty reports whether the rule defines no patterns at all.
func (r FieldRule) IsEmpty() bool {
	return len(r.Triggers) == 0 && r.Format == "" && r.Competing == "" &&
		r.Mention == "" && r.Strict == "" && len(r.Enumeration) == 0 && r.MinTokens == 0
}
