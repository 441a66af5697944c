// Package fields holds the registry of form field rules used to score
// extracted values against their source transcript.
package fields

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Veraticus/formsiq/internal/model"
)

// Rule is a FieldRule with its patterns compiled.
type Rule struct {
	format    *regexp.Regexp
	competing *regexp.Regexp
	strict    *regexp.Regexp
	mention   *regexp.Regexp
	model.FieldRule
	triggers []*regexp.Regexp
}

// Registry maps field names to compiled rules. It is immutable after
// construction and safe for concurrent use.
type Registry struct {
	rules map[string]*Rule
	order []string
}

// NewRegistry compiles the given rules. Trigger and competing patterns are
// made case-insensitive.
func NewRegistry(rules []model.FieldRule) (*Registry, error) {
	reg := &Registry{
		rules: make(map[string]*Rule, len(rules)),
		order: make([]string, 0, len(rules)),
	}

	for _, fr := range rules {
		if fr.Name == "" {
			return nil, fmt.Errorf("field rule name is required")
		}
		if _, exists := reg.rules[fr.Name]; exists {
			return nil, fmt.Errorf("duplicate field rule: %s", fr.Name)
		}

		rule, err := compile(fr)
		if err != nil {
			return nil, err
		}

		reg.rules[fr.Name] = rule
		reg.order = append(reg.order, fr.Name)
	}

	return reg, nil
}

// Default returns a registry seeded with DefaultRules. It panics if the
// built-in patterns fail to compile.
func Default() *Registry {
	reg, err := NewRegistry(DefaultRules())
	if err != nil {
		panic(fmt.Sprintf("invalid default field rules: %v", err))
	}
	return reg
}

func compile(fr model.FieldRule) (*Rule, error) {
	rule := &Rule{
		FieldRule: fr,
		triggers:  make([]*regexp.Regexp, 0, len(fr.Triggers)),
	}

	for _, p := range fr.Triggers {
		re, err := regexp.Compile(caseInsensitive(p))
		if err != nil {
			return nil, fmt.Errorf("failed to compile trigger %q for %s: %w", p, fr.Name, err)
		}
		rule.triggers = append(rule.triggers, re)
	}

	var err error
	if rule.format, err = compileOptional(fr.Format); err != nil {
		return nil, fmt.Errorf("failed to compile format for %s: %w", fr.Name, err)
	}
	if rule.strict, err = compileOptional(fr.Strict); err != nil {
		return nil, fmt.Errorf("failed to compile strict format for %s: %w", fr.Name, err)
	}
	if rule.mention, err = compileOptional(fr.Mention); err != nil {
		return nil, fmt.Errorf("failed to compile mention pattern for %s: %w", fr.Name, err)
	}
	if fr.Competing != "" {
		if rule.competing, err = compileOptional(caseInsensitive(fr.Competing)); err != nil {
			return nil, fmt.Errorf("failed to compile competing pattern for %s: %w", fr.Name, err)
		}
	}

	return rule, nil
}

func compileOptional(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	return regexp.Compile(pattern)
}

func caseInsensitive(pattern string) string {
	if strings.HasPrefix(pattern, "(?i)") {
		return pattern
	}
	return "(?i)" + pattern
}

// Lookup returns the rule for name. Unknown names get an empty rule whose
// checks are all no-ops.
func (r *Registry) Lookup(name string) *Rule {
	if rule, ok := r.rules[name]; ok {
		return rule
	}
	return &Rule{FieldRule: model.FieldRule{Name: name}}
}

// Has reports whether name is a registered field.
func (r *Registry) Has(name string) bool {
	_, ok := r.rules[name]
	return ok
}

// Names returns field names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Sections groups field names by their section label, preserving the order
// in which sections first appear.
func (r *Registry) Sections() []Section {
	var sections []Section
	index := make(map[string]int)

	for _, name := range r.order {
		label := r.rules[name].Section
		i, ok := index[label]
		if !ok {
			i = len(sections)
			index[label] = i
			sections = append(sections, Section{Label: label})
		}
		sections[i].Fields = append(sections[i].Fields, name)
	}

	return sections
}

// Section is a labelled group of fields.
type Section struct {
	Label  string
	Fields []string
}

// Triggered reports whether any trigger pattern matches text.
func (r *Rule) Triggered(text string) bool {
	for _, re := range r.triggers {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Formatted reports whether value matches the format pattern. A rule without
// a format never matches.
func (r *Rule) Formatted(value string) bool {
	return r.format != nil && r.format.MatchString(value)
}

// StrictlyFormatted reports whether value matches the strict format pattern.
func (r *Rule) StrictlyFormatted(value string) bool {
	return r.strict != nil && r.strict.MatchString(value)
}

// HasCompeting reports whether the rule defines a competing-term pattern.
func (r *Rule) HasCompeting() bool {
	return r.competing != nil
}

// CompetingCount counts competing-term matches in text.
func (r *Rule) CompetingCount(text string) int {
	if r.competing == nil {
		return 0
	}
	return len(r.competing.FindAllStringIndex(text, -1))
}

// MentionCount counts explicit candidate mentions in text.
func (r *Rule) MentionCount(text string) int {
	if r.mention == nil {
		return 0
	}
	return len(r.mention.FindAllStringIndex(text, -1))
}

// InEnumeration reports whether value contains one of the known values,
// ignoring case.
func (r *Rule) InEnumeration(value string) bool {
	lower := strings.ToLower(value)
	for _, known := range r.Enumeration {
		if strings.Contains(lower, strings.ToLower(known)) {
			return true
		}
	}
	return false
}
