package llm

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/Veraticus/formsiq/internal/fields"
	"github.com/Veraticus/formsiq/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const promptTemplate = "extraction_prompt.tmpl"

// PromptBuilder renders the extraction prompt from its template.
type PromptBuilder struct {
	tmpl     *template.Template
	fields   []string
	examples []Example
}

// NewPromptBuilder creates a PromptBuilder that asks for fields and teaches
// with examples. A nil examples slice produces the lean prompt.
func NewPromptBuilder(fields []string, examples []Example) (*PromptBuilder, error) {
	tmpl, err := template.New(promptTemplate).ParseFS(templateFS, "templates/"+promptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", promptTemplate, err)
	}

	return &PromptBuilder{
		tmpl:     tmpl,
		fields:   fields,
		examples: examples,
	}, nil
}

// promptData contains all data needed for the extraction prompt.
type promptData struct {
	Transcript    string
	Placeholder   string
	Fields        []string
	ExampleGroups []exampleGroup
}

type exampleGroup struct {
	Heading  string
	Examples []numberedExample
}

type numberedExample struct {
	Example
	Number int
}

// Build renders the prompt for transcript.
func (pb *PromptBuilder) Build(transcript string) (string, error) {
	data := promptData{
		Transcript:    transcript,
		Placeholder:   model.NotSpecified,
		Fields:        pb.fields,
		ExampleGroups: groupExamples(pb.examples),
	}

	var buf bytes.Buffer
	if err := pb.tmpl.ExecuteTemplate(&buf, promptTemplate, data); err != nil {
		return "", fmt.Errorf("failed to execute %s: %w", promptTemplate, err)
	}

	return buf.String(), nil
}

// groupExamples numbers examples in order and groups consecutive examples
// of the same kind under one heading.
func groupExamples(examples []Example) []exampleGroup {
	var groups []exampleGroup
	for i, ex := range examples {
		heading := ex.Kind.Heading()
		if len(groups) == 0 || groups[len(groups)-1].Heading != heading {
			groups = append(groups, exampleGroup{Heading: heading})
		}
		last := &groups[len(groups)-1]
		last.Examples = append(last.Examples, numberedExample{Example: ex, Number: i + 1})
	}
	return groups
}

// BuildPrompt renders the extraction prompt for the default field set. The
// few-shot examples are included when withExamples is true.
func BuildPrompt(transcript string, withExamples bool) (string, error) {
	var examples []Example
	if withExamples {
		examples = DefaultExamples()
	}

	pb, err := NewPromptBuilder(fields.Default().Names(), examples)
	if err != nil {
		return "", err
	}
	return pb.Build(transcript)
}
