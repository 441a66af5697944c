package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/formsiq/internal/fields"
	"github.com/Veraticus/formsiq/internal/model"
)

// NoFieldsMessage is shown when an extraction found nothing.
const NoFieldsMessage = "No fields were extracted from the transcript."

// FormatFields renders one "Name: Value (Confidence: 0.00)" line per field.
// An empty slice renders NoFieldsMessage.
func FormatFields(extracted []model.ExtractedField) string {
	if len(extracted) == 0 {
		return NoFieldsMessage
	}

	lines := make([]string, len(extracted))
	for i, f := range extracted {
		lines[i] = f.String()
	}
	return strings.Join(lines, "\n")
}

// RenderFields is FormatFields with the confidence colored by strength.
func RenderFields(extracted []model.ExtractedField) string {
	if len(extracted) == 0 {
		return FormatWarning(NoFieldsMessage)
	}

	lines := make([]string, len(extracted))
	for i, f := range extracted {
		lines[i] = fmt.Sprintf("%s: %s %s",
			FieldNameStyle.Render(f.Name),
			f.Value,
			ConfidenceStyle(f.Confidence).Render(fmt.Sprintf("(Confidence: %.2f)", f.Confidence)))
	}
	return strings.Join(lines, "\n")
}

// RenderSections lists the registry's fields grouped by form section.
func RenderSections(reg *fields.Registry) string {
	var b strings.Builder
	for i, section := range reg.Sections() {
		if i > 0 {
			b.WriteString("\n")
		}
		label := section.Label
		if label == "" {
			label = "Other"
		}
		b.WriteString(SectionStyle.Render(label))
		b.WriteString("\n")
		for _, name := range section.Fields {
			b.WriteString("  • ")
			b.WriteString(name)
			b.WriteString("\n")
		}
	}
	return b.String()
}
