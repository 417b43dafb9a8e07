// Package prompt renders normalized encounter rows into instruction prompts.
package prompt

import (
	"strings"

	"github.com/gyeh/clinicprep/internal/model"
)

// DefaultPreamble frames the assistant role and forbids diagnosis or
// prescribing. The final sentence is the disclaimer every response must carry.
const DefaultPreamble = "You are a clinic pre-screening assistant. Review the patient information below. " +
	"Ask any clarifying questions needed and produce a structured preliminary assessment for nurse review. " +
	"Do NOT provide a definitive diagnosis or prescribe medications. Always end with: " +
	"'[This is a preliminary assessment — requires clinician review]'.\n\n"

// DefaultMarker opens the response section of the prompt.
const DefaultMarker = "Response:\n"

// Template is the fixed text wrapped around the per-row field lines.
type Template struct {
	Preamble string
	Marker   string
}

// Default is the template used for every pipeline run.
var Default = Template{Preamble: DefaultPreamble, Marker: DefaultMarker}

// Lines returns one line per non-empty field in fixed order.
func (t Template) Lines(n *model.NormalizedRow) []string {
	var lines []string
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, label+": "+value)
		}
	}
	add("Age", n.Age)
	add("Sex", n.Sex)
	add("Medical history", strings.Join(n.MedicalHistory, ", "))
	add("Medications", strings.Join(n.Medications, ", "))
	add("Allergies", n.Allergies)
	add("Vitals", FormatVitals(n.Vitals))
	add("Presenting complaint", n.PresentingComplaint)
	add("Clinician note", n.ClinicianNote)
	return lines
}

// Body joins the field lines. It is empty when the row had no content.
func (t Template) Body(n *model.NormalizedRow) string {
	return strings.Join(t.Lines(n), "\n")
}

// Compose renders the full prompt: field lines, preamble, response marker.
func (t Template) Compose(n *model.NormalizedRow) string {
	var b strings.Builder
	b.WriteString(t.Body(n))
	b.WriteString("\n\n")
	b.WriteString(t.Preamble)
	b.WriteString("\n\n")
	b.WriteString(t.Marker)
	return b.String()
}

// FormatVitals renders vitals as "name: value" pairs joined by "; ".
func FormatVitals(v model.Vitals) string {
	parts := make([]string, 0, len(v))
	for _, vt := range v {
		parts = append(parts, vt.Name+": "+vt.Value)
	}
	return strings.Join(parts, "; ")
}
