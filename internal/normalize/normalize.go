package normalize

import (
	"github.com/gyeh/clinicprep/internal/model"
	"github.com/gyeh/clinicprep/internal/prompt"
)

// TextRedactor masks PHI in a free-text value.
type TextRedactor interface {
	Redact(text string) string
}

// NormalizeRow parses the structured fields of raw and redacts its free-text
// fields. Only presenting_complaint and clinician_note pass through red.
func NormalizeRow(raw *model.RawRow, red TextRedactor) *model.NormalizedRow {
	return &model.NormalizedRow{
		ID:                  raw.ID,
		Age:                 raw.Age,
		Sex:                 raw.Sex,
		MedicalHistory:      SplitList(raw.MedicalHistory),
		Medications:         SplitList(raw.Medications),
		Allergies:           raw.Allergies,
		Vitals:              ParseVitals(raw.Vitals),
		PresentingComplaint: red.Redact(raw.PresentingComplaint),
		ClinicianNote:       red.Redact(raw.ClinicianNote),
		GoldResponse:        raw.GoldResponse,
	}
}

// ToExample maps a normalized row to the persisted example shape. The
// instruction is composed from n alone, so raw text cannot reach it.
func ToExample(n *model.NormalizedRow, source string, tmpl prompt.Template) *model.Example {
	return &model.Example{
		ID:     n.ID,
		Source: source,
		Demographics: model.Demographics{
			Age: n.Age,
			Sex: n.Sex,
		},
		MedicalHistory:      nonNil(n.MedicalHistory),
		Medications:         nonNil(n.Medications),
		Allergies:           n.Allergies,
		Vitals:              nonNilVitals(n.Vitals),
		PresentingComplaint: n.PresentingComplaint,
		Instruction:         tmpl.Compose(n),
		Response:            n.GoldResponse,
		Metadata:            model.ExampleMetadata{Anonymized: true},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilVitals(v model.Vitals) model.Vitals {
	if v == nil {
		return model.Vitals{}
	}
	return v
}
