package audit

import (
	"testing"

	"github.com/gyeh/clinicprep/internal/model"
	"github.com/gyeh/clinicprep/internal/normalize"
	"github.com/gyeh/clinicprep/internal/prompt"
	"github.com/gyeh/clinicprep/internal/redact"
)

func observe(t *testing.T, a *Auditor, raw *model.RawRow) {
	t.Helper()
	n := normalize.NormalizeRow(raw, redact.Default(nil))
	ex := normalize.ToExample(n, "clinic", prompt.Default)
	if err := a.Observe(raw, ex, prompt.Default.Body(n)); err != nil {
		t.Fatalf("Observe: %v", err)
	}
}

func TestObserve_MissingDemographics(t *testing.T) {
	a := New()
	rows := []*model.RawRow{
		{Age: "40", Sex: "F", PresentingComplaint: "cough"},
		{Age: "", Sex: "", PresentingComplaint: "headache"},
		{Age: "33", Sex: "", PresentingComplaint: "rash"},
		{Age: "", Sex: "M", PresentingComplaint: "fever"},
	}
	for _, r := range rows {
		observe(t, a, r)
	}
	if got := a.Counters().MissingDemographics; got != 3 {
		t.Errorf("missing_demographics: got %d, want 3", got)
	}
}

func TestObserve_BothDemographicsMissingCountsOnce(t *testing.T) {
	a := New()
	raw := &model.RawRow{PresentingComplaint: "dizziness"}
	n := normalize.NormalizeRow(raw, redact.Default(nil))
	ex := normalize.ToExample(n, "clinic", prompt.Default)
	if err := a.Observe(raw, ex, prompt.Default.Body(n)); err != nil {
		t.Fatal(err)
	}
	c := a.Counters()
	if c.MissingDemographics != 1 {
		t.Errorf("got %d", c.MissingDemographics)
	}
	if c.EmptyInstruction != 0 {
		t.Errorf("row with content lines counted as empty")
	}
}

func TestObserve_LeakScan(t *testing.T) {
	a := New()
	// Vitals and allergies are not redacted, so an ISO date there survives.
	observe(t, a, &model.RawRow{Age: "1", Sex: "F", Vitals: "taken:2024-01-02"})
	// National-ID shape in an unredacted field.
	observe(t, a, &model.RawRow{Age: "1", Sex: "F", Allergies: "ssn 123-45-6789"})
	// Redacted free text leaves nothing to find.
	observe(t, a, &model.RawRow{Age: "1", Sex: "F", ClinicianNote: "seen 2024-01-02"})

	if got := a.Counters().PHIFoundAfterDeid; got != 2 {
		t.Errorf("phi_found_after_deid: got %d, want 2", got)
	}
}

func TestLeakScan_Scope(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{`{"note":"123-45-6789"}`, true},
		{`{"note":"2023-01-05"}`, true},
		// Shapes outside the narrow scan are not reported.
		{`{"note":"John Smith"}`, false},
		{`{"note":"555-123-4567"}`, false},
		{`{"note":"1/5/2023"}`, false},
		{`{"note":"a@b.org"}`, false},
	}
	for _, tt := range tests {
		if got := LeakScan([]byte(tt.in)); got != tt.want {
			t.Errorf("LeakScan(%s) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestObserve_EmptyInstruction(t *testing.T) {
	a := New()
	raw := &model.RawRow{}
	n := normalize.NormalizeRow(raw, redact.Default(nil))
	ex := normalize.ToExample(n, "clinic", prompt.Default)

	if ex.Instruction == "" {
		t.Fatal("preamble-only instruction should still be non-empty")
	}
	if err := a.Observe(raw, ex, prompt.Default.Body(n)); err != nil {
		t.Fatal(err)
	}
	c := a.Counters()
	if c.EmptyInstruction != 1 {
		t.Errorf("empty_instruction: got %d, want 1", c.EmptyInstruction)
	}
	if c.MissingDemographics != 1 {
		t.Errorf("missing_demographics: got %d, want 1", c.MissingDemographics)
	}
}

func TestMerge(t *testing.T) {
	a, b := New(), New()
	observe(t, a, &model.RawRow{})
	observe(t, b, &model.RawRow{})
	observe(t, b, &model.RawRow{Age: "2", Sex: "M", Vitals: "d:2020-02-02"})

	a.Merge(b)
	want := model.QualityCounters{MissingDemographics: 2, PHIFoundAfterDeid: 1, EmptyInstruction: 2}
	if got := a.Counters(); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
