package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/gyeh/clinicprep/internal/model"
)

func sampleExamples() []*model.Example {
	return []*model.Example{
		{
			ID:             "1",
			Source:         "clinic",
			Demographics:   model.Demographics{Age: "40", Sex: "F"},
			MedicalHistory: []string{"asthma"},
			Medications:    []string{},
			Vitals:         model.Vitals{{Name: "hr", Value: "72"}, {Name: "bp", Value: "120/80"}},
			Instruction:    "Age: 40\n\nYou are <assistant> & helper",
			Response:       "",
			Metadata:       model.ExampleMetadata{Anonymized: true},
		},
		{
			ID:             "2",
			Source:         "clinic",
			MedicalHistory: []string{},
			Medications:    []string{"ibuprofène"},
			Vitals:         model.Vitals{},
			Instruction:    "x",
			Response:       "gold",
			Metadata:       model.ExampleMetadata{Anonymized: true},
		},
	}
}

func TestJSONL_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DatasetFile)
	want := sampleExamples()
	if err := WriteJSONL(path, want); err != nil {
		t.Fatalf("WriteJSONL: %v", err)
	}

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], `"vitals":{"hr":"72","bp":"120/80"}`) {
		t.Errorf("vitals order not preserved: %s", lines[0])
	}
	if !strings.Contains(lines[0], "<assistant> & helper") {
		t.Errorf("html must not be escaped: %s", lines[0])
	}
	if !strings.Contains(lines[1], "ibuprofène") {
		t.Errorf("utf-8 must be written verbatim: %s", lines[1])
	}

	got, err := ReadJSONL(path)
	if err != nil {
		t.Fatalf("ReadJSONL: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadJSONL_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	os.WriteFile(path, []byte("{\"id\":\"1\"}\nnot json\n"), 0644)
	if _, err := ReadJSONL(path); err == nil {
		t.Fatal("expected error for malformed line")
	}
}

func TestReport_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ReportFile)
	want := &model.Report{
		RunID:             "run",
		NumInputRows:      3,
		NumOutputExamples: 3,
		QualityIssues:     model.QualityCounters{MissingDemographics: 1, EmptyInstruction: 2},
		SampleOutputFile:  "/tmp/sample_output.jsonl",
		MissingColumns:    []string{"vitals"},
		GeneratedAt:       time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := WriteReport(path, want); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	data, _ := os.ReadFile(path)
	for _, key := range []string{`"num_input_rows": 3`, `"missing_demographics": 1`, `"phi_found_after_deid": 0`, `"sample_output_file"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("report missing %s:\n%s", key, data)
		}
	}
	got, err := ReadReport(path)
	if err != nil {
		t.Fatalf("ReadReport: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
