package model

import "time"

// QualityCounters tracks known-bad conditions across one run. Counts only
// grow during a run.
type QualityCounters struct {
	MissingDemographics int64 `json:"missing_demographics"`
	PHIFoundAfterDeid   int64 `json:"phi_found_after_deid"`
	EmptyInstruction    int64 `json:"empty_instruction"`
}

// Add returns the per-counter sum of c and o.
func (c QualityCounters) Add(o QualityCounters) QualityCounters {
	return QualityCounters{
		MissingDemographics: c.MissingDemographics + o.MissingDemographics,
		PHIFoundAfterDeid:   c.PHIFoundAfterDeid + o.PHIFoundAfterDeid,
		EmptyInstruction:    c.EmptyInstruction + o.EmptyInstruction,
	}
}

// Report is the quality report written at the end of a run.
type Report struct {
	RunID                string          `json:"run_id"`
	InputFile            string          `json:"input_file"`
	InputSHA256          string          `json:"input_sha256"`
	NumInputRows         int             `json:"num_input_rows"`
	NumOutputExamples    int             `json:"num_output_examples"`
	QualityIssues        QualityCounters `json:"quality_issues"`
	SampleOutputFile     string          `json:"sample_output_file"`
	ValidationOutputFile string          `json:"validation_output_file"`
	MissingColumns       []string        `json:"missing_columns"`
	GeneratedAt          time.Time       `json:"generated_at"`
}

// RunSummary captures what a single convert run produced.
type RunSummary struct {
	RunID            string
	InputFile        string
	InputSHA256      string
	RowsRead         int
	ExamplesWritten  int
	InspectionSize   int
	ValidationSize   int
	RowsStored       int64
	ObjectsPublished int
	Counters         QualityCounters
	DatasetFile      string
	SampleFile       string
	ValidationFile   string
	ReportFile       string
	DurationLoad     time.Duration
	DurationConvert  time.Duration
	DurationWrite    time.Duration
	DurationTotal    time.Duration
}
