package model

// NormalizedRow is a RawRow after field normalization and free-text
// redaction. It holds no reference back to the raw row.
type NormalizedRow struct {
	ID                  string
	Age                 string
	Sex                 string
	MedicalHistory      []string
	Medications         []string
	Allergies           string
	Vitals              Vitals
	PresentingComplaint string // redacted
	ClinicianNote       string // redacted
	GoldResponse        string
}

// Demographics groups the patient attributes carried on every example.
type Demographics struct {
	Age string `json:"age"`
	Sex string `json:"sex"`
}

// ExampleMetadata flags how an example was produced.
type ExampleMetadata struct {
	Anonymized bool `json:"anonymized"`
}

// Example is the persisted instruction/response record. Downstream
// consumers rely on Instruction and Response only.
type Example struct {
	ID                  string          `json:"id"`
	Source              string          `json:"source"`
	Demographics        Demographics    `json:"demographics"`
	MedicalHistory      []string        `json:"medical_history"`
	Medications         []string        `json:"medications"`
	Allergies           string          `json:"allergies"`
	Vitals              Vitals          `json:"vitals"`
	PresentingComplaint string          `json:"presenting_complaint"`
	Instruction         string          `json:"instruction"`
	Response            string          `json:"response"`
	Metadata            ExampleMetadata `json:"metadata"`
}
