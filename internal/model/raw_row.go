package model

// RawRow mirrors one encounter row of the input table. Every column is read
// as a string; absent values are the empty string.
type RawRow struct {
	ID                  string `parquet:"id,optional" json:"id"`
	Age                 string `parquet:"age,optional" json:"age"`
	Sex                 string `parquet:"sex,optional" json:"sex"`
	MedicalHistory      string `parquet:"medical_history,optional" json:"medical_history"`
	Medications         string `parquet:"medications,optional" json:"medications"`
	Allergies           string `parquet:"allergies,optional" json:"allergies"`
	Vitals              string `parquet:"vitals,optional" json:"vitals"`
	PresentingComplaint string `parquet:"presenting_complaint,optional" json:"presenting_complaint"`
	ClinicianNote       string `parquet:"clinician_note,optional" json:"clinician_note"`
	GoldResponse        string `parquet:"gold_response,optional" json:"gold_response"`
}

// Set assigns the value for a column name. Unknown columns are ignored and
// reported as false.
func (r *RawRow) Set(column, value string) bool {
	switch column {
	case "id":
		r.ID = value
	case "age":
		r.Age = value
	case "sex":
		r.Sex = value
	case "medical_history":
		r.MedicalHistory = value
	case "medications":
		r.Medications = value
	case "allergies":
		r.Allergies = value
	case "vitals":
		r.Vitals = value
	case "presenting_complaint":
		r.PresentingComplaint = value
	case "clinician_note":
		r.ClinicianNote = value
	case "gold_response":
		r.GoldResponse = value
	default:
		return false
	}
	return true
}
