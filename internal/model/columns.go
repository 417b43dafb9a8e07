package model

// ExpectedColumns lists the input columns every encounter table should carry,
// in canonical order.
var ExpectedColumns = []string{
	"id",
	"age",
	"sex",
	"medical_history",
	"medications",
	"allergies",
	"vitals",
	"presenting_complaint",
	"clinician_note",
}

// OptionalColumns are read when present but never reported as missing.
var OptionalColumns = []string{"gold_response"}

// MissingColumns returns the expected columns absent from header, preserving
// ExpectedColumns order.
func MissingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	var missing []string
	for _, col := range ExpectedColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}
