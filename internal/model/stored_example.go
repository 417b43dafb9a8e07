package model

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// StoredExample is one label-store row: an example plus its run position and
// review-subset membership.
type StoredExample struct {
	RunID        uuid.UUID
	Seq          int
	Example      *Example
	InInspection bool
	InValidation bool
}

// StoredExampleColumns returns the ordered column names for COPY into prep.examples.
func StoredExampleColumns() []string {
	return []string{
		"run_id",
		"seq",
		"example_id",
		"source",
		"instruction",
		"response",
		"payload",
		"in_inspection",
		"in_validation",
	}
}

// CopyValues returns the row values in the same order as StoredExampleColumns(),
// suitable for pgx CopyFromSource.
func (r *StoredExample) CopyValues() ([]any, error) {
	payload, err := json.Marshal(r.Example)
	if err != nil {
		return nil, fmt.Errorf("encode payload for %q: %w", r.Example.ID, err)
	}
	return []any{
		r.RunID,
		r.Seq,
		r.Example.ID,
		r.Example.Source,
		r.Example.Instruction,
		r.Example.Response,
		string(payload),
		r.InInspection,
		r.InValidation,
	}, nil
}
