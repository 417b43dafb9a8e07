// Package audit accumulates per-run quality counters over converted rows.
package audit

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/gyeh/clinicprep/internal/model"
)

var (
	nationalIDShape = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	isoDateShape    = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
)

// LeakScan is a narrow secondary check over an example's wire form. It only
// recognizes a national-ID shape and an ISO date shape and does not rerun the
// redaction cascade.
func LeakScan(serialized []byte) bool {
	return nationalIDShape.Match(serialized) || isoDateShape.Match(serialized)
}

// Auditor counts known-bad conditions. It is not safe for concurrent use;
// parallel workers each own one and merge at the end.
type Auditor struct {
	counters model.QualityCounters
}

// New returns an Auditor with zeroed counters.
func New() *Auditor {
	return &Auditor{}
}

// Observe records the quality signals for one row. body is the composed
// field-line block of the instruction, without the fixed preamble.
func (a *Auditor) Observe(raw *model.RawRow, ex *model.Example, body string) error {
	if raw.Age == "" || raw.Sex == "" {
		a.counters.MissingDemographics++
	}

	data, err := json.Marshal(ex)
	if err != nil {
		return fmt.Errorf("serialize example %q: %w", ex.ID, err)
	}
	if LeakScan(data) {
		a.counters.PHIFoundAfterDeid++
	}

	if strings.TrimSpace(body) == "" {
		a.counters.EmptyInstruction++
	}
	return nil
}

// Merge folds counters from another auditor into a.
func (a *Auditor) Merge(o *Auditor) {
	a.counters = a.counters.Add(o.counters)
}

// Counters returns a snapshot of the current counts.
func (a *Auditor) Counters() model.QualityCounters {
	return a.counters
}
