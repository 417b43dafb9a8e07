package convert

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/clinicprep/internal/normalize"
	"github.com/gyeh/clinicprep/internal/tableread"
)

// PreflightResult holds everything resolved before row processing begins.
type PreflightResult struct {
	// Path is the input path as given.
	Path string
	// SHA256 is the hex digest of the input file, recorded in the report so
	// a dataset can be traced to the exact table it came from.
	SHA256 string
	// Table is the fully loaded input.
	Table    *tableread.Table
	Duration time.Duration
}

// Missing returns the expected columns absent from the input, never nil.
func (p *PreflightResult) Missing() []string {
	if p.Table.Missing == nil {
		return []string{}
	}
	return p.Table.Missing
}

// Preflight hashes and loads the input table. Any failure here is fatal and
// happens before any output is produced. Missing columns only warn.
func Preflight(log zerolog.Logger, path string) (*PreflightResult, error) {
	start := time.Now()

	sha, err := normalize.FileHash(path)
	if err != nil {
		return nil, fmt.Errorf("preflight hash: %w", err)
	}

	tbl, err := tableread.Load(path)
	if err != nil {
		return nil, fmt.Errorf("preflight load: %w", err)
	}

	if len(tbl.Missing) > 0 {
		log.Warn().
			Strs("missing_columns", tbl.Missing).
			Msg("expected columns missing; treating them as empty")
	}

	dur := time.Since(start)
	log.Info().
		Str("file", filepath.Base(path)).
		Str("format", tbl.Format).
		Str("sha256", sha).
		Int("rows", len(tbl.Rows)).
		Strs("columns", tbl.Header).
		Dur("duration", dur).
		Msg("preflight complete")

	return &PreflightResult{
		Path:     path,
		SHA256:   sha,
		Table:    tbl,
		Duration: dur,
	}, nil
}
