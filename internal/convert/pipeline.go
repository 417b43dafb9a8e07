package convert

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/clinicprep/internal/config"
	"github.com/gyeh/clinicprep/internal/model"
	"github.com/gyeh/clinicprep/internal/prompt"
	"github.com/gyeh/clinicprep/internal/publish"
	"github.com/gyeh/clinicprep/internal/redact"
	"github.com/gyeh/clinicprep/internal/sample"
)

// Pipeline phases, reported on PipelineError.
const (
	PhasePreflight = "preflight"
	PhaseTransform = "transform"
	PhaseWrite     = "write"
	PhaseStore     = "store"
	PhasePublish   = "publish"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Deps carries the optional external sinks. A nil Pool skips the label
// store; a nil S3 skips publishing.
type Deps struct {
	Pool *pgxpool.Pool
	S3   publish.S3Client
}

// Result is everything a run produced, kept in memory for previews and tests.
type Result struct {
	Summary    *model.RunSummary
	Report     *model.Report
	Examples   []*model.Example
	Inspection []*model.Example
	Validation []*model.Example
}

// Run executes the full conversion: preflight → transform → write (dataset,
// samples, report) → store → publish.
func Run(ctx context.Context, deps Deps, log zerolog.Logger, cfg *config.Config) (*Result, error) {
	totalStart := time.Now()
	runID := uuid.New()
	log = log.With().Str("run_id", runID.String()).Logger()

	// Phase 1: Preflight
	log.Info().Str("input", cfg.InputPath).Msg("starting preflight")
	pf, err := Preflight(log, cfg.InputPath)
	if err != nil {
		return nil, &PipelineError{Phase: PhasePreflight, Err: err}
	}

	// Phase 2: Transform
	log.Info().Int("rows", len(pf.Table.Rows)).Int("workers", cfg.Workers).Msg("starting transform")
	tr, err := Transform(ctx, log, pf.Table.Rows, Options{
		Redactor: redact.Default(cfg.AllowNames),
		Template: prompt.Default,
		Source:   cfg.Source,
		Workers:  cfg.Workers,
	})
	if err != nil {
		return nil, &PipelineError{Phase: PhaseTransform, Err: err}
	}

	// Phase 3: Write dataset, draw samples, write report
	sampler := sample.New(cfg.Seed)
	wr, err := Write(log, cfg, sampler, tr.Examples)
	if err != nil {
		return nil, &PipelineError{Phase: PhaseWrite, Err: err}
	}

	report := &model.Report{
		RunID:                runID.String(),
		InputFile:            pf.Path,
		InputSHA256:          pf.SHA256,
		NumInputRows:         len(pf.Table.Rows),
		NumOutputExamples:    len(tr.Examples),
		QualityIssues:        tr.Counters,
		SampleOutputFile:     cfg.SamplePath(),
		ValidationOutputFile: cfg.ValidationPath(),
		MissingColumns:       pf.Missing(),
		GeneratedAt:          time.Now().UTC(),
	}
	if err := WriteReport(log, cfg.ReportPath(), report); err != nil {
		return nil, &PipelineError{Phase: PhaseWrite, Err: err}
	}

	summary := &model.RunSummary{
		RunID:           runID.String(),
		InputFile:       pf.Path,
		InputSHA256:     pf.SHA256,
		RowsRead:        len(pf.Table.Rows),
		ExamplesWritten: len(tr.Examples),
		InspectionSize:  len(wr.InspectionIdx),
		ValidationSize:  len(wr.ValidationIdx),
		Counters:        tr.Counters,
		DatasetFile:     cfg.DatasetPath(),
		SampleFile:      cfg.SamplePath(),
		ValidationFile:  cfg.ValidationPath(),
		ReportFile:      cfg.ReportPath(),
		DurationLoad:    pf.Duration,
		DurationConvert: tr.Duration,
		DurationWrite:   wr.Duration,
	}

	// Phase 4: Label store (optional)
	if deps.Pool != nil {
		log.Info().Msg("storing examples")
		stored, err := Store(ctx, deps.Pool, log, StoreInput{
			RunID:         runID,
			Report:        report,
			Source:        cfg.Source,
			Seed:          cfg.Seed,
			Examples:      tr.Examples,
			InspectionIdx: wr.InspectionIdx,
			ValidationIdx: wr.ValidationIdx,
		})
		if err != nil {
			return nil, &PipelineError{Phase: PhaseStore, Err: err}
		}
		summary.RowsStored = stored
	} else {
		log.Debug().Msg("skipping label store (no database configured)")
	}

	// Phase 5: Publish (optional)
	if deps.S3 != nil {
		pub, err := publish.New(deps.S3, cfg.S3Bucket, cfg.S3Prefix, log)
		if err != nil {
			return nil, &PipelineError{Phase: PhasePublish, Err: err}
		}
		keys, err := pub.Upload(ctx, runID.String(), []string{
			summary.DatasetFile, summary.SampleFile, summary.ValidationFile, summary.ReportFile,
		})
		if err != nil {
			return nil, &PipelineError{Phase: PhasePublish, Err: err}
		}
		summary.ObjectsPublished = len(keys)
	}

	summary.DurationTotal = time.Since(totalStart)
	log.Info().
		Int("rows_read", summary.RowsRead).
		Int("examples", summary.ExamplesWritten).
		Int("inspection", summary.InspectionSize).
		Int("validation", summary.ValidationSize).
		Int64("missing_demographics", tr.Counters.MissingDemographics).
		Int64("phi_found_after_deid", tr.Counters.PHIFoundAfterDeid).
		Int64("empty_instruction", tr.Counters.EmptyInstruction).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("convert pipeline complete")

	return &Result{
		Summary:    summary,
		Report:     report,
		Examples:   tr.Examples,
		Inspection: sample.Pick(tr.Examples, wr.InspectionIdx),
		Validation: sample.Pick(tr.Examples, wr.ValidationIdx),
	}, nil
}
