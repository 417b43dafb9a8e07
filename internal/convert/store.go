package convert

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/clinicprep/internal/db"
	"github.com/gyeh/clinicprep/internal/model"
	embedsql "github.com/gyeh/clinicprep/internal/sql"
)

const storeBatchSize = 1024

// StoreInput is what the label store needs from a finished run.
type StoreInput struct {
	RunID         uuid.UUID
	Report        *model.Report
	Source        string
	Seed          uint64
	Examples      []*model.Example
	InspectionIdx []int
	ValidationIdx []int
}

// Store registers the run, COPY-loads every example with its subset flags
// into prep.examples, and records the final counters.
func Store(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, in StoreInput) (int64, error) {
	start := time.Now()

	if _, err := pool.Exec(ctx, embedsql.RegisterRun,
		in.RunID, in.Report.InputFile, in.Report.InputSHA256, in.Source, int64(in.Seed),
	); err != nil {
		return 0, fmt.Errorf("register run: %w", err)
	}

	inInspection := indexSet(in.InspectionIdx)
	inValidation := indexSet(in.ValidationIdx)

	ch := make(chan *model.StoredExample, storeBatchSize)
	go func() {
		defer close(ch)
		for i, ex := range in.Examples {
			row := &model.StoredExample{
				RunID:        in.RunID,
				Seq:          i + 1,
				Example:      ex,
				InInspection: inInspection[i],
				InValidation: inValidation[i],
			}
			select {
			case ch <- row:
			case <-ctx.Done():
				return
			}
		}
	}()

	source := db.NewChannelSource(ch)
	stored, err := pool.CopyFrom(ctx,
		pgx.Identifier{"prep", "examples"},
		model.StoredExampleColumns(),
		source,
	)
	if err != nil {
		// Drain so the producer goroutine can exit.
		for range ch {
		}
		abandonRun(ctx, pool, log, in.RunID)
		return 0, fmt.Errorf("copy examples: %w", err)
	}

	c := in.Report.QualityIssues
	if _, err := pool.Exec(ctx, embedsql.FinishRun,
		in.RunID, in.Report.NumInputRows, in.Report.NumOutputExamples,
		c.MissingDemographics, c.PHIFoundAfterDeid, c.EmptyInstruction,
	); err != nil {
		abandonRun(ctx, pool, log, in.RunID)
		return 0, fmt.Errorf("finish run: %w", err)
	}

	dur := time.Since(start)
	log.Info().
		Int64("rows_stored", stored).
		Str("duration", dur.String()).
		Float64("rows_per_sec", float64(stored)/dur.Seconds()).
		Msg("label store load complete")

	return stored, nil
}

// UpdateRunStatus sets prep.runs.status for a run.
func UpdateRunStatus(ctx context.Context, pool *pgxpool.Pool, runID uuid.UUID, status string) error {
	_, err := pool.Exec(ctx, embedsql.UpdateRunStatus, runID, status)
	return err
}

// abandonRun removes whatever a failed load left in prep.examples and marks
// the run failed. It runs even when ctx is already canceled.
func abandonRun(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, runID uuid.UUID) {
	ctx = context.WithoutCancel(ctx)
	if n, err := DeleteRunExamples(ctx, pool, runID); err != nil {
		log.Warn().Err(err).Msg("failed to delete partial examples")
	} else if n > 0 {
		log.Warn().Int64("rows", n).Msg("deleted examples of failed run")
	}
	if err := UpdateRunStatus(ctx, pool, runID, "failed"); err != nil {
		log.Warn().Err(err).Msg("failed to mark run failed")
	}
}

// DeleteRunExamples removes a run's examples. Store calls it when a load
// fails after the COPY.
func DeleteRunExamples(ctx context.Context, pool *pgxpool.Pool, runID uuid.UUID) (int64, error) {
	tag, err := pool.Exec(ctx, embedsql.DeleteRunExamples, runID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func indexSet(idx []int) map[int]bool {
	set := make(map[int]bool, len(idx))
	for _, i := range idx {
		set[i] = true
	}
	return set
}
