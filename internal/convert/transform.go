package convert

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gyeh/clinicprep/internal/audit"
	"github.com/gyeh/clinicprep/internal/model"
	"github.com/gyeh/clinicprep/internal/normalize"
	"github.com/gyeh/clinicprep/internal/prompt"
)

const progressEvery = 1000

// Options configures row conversion.
type Options struct {
	Redactor normalize.TextRedactor
	Template prompt.Template
	Source   string
	// Workers > 1 converts disjoint row ranges concurrently. Output order
	// and counters are identical to a sequential run.
	Workers int
}

// TransformResult holds the converted examples in input order and the
// merged quality counters.
type TransformResult struct {
	Examples []*model.Example
	Counters model.QualityCounters
	Duration time.Duration
}

// Transform normalizes, redacts, composes, assembles and audits every row.
func Transform(ctx context.Context, log zerolog.Logger, rows []model.RawRow, opts Options) (*TransformResult, error) {
	start := time.Now()
	examples := make([]*model.Example, len(rows))

	workers := max(1, min(opts.Workers, len(rows)))
	chunk := 0
	if len(rows) > 0 {
		chunk = (len(rows) + workers - 1) / workers
	}
	auditors := make([]*audit.Auditor, workers)

	convertRange := func(ctx context.Context, w, lo, hi int) error {
		a := audit.New()
		auditors[w] = a
		for i := lo; i < hi; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			ex, err := convertRow(&rows[i], a, opts)
			if err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
			examples[i] = ex
			if workers == 1 && (i+1)%progressEvery == 0 {
				log.Debug().Int("rows_done", i+1).Int("rows_total", len(rows)).Msg("transform progress")
			}
		}
		return nil
	}

	if workers > 1 {
		g, gCtx := errgroup.WithContext(ctx)
		for w := 0; w < workers; w++ {
			lo := w * chunk
			hi := min(lo+chunk, len(rows))
			g.Go(func() error {
				return convertRange(gCtx, w, lo, hi)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else if err := convertRange(ctx, 0, 0, len(rows)); err != nil {
		return nil, err
	}

	total := audit.New()
	for _, a := range auditors {
		if a != nil {
			total.Merge(a)
		}
	}

	dur := time.Since(start)
	log.Info().
		Int("examples", len(examples)).
		Str("duration", dur.String()).
		Msg("transform complete")

	return &TransformResult{
		Examples: examples,
		Counters: total.Counters(),
		Duration: dur,
	}, nil
}

func convertRow(raw *model.RawRow, a *audit.Auditor, opts Options) (*model.Example, error) {
	n := normalize.NormalizeRow(raw, opts.Redactor)
	ex := normalize.ToExample(n, opts.Source, opts.Template)
	if err := a.Observe(raw, ex, opts.Template.Body(n)); err != nil {
		return nil, err
	}
	return ex, nil
}
