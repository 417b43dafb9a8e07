package convert

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/clinicprep/internal/config"
	"github.com/gyeh/clinicprep/internal/model"
	"github.com/gyeh/clinicprep/internal/output"
	"github.com/gyeh/clinicprep/internal/sample"
)

// WriteResult holds the drawn subset indices into the example slice.
type WriteResult struct {
	InspectionIdx []int
	ValidationIdx []int
	Duration      time.Duration
}

// Write persists the full dataset, then draws the inspection sample and the
// validation set, in that order, from sampler. It must run after every
// example exists.
func Write(log zerolog.Logger, cfg *config.Config, sampler *sample.Sampler, examples []*model.Example) (*WriteResult, error) {
	start := time.Now()

	if err := output.WriteJSONL(cfg.DatasetPath(), examples); err != nil {
		return nil, fmt.Errorf("write dataset: %w", err)
	}
	log.Info().Str("file", cfg.DatasetPath()).Int("examples", len(examples)).Msg("dataset written")

	inspection := sampler.Draw(len(examples), cfg.Sizes.InspectionSize(len(examples)))
	if err := output.WriteJSONL(cfg.SamplePath(), sample.Pick(examples, inspection)); err != nil {
		return nil, fmt.Errorf("write inspection sample: %w", err)
	}
	log.Info().Str("file", cfg.SamplePath()).Int("examples", len(inspection)).Msg("inspection sample written")

	validation := sampler.Draw(len(examples), cfg.Sizes.ValidationSize(len(examples)))
	if err := output.WriteJSONL(cfg.ValidationPath(), sample.Pick(examples, validation)); err != nil {
		return nil, fmt.Errorf("write validation set: %w", err)
	}
	log.Info().Str("file", cfg.ValidationPath()).Int("examples", len(validation)).Msg("validation set written")

	return &WriteResult{
		InspectionIdx: inspection,
		ValidationIdx: validation,
		Duration:      time.Since(start),
	}, nil
}

// WriteReport writes the final report once all counters are settled.
func WriteReport(log zerolog.Logger, path string, r *model.Report) error {
	if err := output.WriteReport(path, r); err != nil {
		return err
	}
	log.Info().Str("file", path).Msg("quality report written")
	return nil
}
