package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/clinicprep/internal/convert"
	"github.com/gyeh/clinicprep/internal/db"
	"github.com/gyeh/clinicprep/internal/exitcode"
	"github.com/gyeh/clinicprep/internal/logging"
	"github.com/gyeh/clinicprep/internal/publish"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert an encounter table into the instruction dataset and review samples",
	RunE:  runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.StringVar(&cfg.InputPath, "input", "", "Path to CSV or Parquet encounter table (required)")
	f.StringVar(&cfg.OutDir, "out-dir", cfg.OutDir, "Directory for dataset, samples and quality report")
	f.StringVar(&cfg.Source, "source", cfg.Source, "Source tag stamped on every example")
	f.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Sampling seed")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "Concurrent transform workers")
	f.BoolVar(&cfg.Store, "store", false, "COPY examples into the label store (needs --dsn)")
	f.BoolVar(&cfg.Preview, "preview", false, "Print the inspection sample for manual review")
	f.StringVar(&cfg.S3Bucket, "s3-bucket", "", "Upload artifacts to this S3 bucket")
	f.StringVar(&cfg.S3Prefix, "s3-prefix", cfg.S3Prefix, "Key prefix for uploaded artifacts")
	f.StringVar(&cfg.AWSRegion, "aws-region", "", "AWS region override for uploads")
	_ = convertCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	var deps convert.Deps
	if cfg.Store {
		pool, err := db.NewPool(ctx, cfg.DSN)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			os.Exit(exitcode.DBConnError)
		}
		defer pool.Close()
		deps.Pool = pool
	}
	if cfg.S3Bucket != "" {
		client, err := publish.NewS3Client(ctx, cfg.AWSRegion)
		if err != nil {
			log.Error().Err(err).Msg("aws config failed")
			os.Exit(exitcode.PublishError)
		}
		deps.S3 = client
	}

	res, err := convert.Run(ctx, deps, log, &cfg)
	if err != nil {
		var pe *convert.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("convert failed")
			os.Exit(phaseExitCode(pe.Phase))
		}
		log.Error().Err(err).Msg("convert failed")
		os.Exit(exitcode.TransformError)
	}

	if cfg.Preview {
		convert.Preview(os.Stdout, res.Inspection)
	}

	s := res.Summary
	fmt.Printf("Convert complete: %d rows → %d examples (inspection %d, validation %d) in %.1fs\n",
		s.RowsRead, s.ExamplesWritten, s.InspectionSize, s.ValidationSize, s.DurationTotal.Seconds())
	fmt.Printf("Quality: missing_demographics=%d phi_found_after_deid=%d empty_instruction=%d\n",
		s.Counters.MissingDemographics, s.Counters.PHIFoundAfterDeid, s.Counters.EmptyInstruction)
	fmt.Printf("Report: %s\n", s.ReportFile)
	if cfg.Store {
		fmt.Printf("Label store: %d rows\n", s.RowsStored)
	}
	if s.ObjectsPublished > 0 {
		fmt.Printf("Published %d objects to s3://%s/%s/%s/\n", s.ObjectsPublished, cfg.S3Bucket, cfg.S3Prefix, s.RunID)
	}
	return nil
}

func phaseExitCode(phase string) int {
	switch phase {
	case convert.PhasePreflight:
		return exitcode.InputError
	case convert.PhaseWrite:
		return exitcode.WriteError
	case convert.PhaseStore:
		return exitcode.StoreError
	case convert.PhasePublish:
		return exitcode.PublishError
	default:
		return exitcode.TransformError
	}
}
