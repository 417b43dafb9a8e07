package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gyeh/clinicprep/internal/convert"
	"github.com/gyeh/clinicprep/internal/exitcode"
	"github.com/gyeh/clinicprep/internal/logging"
	"github.com/gyeh/clinicprep/internal/prompt"
	"github.com/gyeh/clinicprep/internal/redact"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run: load, check columns and project counters and sample sizes (no writes)",
	RunE:  runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&cfg.InputPath, "input", "", "Path to CSV or Parquet encounter table (required)")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "Concurrent transform workers")
	_ = planCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pf, err := convert.Preflight(log, cfg.InputPath)
	if err != nil {
		log.Error().Err(err).Msg("preflight failed")
		os.Exit(exitcode.InputError)
	}

	tr, err := convert.Transform(ctx, log, pf.Table.Rows, convert.Options{
		Redactor: redact.Default(cfg.AllowNames),
		Template: prompt.Default,
		Source:   cfg.Source,
		Workers:  cfg.Workers,
	})
	if err != nil {
		log.Error().Err(err).Msg("transform failed")
		os.Exit(exitcode.TransformError)
	}

	n := len(tr.Examples)
	missing := "none"
	if m := pf.Missing(); len(m) > 0 {
		missing = strings.Join(m, ", ")
	}

	fmt.Println("=== clinicprep plan ===")
	fmt.Printf("Input:      %s (%s)\n", pf.Path, pf.Table.Format)
	fmt.Printf("SHA-256:    %s\n", pf.SHA256)
	fmt.Printf("Rows:       %d\n", len(pf.Table.Rows))
	fmt.Printf("Missing:    %s\n", missing)
	fmt.Println()
	fmt.Println("Quality counters (projected):")
	fmt.Printf("  %-22s %d\n", "missing_demographics", tr.Counters.MissingDemographics)
	fmt.Printf("  %-22s %d\n", "phi_found_after_deid", tr.Counters.PHIFoundAfterDeid)
	fmt.Printf("  %-22s %d\n", "empty_instruction", tr.Counters.EmptyInstruction)
	fmt.Println()
	fmt.Printf("Examples:   %d\n", n)
	fmt.Printf("Inspection: %d (seed %d)\n", cfg.Sizes.InspectionSize(n), cfg.Seed)
	fmt.Printf("Validation: %d\n", cfg.Sizes.ValidationSize(n))
	fmt.Println("Nothing written.")

	return nil
}
