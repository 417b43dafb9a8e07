package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/clinicprep/internal/config"
)

var cfg = config.Defaults()

var rootCmd = &cobra.Command{
	Use:   "clinicprep",
	Short: "Clinical encounter table → de-identified instruction dataset",
	Long: "Reads a tabular export of clinical encounters, redacts identifier-shaped text, " +
		"composes instruction/response examples, audits residual risk and draws " +
		"deterministic review samples.",
	PersistentPreRunE: loadConfigFile,
	SilenceUsage:      true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("CLINICPREP_DB_URL"), "Postgres connection string for the label store (or set CLINICPREP_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	pf.StringVar(&cfg.ConfigPath, "config", "", "Optional YAML config file")
}

// loadConfigFile merges the YAML file into cfg. Flags set on the command
// line win over file values.
func loadConfigFile(cmd *cobra.Command, args []string) error {
	if cfg.ConfigPath == "" {
		return nil
	}
	flagged := cfg
	if err := cfg.LoadFromFile(cfg.ConfigPath); err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("source") {
		cfg.Source = flagged.Source
	}
	if f.Changed("seed") {
		cfg.Seed = flagged.Seed
	}
	if f.Changed("s3-bucket") {
		cfg.S3Bucket = flagged.S3Bucket
	}
	if f.Changed("s3-prefix") {
		cfg.S3Prefix = flagged.S3Prefix
	}
	return nil
}
