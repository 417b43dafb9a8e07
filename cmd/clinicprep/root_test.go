package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gyeh/clinicprep/internal/config"
	"github.com/gyeh/clinicprep/internal/convert"
	"github.com/gyeh/clinicprep/internal/exitcode"
)

func TestPhaseExitCode(t *testing.T) {
	tests := []struct {
		phase string
		want  int
	}{
		{convert.PhasePreflight, exitcode.InputError},
		{convert.PhaseTransform, exitcode.TransformError},
		{convert.PhaseWrite, exitcode.WriteError},
		{convert.PhaseStore, exitcode.StoreError},
		{convert.PhasePublish, exitcode.PublishError},
		{"unknown", exitcode.TransformError},
	}
	for _, tt := range tests {
		if got := phaseExitCode(tt.phase); got != tt.want {
			t.Errorf("phaseExitCode(%q) = %d, want %d", tt.phase, got, tt.want)
		}
	}
}

func TestLoadConfigFile_FlagsWin(t *testing.T) {
	saved := cfg
	t.Cleanup(func() { cfg = saved })
	cfg = config.Defaults()

	path := filepath.Join(t.TempDir(), "clinicprep.yaml")
	yaml := "source: ward-7\nseed: 7\nallow_names: [Tylenol]\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.ConfigPath = path

	f := convertCmd.Flags()
	if err := f.Set("seed", "9"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Lookup("seed").Changed = false })

	if err := loadConfigFile(convertCmd, nil); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}
	if cfg.Seed != 9 {
		t.Errorf("seed = %d, want flag value 9", cfg.Seed)
	}
	if cfg.Source != "ward-7" {
		t.Errorf("source = %q, want file value", cfg.Source)
	}
	if len(cfg.AllowNames) != 1 || cfg.AllowNames[0] != "Tylenol" {
		t.Errorf("allow names = %v", cfg.AllowNames)
	}
}

func TestLoadConfigFile_NoFile(t *testing.T) {
	saved := cfg
	t.Cleanup(func() { cfg = saved })
	cfg = config.Defaults()

	if err := loadConfigFile(planCmd, nil); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}
	if cfg.Seed != config.Defaults().Seed {
		t.Errorf("seed changed without a config file")
	}
}
