package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/zoobzio/replica"
)

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String(cfgKeyFormat, defaultFormat, "")
	cmd.Flags().Bool(cfgKeyIsolation, false, "")
	cmd.Flags().String(cfgKeyStrategy, defaultStrategy, "")
	return cmd
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	s, err := loadConfig(newTestCommand(), "")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if s.Format != "text" || s.Isolation || s.Strategy != replica.StrategyDeep {
		t.Errorf("settings = %+v", s)
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "replica.yaml")
	if err := os.WriteFile(path, []byte("format: yaml\nstrategy: structure\nisolation: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REPLICA_STRATEGY", "shallow")

	cmd := newTestCommand()
	if err := cmd.Flags().Set(cfgKeyFormat, "json"); err != nil {
		t.Fatal(err)
	}

	s, err := loadConfig(cmd, path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if s.Format != "json" {
		t.Errorf("Format = %q, flag should win", s.Format)
	}
	if s.Strategy != replica.StrategyShallow {
		t.Errorf("Strategy = %q, environment should beat the file", s.Strategy)
	}
	if !s.Isolation {
		t.Error("Isolation should come from the file")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())

	cmd := newTestCommand()
	_ = cmd.Flags().Set(cfgKeyStrategy, "bogus")
	if _, err := loadConfig(cmd, ""); !errors.Is(err, replica.ErrInvalidStrategy) {
		t.Errorf("error = %v, want ErrInvalidStrategy", err)
	}

	cmd = newTestCommand()
	_ = cmd.Flags().Set(cfgKeyFormat, "xml")
	if _, err := loadConfig(cmd, ""); err == nil {
		t.Error("unknown format should be rejected")
	}

	if _, err := loadConfig(newTestCommand(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("an explicit config file that does not exist should be an error")
	}
}

func TestProbe(t *testing.T) {
	defer replica.Reset()
	if err := replica.Register[record](replica.WithStrategy(replica.StrategyDeep)); err != nil {
		t.Fatal(err)
	}

	report, err := probe(false)
	if err != nil {
		t.Fatalf("probe() error: %v", err)
	}
	if len(report.Rows) != len(samples()) {
		t.Errorf("rows = %d, want %d", len(report.Rows), len(samples()))
	}
	if report.Allocs != len(samples()) {
		t.Errorf("Allocs = %d, want one block per sample", report.Allocs)
	}
	if report.Live != 0 {
		t.Errorf("Live = %d, every probe clone should be released", report.Live)
	}
	for _, row := range report.Rows {
		if row.Error != "" {
			t.Errorf("%s: %s", row.Type, row.Error)
		}
	}
}

func TestProbe_Isolation(t *testing.T) {
	defer replica.Reset()

	report, err := probe(true)
	if err != nil {
		t.Fatalf("probe() error: %v", err)
	}
	refused := 0
	for _, row := range report.Rows {
		if row.Error != "" {
			refused++
		}
	}
	if refused == 0 {
		t.Error("isolation should refuse shallow clones of reference-holding samples")
	}
	if report.Live != 0 {
		t.Errorf("Live = %d, want 0", report.Live)
	}
}

func TestRender(t *testing.T) {
	report := strategiesReport{{Name: "deep", Isolating: true, Note: "n"}}
	for _, format := range validFormats {
		var buf bytes.Buffer
		if err := render(&buf, format, report); err != nil {
			t.Fatalf("render(%s) error: %v", format, err)
		}
		if !strings.Contains(buf.String(), "deep") {
			t.Errorf("render(%s) = %q", format, buf.String())
		}
	}
}
