package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")

	c, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if c.Schema != "flight" || c.ScoreColumn != "satisfaction_score" || c.ClusterK != 3 || c.ClusterSeed != 42 {
		t.Fatalf("unexpected defaults: %+v", c)
	}

	c.Schema = "survey"
	c.MaxScore = 10
	if err := Save(c, cfgFile); err != nil {
		t.Fatalf("save: %v", err)
	}
	t.Setenv("PAXSAT_CLUSTER_K", "5")

	c2, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if c2.Schema != "survey" || c2.MaxScore != 10 {
		t.Fatalf("file values not applied: %+v", c2)
	}
	if c2.ClusterK != 5 {
		t.Fatalf("env override not applied: cluster_k=%d", c2.ClusterK)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgFile, []byte("min_score: 6\nmax_score: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(cfgFile); err == nil {
		t.Fatalf("expected error for inverted score range")
	}

	c := &Global{Delimiter: ";", LogLevel: "debug", MaxScore: 5}
	if err := c.Check(); err != nil {
		t.Fatalf("check: %v", err)
	}
	if c.DelimiterRune() != ';' {
		t.Fatalf("expected ';', got %q", c.DelimiterRune())
	}
	c.Delimiter = ";;"
	if err := c.Check(); err == nil {
		t.Fatalf("expected error for multi-character delimiter")
	}
}
