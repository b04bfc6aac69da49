package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devrpc.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
name = "bench-node"

[frame]
compress = true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Name != "bench-node" {
		t.Fatalf("expected name override, got %q", cfg.Name)
	}
	if !cfg.Frame.Compress {
		t.Fatalf("expected compress enabled")
	}
	def := Default()
	if cfg.Frame.MaxPayloadBytes != def.Frame.MaxPayloadBytes {
		t.Fatalf("expected default payload limit, got %d", cfg.Frame.MaxPayloadBytes)
	}
	if cfg.Pool.Workers != def.Pool.Workers || cfg.Pool.QueueDepth != def.Pool.QueueDepth {
		t.Fatalf("expected default pool sizing, got %+v", cfg.Pool)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
[pool]
workers = -1
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for negative workers")
	}
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	path := writeConfig(t, `name = [unterminated`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
