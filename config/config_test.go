package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Output.Extension != ".rom" {
		t.Errorf("Extension = %q, want .rom", cfg.Output.Extension)
	}
	if cfg.Assembler.MaxIterations != 10 {
		t.Errorf("MaxIterations = %d, want 10", cfg.Assembler.MaxIterations)
	}
	if cfg.Assembler.Verbose {
		t.Error("Verbose should default off")
	}
	if cfg.Browser.Enabled {
		t.Error("Browser should default off")
	}
	if cfg.Browser.BytesPerLine != 16 {
		t.Errorf("BytesPerLine = %d, want 16", cfg.Browser.BytesPerLine)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file should yield defaults, got %v", err)
	}
	if cfg.Output.Extension != ".rom" {
		t.Errorf("Extension = %q", cfg.Output.Extension)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Assembler.Verbose = true
	cfg.Output.Extension = ".bin"
	cfg.Browser.BytesPerLine = 8
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if !loaded.Assembler.Verbose {
		t.Error("Verbose lost in round trip")
	}
	if loaded.Output.Extension != ".bin" {
		t.Errorf("Extension = %q, want .bin", loaded.Output.Extension)
	}
	if loaded.Browser.BytesPerLine != 8 {
		t.Errorf("BytesPerLine = %d, want 8", loaded.Browser.BytesPerLine)
	}
}

func TestLoadFromInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("not [valid\ttoml"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("invalid TOML should fail to load")
	}
}
