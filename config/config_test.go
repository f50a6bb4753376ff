package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Assemble.DefaultOrigin != 0x00002000 {
		t.Errorf("expected DefaultOrigin=0x2000, got 0x%X", cfg.Assemble.DefaultOrigin)
	}
	if len(cfg.Assemble.IncludeDirs) != 0 {
		t.Errorf("expected no include directories by default, got %v", cfg.Assemble.IncludeDirs)
	}
	if cfg.Assemble.WarnUnusedExtern {
		t.Error("expected WarnUnusedExtern=false by default")
	}
	if cfg.Output.Format != "g10obj" {
		t.Errorf("expected Format=g10obj, got %s", cfg.Output.Format)
	}
	if cfg.Output.DebugSymbols {
		t.Error("expected DebugSymbols=false by default")
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "g10asm.toml")
	body := `
[assemble]
default_origin = 4096
include_dirs = ["lib", "vendor/include"]
warn_unused_extern = true

[output]
debug_symbols = true
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Assemble.DefaultOrigin != 4096 {
		t.Errorf("expected DefaultOrigin=4096, got %d", cfg.Assemble.DefaultOrigin)
	}
	if len(cfg.Assemble.IncludeDirs) != 2 || cfg.Assemble.IncludeDirs[0] != "lib" {
		t.Errorf("expected include dirs [lib vendor/include], got %v", cfg.Assemble.IncludeDirs)
	}
	if !cfg.Assemble.WarnUnusedExtern {
		t.Error("expected WarnUnusedExtern=true from file")
	}
	// Output.Format was not overridden; it must keep its default.
	if cfg.Output.Format != "g10obj" {
		t.Errorf("expected untouched default Format=g10obj, got %s", cfg.Output.Format)
	}
	if !cfg.Output.DebugSymbols {
		t.Error("expected DebugSymbols=true from file")
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "nonexistent.toml")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error loading a nonexistent config file")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "invalid.toml")
	invalid := `
[assemble]
default_origin = "not a number"
`
	if err := os.WriteFile(path, []byte(invalid), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected an error loading invalid TOML")
	}
}
