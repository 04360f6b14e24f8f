package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if len(cfg.Meshes.SearchPaths) != 1 || cfg.Meshes.SearchPaths[0] != "." {
		t.Errorf("expected search paths [.], got %v", cfg.Meshes.SearchPaths)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meshtool.yaml")
	content := `meshes:
  search_paths:
    - /data/meshes
    - .
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Meshes.SearchPaths) != 2 || cfg.Meshes.SearchPaths[0] != "/data/meshes" {
		t.Errorf("unexpected search paths %v", cfg.Meshes.SearchPaths)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level debug, got %s", cfg.Logging.Level)
	}
	// Unset fields keep their defaults.
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected default log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for explicit missing config path")
	}
}

func TestLoadNoFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load with no path failed: %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected defaults, got level %s", cfg.Logging.Level)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meshtool.yaml")
	if err := os.WriteFile(path, []byte("meshes: ["), 0o644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestResolveArchive(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "scene.serialized")
	if err := os.WriteFile(archive, []byte{0}, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg := Default()
	cfg.Meshes.SearchPaths = []string{dir}

	if got := cfg.ResolveArchive("scene.serialized"); got != archive {
		t.Errorf("expected %s, got %s", archive, got)
	}
	// Paths with separators pass through untouched.
	if got := cfg.ResolveArchive("./other.serialized"); got != "./other.serialized" {
		t.Errorf("expected pass-through, got %s", got)
	}
	// Unresolvable names come back unchanged.
	if got := cfg.ResolveArchive("missing.serialized"); got != "missing.serialized" {
		t.Errorf("expected unchanged name, got %s", got)
	}
}
