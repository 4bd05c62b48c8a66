package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Dev.Port != DefaultPort {
		t.Errorf("Dev.Port = %d, want %d", cfg.Dev.Port, DefaultPort)
	}
	if cfg.Dev.Host != DefaultHost {
		t.Errorf("Dev.Host = %q, want %q", cfg.Dev.Host, DefaultHost)
	}
	if cfg.Routes.Dir != DefaultRoutesDir {
		t.Errorf("Routes.Dir = %q, want %q", cfg.Routes.Dir, DefaultRoutesDir)
	}
	if cfg.Output != DefaultManifestOutput {
		t.Errorf("Output = %q, want %q", cfg.Output, DefaultManifestOutput)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if err == nil {
		t.Error("Expected error for missing config")
	}

	// Create a config file
	configPath := filepath.Join(tmpDir, ConfigFileName)
	configJSON := `{
  "name": "demo",
  "routes": {
    "dir": "src/routes",
    "extensions": [".tsx"]
  },
  "dev": {
    "port": 8080,
    "host": "0.0.0.0"
  },
  "publish": {
    "bucket": "demo-manifests",
    "region": "eu-west-1"
  }
}
`
	if err := os.WriteFile(configPath, []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	// Load the config
	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Name != "demo" {
		t.Errorf("Name = %q, want demo", cfg.Name)
	}
	if cfg.Dev.Port != 8080 {
		t.Errorf("Dev.Port = %d, want %d", cfg.Dev.Port, 8080)
	}
	if cfg.Dev.Host != "0.0.0.0" {
		t.Errorf("Dev.Host = %q, want %q", cfg.Dev.Host, "0.0.0.0")
	}
	if cfg.Routes.Dir != "src/routes" {
		t.Errorf("Routes.Dir = %q, want %q", cfg.Routes.Dir, "src/routes")
	}
	if len(cfg.Routes.Extensions) != 1 || cfg.Routes.Extensions[0] != ".tsx" {
		t.Errorf("Routes.Extensions = %v", cfg.Routes.Extensions)
	}
	if cfg.Publish.Bucket != "demo-manifests" {
		t.Errorf("Publish.Bucket = %q", cfg.Publish.Bucket)
	}
	// Defaults fill in what the file omitted.
	if cfg.Routes.Ignore == nil {
		t.Error("Routes.Ignore should default")
	}
	if cfg.Dev.DebounceMs != 100 {
		t.Errorf("Dev.DebounceMs = %d, want 100", cfg.Dev.DebounceMs)
	}
	if cfg.Publish.Prefix != "manifests" {
		t.Errorf("Publish.Prefix = %q, want manifests", cfg.Publish.Prefix)
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	// Write invalid JSON
	if err := os.WriteFile(configPath, []byte("not valid json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(configPath)
	if err == nil {
		t.Error("Expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "E101") {
		t.Errorf("Expected E101 error, got: %v", err)
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	cfg.Dev.Port = 9000
	cfg.Name = "demo"

	// Save should fail without configPath set
	err := cfg.Save()
	if err == nil {
		t.Error("Expected error when saving without path")
	}

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	loaded, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.Dev.Port != 9000 {
		t.Errorf("Dev.Port = %d, want 9000", loaded.Dev.Port)
	}
	if loaded.Name != "demo" {
		t.Errorf("Name = %q, want demo", loaded.Name)
	}

	// Save now works because SaveTo recorded the path.
	cfg.Dev.Port = 9001
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := New()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	cfg.Dev.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for out-of-range port")
	}
}

func TestDevAddress(t *testing.T) {
	cfg := New()
	cfg.Dev.Host = "127.0.0.1"
	cfg.Dev.Port = 4321

	if got := cfg.DevAddress(); got != "127.0.0.1:4321" {
		t.Errorf("DevAddress() = %q", got)
	}
	if got := cfg.DevURL(); got != "http://127.0.0.1:4321" {
		t.Errorf("DevURL() = %q", got)
	}
}

func TestRoutesPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatal(err)
	}

	want := filepath.Join(tmpDir, "app/routes")
	if got := cfg.RoutesPath(); got != want {
		t.Errorf("RoutesPath() = %q, want %q", got, want)
	}

	cfg.Routes.Dir = "/abs/routes"
	if got := cfg.RoutesPath(); got != "/abs/routes" {
		t.Errorf("RoutesPath() = %q, want /abs/routes", got)
	}
}

func TestFindProjectRoot(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	root, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot: %v", err)
	}
	if root != tmpDir {
		t.Errorf("FindProjectRoot = %q, want %q", root, tmpDir)
	}
}

func TestWalker(t *testing.T) {
	cfg := New()
	cfg.Routes.Extensions = []string{".mdx"}

	w := cfg.Walker()
	if len(w.Extensions) != 1 || w.Extensions[0] != ".mdx" {
		t.Errorf("Walker.Extensions = %v", w.Extensions)
	}
}
