// internal/cli/root_test.go
package modeleval

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/mwiater/modeleval/internal/appconfig"
)

func TestEnsureConfigLoadedMissingFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.SetConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err := ensureConfigLoaded(); err != nil {
		t.Fatalf("missing config file should fall back to defaults: %v", err)
	}
	if viper.GetBool("debug") {
		t.Fatal("expected debug to default to false")
	}
}

func TestEnsureConfigLoadedReadsFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `debug: true
resultsDir: ` + filepath.Join(dir, "out") + `
providers:
  - name: mock-a
    type: mock
    model: mock-model
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	viper.SetConfigFile(path)
	if err := ensureConfigLoaded(); err != nil {
		t.Fatalf("ensureConfigLoaded error: %v", err)
	}
	if !viper.GetBool("debug") {
		t.Fatal("expected debug true from file")
	}

	var cfg appconfig.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	if len(cfg.Providers) != 1 || cfg.Providers[0].Name != "mock-a" {
		t.Fatalf("unexpected providers: %+v", cfg.Providers)
	}
	if cfg.Providers[0].Type != appconfig.TypeMock {
		t.Fatalf("unexpected provider type %q", cfg.Providers[0].Type)
	}
}

func TestEnsureConfigLoadedMalformedFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("debug: ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	viper.SetConfigFile(path)
	if err := ensureConfigLoaded(); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

func TestSetVersionInfo(t *testing.T) {
	defer func() {
		appVersion, appCommit, appDate = "dev", "none", "unknown"
	}()

	SetVersionInfo("1.2.3", "abc123", "2025-01-01")
	if appVersion != "1.2.3" || appCommit != "abc123" || appDate != "2025-01-01" {
		t.Fatalf("version info not applied: %s %s %s", appVersion, appCommit, appDate)
	}
}
