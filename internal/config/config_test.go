package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "TABLE_PREFIX", "MEDIA_URL", "MEDIA_ROOT", "LOG_MAX_FILES", "PLACEMENT_STRATEGY"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Environment != "dev" {
		t.Errorf("Environment = %q, want dev", cfg.Environment)
	}
	if cfg.TablePrefix != "dev_" {
		t.Errorf("TablePrefix = %q, want dev_", cfg.TablePrefix)
	}
	if cfg.MediaURL != "/media/" {
		t.Errorf("MediaURL = %q, want /media/", cfg.MediaURL)
	}
	if cfg.MediaRoot != "./media" {
		t.Errorf("MediaRoot = %q, want ./media", cfg.MediaRoot)
	}
	if cfg.LogMaxFiles != 10 {
		t.Errorf("LogMaxFiles = %d, want 10", cfg.LogMaxFiles)
	}
	if cfg.PlacementStrategy != "grid" {
		t.Errorf("PlacementStrategy = %q, want grid", cfg.PlacementStrategy)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("TABLE_PREFIX", "")
	t.Setenv("MEDIA_URL", "https://cdn.example.com/files")
	t.Setenv("LOG_MAX_FILES", "not-a-number")

	cfg := Load()

	if cfg.TablePrefix != "prod_" {
		t.Errorf("TablePrefix = %q, want prod_", cfg.TablePrefix)
	}
	if cfg.MediaURL != "https://cdn.example.com/files/" {
		t.Errorf("MediaURL = %q, want trailing slash added", cfg.MediaURL)
	}
	if cfg.LogMaxFiles != 10 {
		t.Errorf("LogMaxFiles = %d, want fallback 10", cfg.LogMaxFiles)
	}
}

func TestCORSOriginList(t *testing.T) {
	cfg := &Config{CORSOrigins: "http://a.test, http://b.test,,"}
	got := cfg.CORSOriginList()
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Errorf("CORSOriginList() = %v", got)
	}
}

func TestSetupLogFile_PrunesOldFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"server-2020-01-01T00-00-00.log", "server-2020-01-02T00-00-00.log", "server-2020-01-03T00-00-00.log"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	f, err := SetupLogFile(dir, 2)
	if err != nil {
		t.Fatalf("SetupLogFile() error = %v", err)
	}
	defer f.Close()

	files, _ := filepath.Glob(filepath.Join(dir, "server-*.log"))
	if len(files) != 2 {
		t.Fatalf("got %d log files, want 2: %v", len(files), files)
	}
	if _, err := os.Stat(filepath.Join(dir, "server-2020-01-01T00-00-00.log")); !os.IsNotExist(err) {
		t.Error("oldest log file should have been removed")
	}
}
