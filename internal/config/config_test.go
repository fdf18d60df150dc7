package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenNoFilesExist(t *testing.T) {
	t.Setenv(DriverHomeEnv, t.TempDir())
	resetCache()

	cfg, err := Load("", 4)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NumParallelJobs != 4 {
		t.Errorf("NumParallelJobs = %d, want 4", cfg.NumParallelJobs)
	}
	if cfg.SaveTemps != DefaultSaveTemps {
		t.Errorf("SaveTemps = %v, want %v", cfg.SaveTemps, DefaultSaveTemps)
	}
	if cfg.FilelistThreshold != DefaultFilelistThreshold {
		t.Errorf("FilelistThreshold = %d, want %d", cfg.FilelistThreshold, DefaultFilelistThreshold)
	}
}

func TestGlobalConfigOverridesDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv(DriverHomeEnv, home)
	resetCache()

	n := 8
	if err := SaveGlobal(&GlobalConfig{NumParallelJobs: &n}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("", 4)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.NumParallelJobs != 8 {
		t.Errorf("NumParallelJobs = %d, want 8 (from global config)", cfg.NumParallelJobs)
	}
}

func TestLocalConfigOverridesGlobal(t *testing.T) {
	home := t.TempDir()
	t.Setenv(DriverHomeEnv, home)
	resetCache()

	globalN := 8
	if err := SaveGlobal(&GlobalConfig{NumParallelJobs: &globalN}); err != nil {
		t.Fatal(err)
	}

	project := t.TempDir()
	localN := 2
	local := LocalConfig{NumParallelJobs: &localN}
	writeLocalConfig(t, project, local)

	cfg, err := Load(project, 4)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.NumParallelJobs != 2 {
		t.Errorf("NumParallelJobs = %d, want 2 (from local config)", cfg.NumParallelJobs)
	}
}

func TestEnvOverridesEverything(t *testing.T) {
	home := t.TempDir()
	t.Setenv(DriverHomeEnv, home)
	resetCache()

	globalN := 8
	if err := SaveGlobal(&GlobalConfig{NumParallelJobs: &globalN}); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SWIFT_DRIVER_NUM_PARALLEL_JOBS", "16")

	cfg, err := Load("", 4)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.NumParallelJobs != 16 {
		t.Errorf("NumParallelJobs = %d, want 16 (from env override)", cfg.NumParallelJobs)
	}
}

func TestParallelJobsClamped(t *testing.T) {
	t.Setenv(DriverHomeEnv, t.TempDir())
	resetCache()
	t.Setenv("SWIFT_DRIVER_NUM_PARALLEL_JOBS", "-5")

	cfg, err := Load("", 4)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.NumParallelJobs != minParallelJobs {
		t.Errorf("NumParallelJobs = %d, want clamped to %d", cfg.NumParallelJobs, minParallelJobs)
	}
}

func writeLocalConfig(t *testing.T, dir string, cfg LocalConfig) {
	t.Helper()
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, localConfigFile), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func resetCache() {
	cachedDriverDirMu.Lock()
	cachedDriverDir = ""
	cachedDriverDirMu.Unlock()
}
