// Package config persists driver tunables across invocations: default
// parallelism, save-temps, response-file forcing, and filelist
// thresholds. Global and local JSON configs are merged, with env-var
// overrides taking final precedence.
//
// This layer is distinct from the incremental build record (internal/
// incremental): that package tracks per-file build state, this one
// tracks operator preferences that should survive across runs.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

const (
	driverDirName    = ".swift-driver"
	globalConfigFile = "config.json"
	localConfigFile  = "driver.json"

	// DriverHomeEnv overrides ~/.swift-driver for testing.
	DriverHomeEnv = "SWIFT_DRIVER_HOME"
)

var (
	cachedDriverDir   string
	cachedDriverDirMu sync.RWMutex
)

// GlobalConfig is the user's global settings (~/.swift-driver/config.json).
type GlobalConfig struct {
	NumParallelJobs   *int  `json:"num_parallel_jobs,omitempty"`
	SaveTemps         *bool `json:"save_temps,omitempty"`
	ForceResponseFiles *bool `json:"force_response_files,omitempty"`
	FilelistThreshold *int  `json:"filelist_threshold,omitempty"`
}

// LocalConfig is per-project settings (driver.json in the project root),
// overriding global config for that project only.
type LocalConfig struct {
	NumParallelJobs   *int  `json:"num_parallel_jobs,omitempty"`
	SaveTemps         *bool `json:"save_temps,omitempty"`
	FilelistThreshold *int  `json:"filelist_threshold,omitempty"`
}

// Config is the merged, resolved set of tunables used by the planner,
// args resolver, and executor. Values resolve env var > local config >
// global config > defaults.
type Config struct {
	NumParallelJobs    int
	SaveTemps          bool
	ForceResponseFiles bool
	FilelistThreshold  int
}

const (
	// DefaultNumParallelJobs is only the floor; callers pass the
	// detected core count in so the package never imports runtime and
	// stays test-friendly.
	DefaultNumParallelJobs = 1
	DefaultSaveTemps          = false
	DefaultForceResponseFiles = false
	DefaultFilelistThreshold  = 128

	minParallelJobs = 1
	maxParallelJobs = 1024
)

// DriverDir returns the global config directory path (~/.swift-driver).
// SWIFT_DRIVER_HOME overrides it. Results are cached.
func DriverDir() (string, error) {
	if override := os.Getenv(DriverHomeEnv); override != "" {
		return filepath.Clean(override), nil
	}

	cachedDriverDirMu.RLock()
	cached := cachedDriverDir
	cachedDriverDirMu.RUnlock()
	if cached != "" {
		return cached, nil
	}

	cachedDriverDirMu.Lock()
	defer cachedDriverDirMu.Unlock()
	if cachedDriverDir != "" {
		return cachedDriverDir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolving home directory: %w", err)
	}
	cachedDriverDir = filepath.Join(home, driverDirName)
	return cachedDriverDir, nil
}

// Load reads global + local config, merges them with defaultParallelJobs
// as the base default, applies SWIFT_DRIVER_* environment overrides, and
// returns the resolved Config. projectRoot may be "" for global-only
// resolution (e.g. the -frontend passthrough mode, which has no project).
func Load(projectRoot string, defaultParallelJobs int) (*Config, error) {
	global, err := loadGlobal()
	if err != nil {
		return nil, fmt.Errorf("config: global: %w", err)
	}

	var local *LocalConfig
	if projectRoot != "" {
		local, err = loadLocal(projectRoot)
		if err != nil {
			return nil, fmt.Errorf("config: local: %w", err)
		}
	}

	return merge(global, local, defaultParallelJobs), nil
}

func merge(global *GlobalConfig, local *LocalConfig, defaultParallelJobs int) *Config {
	if defaultParallelJobs <= 0 {
		defaultParallelJobs = DefaultNumParallelJobs
	}

	c := &Config{
		NumParallelJobs:    defaultParallelJobs,
		SaveTemps:          DefaultSaveTemps,
		ForceResponseFiles: DefaultForceResponseFiles,
		FilelistThreshold:  DefaultFilelistThreshold,
	}

	if global != nil {
		if global.NumParallelJobs != nil {
			c.NumParallelJobs = clampParallelJobs(*global.NumParallelJobs)
		}
		if global.SaveTemps != nil {
			c.SaveTemps = *global.SaveTemps
		}
		if global.ForceResponseFiles != nil {
			c.ForceResponseFiles = *global.ForceResponseFiles
		}
		if global.FilelistThreshold != nil {
			c.FilelistThreshold = *global.FilelistThreshold
		}
	}

	if local != nil {
		if local.NumParallelJobs != nil {
			c.NumParallelJobs = clampParallelJobs(*local.NumParallelJobs)
		}
		if local.SaveTemps != nil {
			c.SaveTemps = *local.SaveTemps
		}
		if local.FilelistThreshold != nil {
			c.FilelistThreshold = *local.FilelistThreshold
		}
	}

	applyEnvOverrides(c)
	return c
}

// applyEnvOverrides reads the SWIFT_DRIVER_* environment variables,
// which always win over persisted config.
func applyEnvOverrides(c *Config) {
	if v := os.Getenv("SWIFT_DRIVER_NUM_PARALLEL_JOBS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.NumParallelJobs = clampParallelJobs(n)
		}
	}
	if v := os.Getenv("SWIFT_DRIVER_SAVE_TEMPS"); v != "" {
		c.SaveTemps = v != "0" && v != "false"
	}
	if v := os.Getenv("SWIFT_DRIVER_FORCE_RESPONSE_FILES"); v != "" {
		c.ForceResponseFiles = v != "0" && v != "false"
	}
}

func clampParallelJobs(n int) int {
	if n < minParallelJobs {
		return minParallelJobs
	}
	if n > maxParallelJobs {
		return maxParallelJobs
	}
	return n
}

func loadGlobal() (*GlobalConfig, error) {
	dir, err := DriverDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, globalConfigFile)

	data, err := os.ReadFile(path) // #nosec G304 -- path derived from the user's home directory
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return &GlobalConfig{}, nil
	}

	var cfg GlobalConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func loadLocal(projectRoot string) (*LocalConfig, error) {
	path := filepath.Clean(filepath.Join(projectRoot, localConfigFile))

	data, err := os.ReadFile(path) // #nosec G304 -- path constructed from the caller-supplied project root
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var cfg LocalConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveGlobal persists cfg to ~/.swift-driver/config.json, creating the
// directory if needed.
func SaveGlobal(cfg *GlobalConfig) error {
	dir, err := DriverDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil { // #nosec G301 -- config dir is user-private
		return fmt.Errorf("config: creating %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, globalConfigFile)
	if err := os.WriteFile(path, data, 0o600); err != nil { // #nosec G306 -- config file is user-private
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}
