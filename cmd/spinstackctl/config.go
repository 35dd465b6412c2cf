package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// fileConfig is the JSON config file shape. Every key is optional;
// flags set on the command line override file values.
type fileConfig struct {
	RunID      string
	BaseWidth  int
	NumLayers  int
	MCMCSteps  int
	NumSamples int
	NumBins    int
	Width      int
	Seed       int64
	Workers    int
	Store      string
	DBPath     string
	RunsDir    string
}

func loadFileConfig(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fileConfig{}, err
	}

	var cfg fileConfig
	if v, ok := asString(raw["run_id"]); ok {
		cfg.RunID = v
	}
	if v, ok := asInt(raw["base_width"]); ok {
		cfg.BaseWidth = v
	}
	if v, ok := asInt(raw["num_layers"]); ok {
		cfg.NumLayers = v
	}
	if v, ok := asInt(raw["mcmc_steps"]); ok {
		cfg.MCMCSteps = v
	}
	if v, ok := asInt(raw["num_samples"]); ok {
		cfg.NumSamples = v
	}
	if v, ok := asInt(raw["num_bins"]); ok {
		cfg.NumBins = v
	}
	if v, ok := asInt(raw["width"]); ok {
		cfg.Width = v
	}
	if v, ok := asInt64(raw["seed"]); ok {
		cfg.Seed = v
	}
	if v, ok := asInt(raw["workers"]); ok {
		cfg.Workers = v
	}
	if v, ok := asString(raw["store"]); ok {
		cfg.Store = v
	}
	if v, ok := asString(raw["db_path"]); ok {
		cfg.DBPath = v
	}
	if v, ok := asString(raw["runs_dir"]); ok {
		cfg.RunsDir = v
	}
	return cfg, nil
}

func loadOrDefaultFileConfig(path string) (fileConfig, error) {
	if path == "" {
		return fileConfig{}, nil
	}
	cfg, err := loadFileConfig(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}
