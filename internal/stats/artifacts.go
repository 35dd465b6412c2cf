package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"spinstack/internal/model"
)

const runIndexFile = "run_index.json"

// RunConfig records the full parameterization of one run, persisted as
// config.json in the run directory.
type RunConfig struct {
	RunID        string `json:"run_id"`
	Mode         string `json:"mode"`
	BaseWidth    int    `json:"base_width,omitempty"`
	NumLayers    int    `json:"num_layers,omitempty"`
	MCMCSteps    int    `json:"mcmc_steps,omitempty"`
	Width        int    `json:"width,omitempty"`
	NumSamples   int    `json:"num_samples,omitempty"`
	NumBins      int    `json:"num_bins,omitempty"`
	Seed         int64  `json:"seed"`
	Workers      int    `json:"workers,omitempty"`
	CreatedAtUTC string `json:"created_at_utc"`
}

// RunArtifacts bundles everything written into one run directory.
type RunArtifacts struct {
	Config  RunConfig
	Results []model.RunResult
	Traces  []model.EnergyTrace
	DOS     *model.DOSRecord
}

type RunIndexEntry struct {
	RunID        string `json:"run_id"`
	Mode         string `json:"mode"`
	BaseWidth    int    `json:"base_width,omitempty"`
	NumLayers    int    `json:"num_layers,omitempty"`
	Width        int    `json:"width,omitempty"`
	Seed         int64  `json:"seed"`
	CreatedAtUTC string `json:"created_at_utc"`
}

func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Config.RunID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Config.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "config.json"), artifacts.Config); err != nil {
		return "", err
	}
	if artifacts.Results != nil {
		if err := writeJSON(filepath.Join(runDir, "results.json"), artifacts.Results); err != nil {
			return "", err
		}
	}
	if artifacts.Traces != nil {
		if err := writeJSON(filepath.Join(runDir, "energy_trace.json"), artifacts.Traces); err != nil {
			return "", err
		}
	}
	if artifacts.DOS != nil {
		if err := writeJSON(filepath.Join(runDir, "dos.json"), artifacts.DOS); err != nil {
			return "", err
		}
	}

	return runDir, nil
}

func ReadRunConfig(baseDir, runID string) (RunConfig, bool, error) {
	var cfg RunConfig
	ok, err := readJSON(filepath.Join(baseDir, runID, "config.json"), &cfg)
	return cfg, ok, err
}

func ReadResults(baseDir, runID string) ([]model.RunResult, bool, error) {
	var results []model.RunResult
	ok, err := readJSON(filepath.Join(baseDir, runID, "results.json"), &results)
	return results, ok, err
}

func ReadDOS(baseDir, runID string) (model.DOSRecord, bool, error) {
	var record model.DOSRecord
	ok, err := readJSON(filepath.Join(baseDir, runID, "dos.json"), &record)
	return record, ok, err
}

func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].RunID == entry.RunID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, runIndexFile), index)
		}
	}
	index = append(index, entry)
	sort.Slice(index, func(i, j int) bool {
		if index[i].CreatedAtUTC == index[j].CreatedAtUTC {
			return index[i].RunID < index[j].RunID
		}
		return index[i].CreatedAtUTC < index[j].CreatedAtUTC
	})
	return writeJSON(filepath.Join(baseDir, runIndexFile), index)
}

func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	var index []RunIndexEntry
	ok, err := readJSON(filepath.Join(baseDir, runIndexFile), &index)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []RunIndexEntry{}, nil
	}
	return index, nil
}

// WriteSweepCSV exports the sweep series as
// layers,depth_fraction,energy_trained,energy_shuffled,delta,normalized_delta.
func WriteSweepCSV(path string, results []model.RunResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"layers", "depth_fraction", "energy_trained", "energy_shuffled", "delta", "normalized_delta"}); err != nil {
		return err
	}
	for _, result := range results {
		row := []string{
			strconv.Itoa(result.Layers),
			formatFloat(result.DepthFraction),
			formatFloat(result.EnergyTrained),
			formatFloat(result.EnergyShuffled),
			formatFloat(result.Delta),
			formatFloat(result.NormalizedDelta),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteDOSCSV exports one density-of-states pass as bin_edge,log_density.
func WriteDOSCSV(path string, binEdges, logDensity []float64) error {
	if len(binEdges) != len(logDensity) {
		return fmt.Errorf("bin edges and log density lengths differ: %d vs %d", len(binEdges), len(logDensity))
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"bin_edge", "log_density"}); err != nil {
		return err
	}
	for i := range binEdges {
		if err := writer.Write([]string{formatFloat(binEdges[i]), formatFloat(logDensity[i])}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}
