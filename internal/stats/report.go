package stats

import (
	"fmt"
	"math"

	"spinstack/internal/model"
)

// SweepReport summarizes a completed sweep for console and JSON output.
type SweepReport struct {
	RunID        string  `json:"run_id"`
	Entries      int     `json:"entries"`
	MaxAbsDelta  float64 `json:"max_abs_delta"`
	MeanDelta    float64 `json:"mean_delta"`
	StdDelta     float64 `json:"std_delta"`
	FinalTrained float64 `json:"final_trained_energy"`
	FinalShuffle float64 `json:"final_shuffled_energy"`
}

func BuildSweepReport(runID string, results []model.RunResult) (SweepReport, error) {
	if len(results) == 0 {
		return SweepReport{}, fmt.Errorf("results must not be empty")
	}
	deltas := make([]float64, len(results))
	maxAbs := 0.0
	for i, result := range results {
		deltas[i] = result.Delta
		if abs := math.Abs(result.Delta); abs > maxAbs {
			maxAbs = abs
		}
	}
	mean, err := Avg(deltas)
	if err != nil {
		return SweepReport{}, err
	}
	std, err := Std(deltas)
	if err != nil {
		return SweepReport{}, err
	}
	last := results[len(results)-1]
	return SweepReport{
		RunID:        runID,
		Entries:      len(results),
		MaxAbsDelta:  maxAbs,
		MeanDelta:    mean,
		StdDelta:     std,
		FinalTrained: last.EnergyTrained,
		FinalShuffle: last.EnergyShuffled,
	}, nil
}

// Avg returns the arithmetic mean of values.
func Avg(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("values must not be empty")
	}
	sum := 0.0
	for _, value := range values {
		sum += value
	}
	return sum / float64(len(values)), nil
}

// Std returns population standard deviation.
func Std(values []float64) (float64, error) {
	mean, err := Avg(values)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for _, value := range values {
		diff := mean - value
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(values))), nil
}
