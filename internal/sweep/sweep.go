// Package sweep drives the layer-count experiment: it relaxes layered
// spin systems against structured and shuffled couplings and reports
// the normalized energy difference per depth.
package sweep

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"spinstack/internal/lattice"
	"spinstack/internal/model"
)

// Outcome carries the ordered sweep series together with the energy
// trajectories of every relaxation pass.
type Outcome struct {
	Results []model.RunResult
	Traces  []model.EnergyTrace
}

// Run executes the full sweep for layer counts 1..NumLayers. Entries are
// independent and evaluated on a worker pool; each entry derives its own
// seed from the sweep seed so results do not depend on worker count.
// After the sweep every delta is normalized by the maximum absolute
// delta observed.
func Run(ctx context.Context, cfg Config) (Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return Outcome{}, err
	}

	type item struct {
		result model.RunResult
		trace  model.EnergyTrace
		err    error
	}

	jobs := make(chan int)
	items := make([]item, cfg.NumLayers)

	var wg sync.WaitGroup
	workerCount := cfg.workers()
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for layers := range jobs {
				if err := ctx.Err(); err != nil {
					items[layers-1] = item{err: err}
					continue
				}
				result, trace, err := runEntry(ctx, cfg, layers)
				items[layers-1] = item{result: result, trace: trace, err: err}
			}
		}()
	}
	for layers := 1; layers <= cfg.NumLayers; layers++ {
		jobs <- layers
	}
	close(jobs)
	wg.Wait()

	outcome := Outcome{
		Results: make([]model.RunResult, 0, cfg.NumLayers),
		Traces:  make([]model.EnergyTrace, 0, cfg.NumLayers),
	}
	for _, entry := range items {
		if entry.err != nil {
			return Outcome{}, entry.err
		}
		outcome.Results = append(outcome.Results, entry.result)
		outcome.Traces = append(outcome.Traces, entry.trace)
	}

	maxDelta := 0.0
	for _, result := range outcome.Results {
		if abs := math.Abs(result.Delta); abs > maxDelta {
			maxDelta = abs
		}
	}
	if maxDelta == 0 {
		return Outcome{}, fmt.Errorf("%w: all sweep deltas are zero", ErrNormalization)
	}
	for i := range outcome.Results {
		outcome.Results[i].NormalizedDelta = outcome.Results[i].Delta / maxDelta
	}
	return outcome, nil
}

// runEntry relaxes one fresh system, then reuses its relaxed spins
// against shuffled couplings for the comparison pass.
func runEntry(ctx context.Context, cfg Config, layers int) (model.RunResult, model.EnergyTrace, error) {
	r := rand.New(rand.NewSource(cfg.Seed + int64(layers)))
	sys := lattice.NewSystem(r, cfg.BaseWidth, layers)
	relaxer := &lattice.Relaxer{Rand: r, Steps: cfg.MCMCSteps}

	energyTrained, traceTrained, err := relaxer.Relax(ctx, sys, lattice.TotalEnergy(sys))
	if err != nil {
		return model.RunResult{}, model.EnergyTrace{}, err
	}

	sys.ShuffleCouplings(r)
	energyShuffled, traceShuffled, err := relaxer.Relax(ctx, sys, lattice.TotalEnergy(sys))
	if err != nil {
		return model.RunResult{}, model.EnergyTrace{}, err
	}
	if energyShuffled == 0 {
		return model.RunResult{}, model.EnergyTrace{}, fmt.Errorf(
			"%w: layers=%d relaxed to zero", ErrDegenerateEnergy, layers)
	}

	result := model.RunResult{
		Layers:         layers,
		DepthFraction:  float64(layers) / float64(cfg.NumLayers),
		EnergyTrained:  energyTrained,
		EnergyShuffled: energyShuffled,
		Delta:          (energyTrained - energyShuffled) / math.Abs(energyShuffled),
	}
	trace := model.EnergyTrace{
		Layers:   layers,
		Trained:  traceTrained,
		Shuffled: traceShuffled,
	}
	return result, trace, nil
}
