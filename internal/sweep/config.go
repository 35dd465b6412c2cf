package sweep

import "fmt"

const (
	DefaultMCMCSteps = 5000
	DefaultWorkers   = 1
)

// Config describes one multi-layer sweep: for every layer count from 1
// to NumLayers a fresh system is built, relaxed, shuffled and relaxed
// again under a fixed step budget.
type Config struct {
	BaseWidth int
	NumLayers int
	MCMCSteps int
	Seed      int64
	Workers   int
}

// Validate fails fast on non-positive dimensions before any sampling
// begins. MCMCSteps may be zero; Workers is normalized at run time.
func (c Config) Validate() error {
	if c.BaseWidth <= 0 {
		return fmt.Errorf("%w: base width must be > 0, got %d", ErrConfiguration, c.BaseWidth)
	}
	if c.NumLayers <= 0 {
		return fmt.Errorf("%w: num layers must be > 0, got %d", ErrConfiguration, c.NumLayers)
	}
	if c.MCMCSteps < 0 {
		return fmt.Errorf("%w: mcmc steps must be >= 0, got %d", ErrConfiguration, c.MCMCSteps)
	}
	return nil
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return DefaultWorkers
	}
	if c.Workers > c.NumLayers {
		return c.NumLayers
	}
	return c.Workers
}
