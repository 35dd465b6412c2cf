package sweep

import "errors"

var (
	// ErrConfiguration marks non-positive or otherwise unusable sweep
	// parameters, raised before any sampling begins.
	ErrConfiguration = errors.New("invalid sweep configuration")

	// ErrDegenerateEnergy marks a shuffled relaxation that converged to
	// exactly zero energy, leaving the delta ratio undefined.
	ErrDegenerateEnergy = errors.New("degenerate shuffled energy")

	// ErrNormalization marks a sweep whose deltas are all zero, leaving
	// the final normalization undefined.
	ErrNormalization = errors.New("degenerate delta normalization")
)
