package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunResult is one entry of a layer-count sweep: the relaxed energies of
// the structured and shuffled couplings at a given depth, with the
// normalized energy difference between them.
type RunResult struct {
	Layers          int     `json:"layers"`
	DepthFraction   float64 `json:"depth_fraction"`
	EnergyTrained   float64 `json:"energy_trained"`
	EnergyShuffled  float64 `json:"energy_shuffled"`
	Delta           float64 `json:"delta"`
	NormalizedDelta float64 `json:"normalized_delta"`
}

// EnergyTrace holds the accepted-move energy trajectories of both
// relaxation passes for one sweep entry.
type EnergyTrace struct {
	Layers   int       `json:"layers"`
	Trained  []float64 `json:"trained"`
	Shuffled []float64 `json:"shuffled"`
}

type SweepRecord struct {
	VersionedRecord
	RunID        string      `json:"run_id"`
	CreatedAtUTC string      `json:"created_at_utc"`
	BaseWidth    int         `json:"base_width"`
	NumLayers    int         `json:"num_layers"`
	MCMCSteps    int         `json:"mcmc_steps"`
	Seed         int64       `json:"seed"`
	Workers      int         `json:"workers"`
	Results      []RunResult `json:"results"`
}

type DOSRecord struct {
	VersionedRecord
	RunID              string    `json:"run_id"`
	CreatedAtUTC       string    `json:"created_at_utc"`
	Width              int       `json:"width"`
	NumSamples         int       `json:"num_samples"`
	NumBins            int       `json:"num_bins"`
	Seed               int64     `json:"seed"`
	TrainedBinEdges    []float64 `json:"trained_bin_edges"`
	TrainedLogDensity  []float64 `json:"trained_log_density"`
	ShuffledBinEdges   []float64 `json:"shuffled_bin_edges"`
	ShuffledLogDensity []float64 `json:"shuffled_log_density"`
}
