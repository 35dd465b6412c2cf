// Package spinstack is the public client surface for running spin-glass
// experiments over layered weight stacks: multi-layer relaxation sweeps
// and single-layer density-of-states estimation, with run persistence
// and filesystem artifacts.
package spinstack

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"spinstack/internal/dos"
	"spinstack/internal/lattice"
	"spinstack/internal/model"
	"spinstack/internal/stats"
	"spinstack/internal/storage"
	"spinstack/internal/sweep"
)

const (
	defaultRunsDir = "runs"
	defaultDBPath  = "spinstack.db"
)

type Options struct {
	StoreKind string
	DBPath    string
	RunsDir   string
}

type Client struct {
	store   storage.Store
	runsDir string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	runsDir := opts.RunsDir
	if runsDir == "" {
		runsDir = defaultRunsDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:   store,
		runsDir: runsDir,
	}, nil
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Reset(ctx context.Context) error {
	if resetter, ok := c.store.(storage.Resetter); ok {
		return resetter.Reset(ctx)
	}
	return nil
}

// SweepRequest configures a multi-layer relaxation sweep. A zero
// MCMCSteps or Workers falls back to the package defaults; a zero RunID
// generates a fresh one.
type SweepRequest struct {
	RunID     string
	BaseWidth int
	NumLayers int
	MCMCSteps int
	Seed      int64
	Workers   int
}

type SweepSummary struct {
	RunID        string
	ArtifactsDir string
	Results      []model.RunResult
	Report       stats.SweepReport
}

func (c *Client) Sweep(ctx context.Context, req SweepRequest) (SweepSummary, error) {
	runID := req.RunID
	if runID == "" {
		runID = "sweep-" + uuid.NewString()
	}
	steps := req.MCMCSteps
	if steps == 0 {
		steps = sweep.DefaultMCMCSteps
	}

	cfg := sweep.Config{
		BaseWidth: req.BaseWidth,
		NumLayers: req.NumLayers,
		MCMCSteps: steps,
		Seed:      req.Seed,
		Workers:   req.Workers,
	}
	outcome, err := sweep.Run(ctx, cfg)
	if err != nil {
		return SweepSummary{}, fmt.Errorf("sweep %s: %w", runID, err)
	}

	createdAt := time.Now().UTC().Format(time.RFC3339Nano)
	record := model.SweepRecord{
		VersionedRecord: storage.Stamp(),
		RunID:           runID,
		CreatedAtUTC:    createdAt,
		BaseWidth:       cfg.BaseWidth,
		NumLayers:       cfg.NumLayers,
		MCMCSteps:       cfg.MCMCSteps,
		Seed:            cfg.Seed,
		Workers:         cfg.Workers,
		Results:         outcome.Results,
	}
	if err := c.store.SaveSweep(ctx, record); err != nil {
		return SweepSummary{}, fmt.Errorf("save sweep %s: %w", runID, err)
	}
	if err := c.store.SaveEnergyTraces(ctx, runID, outcome.Traces); err != nil {
		return SweepSummary{}, fmt.Errorf("save energy traces %s: %w", runID, err)
	}

	runConfig := stats.RunConfig{
		RunID:        runID,
		Mode:         "sweep",
		BaseWidth:    cfg.BaseWidth,
		NumLayers:    cfg.NumLayers,
		MCMCSteps:    cfg.MCMCSteps,
		Seed:         cfg.Seed,
		Workers:      cfg.Workers,
		CreatedAtUTC: createdAt,
	}
	artifactsDir, err := stats.WriteRunArtifacts(c.runsDir, stats.RunArtifacts{
		Config:  runConfig,
		Results: outcome.Results,
		Traces:  outcome.Traces,
	})
	if err != nil {
		return SweepSummary{}, fmt.Errorf("write artifacts %s: %w", runID, err)
	}
	if err := stats.AppendRunIndex(c.runsDir, stats.RunIndexEntry{
		RunID:        runID,
		Mode:         "sweep",
		BaseWidth:    cfg.BaseWidth,
		NumLayers:    cfg.NumLayers,
		Seed:         cfg.Seed,
		CreatedAtUTC: createdAt,
	}); err != nil {
		return SweepSummary{}, fmt.Errorf("append run index %s: %w", runID, err)
	}

	report, err := stats.BuildSweepReport(runID, outcome.Results)
	if err != nil {
		return SweepSummary{}, err
	}
	return SweepSummary{
		RunID:        runID,
		ArtifactsDir: artifactsDir,
		Results:      outcome.Results,
		Report:       report,
	}, nil
}

// DOSRequest configures a single-layer density-of-states estimation
// over a symmetric self-coupling and its shuffled counterpart.
type DOSRequest struct {
	RunID      string
	Width      int
	NumSamples int
	NumBins    int
	Seed       int64
}

type DOSSummary struct {
	RunID        string
	ArtifactsDir string
	Record       model.DOSRecord
}

func (c *Client) DensityOfStates(ctx context.Context, req DOSRequest) (DOSSummary, error) {
	runID := req.RunID
	if runID == "" {
		runID = "dos-" + uuid.NewString()
	}
	if req.Width <= 0 {
		return DOSSummary{}, fmt.Errorf("%w: width must be > 0, got %d", sweep.ErrConfiguration, req.Width)
	}
	samples := req.NumSamples
	if samples == 0 {
		samples = 1000
	}
	bins := req.NumBins
	if bins == 0 {
		bins = dos.DefaultBins
	}
	if samples < 0 || bins < 0 {
		return DOSSummary{}, fmt.Errorf("%w: samples and bins must be > 0", sweep.ErrConfiguration)
	}
	if err := ctx.Err(); err != nil {
		return DOSSummary{}, err
	}

	r := rand.New(rand.NewSource(req.Seed))
	coupling := lattice.RandomSymmetricCoupling(r, req.Width)
	comparison, err := dos.CompareShuffled(r, coupling, samples, bins)
	if err != nil {
		return DOSSummary{}, fmt.Errorf("dos %s: %w", runID, err)
	}

	createdAt := time.Now().UTC().Format(time.RFC3339Nano)
	record := model.DOSRecord{
		VersionedRecord:    storage.Stamp(),
		RunID:              runID,
		CreatedAtUTC:       createdAt,
		Width:              req.Width,
		NumSamples:         samples,
		NumBins:            bins,
		Seed:               req.Seed,
		TrainedBinEdges:    comparison.Trained.BinEdges,
		TrainedLogDensity:  comparison.Trained.LogDensity,
		ShuffledBinEdges:   comparison.Shuffled.BinEdges,
		ShuffledLogDensity: comparison.Shuffled.LogDensity,
	}
	if err := c.store.SaveDOS(ctx, record); err != nil {
		return DOSSummary{}, fmt.Errorf("save dos %s: %w", runID, err)
	}

	artifactsDir, err := stats.WriteRunArtifacts(c.runsDir, stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:        runID,
			Mode:         "dos",
			Width:        req.Width,
			NumSamples:   samples,
			NumBins:      bins,
			Seed:         req.Seed,
			CreatedAtUTC: createdAt,
		},
		DOS: &record,
	})
	if err != nil {
		return DOSSummary{}, fmt.Errorf("write artifacts %s: %w", runID, err)
	}
	if err := stats.AppendRunIndex(c.runsDir, stats.RunIndexEntry{
		RunID:        runID,
		Mode:         "dos",
		Width:        req.Width,
		Seed:         req.Seed,
		CreatedAtUTC: createdAt,
	}); err != nil {
		return DOSSummary{}, fmt.Errorf("append run index %s: %w", runID, err)
	}

	return DOSSummary{
		RunID:        runID,
		ArtifactsDir: artifactsDir,
		Record:       record,
	}, nil
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID        string
	Mode         string
	BaseWidth    int
	NumLayers    int
	Width        int
	Seed         int64
	CreatedAtUTC string
}

// Runs lists indexed runs, newest first.
func (c *Client) Runs(_ context.Context, req RunsRequest) ([]RunItem, error) {
	index, err := stats.ListRunIndex(c.runsDir)
	if err != nil {
		return nil, err
	}
	items := make([]RunItem, 0, len(index))
	for i := len(index) - 1; i >= 0; i-- {
		entry := index[i]
		items = append(items, RunItem{
			RunID:        entry.RunID,
			Mode:         entry.Mode,
			BaseWidth:    entry.BaseWidth,
			NumLayers:    entry.NumLayers,
			Width:        entry.Width,
			Seed:         entry.Seed,
			CreatedAtUTC: entry.CreatedAtUTC,
		})
		if req.Limit > 0 && len(items) >= req.Limit {
			break
		}
	}
	return items, nil
}

type ExportRequest struct {
	RunID  string
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
	Files     []string
}

// Export writes CSV and plot-point files for a completed run into the
// output directory.
func (c *Client) Export(_ context.Context, req ExportRequest) (ExportSummary, error) {
	if req.RunID == "" {
		return ExportSummary{}, fmt.Errorf("run id is required")
	}
	outDir := req.OutDir
	if outDir == "" {
		outDir = "exports"
	}
	cfg, ok, err := stats.ReadRunConfig(c.runsDir, req.RunID)
	if err != nil {
		return ExportSummary{}, err
	}
	if !ok {
		return ExportSummary{}, fmt.Errorf("run not found: %s", req.RunID)
	}

	exportDir := filepath.Join(outDir, req.RunID)
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return ExportSummary{}, err
	}

	files := make([]string, 0, 4)
	switch cfg.Mode {
	case "sweep":
		results, ok, err := stats.ReadResults(c.runsDir, req.RunID)
		if err != nil {
			return ExportSummary{}, err
		}
		if !ok {
			return ExportSummary{}, fmt.Errorf("sweep results not found: %s", req.RunID)
		}
		csvPath := filepath.Join(exportDir, "sweep.csv")
		if err := stats.WriteSweepCSV(csvPath, results); err != nil {
			return ExportSummary{}, err
		}
		files = append(files, csvPath)

		plotPath := filepath.Join(exportDir, "delta.plot")
		if err := stats.WritePlotFile(plotPath, "depth_fraction normalized_delta", stats.BuildDeltaPlot(results)); err != nil {
			return ExportSummary{}, err
		}
		files = append(files, plotPath)
	case "dos":
		record, ok, err := stats.ReadDOS(c.runsDir, req.RunID)
		if err != nil {
			return ExportSummary{}, err
		}
		if !ok {
			return ExportSummary{}, fmt.Errorf("dos record not found: %s", req.RunID)
		}
		for _, pass := range []struct {
			name  string
			edges []float64
			dens  []float64
		}{
			{name: "trained", edges: record.TrainedBinEdges, dens: record.TrainedLogDensity},
			{name: "shuffled", edges: record.ShuffledBinEdges, dens: record.ShuffledLogDensity},
		} {
			csvPath := filepath.Join(exportDir, pass.name+"_dos.csv")
			if err := stats.WriteDOSCSV(csvPath, pass.edges, pass.dens); err != nil {
				return ExportSummary{}, err
			}
			files = append(files, csvPath)

			points, err := stats.BuildDOSPlot(pass.edges, pass.dens)
			if err != nil {
				return ExportSummary{}, err
			}
			plotPath := filepath.Join(exportDir, pass.name+"_dos.plot")
			if err := stats.WritePlotFile(plotPath, pass.name+" log density of states", points); err != nil {
				return ExportSummary{}, err
			}
			files = append(files, plotPath)
		}
	default:
		return ExportSummary{}, fmt.Errorf("unknown run mode: %s", cfg.Mode)
	}

	return ExportSummary{
		RunID:     req.RunID,
		Directory: exportDir,
		Files:     files,
	}, nil
}

// Sweeps retrieves a persisted sweep record by run ID.
func (c *Client) Sweeps(ctx context.Context, runID string) (model.SweepRecord, bool, error) {
	return c.store.GetSweep(ctx, runID)
}

// DOS retrieves a persisted density-of-states record by run ID.
func (c *Client) DOS(ctx context.Context, runID string) (model.DOSRecord, bool, error) {
	return c.store.GetDOS(ctx, runID)
}

// EnergyTraces retrieves the persisted relaxation trajectories of a
// sweep run.
func (c *Client) EnergyTraces(ctx context.Context, runID string) ([]model.EnergyTrace, bool, error) {
	return c.store.GetEnergyTraces(ctx, runID)
}
