package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"

	"spinstack/internal/model"
	"spinstack/internal/stats"
	"spinstack/internal/storage"
	"spinstack/internal/sweep"
	api "spinstack/pkg/spinstack"
)

const defaultRunsDir = "runs"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	case "sweep":
		return runSweep(ctx, args[1:])
	case "dos":
		return runDOS(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "show":
		return runShow(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(message string) error {
	return fmt.Errorf("%s\nusage: spinstackctl <init|reset|sweep|dos|runs|show|export> [flags]", message)
}

type clientFlags struct {
	store   *string
	dbPath  *string
	runsDir *string
}

func registerClientFlags(fs *flag.FlagSet) clientFlags {
	return clientFlags{
		store:   fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite"),
		dbPath:  fs.String("db-path", "spinstack.db", "sqlite database path"),
		runsDir: fs.String("runs-dir", defaultRunsDir, "run artifacts directory"),
	}
}

func (f clientFlags) apply(cfg fileConfig, set map[string]bool) api.Options {
	opts := api.Options{
		StoreKind: cfg.Store,
		DBPath:    cfg.DBPath,
		RunsDir:   cfg.RunsDir,
	}
	if set["store"] || opts.StoreKind == "" {
		opts.StoreKind = *f.store
	}
	if set["db-path"] || opts.DBPath == "" {
		opts.DBPath = *f.dbPath
	}
	if set["runs-dir"] || opts.RunsDir == "" {
		opts.RunsDir = *f.runsDir
	}
	return opts
}

func newClient(ctx context.Context, opts api.Options) (*api.Client, error) {
	client, err := api.New(opts)
	if err != nil {
		return nil, err
	}
	if err := client.Init(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func visitedFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	cf := registerClientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	client, err := newClient(ctx, cf.apply(fileConfig{}, visitedFlags(fs)))
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	fmt.Printf("initialized store=%s\n", *cf.store)
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	cf := registerClientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	client, err := newClient(ctx, cf.apply(fileConfig{}, visitedFlags(fs)))
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Reset(ctx); err != nil {
		return err
	}
	fmt.Printf("reset store=%s\n", *cf.store)
	return nil
}

func runSweep(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)
	configPath := fs.String("config", "", "JSON config file")
	runID := fs.String("run-id", "", "run id (generated when empty)")
	baseWidth := fs.Int("base-width", 8, "base layer width")
	numLayers := fs.Int("layers", 12, "maximum layer count of the sweep")
	mcmcSteps := fs.Int("mcmc-steps", sweep.DefaultMCMCSteps, "relaxation steps per pass")
	seed := fs.Int64("seed", 1, "random seed")
	workers := fs.Int("workers", 1, "parallel sweep workers")
	jsonOut := fs.Bool("json", false, "emit results as JSON")
	cf := registerClientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	set := visitedFlags(fs)

	cfg, err := loadOrDefaultFileConfig(*configPath)
	if err != nil {
		return err
	}
	req := api.SweepRequest{
		RunID:     cfg.RunID,
		BaseWidth: cfg.BaseWidth,
		NumLayers: cfg.NumLayers,
		MCMCSteps: cfg.MCMCSteps,
		Seed:      cfg.Seed,
		Workers:   cfg.Workers,
	}
	if set["run-id"] {
		req.RunID = *runID
	}
	if set["base-width"] || req.BaseWidth == 0 {
		req.BaseWidth = *baseWidth
	}
	if set["layers"] || req.NumLayers == 0 {
		req.NumLayers = *numLayers
	}
	if set["mcmc-steps"] || req.MCMCSteps == 0 {
		req.MCMCSteps = *mcmcSteps
	}
	if set["seed"] || req.Seed == 0 {
		req.Seed = *seed
	}
	if set["workers"] || req.Workers == 0 {
		req.Workers = *workers
	}

	client, err := newClient(ctx, cf.apply(cfg, set))
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Sweep(ctx, req)
	if err != nil {
		return err
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	fmt.Printf("sweep run_id=%s base_width=%d layers=%d steps=%s dir=%s\n",
		summary.RunID,
		req.BaseWidth,
		req.NumLayers,
		humanize.Comma(int64(req.MCMCSteps)),
		summary.ArtifactsDir,
	)
	for _, result := range summary.Results {
		fmt.Printf("layers=%d depth=%.4f trained=%.6f shuffled=%.6f normalized_delta=%+.6f\n",
			result.Layers,
			result.DepthFraction,
			result.EnergyTrained,
			result.EnergyShuffled,
			result.NormalizedDelta,
		)
	}
	fmt.Printf("sweep_report entries=%d max_abs_delta=%.6f mean_delta=%+.6f std_delta=%.6f\n",
		summary.Report.Entries,
		summary.Report.MaxAbsDelta,
		summary.Report.MeanDelta,
		summary.Report.StdDelta,
	)
	return nil
}

func runDOS(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dos", flag.ContinueOnError)
	configPath := fs.String("config", "", "JSON config file")
	runID := fs.String("run-id", "", "run id (generated when empty)")
	width := fs.Int("width", 16, "spin vector width")
	numSamples := fs.Int("samples", 1000, "random configurations to sample")
	numBins := fs.Int("bins", 50, "histogram bins")
	seed := fs.Int64("seed", 1, "random seed")
	jsonOut := fs.Bool("json", false, "emit record as JSON")
	cf := registerClientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	set := visitedFlags(fs)

	cfg, err := loadOrDefaultFileConfig(*configPath)
	if err != nil {
		return err
	}
	req := api.DOSRequest{
		RunID:      cfg.RunID,
		Width:      cfg.Width,
		NumSamples: cfg.NumSamples,
		NumBins:    cfg.NumBins,
		Seed:       cfg.Seed,
	}
	if set["run-id"] {
		req.RunID = *runID
	}
	if set["width"] || req.Width == 0 {
		req.Width = *width
	}
	if set["samples"] || req.NumSamples == 0 {
		req.NumSamples = *numSamples
	}
	if set["bins"] || req.NumBins == 0 {
		req.NumBins = *numBins
	}
	if set["seed"] || req.Seed == 0 {
		req.Seed = *seed
	}

	client, err := newClient(ctx, cf.apply(cfg, set))
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.DensityOfStates(ctx, req)
	if err != nil {
		return err
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary.Record)
	}
	fmt.Printf("dos run_id=%s width=%d samples=%s bins=%d dir=%s\n",
		summary.RunID,
		summary.Record.Width,
		humanize.Comma(int64(summary.Record.NumSamples)),
		summary.Record.NumBins,
		summary.ArtifactsDir,
	)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 0, "maximum entries to list (0 = all)")
	jsonOut := fs.Bool("json", false, "emit runs as JSON")
	cf := registerClientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	client, err := newClient(ctx, cf.apply(fileConfig{}, visitedFlags(fs)))
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items, err := client.Runs(ctx, api.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	if len(items) == 0 {
		fmt.Println("no runs")
		return nil
	}
	for _, item := range items {
		switch item.Mode {
		case "sweep":
			fmt.Printf("run_id=%s mode=%s base_width=%d layers=%d seed=%d created=%s\n",
				item.RunID, item.Mode, item.BaseWidth, item.NumLayers, item.Seed, item.CreatedAtUTC)
		default:
			fmt.Printf("run_id=%s mode=%s width=%d seed=%d created=%s\n",
				item.RunID, item.Mode, item.Width, item.Seed, item.CreatedAtUTC)
		}
	}
	return nil
}

func runShow(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	jsonOut := fs.Bool("json", false, "emit run as JSON")
	runsDir := fs.String("runs-dir", defaultRunsDir, "run artifacts directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("show requires --run-id")
	}

	cfg, ok, err := stats.ReadRunConfig(*runsDir, *runID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("run not found: %s", *runID)
	}

	switch cfg.Mode {
	case "sweep":
		results, ok, err := stats.ReadResults(*runsDir, *runID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("sweep results not found: %s", *runID)
		}
		if *jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Config  stats.RunConfig   `json:"config"`
				Results []model.RunResult `json:"results"`
			}{Config: cfg, Results: results})
		}
		fmt.Printf("run_id=%s mode=sweep base_width=%d layers=%d steps=%s seed=%d created=%s\n",
			cfg.RunID, cfg.BaseWidth, cfg.NumLayers, humanize.Comma(int64(cfg.MCMCSteps)), cfg.Seed, cfg.CreatedAtUTC)
		for _, result := range results {
			fmt.Printf("layers=%d depth=%.4f normalized_delta=%+.6f\n",
				result.Layers, result.DepthFraction, result.NormalizedDelta)
		}
	case "dos":
		record, ok, err := stats.ReadDOS(*runsDir, *runID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("dos record not found: %s", *runID)
		}
		if *jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(record)
		}
		fmt.Printf("run_id=%s mode=dos width=%d samples=%s bins=%d seed=%d created=%s\n",
			cfg.RunID, record.Width, humanize.Comma(int64(record.NumSamples)), record.NumBins, cfg.Seed, cfg.CreatedAtUTC)
	default:
		return fmt.Errorf("unknown run mode: %s", cfg.Mode)
	}
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	outDir := fs.String("out", "exports", "export output directory")
	cf := registerClientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("export requires --run-id")
	}
	client, err := newClient(ctx, cf.apply(fileConfig{}, visitedFlags(fs)))
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Export(ctx, api.ExportRequest{RunID: *runID, OutDir: *outDir})
	if err != nil {
		return err
	}
	fmt.Printf("export run_id=%s dir=%s files=%d\n", summary.RunID, summary.Directory, len(summary.Files))
	for _, file := range summary.Files {
		fmt.Println(file)
	}
	return nil
}
