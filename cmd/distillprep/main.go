package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/distillprep/distillprep/internal/config"
	"github.com/distillprep/distillprep/internal/convert"
	"github.com/distillprep/distillprep/internal/dataset"
	"github.com/distillprep/distillprep/internal/hub"
	"github.com/distillprep/distillprep/internal/manifest"
	"github.com/distillprep/distillprep/internal/metrics"
	"github.com/distillprep/distillprep/internal/store"
	"github.com/distillprep/distillprep/pkg/models"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	configPath  string
	datasetName string
	splitName   string
	predsKind   string
	outPath     string
	verbose     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "distillprep",
		Short: "distillprep - CoT distillation dataset preparation",
		Long: `distillprep fetches question/answer datasets, normalizes them into
{input, label} records, converts algebra shards into combined split files
with chain-of-thought chunk files, and parses teacher-model outputs into
(rationale, label) pairs.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch a dataset and persist its splits",
		Long: `Fetch a dataset from its source (hub download or local files),
write one split file per split under the data root, and record a manifest.`,
		RunE: runFetch,
	}
	fetchCmd.Flags().StringVar(&datasetName, "dataset", "", "Dataset name (required)")
	_ = fetchCmd.MarkFlagRequired("dataset")

	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Combine algebra shards and write CoT chunk files",
		Long: `Read the per-file JSON shards under <data root>/hendrycks_math/{train,test}/,
concatenate each split into one combined JSON file, and re-split the gold
process rationales into fixed-size CoT chunk files.`,
		RunE: runConvert,
	}

	predsCmd := &cobra.Command{
		Use:   "preds",
		Short: "Load and parse teacher predictions for a split",
		Long: `Read the chunked teacher-output files (or the gpt-neox predictions file)
of one split, parse each output into a (rationale, label) pair with the
dataset's parser, and report placeholder rates.`,
		RunE: runPreds,
	}
	predsCmd.Flags().StringVar(&datasetName, "dataset", "", "Dataset name (required)")
	predsCmd.Flags().StringVar(&splitName, "split", "train", "Split to load (train/test/valid)")
	predsCmd.Flags().StringVar(&predsKind, "kind", "llm", "Prediction kind (llm or gpt)")
	predsCmd.Flags().StringVar(&outPath, "out", "", "Write parsed pairs to this JSON file")
	_ = predsCmd.MarkFlagRequired("dataset")

	inspectCmd := &cobra.Command{
		Use:   "inspect [dataset]",
		Short: "Show dataset manifests",
		Long: `With a dataset name, display that dataset's manifest. Without one,
list every dataset directory under the data root with its manifest status.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInspect,
	}

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(predsCmd)
	rootCmd.AddCommand(inspectCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles everything a command needs: config, store, logger, metrics,
// and the hub client
type app struct {
	cfg       *config.Config
	store     *store.Store
	logger    *slog.Logger
	logFile   *os.File
	collector *metrics.Collector
	hub       *hub.Client
}

func newApp() (*app, error) {
	cfg, secrets, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	st, err := store.New(cfg.DataRoot, slog.Default())
	if err != nil {
		return nil, err
	}
	logger, logFile, err := store.SetupLogger(st.LogPath(), logLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	st, err = store.New(cfg.DataRoot, logger)
	if err != nil {
		_ = logFile.Close()
		return nil, err
	}

	collector := metrics.NewCollector(logger)
	return &app{
		cfg:       cfg,
		store:     st,
		logger:    logger,
		logFile:   logFile,
		collector: collector,
		hub:       hub.NewClient(cfg.Hub, secrets.HubToken, collector, logger),
	}, nil
}

func (a *app) Close() {
	if a.logFile != nil {
		_ = a.logFile.Sync()
		_ = a.logFile.Close()
	}
}

func (a *app) loader(name string) (*dataset.Loader, error) {
	if err := store.ValidateDatasetName(name); err != nil {
		return nil, fmt.Errorf("invalid dataset name: %w", err)
	}
	spec, err := dataset.Lookup(name)
	if err != nil {
		return nil, err
	}
	return dataset.New(spec, a.store, a.hub, a.collector, a.logger), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runFetch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	l, err := a.loader(datasetName)
	if err != nil {
		return err
	}
	spec := l.Spec()

	ctx, stop := signalContext()
	defer stop()

	a.logger.Info("distillprep starting",
		"version", Version,
		"command", "fetch",
		"dataset", spec.Name,
		"data_root", a.cfg.DataRoot)

	raw, err := l.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	if err := l.Persist(raw); err != nil {
		return fmt.Errorf("persist failed: %w", err)
	}

	m := manifest.New(spec)
	for split, rows := range raw {
		m.SplitCounts[split] = len(rows)
	}
	if err := manifest.Write(a.store.ManifestPath(spec.Name), m, a.logger); err != nil {
		return err
	}

	a.logger.Info("Fetch complete",
		"dataset", spec.Name,
		"records", m.TotalRecords(),
		"run_id", m.RunID)
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signalContext()
	defer stop()

	a.logger.Info("distillprep starting",
		"version", Version,
		"command", "convert",
		"data_root", a.cfg.DataRoot)

	converter := convert.New(a.store, a.cfg.Convert, a.collector, a.logger)
	stats, inventory, err := converter.Run(ctx)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	spec, err := dataset.Lookup(convert.DatasetName)
	if err != nil {
		return err
	}
	m := manifest.New(spec)
	m.SplitCounts[models.SplitTrain] = stats.TrainRecords
	m.SplitCounts[models.SplitTest] = stats.TestRecords
	m.Chunks = inventory
	if err := manifest.Write(a.store.ManifestPath(spec.Name), m, a.logger); err != nil {
		return err
	}

	fmt.Printf("Combined %d train and %d test records; wrote %d train and %d test CoT chunks in %s\n",
		stats.TrainRecords, stats.TestRecords, stats.TrainChunks, stats.TestChunks,
		stats.Duration.Round(time.Millisecond))
	return nil
}

func runPreds(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	l, err := a.loader(datasetName)
	if err != nil {
		return err
	}

	split := models.SplitName(splitName)
	switch split {
	case models.SplitTrain, models.SplitTest, models.SplitValid:
	default:
		return fmt.Errorf("unknown split %q (want train, test or valid)", splitName)
	}

	var pairs []models.ParsedOutput
	var stats models.PredStats
	switch predsKind {
	case "llm":
		pairs, stats, err = l.LoadLLMPreds(split)
	case "gpt":
		pairs, stats, err = l.LoadGPTPreds(split)
	default:
		return fmt.Errorf("unknown prediction kind %q (want llm or gpt)", predsKind)
	}
	if err != nil {
		return fmt.Errorf("failed to load predictions: %w", err)
	}

	rate := 0.0
	if stats.Outputs > 0 {
		rate = 100 * float64(stats.Placeholders) / float64(stats.Outputs)
	}
	fmt.Printf("Parsed %d %s outputs for %s/%s (%d chunks): %d placeholders (%.1f%%)\n",
		stats.Outputs, stats.Kind, stats.Dataset, stats.Split, stats.ChunksRead,
		stats.Placeholders, rate)

	if outPath != "" {
		data, err := json.MarshalIndent(pairs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal parsed pairs: %w", err)
		}
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Printf("Wrote %d parsed pairs to %s\n", len(pairs), outPath)
	}
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 1 {
		return inspectDataset(a, args[0])
	}
	return listDatasets(a)
}

func inspectDataset(a *app, name string) error {
	if err := store.ValidateDatasetName(name); err != nil {
		return fmt.Errorf("invalid dataset name: %w", err)
	}

	m, err := manifest.Load(a.store.ManifestPath(name))
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}

	fmt.Printf("Manifest for: %s\n", name)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Run ID:        %s\n", m.RunID)
	fmt.Printf("Created At:    %s\n", m.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Last Saved At: %s\n", m.LastSavedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Spec Hash:     %s\n", m.SpecHash)
	fmt.Println()

	fmt.Println("Split counts:")
	for _, split := range []models.SplitName{models.SplitTrain, models.SplitTest, models.SplitValid} {
		if n, ok := m.SplitCounts[split]; ok {
			fmt.Printf("  %-6s %d\n", split, n)
		}
	}
	fmt.Printf("  total  %d\n", m.TotalRecords())

	if len(m.Chunks) > 0 {
		fmt.Println()
		fmt.Printf("Chunk files (%d):\n", len(m.Chunks))
		for _, c := range m.Chunks {
			fmt.Printf("  %s_CoT_%d.json  %d records\n", c.Split, c.Index, c.Records)
		}
	}

	if spec, err := dataset.Lookup(name); err == nil && !manifest.Matches(m, spec) {
		fmt.Println()
		fmt.Println("Warning: manifest was produced under a different dataset configuration")
	}
	return nil
}

func listDatasets(a *app) error {
	entries, err := os.ReadDir(a.store.Root())
	if err != nil {
		return fmt.Errorf("failed to read data root: %w", err)
	}

	fmt.Printf("%-20s %-10s %-10s %s\n", "DATASET", "MANIFEST", "RECORDS", "LAST SAVED")
	fmt.Println(strings.Repeat("-", 60))

	found := false
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == "gpt-neox" {
			continue
		}
		found = true

		m, err := manifest.Load(a.store.ManifestPath(entry.Name()))
		if err != nil {
			fmt.Printf("%-20s %-10s %-10s %s\n", entry.Name(), "No", "-", "-")
			continue
		}
		fmt.Printf("%-20s %-10s %-10d %s\n",
			entry.Name(), "Yes", m.TotalRecords(), m.LastSavedAt.Format("2006-01-02 15:04:05"))
	}

	if !found {
		fmt.Println("No dataset directories found. Run a fetch first.")
	}
	return nil
}
