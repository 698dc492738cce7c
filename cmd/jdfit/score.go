package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/jd-fit-evaluator/internal/config"
	"github.com/jonathan/jd-fit-evaluator/internal/embedding"
	"github.com/jonathan/jd-fit-evaluator/internal/logger"
	"github.com/jonathan/jd-fit-evaluator/internal/manifest"
	"github.com/jonathan/jd-fit-evaluator/internal/observability"
	"github.com/jonathan/jd-fit-evaluator/internal/pipeline"
	"github.com/jonathan/jd-fit-evaluator/internal/scoring"
	"github.com/jonathan/jd-fit-evaluator/internal/stints"
	"github.com/jonathan/jd-fit-evaluator/internal/store"
	"github.com/jonathan/jd-fit-evaluator/internal/types"
)

var scoreCommand = &cobra.Command{
	Use:   "score",
	Short: "Score a candidate manifest against a job profile",
	Long: `Loads a job profile and a candidate manifest, normalizes each candidate's
work history, extracts sub-scores, and writes one JSON result per candidate.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runScoreCmd,
}

var (
	scoreConfigPath   string
	scoreManifest     string
	scoreProfile      string
	scoreOut          string
	scoreTaxonomy     string
	scoreCacheDir     string
	scoreProvider     string
	scoreEmbedModel   string
	scoreEmbedBaseURL string
	scoreEmbedAPIKey  string
	scoreEmbedDim     int
	scoreEmbedBatch   int
	scoreEmbedTimeout int
	scoreWorkers      int
	scoreDatabaseURL  string
	scoreVerbose      bool
	scoreJSONLogs     bool
	scoreDebug        bool
)

func init() {
	// Config file flag (processed first)
	scoreCommand.Flags().StringVar(&scoreConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	scoreCommand.Flags().StringVarP(&scoreManifest, "manifest", "m", "", "Path to candidate manifest (.csv or .jsonl)")
	scoreCommand.Flags().StringVarP(&scoreProfile, "profile", "p", "", "Path to job profile (.json or .yaml)")
	scoreCommand.Flags().StringVarP(&scoreOut, "out", "o", "", "Path for the JSONL results file")
	scoreCommand.Flags().StringVar(&scoreTaxonomy, "taxonomy", "", "Path to industry taxonomy JSON (optional)")
	scoreCommand.Flags().StringVar(&scoreCacheDir, "cache-dir", "", "Directory for the embedding cache")
	scoreCommand.Flags().StringVar(&scoreProvider, "provider", "", "Embedding provider: openai or mock")
	scoreCommand.Flags().StringVar(&scoreEmbedModel, "embed-model", "", "Embedding model name")
	scoreCommand.Flags().StringVar(&scoreEmbedBaseURL, "embed-base-url", "", "OpenAI-compatible API base URL")
	scoreCommand.Flags().IntVar(&scoreEmbedDim, "embed-dimension", 0, "Expected embedding dimension")
	scoreCommand.Flags().IntVar(&scoreEmbedBatch, "embed-batch", 0, "Embedding request batch size")
	scoreCommand.Flags().IntVar(&scoreEmbedTimeout, "embed-timeout", 0, "Per-call embedding timeout in seconds")
	scoreCommand.Flags().IntVarP(&scoreWorkers, "workers", "w", 0, "Worker pool size")
	scoreCommand.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "Print detailed run information")
	scoreCommand.Flags().BoolVar(&scoreJSONLogs, "json-logs", false, "Emit structured JSON logs")
	scoreCommand.Flags().BoolVar(&scoreDebug, "debug", false, "Debug log level")

	// API key can be passed as a flag, or read from env var OPENAI_API_KEY
	scoreCommand.Flags().StringVar(&scoreEmbedAPIKey, "embed-api-key", "", "Embedding API key (optional, defaults to OPENAI_API_KEY env var)")

	// Database URL for the Postgres-backed cache and run persistence
	scoreCommand.Flags().StringVar(&scoreDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(scoreCommand)
}

func runScoreCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Step 1: Load config file if provided
	var cfg config.Config
	if scoreConfigPath != "" {
		loadedCfg, err := config.LoadConfig(scoreConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("manifest") {
		cfg.Manifest = scoreManifest
	}
	if cmd.Flags().Changed("profile") {
		cfg.Profile = scoreProfile
	}
	if cmd.Flags().Changed("out") {
		cfg.Out = scoreOut
	}
	if cmd.Flags().Changed("taxonomy") {
		cfg.Taxonomy = scoreTaxonomy
	}
	if cmd.Flags().Changed("cache-dir") {
		cfg.CacheDir = scoreCacheDir
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = scoreProvider
	}
	if cmd.Flags().Changed("embed-model") {
		cfg.EmbedModel = scoreEmbedModel
	}
	if cmd.Flags().Changed("embed-base-url") {
		cfg.EmbedBaseURL = scoreEmbedBaseURL
	}
	if cmd.Flags().Changed("embed-api-key") {
		cfg.EmbedAPIKey = scoreEmbedAPIKey
	}
	if cmd.Flags().Changed("embed-dimension") {
		cfg.EmbedDimension = scoreEmbedDim
	}
	if cmd.Flags().Changed("embed-batch") {
		cfg.EmbedBatchSize = scoreEmbedBatch
	}
	if cmd.Flags().Changed("embed-timeout") {
		cfg.EmbedTimeout = scoreEmbedTimeout
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = scoreWorkers
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = scoreDatabaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = scoreVerbose
	}
	if cmd.Flags().Changed("json-logs") {
		cfg.JSONLogs = scoreJSONLogs
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = scoreDebug
	}

	// Step 3: Apply defaults for unset values
	defaults := config.Config{
		Out:      "scores.jsonl",
		CacheDir: ".jdfit-cache",
		Provider: "mock",
	}
	cfg = cfg.MergeWithDefaults(defaults)
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Step 4: Validate required fields
	if cfg.Manifest == "" {
		return fmt.Errorf("--manifest is required (via flag or config)")
	}
	if cfg.Profile == "" {
		return fmt.Errorf("--profile is required (via flag or config)")
	}

	log, err := logger.New(cfg.JSONLogs, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	profile, err := config.LoadProfile(cfg.Profile)
	if err != nil {
		return err
	}
	taxonomy, err := config.LoadTaxonomy(cfg.Taxonomy)
	if err != nil {
		return err
	}
	candidates, err := manifest.Load(cfg.Manifest)
	if err != nil {
		return err
	}

	// Step 5: Select the vector store. DATABASE_URL switches the cache and
	// run persistence to Postgres; the file store is the local default.
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	var vectorStore store.Store
	var pg *store.PostgresStore
	if cfg.DatabaseURL != "" {
		pg, err = store.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		vectorStore = pg
	} else {
		vectorStore, err = store.NewFileStore(cfg.CacheDir)
		if err != nil {
			return err
		}
	}
	defer vectorStore.Close()

	// Step 6: Select the embedding provider, once, at startup.
	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}
	cache := embedding.NewCache(vectorStore, provider, embedding.CacheConfig{
		BatchSize:   cfg.EmbedBatchSize,
		CallTimeout: time.Duration(cfg.EmbedTimeout) * time.Second,
	}, log)

	// Step 7: Assemble sinks. Results stream to the JSONL file as they are
	// produced; Postgres and the verbose report are additional fan-outs.
	outFile, err := os.Create(cfg.Out)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", cfg.Out, err)
	}
	defer outFile.Close()

	sinks := pipeline.MultiSink{pipeline.NewJSONLSink(outFile)}
	status := "failed"
	if pg != nil {
		runID, rerr := pg.CreateRun(ctx, profile.Name)
		if rerr != nil {
			return rerr
		}
		pgs := &postgresSink{ctx: ctx, store: pg, runID: runID}
		sinks = append(sinks, pgs)
		defer func() { _ = pg.CompleteRun(context.Background(), runID, status) }()
	}
	var capture *captureSink
	if cfg.Verbose {
		capture = &captureSink{}
		sinks = append(sinks, capture)
	}

	normalizer := stints.NewNormalizer(taxonomy)
	extractor := scoring.NewExtractor(cache, time.Now().UTC(), log)
	orchestrator, err := pipeline.New(normalizer, extractor, profile, nil, sinks, cfg.Workers, log)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose {
		printer.PrintJobProfile(profile)
	}

	stats, runErr := orchestrator.Run(ctx, candidates)
	status = runStatus(runErr, stats)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	if serr := writeRunSummary(cfg.Out, stats); serr != nil {
		log.Warn("failed to write run summary", zap.Error(serr))
	}
	if cfg.Verbose {
		if capture != nil {
			printer.PrintTopResults(capture.results())
		}
		printer.PrintRunStats(stats)
	}

	// A run that scored nothing while failing candidates is an error; a
	// partial run is reported but exits cleanly with its results intact.
	if stats.Scored == 0 && len(stats.Failed) > 0 {
		return fmt.Errorf("no candidates scored (%d failed); see %s", len(stats.Failed), cfg.Out)
	}
	if len(stats.Failed) > 0 {
		log.Warn("run completed with failures",
			zap.Int("scored", stats.Scored),
			zap.Int("failed", len(stats.Failed)))
	}
	return nil
}

// runStatus maps a run outcome onto the persisted run status.
func runStatus(runErr error, stats pipeline.RunStats) string {
	switch {
	case runErr != nil && !errors.Is(runErr, context.Canceled):
		return "failed"
	case stats.Interrupted:
		return "interrupted"
	case stats.Scored == 0 && len(stats.Failed) > 0:
		return "failed"
	default:
		return "completed"
	}
}

// buildProvider constructs the configured embedding provider.
func buildProvider(cfg config.Config) (embedding.Provider, error) {
	switch cfg.Provider {
	case "mock":
		return embedding.NewMock(cfg.EmbedDimension), nil
	case "openai":
		apiKey := cfg.EmbedAPIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable or --embed-api-key flag is required for --provider openai")
		}
		return embedding.NewOpenAIClient(embedding.OpenAIConfig{
			BaseURL:   cfg.EmbedBaseURL,
			APIKey:    apiKey,
			Model:     cfg.EmbedModel,
			Dimension: cfg.EmbedDimension,
			Timeout:   time.Duration(cfg.EmbedTimeout) * time.Second,
		})
	}
	return nil, fmt.Errorf("unknown provider %q (want openai or mock)", cfg.Provider)
}

// writeRunSummary drops a stats JSON artifact next to the results file.
func writeRunSummary(outPath string, stats pipeline.RunStats) error {
	base := strings.TrimSuffix(outPath, filepath.Ext(outPath))
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(base+".summary.json", append(data, '\n'), 0o644)
}

// postgresSink persists each result under the current run row.
type postgresSink struct {
	ctx   context.Context
	store *store.PostgresStore
	runID uuid.UUID
}

func (s *postgresSink) Write(result types.ScoreResult) error {
	return s.store.SaveResult(s.ctx, s.runID, result.CandidateID, result.FitScore, result)
}

// captureSink keeps results in memory for the verbose report.
type captureSink struct {
	mu   sync.Mutex
	list []types.ScoreResult
}

func (s *captureSink) Write(result types.ScoreResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = append(s.list, result)
	return nil
}

func (s *captureSink) results() []types.ScoreResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ScoreResult, len(s.list))
	copy(out, s.list)
	return out
}
