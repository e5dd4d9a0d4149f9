// Package main provides the entry point for the gsbench CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gspatial/gsbench/cmd/gsbench/config"
	"github.com/gspatial/gsbench/pkg/bench"
	"github.com/gspatial/gsbench/pkg/infrastructure/metrics"
	"github.com/gspatial/gsbench/pkg/models"
	"github.com/gspatial/gsbench/pkg/repositories"
	neo4jrepo "github.com/gspatial/gsbench/pkg/repositories/neo4j"
	"github.com/gspatial/gsbench/pkg/seed"
	"github.com/gspatial/gsbench/pkg/services"
)

var (
	// Version information (set by build flags)
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "gsbench",
	Short: "gsbench spatial plugin benchmark",
	Long: `Benchmark harness for the gspatial Neo4j plugin.

gsbench times templated spatial queries against the native plugin procedure
(gspatial.operation) and the Jena-backed reference procedure
(gspatial.jenaOperation) and reports comparative averages.`,
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run one operation on both backends and compare averages",
	Long: `Run one spatial operation 10 times on each plugin backend, write the
timing log artifact, and print the per-backend averages.

Example:
  gsbench compare --operation within --label1 Apartment --label2 AgendaArea
  gsbench compare --operation boundary --label1 AgendaArea`,
	RunE: runCompare,
}

var suiteCmd = &cobra.Command{
	Use:   "suite",
	Short: "Run the full comparison suite",
	Long: `Run every configured comparison in order and write a suite report.

Without a config file the stock suite is used: intersection, contains,
within, intersects, boundary, convex_hull and envelope over the reference
dataset labels.

Example:
  gsbench suite --report-format markdown
  gsbench suite --config ./gsbench.yaml --report-out suite.json`,
	RunE: runSuite,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed synthetic labeled geometry nodes",
	Long: `Generate deterministic synthetic nodes carrying geometry and idx
properties under one label, so a bare database can be benchmarked.

Example:
  gsbench seed --label AgendaArea --count 200 --rand-seed 42`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(suiteCmd)
	rootCmd.AddCommand(seedCmd)

	// Connection and benchmark flags shared by every subcommand
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")
	rootCmd.PersistentFlags().String("uri", "neo4j://localhost:7687", "database URI")
	rootCmd.PersistentFlags().String("username", "neo4j", "database username (empty for no auth)")
	rootCmd.PersistentFlags().String("password", "", "database password")
	rootCmd.PersistentFlags().String("database", "", "database name (empty for the server default)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Int("iterations", bench.DefaultIterations, "measured calls per backend")
	rootCmd.PersistentFlags().String("results-dir", bench.DefaultResultsDir, "directory for log artifacts")
	rootCmd.PersistentFlags().Bool("warmup", true, "run both backends once unrecorded before measuring")
	rootCmd.PersistentFlags().Bool("metrics", false, "enable Prometheus metrics")
	rootCmd.PersistentFlags().String("metrics-address", ":9090", "metrics server address")

	compareCmd.Flags().String("operation", "", "spatial operation name")
	compareCmd.Flags().String("label1", "", "first operand label")
	compareCmd.Flags().String("label2", "", "second operand label (or scalar for buffer)")

	suiteCmd.Flags().String("report-format", "markdown", "suite report format (json, csv, markdown)")
	suiteCmd.Flags().String("report-out", "", "suite report path (default stdout)")

	seedCmd.Flags().String("label", "", "node label to create")
	seedCmd.Flags().Int("count", 100, "number of nodes to create")
	seedCmd.Flags().Int64("rand-seed", 0, "random seed for deterministic geometry")
	seedCmd.Flags().Int("batch-size", seed.DefaultBatchSize, "nodes per write batch")

	// Bind flags to viper
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(fmt.Errorf("failed to bind flags: %w", err))
	}
	viper.SetEnvPrefix("GSBENCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gsbench spatial plugin benchmark\n")
			fmt.Printf("Version:    %s\n", version)
			fmt.Printf("Commit:     %s\n", commit)
			fmt.Printf("Build Date: %s\n", buildDate)
		},
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	operation, _ := cmd.Flags().GetString("operation")
	label1, _ := cmd.Flags().GetString("label1")
	label2, _ := cmd.Flags().GetString("label2")
	cmp := models.Comparison{Operation: operation, Label1: label1, Label2: label2}

	// Reject bad input before any artifact is created.
	if err := services.NewDispatchService(nil, nopServiceLogger{}, noServiceMetrics{}).ValidateComparison(cmp); err != nil {
		return err
	}

	logger := setupLogging(cfg.LogLevel)
	collector, metricsServer := setupMetrics(cfg, logger)
	defer stopMetrics(metricsServer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	comparator := buildComparator(cfg, logger, collector)
	result, err := comparator.Compare(ctx, cmp)
	if err != nil {
		return err
	}

	logger.Info().
		Str("artifact", result.ArtifactPath).
		Float64("native_mean", result.NativeMean).
		Float64("jena_mean", result.JenaMean).
		Msg("Comparison written")
	return nil
}

func runSuite(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	format, _ := cmd.Flags().GetString("report-format")
	switch format {
	case "json", "csv", "markdown":
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}

	logger := setupLogging(cfg.LogLevel)
	logger.Info().
		Str("version", version).
		Str("uri", cfg.URI).
		Msg("Starting benchmark suite")

	collector, metricsServer := setupMetrics(cfg, logger)
	defer stopMetrics(metricsServer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	comparator := buildComparator(cfg, logger, collector)
	suite := bench.NewSuite(comparator, suiteComparisons(cfg), logger, collector)

	result, err := suite.Run(ctx)
	if err != nil {
		return err
	}

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("report-out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "json":
		err = bench.WriteJSON(result.Results, out)
	case "csv":
		err = bench.WriteCSV(result.Results, out)
	default:
		err = bench.WriteMarkdown(result.Results, out)
	}
	if err != nil {
		return err
	}

	if len(result.Failures) > 0 {
		return fmt.Errorf("%d of %d comparisons failed", len(result.Failures),
			len(result.Results)+len(result.Failures))
	}
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	label, _ := cmd.Flags().GetString("label")
	count, _ := cmd.Flags().GetInt("count")
	randSeed, _ := cmd.Flags().GetInt64("rand-seed")
	batchSize, _ := cmd.Flags().GetInt("batch-size")

	logger := setupLogging(cfg.LogLevel)
	collector, metricsServer := setupMetrics(cfg, logger)
	defer stopMetrics(metricsServer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := neo4jrepo.NewQueryRepository(ctx, repositoryConfig(cfg), logger)
	if err != nil {
		return err
	}
	defer repo.Close(ctx)

	seeder := seed.NewSeeder(repo, logger, collector)
	created, err := seeder.Seed(ctx, seed.Options{
		Label:     label,
		Count:     count,
		Seed:      randSeed,
		BatchSize: batchSize,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created %d %s nodes\n", created, label)
	return nil
}

func loadConfig() (*config.Config, error) {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &config.Config{
		URI:        viper.GetString("uri"),
		Username:   viper.GetString("username"),
		Password:   viper.GetString("password"),
		Database:   viper.GetString("database"),
		Iterations: viper.GetInt("iterations"),
		ResultsDir: viper.GetString("results-dir"),
		Warmup:     viper.GetBool("warmup"),
		LogLevel:   viper.GetString("log-level"),
		Metrics: config.MetricsConfig{
			Enabled: viper.GetBool("metrics"),
			Address: viper.GetString("metrics-address"),
		},
	}
	if err := viper.UnmarshalKey("comparisons", &cfg.Comparisons); err != nil {
		return nil, fmt.Errorf("failed to parse comparisons: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setupLogging(level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.DurationFieldUnit = time.Millisecond

	var logLevel zerolog.Level
	switch level {
	case "debug":
		logLevel = zerolog.DebugLevel
		// Enable caller info for debug level
		zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
			short := file
			for i := len(file) - 1; i > 0; i-- {
				if file[i] == '/' {
					short = file[i+1:]
					break
				}
			}
			return fmt.Sprintf("%s:%d", short, line)
		}
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	// Diagnostics go to stderr; stdout carries the comparison summaries and
	// suite reports.
	logger := zerolog.New(os.Stderr).
		Level(logLevel).
		With().
		Timestamp().
		Str("service", "gsbench")

	if logLevel == zerolog.DebugLevel {
		logger = logger.Caller()
	}

	return logger.Logger()
}

func setupMetrics(cfg *config.Config, logger zerolog.Logger) (metrics.Collector, *metrics.MetricsServer) {
	if !cfg.Metrics.Enabled {
		return metrics.NewNoOpCollector(), nil
	}

	collector := metrics.NewPrometheusCollector()
	server := metrics.NewMetricsServer(cfg.Metrics.Address)
	go func() {
		logger.Info().Str("address", cfg.Metrics.Address).Msg("Starting metrics server")
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("Failed to start metrics server")
		}
	}()
	return collector, server
}

func stopMetrics(server *metrics.MetricsServer, logger zerolog.Logger) {
	if server == nil {
		return
	}
	if err := server.Stop(); err != nil {
		logger.Error().Err(err).Msg("Error stopping metrics server")
	}
}

func repositoryConfig(cfg *config.Config) neo4jrepo.Config {
	return neo4jrepo.Config{
		URI:      cfg.URI,
		Username: cfg.Username,
		Password: cfg.Password,
		Database: cfg.Database,
	}
}

func buildComparator(cfg *config.Config, logger zerolog.Logger, collector metrics.Collector) *bench.Comparator {
	factory := neo4jrepo.NewFactory(repositoryConfig(cfg), logger)

	dispatch := func(repo repositories.QueryRepository) services.DispatchService {
		return services.NewDispatchService(
			repo,
			&serviceLoggerAdapter{logger: logger.With().Str("component", "dispatch_service").Logger()},
			&serviceMetricsAdapter{collector: collector},
		)
	}

	runner := bench.NewRunner(factory, dispatch, logger, collector)
	return bench.NewComparator(runner, bench.Options{
		ResultsDir: cfg.ResultsDir,
		Iterations: cfg.Iterations,
		Warmup:     cfg.Warmup,
		Console:    os.Stdout,
	}, logger, collector)
}

func suiteComparisons(cfg *config.Config) []models.Comparison {
	comparisons := make([]models.Comparison, len(cfg.Comparisons))
	for i, c := range cfg.Comparisons {
		comparisons[i] = models.Comparison{Operation: c.Operation, Label1: c.Label1, Label2: c.Label2}
	}
	return comparisons
}
