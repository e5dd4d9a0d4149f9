package bench

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/gspatial/gsbench/pkg/errors"
	"github.com/gspatial/gsbench/pkg/infrastructure/metrics"
	"github.com/gspatial/gsbench/pkg/models"
	"github.com/gspatial/gsbench/pkg/timing"
)

// DefaultIterations is the measured call count per backend.
const DefaultIterations = 10

// Options configure comparison runs.
type Options struct {
	// ResultsDir receives one log artifact per comparison.
	ResultsDir string
	// Iterations is the measured call count per backend.
	Iterations int
	// Warmup runs the full repetition block on both backends first, output
	// discarded, so caches are hot before anything is recorded.
	Warmup bool
	// Console receives the two average lines after each comparison. Nil
	// discards them.
	Console io.Writer
}

// Result is the aggregated outcome of one comparison.
type Result struct {
	Operation    string  `json:"operation"`
	Label1       string  `json:"label1"`
	Label2       string  `json:"label2,omitempty"`
	Iterations   int     `json:"iterations"`
	NativeMean   float64 `json:"native_mean_seconds"`
	JenaMean     float64 `json:"jena_mean_seconds"`
	Speedup      float64 `json:"speedup"`
	ArtifactPath string  `json:"artifact_path"`
}

// Comparator runs one comparison on both backends and aggregates the
// artifact it wrote.
type Comparator struct {
	runner  *Runner
	opts    Options
	logger  zerolog.Logger
	metrics metrics.Collector
}

// NewComparator creates a comparator. Zero option fields fall back to
// defaults; a nil collector disables metrics.
func NewComparator(runner *Runner, opts Options, logger zerolog.Logger, collector metrics.Collector) *Comparator {
	if opts.ResultsDir == "" {
		opts.ResultsDir = DefaultResultsDir
	}
	if opts.Iterations <= 0 {
		opts.Iterations = DefaultIterations
	}
	if opts.Console == nil {
		opts.Console = io.Discard
	}
	if collector == nil {
		collector = metrics.NewNoOpCollector()
	}
	return &Comparator{
		runner:  runner,
		opts:    opts,
		logger:  logger.With().Str("component", "comparator").Logger(),
		metrics: collector,
	}
}

// Compare warms up both backends, runs the measured blocks into the log
// artifact, then re-reads the artifact to compute per-backend averages. The
// averages are appended to the artifact and written to the console sink.
func (c *Comparator) Compare(ctx context.Context, cmp models.Comparison) (*Result, error) {
	c.logger.Info().
		Str("operation", cmp.Operation).
		Str("label1", cmp.Label1).
		Str("label2", cmp.Label2).
		Int("iterations", c.opts.Iterations).
		Msg("Comparison started")

	if c.opts.Warmup {
		for _, backend := range models.Backends() {
			if _, err := c.runner.RunBlock(ctx, io.Discard, backend, cmp, c.opts.Iterations); err != nil {
				return nil, err
			}
			c.metrics.IncrementCounter(metrics.MetricWarmupRunsTotal,
				"backend", backend.String(), "operation", cmp.Operation)
		}
	}

	f, err := CreateArtifact(c.opts.ResultsDir, cmp)
	if err != nil {
		return nil, err
	}
	for _, backend := range models.Backends() {
		timing.WriteHeader(f, cmp.Operation, c.opts.Iterations, backend)
		if _, err := c.runner.RunBlock(ctx, f, backend, cmp, c.opts.Iterations); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := f.Close(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "close artifact")
	}

	// Aggregate from the artifact rather than from in-memory records: the
	// file is the deliverable and must stand on its own.
	nativeMean, jenaMean, err := c.aggregate(cmp)
	if err != nil {
		return nil, err
	}

	if err := c.appendSummary(cmp, nativeMean, jenaMean); err != nil {
		return nil, err
	}
	c.writeSummary(c.opts.Console, nativeMean, jenaMean)

	var speedup float64
	if nativeMean > 0 {
		speedup = jenaMean / nativeMean
	}
	result := &Result{
		Operation:    cmp.Operation,
		Label1:       cmp.Label1,
		Label2:       cmp.Label2,
		Iterations:   c.opts.Iterations,
		NativeMean:   nativeMean,
		JenaMean:     jenaMean,
		Speedup:      speedup,
		ArtifactPath: ArtifactPath(c.opts.ResultsDir, cmp),
	}

	c.metrics.IncrementCounter(metrics.MetricComparisonsTotal, "operation", cmp.Operation)
	c.logger.Info().
		Str("operation", cmp.Operation).
		Float64("native_mean", nativeMean).
		Float64("jena_mean", jenaMean).
		Msg("Comparison complete")

	return result, nil
}

// aggregate re-reads the artifact and attributes timing records to backends
// by header section. Both sections must hold exactly the configured
// iteration count.
func (c *Comparator) aggregate(cmp models.Comparison) (float64, float64, error) {
	f, err := OpenArtifact(c.opts.ResultsDir, cmp)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	native, jena, err := timing.ParseSections(f)
	if err != nil {
		return 0, 0, err
	}
	if len(native) != c.opts.Iterations || len(jena) != c.opts.Iterations {
		return 0, 0, errors.New(errors.CodeAggregationFailed, fmt.Sprintf(
			"artifact holds %d native and %d jena records, want %d each",
			len(native), len(jena), c.opts.Iterations))
	}

	nativeMean, err := timing.Mean(native)
	if err != nil {
		return 0, 0, err
	}
	jenaMean, err := timing.Mean(jena)
	if err != nil {
		return 0, 0, err
	}
	return nativeMean, jenaMean, nil
}

// appendSummary writes the two average lines onto the end of the artifact.
func (c *Comparator) appendSummary(cmp models.Comparison, nativeMean, jenaMean float64) error {
	f, err := AppendArtifact(c.opts.ResultsDir, cmp)
	if err != nil {
		return err
	}
	defer f.Close()
	c.writeSummary(f, nativeMean, jenaMean)
	return nil
}

func (c *Comparator) writeSummary(w io.Writer, nativeMean, jenaMean float64) {
	fmt.Fprintf(w, "Average %s time: %.3fsec\n", models.BackendNative.PluginName(), nativeMean)
	fmt.Fprintf(w, "Average %s time: %.3fsec\n", models.BackendJena.PluginName(), jenaMean)
}
