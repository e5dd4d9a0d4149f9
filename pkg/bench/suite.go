package bench

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gspatial/gsbench/pkg/errors"
	"github.com/gspatial/gsbench/pkg/infrastructure/metrics"
	"github.com/gspatial/gsbench/pkg/models"
)

// DefaultComparisons returns the stock comparison set the plugin is
// benchmarked with.
func DefaultComparisons() []models.Comparison {
	return []models.Comparison{
		{Operation: "intersection", Label1: "GoodWayToWalk", Label2: "GoodWayToWalk"},
		{Operation: "contains", Label1: "AgendaArea", Label2: "Apartment"},
		{Operation: "within", Label1: "Apartment", Label2: "AgendaArea"},
		{Operation: "intersects", Label1: "AgendaArea", Label2: "AgendaArea"},
		{Operation: "boundary", Label1: "AgendaArea"},
		{Operation: "convex_hull", Label1: "AgendaArea"},
		{Operation: "envelope", Label1: "AgendaArea"},
	}
}

// Failure pairs a comparison with the error that stopped it.
type Failure struct {
	Comparison models.Comparison `json:"comparison"`
	Err        string            `json:"error"`
}

// SuiteResult is the outcome of one suite run.
type SuiteResult struct {
	RunID    string    `json:"run_id"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Results  []Result  `json:"results"`
	Failures []Failure `json:"failures,omitempty"`
}

// Suite runs a set of comparisons in order.
type Suite struct {
	comparator  *Comparator
	comparisons []models.Comparison
	logger      zerolog.Logger
	metrics     metrics.Collector
}

// NewSuite creates a suite. An empty comparison list falls back to
// DefaultComparisons; a nil collector disables metrics.
func NewSuite(comparator *Comparator, comparisons []models.Comparison, logger zerolog.Logger, collector metrics.Collector) *Suite {
	if len(comparisons) == 0 {
		comparisons = DefaultComparisons()
	}
	if collector == nil {
		collector = metrics.NewNoOpCollector()
	}
	return &Suite{
		comparator:  comparator,
		comparisons: comparisons,
		logger:      logger.With().Str("component", "suite").Logger(),
		metrics:     collector,
	}
}

// Run executes every comparison in order. A failed comparison is recorded
// and the suite moves on; only cancellation stops it early. The partial
// result is returned alongside a cancellation error.
func (s *Suite) Run(ctx context.Context) (*SuiteResult, error) {
	out := &SuiteResult{
		RunID:   uuid.New().String(),
		Started: time.Now().UTC(),
	}
	s.logger.Info().
		Str("run_id", out.RunID).
		Int("comparisons", len(s.comparisons)).
		Msg("Suite started")

	for _, cmp := range s.comparisons {
		if err := ctx.Err(); err != nil {
			out.Finished = time.Now().UTC()
			return out, errors.Wrap(err, errors.CodeCanceled, "suite canceled")
		}

		result, err := s.comparator.Compare(ctx, cmp)
		if err != nil {
			if errors.GetCode(err) == errors.CodeCanceled {
				out.Finished = time.Now().UTC()
				return out, err
			}
			s.metrics.IncrementCounter(metrics.MetricComparisonFailed, "operation", cmp.Operation)
			s.logger.Error().
				Err(err).
				Str("operation", cmp.Operation).
				Str("label1", cmp.Label1).
				Str("label2", cmp.Label2).
				Msg("Comparison failed")
			out.Failures = append(out.Failures, Failure{Comparison: cmp, Err: err.Error()})
			continue
		}
		out.Results = append(out.Results, *result)
	}

	out.Finished = time.Now().UTC()
	s.logger.Info().
		Str("run_id", out.RunID).
		Int("succeeded", len(out.Results)).
		Int("failed", len(out.Failures)).
		Msg("Suite complete")

	return out, nil
}
