package bench

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/gspatial/gsbench/pkg/errors"
	"github.com/gspatial/gsbench/pkg/infrastructure/metrics"
	"github.com/gspatial/gsbench/pkg/models"
	"github.com/gspatial/gsbench/pkg/repositories"
	"github.com/gspatial/gsbench/pkg/services"
	"github.com/gspatial/gsbench/pkg/timing"
)

// DispatchBuilder binds a dispatch service to one repository. The runner
// opens a fresh connection per repetition block, so the service is rebuilt
// around each one.
type DispatchBuilder func(repo repositories.QueryRepository) services.DispatchService

// Runner executes repetition blocks: n sequential calls of one comparison on
// one backend, each measured and written to a sink.
type Runner struct {
	factory  repositories.Factory
	dispatch DispatchBuilder
	logger   zerolog.Logger
	metrics  metrics.Collector
}

// NewRunner creates a runner. A nil collector disables metrics.
func NewRunner(factory repositories.Factory, dispatch DispatchBuilder, logger zerolog.Logger, collector metrics.Collector) *Runner {
	if collector == nil {
		collector = metrics.NewNoOpCollector()
	}
	return &Runner{
		factory:  factory,
		dispatch: dispatch,
		logger:   logger.With().Str("component", "runner").Logger(),
		metrics:  collector,
	}
}

// RunBlock opens a fresh connection, dispatches cmp n times on backend, and
// emits one timing line per call to sink. Query failures are logged and
// counted but do not stop the block; the timing line for a failed call is
// still written. Validation failures and cancellation stop the block.
func (r *Runner) RunBlock(ctx context.Context, sink io.Writer, backend models.Backend, cmp models.Comparison, n int) ([]timing.Record, error) {
	repo, err := r.factory(ctx)
	if err != nil {
		return nil, err
	}
	defer repo.Close(ctx)

	svc := r.dispatch(repo)
	if err := svc.ValidateComparison(cmp); err != nil {
		return nil, err
	}

	records := make([]timing.Record, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return records, errors.Wrap(err, errors.CodeCanceled, "repetition block canceled")
		}

		rec, runErr := timing.Measure(sink, backend, func() error {
			_, err := svc.Dispatch(ctx, backend, cmp)
			return err
		})
		records = append(records, rec)

		r.metrics.IncrementCounter(metrics.MetricQueriesTotal,
			"backend", backend.String(), "operation", cmp.Operation)
		r.metrics.RecordHistogram(metrics.MetricQueryDuration, rec.Seconds,
			"backend", backend.String(), "operation", cmp.Operation)

		if runErr != nil {
			r.metrics.IncrementCounter(metrics.MetricQueryFailures,
				"backend", backend.String(), "operation", cmp.Operation)
			r.logger.Error().
				Err(runErr).
				Str("operation", cmp.Operation).
				Str("backend", backend.String()).
				Int("iteration", i).
				Msg("Query failed")
		}
	}

	return records, nil
}
