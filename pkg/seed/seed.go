// Package seed generates synthetic labeled geometry datasets so a bare
// database can be benchmarked.
package seed

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gspatial/gsbench/pkg/errors"
	"github.com/gspatial/gsbench/pkg/infrastructure/metrics"
	"github.com/gspatial/gsbench/pkg/repositories"
)

// DefaultBatchSize is the number of nodes written per UNWIND batch.
const DefaultBatchSize = 500

// Bounds is the lon/lat box node centroids are drawn from.
type Bounds struct {
	MinLon, MinLat float64
	MaxLon, MaxLat float64
}

// DefaultBounds covers the metropolitan area the reference dataset was
// captured in.
var DefaultBounds = Bounds{MinLon: 126.76, MinLat: 37.42, MaxLon: 127.18, MaxLat: 37.70}

// Options control one seed run.
type Options struct {
	Label     string
	Count     int
	Seed      int64
	BatchSize int
	Bounds    Bounds
}

// Seeder writes synthetic nodes through a query repository.
type Seeder struct {
	repo    repositories.QueryRepository
	logger  zerolog.Logger
	metrics metrics.Collector
}

// NewSeeder creates a seeder. A nil collector disables metrics.
func NewSeeder(repo repositories.QueryRepository, logger zerolog.Logger, collector metrics.Collector) *Seeder {
	if collector == nil {
		collector = metrics.NewNoOpCollector()
	}
	return &Seeder{
		repo:    repo,
		logger:  logger.With().Str("component", "seed").Logger(),
		metrics: collector,
	}
}

// GenerateRows produces the node property maps for one label. Each node
// carries a sequential idx, a UUID id, and a WKT polygon geometry. The same
// seed always yields the same rows, ids included.
func GenerateRows(opts Options) ([]map[string]any, error) {
	if opts.Label == "" {
		return nil, errors.New(errors.CodeInvalidInput, "label cannot be empty")
	}
	if opts.Count <= 0 {
		return nil, errors.New(errors.CodeInvalidInput, "count must be positive")
	}

	bounds := opts.Bounds
	if bounds == (Bounds{}) {
		bounds = DefaultBounds
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	rows := make([]map[string]any, opts.Count)
	for i := 0; i < opts.Count; i++ {
		id, err := uuid.NewRandomFromReader(rng)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "generate node id")
		}
		cx := bounds.MinLon + rng.Float64()*(bounds.MaxLon-bounds.MinLon)
		cy := bounds.MinLat + rng.Float64()*(bounds.MaxLat-bounds.MinLat)
		r := 0.0005 + rng.Float64()*0.002
		rows[i] = map[string]any{
			"idx":      i,
			"id":       id.String(),
			"geometry": squareWKT(cx, cy, r),
		}
	}
	return rows, nil
}

// squareWKT renders a closed square ring centered on (cx, cy).
func squareWKT(cx, cy, r float64) string {
	return fmt.Sprintf("POLYGON ((%.6f %.6f, %.6f %.6f, %.6f %.6f, %.6f %.6f, %.6f %.6f))",
		cx-r, cy-r,
		cx+r, cy-r,
		cx+r, cy+r,
		cx-r, cy+r,
		cx-r, cy-r)
}

// Seed generates and writes opts.Count nodes under opts.Label, returning the
// number of nodes the database reports as created.
func (s *Seeder) Seed(ctx context.Context, opts Options) (int64, error) {
	rows, err := GenerateRows(opts)
	if err != nil {
		return 0, err
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	// Labels cannot be parameterized in Cypher; the label passes through the
	// same trusted interpolation boundary as the query catalog.
	query := fmt.Sprintf("UNWIND $rows AS row CREATE (n:%s) SET n = row", opts.Label)

	var created int64
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}

		n, err := s.repo.ExecuteWrite(ctx, query, map[string]any{"rows": rows[start:end]})
		if err != nil {
			return created, errors.Wrapf(err, errors.CodeSeedFailed,
				"seed batch %d-%d for label %s", start, end, opts.Label)
		}
		created += n

		s.logger.Debug().
			Str("label", opts.Label).
			Int("batch_start", start).
			Int("batch_end", end).
			Int64("created", created).
			Msg("Seeded batch")
	}

	s.metrics.RecordGauge(metrics.MetricSeededNodes, float64(created), "label", opts.Label)
	s.logger.Info().
		Str("label", opts.Label).
		Int64("created", created).
		Msg("Seeding complete")

	return created, nil
}
