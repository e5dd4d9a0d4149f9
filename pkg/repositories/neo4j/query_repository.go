// Package neo4j provides the Bolt-backed query repository.
package neo4j

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog"

	"github.com/gspatial/gsbench/pkg/errors"
	"github.com/gspatial/gsbench/pkg/repositories"
)

// Config holds connection settings for the graph database.
type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

// queryRepository implements repositories.QueryRepository over Bolt.
type queryRepository struct {
	driver   neo4j.DriverWithContext
	database string
	logger   zerolog.Logger
}

// NewQueryRepository opens a driver and verifies connectivity. An empty
// username selects unauthenticated access.
func NewQueryRepository(ctx context.Context, cfg Config, logger zerolog.Logger) (repositories.QueryRepository, error) {
	auth := neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	if cfg.Username == "" {
		auth = neo4j.NoAuth()
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeConnectionFailed, "failed to create driver for %s", cfg.URI)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, errors.Wrapf(err, errors.CodeConnectionFailed, "failed to verify connectivity to %s", cfg.URI)
	}

	return &queryRepository{
		driver:   driver,
		database: cfg.Database,
		logger:   logger.With().Str("component", "neo4j").Logger(),
	}, nil
}

// NewFactory returns a repositories.Factory bound to cfg.
func NewFactory(cfg Config, logger zerolog.Logger) repositories.Factory {
	return func(ctx context.Context) (repositories.QueryRepository, error) {
		return NewQueryRepository(ctx, cfg, logger)
	}
}

// ExecuteQuery executes a read query in a fresh session and materializes the
// result rows.
func (r *queryRepository) ExecuteQuery(ctx context.Context, query string, params map[string]any) ([]repositories.Row, error) {
	r.logger.Debug().
		Int("params", len(params)).
		Msg("Executing query")

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: r.database,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]repositories.Row, 0, len(records))
		for _, record := range records {
			row := make(repositories.Row, len(record.Keys))
			for i, key := range record.Keys {
				row[key] = record.Values[i]
			}
			rows = append(rows, row)
		}
		return rows, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeQueryFailed, "query execution failed")
	}

	rows := result.([]repositories.Row)
	r.logger.Debug().Int("rows", len(rows)).Msg("Query complete")
	return rows, nil
}

// ExecuteWrite executes a write query in a fresh session and reports how many
// nodes it created.
func (r *queryRepository) ExecuteWrite(ctx context.Context, query string, params map[string]any) (int64, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: r.database,
	})
	defer session.Close(ctx)

	created, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return nil, err
		}
		return int64(summary.Counters().NodesCreated()), nil
	})
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeQueryFailed, "write execution failed")
	}

	return created.(int64), nil
}

// Close releases the underlying driver.
func (r *queryRepository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}
