// Package services contains business logic implementations.
package services

import (
	"context"
	"time"

	"github.com/gspatial/gsbench/pkg/models"
	"github.com/gspatial/gsbench/pkg/repositories"
)

// DispatchService builds and executes spatial plugin calls.
type DispatchService interface {
	Dispatch(ctx context.Context, backend models.Backend, cmp models.Comparison) ([]repositories.Row, error)
	BuildQuery(backend models.Backend, cmp models.Comparison) (string, error)
	ValidateComparison(cmp models.Comparison) error
	Classify(operation string) models.Category
}

// Logger defines logging interface.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// MetricsCollector defines metrics collection interface.
type MetricsCollector interface {
	IncrementCounter(name string, labels ...string)
	RecordHistogram(name string, value float64, labels ...string)
	RecordGauge(name string, value float64, labels ...string)
	StartTimer(name string) Timer
}

// Timer represents a timing measurement.
type Timer interface {
	Stop() time.Duration
}
