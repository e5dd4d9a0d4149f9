// Package services contains business logic implementations.
package services

import (
	"context"
	"fmt"

	"github.com/gspatial/gsbench/pkg/catalog"
	"github.com/gspatial/gsbench/pkg/errors"
	"github.com/gspatial/gsbench/pkg/models"
	"github.com/gspatial/gsbench/pkg/repositories"
)

// dispatchService implements DispatchService.
type dispatchService struct {
	repo       repositories.QueryRepository
	logger     Logger
	metrics    MetricsCollector
	classifier *OperationClassifier
}

// NewDispatchService creates a new dispatch service.
func NewDispatchService(
	repo repositories.QueryRepository,
	logger Logger,
	metrics MetricsCollector,
) DispatchService {
	return &dispatchService{
		repo:       repo,
		logger:     logger,
		metrics:    metrics,
		classifier: NewOperationClassifier(),
	}
}

// Dispatch renders the Cypher for a comparison and executes it on the given
// backend. Row contents are returned as-is; callers that only measure latency
// may discard them.
func (s *dispatchService) Dispatch(ctx context.Context, backend models.Backend, cmp models.Comparison) ([]repositories.Row, error) {
	timer := s.metrics.StartTimer("dispatch_execution")
	defer timer.Stop()

	query, err := s.BuildQuery(backend, cmp)
	if err != nil {
		s.metrics.IncrementCounter("dispatch_validation_errors")
		return nil, err
	}

	s.logger.Debug("Dispatching plugin call",
		"operation", cmp.Operation,
		"backend", backend.String(),
		"label1", cmp.Label1,
		"label2", cmp.Label2)

	rows, err := s.repo.ExecuteQuery(ctx, query, nil)
	if err != nil {
		s.metrics.IncrementCounter("dispatch_execution_errors")
		s.logger.Error("Plugin call failed",
			"error", err,
			"operation", cmp.Operation,
			"backend", backend.String())
		return nil, err
	}

	s.metrics.IncrementCounter("successful_dispatches")
	s.metrics.RecordHistogram("dispatch_result_rows", float64(len(rows)))
	return rows, nil
}

// BuildQuery renders the Cypher text for a comparison without executing it.
func (s *dispatchService) BuildQuery(backend models.Backend, cmp models.Comparison) (string, error) {
	if err := s.ValidateComparison(cmp); err != nil {
		return "", err
	}

	category := s.classifier.Classify(cmp.Operation)
	return catalog.Build(category, cmp.Operation, cmp.Label1, cmp.Label2, backend)
}

// ValidateComparison checks that a comparison names a known operation and
// carries the operands its category requires.
func (s *dispatchService) ValidateComparison(cmp models.Comparison) error {
	if cmp.Operation == "" {
		return errors.New(errors.CodeInvalidInput, "operation cannot be empty")
	}

	category := s.classifier.Classify(cmp.Operation)
	if category == models.CategoryUnknown {
		return errors.New(errors.CodeUnknownOperation,
			fmt.Sprintf("unknown operation %q", cmp.Operation))
	}

	if cmp.Label1 == "" {
		return errors.ErrMissingLabel.WithDetail("operand", "label1")
	}
	if category.LabelArity() == 2 && cmp.Label2 == "" {
		return errors.ErrMissingLabel.WithDetail("operand", "label2")
	}

	// Parameterized operations reuse Label2 as the scalar argument.
	if category == models.CategoryParameterized && cmp.Label2 == "" {
		return errors.New(errors.CodeInvalidInput,
			fmt.Sprintf("operation %q requires a parameter value", cmp.Operation))
	}

	return nil
}

// Classify returns the query category an operation dispatches to.
func (s *dispatchService) Classify(operation string) models.Category {
	return s.classifier.Classify(operation)
}
