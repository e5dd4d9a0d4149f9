package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gspatial/gsbench/pkg/errors"
	"github.com/gspatial/gsbench/pkg/models"
	"github.com/gspatial/gsbench/pkg/repositories"
)

// mockQueryRepo implements repositories.QueryRepository
type mockQueryRepo struct {
	executeQueryFunc func(ctx context.Context, query string, params map[string]any) ([]repositories.Row, error)
	executeWriteFunc func(ctx context.Context, query string, params map[string]any) (int64, error)
	closeFunc        func(ctx context.Context) error
}

func (m *mockQueryRepo) ExecuteQuery(ctx context.Context, query string, params map[string]any) ([]repositories.Row, error) {
	return m.executeQueryFunc(ctx, query, params)
}

func (m *mockQueryRepo) ExecuteWrite(ctx context.Context, query string, params map[string]any) (int64, error) {
	return m.executeWriteFunc(ctx, query, params)
}

func (m *mockQueryRepo) Close(ctx context.Context) error {
	if m.closeFunc != nil {
		return m.closeFunc(ctx)
	}
	return nil
}

// mockLogger implements Logger
type mockLogger struct {
	debugFunc func(msg string, keysAndValues ...interface{})
	infoFunc  func(msg string, keysAndValues ...interface{})
	warnFunc  func(msg string, keysAndValues ...interface{})
	errorFunc func(msg string, keysAndValues ...interface{})
}

func (m *mockLogger) Debug(msg string, keysAndValues ...interface{}) {
	if m.debugFunc != nil {
		m.debugFunc(msg, keysAndValues...)
	}
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {
	if m.infoFunc != nil {
		m.infoFunc(msg, keysAndValues...)
	}
}

func (m *mockLogger) Warn(msg string, keysAndValues ...interface{}) {
	if m.warnFunc != nil {
		m.warnFunc(msg, keysAndValues...)
	}
}

func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	if m.errorFunc != nil {
		m.errorFunc(msg, keysAndValues...)
	}
}

// mockMetricsCollector implements MetricsCollector
type mockMetricsCollector struct {
	incrementCounterFunc func(name string, labels ...string)
	recordHistogramFunc  func(name string, value float64, labels ...string)
	recordGaugeFunc      func(name string, value float64, labels ...string)
	startTimerFunc       func(name string) Timer
}

func (m *mockMetricsCollector) IncrementCounter(name string, labels ...string) {
	if m.incrementCounterFunc != nil {
		m.incrementCounterFunc(name, labels...)
	}
}

func (m *mockMetricsCollector) RecordHistogram(name string, value float64, labels ...string) {
	if m.recordHistogramFunc != nil {
		m.recordHistogramFunc(name, value, labels...)
	}
}

func (m *mockMetricsCollector) RecordGauge(name string, value float64, labels ...string) {
	if m.recordGaugeFunc != nil {
		m.recordGaugeFunc(name, value, labels...)
	}
}

func (m *mockMetricsCollector) StartTimer(name string) Timer {
	if m.startTimerFunc != nil {
		return m.startTimerFunc(name)
	}
	return &mockTimer{}
}

// mockTimer implements Timer
type mockTimer struct{}

func (m *mockTimer) Stop() time.Duration {
	return 0
}

func setupTestDispatchService() (DispatchService, *mockQueryRepo, *mockLogger, *mockMetricsCollector) {
	repo := &mockQueryRepo{}
	logger := &mockLogger{}
	metrics := &mockMetricsCollector{}
	service := NewDispatchService(repo, logger, metrics)
	return service, repo, logger, metrics
}

func TestDispatchService_Dispatch(t *testing.T) {
	service, repo, _, _ := setupTestDispatchService()

	t.Run("successful dispatch on native backend", func(t *testing.T) {
		// Setup mock response
		var executed string
		repo.executeQueryFunc = func(ctx context.Context, query string, params map[string]any) ([]repositories.Row, error) {
			executed = query
			return []repositories.Row{
				{"n.idx": int64(1), "m.idx": int64(2)},
			}, nil
		}

		// Test
		cmp := models.Comparison{Operation: "within", Label1: "Apartment", Label2: "AgendaArea"}
		rows, err := service.Dispatch(context.Background(), models.BackendNative, cmp)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
		assert.Contains(t, executed, "gspatial.operation(")
		assert.Contains(t, executed, "'within'")
		assert.NotContains(t, executed, "jenaOperation")
	})

	t.Run("jena backend swaps procedure name only", func(t *testing.T) {
		// Setup mock response
		var executed string
		repo.executeQueryFunc = func(ctx context.Context, query string, params map[string]any) ([]repositories.Row, error) {
			executed = query
			return nil, nil
		}

		// Test
		cmp := models.Comparison{Operation: "within", Label1: "Apartment", Label2: "AgendaArea"}
		_, err := service.Dispatch(context.Background(), models.BackendJena, cmp)
		require.NoError(t, err)
		assert.Contains(t, executed, "gspatial.jenaOperation(")
	})

	t.Run("repository error is returned", func(t *testing.T) {
		// Setup mock response
		repo.executeQueryFunc = func(ctx context.Context, query string, params map[string]any) ([]repositories.Row, error) {
			return nil, assert.AnError
		}

		// Test
		cmp := models.Comparison{Operation: "union", Label1: "GoodWayToWalk", Label2: "GoodWayToWalk"}
		rows, err := service.Dispatch(context.Background(), models.BackendNative, cmp)
		assert.Error(t, err)
		assert.Nil(t, rows)
	})

	t.Run("unknown operation never reaches the repository", func(t *testing.T) {
		// Setup mock response
		repo.executeQueryFunc = func(ctx context.Context, query string, params map[string]any) ([]repositories.Row, error) {
			t.Fatal("repository must not be called for an unknown operation")
			return nil, nil
		}

		// Test
		cmp := models.Comparison{Operation: "distance", Label1: "Apartment", Label2: "AgendaArea"}
		rows, err := service.Dispatch(context.Background(), models.BackendNative, cmp)
		assert.Error(t, err)
		assert.True(t, errors.IsUnknownOperation(err))
		assert.Nil(t, rows)
	})
}

func TestDispatchService_BuildQuery(t *testing.T) {
	service, _, _, _ := setupTestDispatchService()

	t.Run("predicate query", func(t *testing.T) {
		query, err := service.BuildQuery(models.BackendNative, models.Comparison{
			Operation: "contains", Label1: "AgendaArea", Label2: "Apartment",
		})
		require.NoError(t, err)
		assert.Contains(t, query, "MATCH (n:AgendaArea)")
		assert.Contains(t, query, "MATCH (m:Apartment)")
		assert.Contains(t, query, "results = true")
	})

	t.Run("set operation query returns results column", func(t *testing.T) {
		query, err := service.BuildQuery(models.BackendNative, models.Comparison{
			Operation: "intersection", Label1: "GoodWayToWalk", Label2: "GoodWayToWalk",
		})
		require.NoError(t, err)
		assert.Contains(t, query, "RETURN n.idx, m.idx, results")
		assert.NotContains(t, query, "results = true")
	})

	t.Run("dual operation uses the pair shape", func(t *testing.T) {
		query, err := service.BuildQuery(models.BackendNative, models.Comparison{
			Operation: "distnace", Label1: "Apartment", Label2: "AgendaArea",
		})
		require.NoError(t, err)
		assert.Contains(t, query, "RETURN n.idx, m.idx, results")
	})

	t.Run("parameterized query embeds the scalar", func(t *testing.T) {
		query, err := service.BuildQuery(models.BackendNative, models.Comparison{
			Operation: "buffer", Label1: "Apartment", Label2: "10",
		})
		require.NoError(t, err)
		assert.Contains(t, query, "[[n.geometry], [10]]")
	})

	t.Run("single operand query collects geometries", func(t *testing.T) {
		query, err := service.BuildQuery(models.BackendJena, models.Comparison{
			Operation: "boundary", Label1: "AgendaArea",
		})
		require.NoError(t, err)
		assert.Contains(t, query, "collect(n.geometry) AS geometries")
		assert.Contains(t, query, "gspatial.jenaOperation(")
	})

	t.Run("unknown operation fails", func(t *testing.T) {
		query, err := service.BuildQuery(models.BackendNative, models.Comparison{
			Operation: "tessellate", Label1: "Apartment", Label2: "AgendaArea",
		})
		assert.Error(t, err)
		assert.True(t, errors.IsUnknownOperation(err))
		assert.Empty(t, query)
	})
}

func TestDispatchService_ValidateComparison(t *testing.T) {
	service, _, _, _ := setupTestDispatchService()

	tests := []struct {
		name    string
		cmp     models.Comparison
		wantErr bool
		code    string
	}{
		{
			name: "valid predicate",
			cmp:  models.Comparison{Operation: "within", Label1: "Apartment", Label2: "AgendaArea"},
		},
		{
			name: "valid single operand without second label",
			cmp:  models.Comparison{Operation: "envelope", Label1: "AgendaArea"},
		},
		{
			name: "valid parameterized with scalar",
			cmp:  models.Comparison{Operation: "buffer", Label1: "Apartment", Label2: "10"},
		},
		{
			name:    "empty operation",
			cmp:     models.Comparison{Label1: "Apartment", Label2: "AgendaArea"},
			wantErr: true,
			code:    errors.CodeInvalidInput,
		},
		{
			name:    "unknown operation",
			cmp:     models.Comparison{Operation: "distance", Label1: "Apartment", Label2: "AgendaArea"},
			wantErr: true,
			code:    errors.CodeUnknownOperation,
		},
		{
			name:    "predicate missing first label",
			cmp:     models.Comparison{Operation: "within", Label2: "AgendaArea"},
			wantErr: true,
			code:    errors.CodeInvalidInput,
		},
		{
			name:    "predicate missing second label",
			cmp:     models.Comparison{Operation: "within", Label1: "Apartment"},
			wantErr: true,
			code:    errors.CodeInvalidInput,
		},
		{
			name:    "dual missing second label",
			cmp:     models.Comparison{Operation: "distnace", Label1: "Apartment"},
			wantErr: true,
			code:    errors.CodeInvalidInput,
		},
		{
			name:    "parameterized missing scalar",
			cmp:     models.Comparison{Operation: "buffer", Label1: "Apartment"},
			wantErr: true,
			code:    errors.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidateComparison(tt.cmp)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.code, errors.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDispatchService_Classify(t *testing.T) {
	service, _, _, _ := setupTestDispatchService()

	assert.Equal(t, models.CategoryPredicate, service.Classify("touches"))
	assert.Equal(t, models.CategorySetOperation, service.Classify("sym_difference"))
	assert.Equal(t, models.CategoryUnknown, service.Classify(strings.ToUpper("touches")))
}
