package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gspatial/gsbench/pkg/infrastructure/metrics"
	"github.com/gspatial/gsbench/pkg/services"
)

// serviceLoggerAdapter adapts zerolog.Logger to services.Logger
type serviceLoggerAdapter struct {
	logger zerolog.Logger
}

func (l *serviceLoggerAdapter) Debug(msg string, keysAndValues ...interface{}) {
	l.emit(l.logger.Debug(), msg, keysAndValues)
}

func (l *serviceLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	l.emit(l.logger.Info(), msg, keysAndValues)
}

func (l *serviceLoggerAdapter) Warn(msg string, keysAndValues ...interface{}) {
	l.emit(l.logger.Warn(), msg, keysAndValues)
}

func (l *serviceLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	l.emit(l.logger.Error(), msg, keysAndValues)
}

func (l *serviceLoggerAdapter) emit(event *zerolog.Event, msg string, keysAndValues []interface{}) {
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			key := fmt.Sprintf("%v", keysAndValues[i])
			event = event.Interface(key, keysAndValues[i+1])
		}
	}
	event.Msg(msg)
}

// serviceMetricsAdapter adapts metrics.Collector to services.MetricsCollector
type serviceMetricsAdapter struct {
	collector metrics.Collector
}

func (m *serviceMetricsAdapter) IncrementCounter(name string, labels ...string) {
	m.collector.IncrementCounter(name, labels...)
}

func (m *serviceMetricsAdapter) RecordHistogram(name string, value float64, labels ...string) {
	m.collector.RecordHistogram(name, value, labels...)
}

func (m *serviceMetricsAdapter) RecordGauge(name string, value float64, labels ...string) {
	m.collector.RecordGauge(name, value, labels...)
}

func (m *serviceMetricsAdapter) StartTimer(name string) services.Timer {
	return &serviceTimerAdapter{timer: m.collector.StartTimer(name)}
}

// serviceTimerAdapter adapts metrics.Timer to services.Timer
type serviceTimerAdapter struct {
	timer metrics.Timer
}

func (t *serviceTimerAdapter) Stop() time.Duration {
	seconds := t.timer.Stop()
	return time.Duration(seconds * float64(time.Second))
}

// nopServiceLogger and noServiceMetrics back the flag pre-validation pass,
// which runs before logging and metrics are configured.
type nopServiceLogger struct{}

func (nopServiceLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (nopServiceLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopServiceLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (nopServiceLogger) Error(msg string, keysAndValues ...interface{}) {}

type noServiceMetrics struct{}

func (noServiceMetrics) IncrementCounter(name string, labels ...string)               {}
func (noServiceMetrics) RecordHistogram(name string, value float64, labels ...string) {}
func (noServiceMetrics) RecordGauge(name string, value float64, labels ...string)     {}
func (noServiceMetrics) StartTimer(name string) services.Timer                        { return nopTimer{} }

type nopTimer struct{}

func (nopTimer) Stop() time.Duration { return 0 }
