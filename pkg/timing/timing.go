// Package timing measures dispatched calls and owns the line formats written
// to and parsed from the benchmark log artifact.
package timing

import (
	"fmt"
	"io"
	"time"

	"github.com/gspatial/gsbench/pkg/models"
)

// Record is one measured execution, tagged with its backend at emission time.
type Record struct {
	Backend models.Backend `json:"backend"`
	Seconds float64        `json:"seconds"`
}

// Measure runs fn, writes one timing line to sink, and returns the record
// together with fn's error unchanged. The line is written whether or not fn
// failed: a failed query still counts as one measured execution.
func Measure(sink io.Writer, backend models.Backend, fn func() error) (Record, error) {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start).Seconds()
	fmt.Fprintf(sink, "### 실행시간: %.3fsec\n", elapsed)
	return Record{Backend: backend, Seconds: elapsed}, err
}

// WriteHeader writes the phase header that precedes one backend's runs.
// ParseSections relies on this exact form to attribute timing lines.
func WriteHeader(sink io.Writer, operation string, n int, backend models.Backend) {
	fmt.Fprintf(sink, "Test %s operation %d times on %s\n", operation, n, backend.PluginName())
}
