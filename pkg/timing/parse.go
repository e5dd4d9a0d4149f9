package timing

import (
	"bufio"
	"io"
	"regexp"
	"strconv"

	"github.com/gspatial/gsbench/pkg/errors"
	"github.com/gspatial/gsbench/pkg/models"
)

// linePattern matches exactly the line Measure writes. The token before the
// colon is a fixed literal, not a generic label.
var linePattern = regexp.MustCompile(`### 실행시간: ([\d.]+)sec`)

// headerPattern matches the phase header WriteHeader writes.
var headerPattern = regexp.MustCompile(`^Test .+ operation \d+ times on (operation|jenaOperation)$`)

// ParseTimings extracts every timing value from r in emission order. Header
// and summary lines do not match the timing pattern and are skipped.
func ParseTimings(r io.Reader) ([]float64, error) {
	var out []float64
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m := linePattern.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, errors.CodeAggregationFailed, "malformed timing value %q", m[1])
		}
		out = append(out, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeAggregationFailed, "reading timing log")
	}
	return out, nil
}

// ParseSections extracts timing values from r and attributes each to the
// backend named by the most recent phase header, rather than by global
// position. A timing line before any header is an error.
func ParseSections(r io.Reader) (native, jena []float64, err error) {
	var current *models.Backend
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if m := headerPattern.FindStringSubmatch(line); m != nil {
			b := models.BackendNative
			if m[1] == models.BackendJena.PluginName() {
				b = models.BackendJena
			}
			current = &b
			continue
		}
		m := linePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		v, perr := strconv.ParseFloat(m[1], 64)
		if perr != nil {
			return nil, nil, errors.Wrapf(perr, errors.CodeAggregationFailed, "malformed timing value %q", m[1])
		}
		if current == nil {
			return nil, nil, errors.New(errors.CodeAggregationFailed, "timing record precedes any backend header")
		}
		if *current == models.BackendJena {
			jena = append(jena, v)
		} else {
			native = append(native, v)
		}
	}
	if serr := scanner.Err(); serr != nil {
		return nil, nil, errors.Wrap(serr, errors.CodeAggregationFailed, "reading timing log")
	}
	return native, jena, nil
}

// Mean returns the arithmetic mean of samples.
func Mean(samples []float64) (float64, error) {
	if len(samples) == 0 {
		return 0, errors.ErrNoTimings
	}
	var sum float64
	for _, s := range samples {
		sum += s
	}
	return sum / float64(len(samples)), nil
}
