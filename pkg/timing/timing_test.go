package timing

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gspatial/gsbench/pkg/errors"
	"github.com/gspatial/gsbench/pkg/models"
)

var emittedLine = regexp.MustCompile(`^### 실행시간: \d+\.\d{3}sec\n$`)

func TestMeasureEmitsFixedFormat(t *testing.T) {
	var sink bytes.Buffer

	rec, err := Measure(&sink, models.BackendNative, func() error { return nil })
	require.NoError(t, err)

	assert.Regexp(t, emittedLine, sink.String())
	assert.Equal(t, models.BackendNative, rec.Backend)
	assert.GreaterOrEqual(t, rec.Seconds, 0.0)
}

func TestMeasureTagsBackendAtEmission(t *testing.T) {
	var sink bytes.Buffer

	rec, _ := Measure(&sink, models.BackendJena, func() error { return nil })
	assert.Equal(t, models.BackendJena, rec.Backend)
}

func TestMeasureEmitsLineOnFailure(t *testing.T) {
	var sink bytes.Buffer
	boom := fmt.Errorf("bolt connection reset")

	rec, err := Measure(&sink, models.BackendNative, func() error { return boom })

	assert.Equal(t, boom, err, "fn's error passes through unchanged")
	assert.Regexp(t, emittedLine, sink.String(), "a failed execution still emits its timing line")
	assert.Equal(t, models.BackendNative, rec.Backend)
}

func TestWriteHeader(t *testing.T) {
	var sink bytes.Buffer

	WriteHeader(&sink, "within", 10, models.BackendNative)
	WriteHeader(&sink, "within", 10, models.BackendJena)

	lines := strings.Split(strings.TrimRight(sink.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Test within operation 10 times on operation", lines[0])
	assert.Equal(t, "Test within operation 10 times on jenaOperation", lines[1])
}

func syntheticArtifact() string {
	var b strings.Builder
	fmt.Fprintln(&b, "Test within operation 10 times on operation")
	for i := 1; i <= 10; i++ {
		fmt.Fprintf(&b, "### 실행시간: %.3fsec\n", float64(i))
	}
	fmt.Fprintln(&b, "Test within operation 10 times on jenaOperation")
	for i := 0; i < 10; i++ {
		fmt.Fprintln(&b, "### 실행시간: 2.000sec")
	}
	return b.String()
}

func TestParseTimings(t *testing.T) {
	values, err := ParseTimings(strings.NewReader(syntheticArtifact()))
	require.NoError(t, err)
	require.Len(t, values, 20)
	assert.Equal(t, 1.0, values[0])
	assert.Equal(t, 10.0, values[9])
	assert.Equal(t, 2.0, values[10])
	assert.Equal(t, 2.0, values[19])
}

func TestParseTimingsIgnoresSummaryLines(t *testing.T) {
	content := syntheticArtifact() +
		"Average operation time: 5.500sec\n" +
		"Average jenaOperation time: 2.000sec\n"

	first, err := ParseTimings(strings.NewReader(content))
	require.NoError(t, err)
	second, err := ParseTimings(strings.NewReader(content))
	require.NoError(t, err)

	assert.Len(t, first, 20, "summary lines must not register as timing records")
	assert.Equal(t, first, second, "re-parsing an unchanged artifact yields identical values")
}

func TestParseTimingsEmpty(t *testing.T) {
	values, err := ParseTimings(strings.NewReader("no timings here\n"))
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestParseSections(t *testing.T) {
	native, jena, err := ParseSections(strings.NewReader(syntheticArtifact()))
	require.NoError(t, err)

	require.Len(t, native, 10)
	require.Len(t, jena, 10)
	assert.Equal(t, 1.0, native[0])
	assert.Equal(t, 10.0, native[9])
	for _, v := range jena {
		assert.Equal(t, 2.0, v)
	}
}

func TestParseSectionsRejectsOrphanTiming(t *testing.T) {
	content := "### 실행시간: 1.000sec\nTest within operation 10 times on operation\n"

	_, _, err := ParseSections(strings.NewReader(content))
	require.Error(t, err)
	assert.Equal(t, errors.CodeAggregationFailed, errors.GetCode(err))
}

func TestParseSectionsRejectsMalformedValue(t *testing.T) {
	content := "Test within operation 10 times on operation\n### 실행시간: 1..5sec\n"

	_, _, err := ParseSections(strings.NewReader(content))
	require.Error(t, err)
	assert.Equal(t, errors.CodeAggregationFailed, errors.GetCode(err))
}

func TestMean(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		want    float64
	}{
		{"ascending tenth", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 5.5},
		{"constant", []float64{2, 2, 2}, 2.0},
		{"single", []float64{0.125}, 0.125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Mean(tt.samples)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	t.Run("empty sample errors", func(t *testing.T) {
		_, err := Mean(nil)
		require.Error(t, err)
		assert.Equal(t, errors.CodeAggregationFailed, errors.GetCode(err))
	})
}
