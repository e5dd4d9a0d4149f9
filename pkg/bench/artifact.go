package bench

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gspatial/gsbench/pkg/errors"
	"github.com/gspatial/gsbench/pkg/models"
)

// DefaultResultsDir is where log artifacts are written unless overridden.
const DefaultResultsDir = "test_results"

// ArtifactPath returns the log path for one comparison. Two-operand runs
// produce test_<label1>_<operation>_<label2>.log; runs without a second
// operand drop the trailing segment instead of rendering a placeholder.
func ArtifactPath(dir string, cmp models.Comparison) string {
	name := fmt.Sprintf("test_%s_%s_%s.log", cmp.Label1, cmp.Operation, cmp.Label2)
	if cmp.Label2 == "" {
		name = fmt.Sprintf("test_%s_%s.log", cmp.Label1, cmp.Operation)
	}
	return filepath.Join(dir, name)
}

// CreateArtifact truncates or creates the artifact for one comparison,
// creating dir first when missing.
func CreateArtifact(dir string, cmp models.Comparison) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, errors.CodeInternal, "create results dir %s", dir)
	}
	f, err := os.Create(ArtifactPath(dir, cmp))
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeInternal, "create artifact %s", ArtifactPath(dir, cmp))
	}
	return f, nil
}

// OpenArtifact opens an existing artifact for reading.
func OpenArtifact(dir string, cmp models.Comparison) (*os.File, error) {
	path := ArtifactPath(dir, cmp)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.CodeArtifactNotFound, "artifact %s", path)
		}
		return nil, errors.Wrapf(err, errors.CodeInternal, "open artifact %s", path)
	}
	return f, nil
}

// AppendArtifact opens an existing artifact for appending.
func AppendArtifact(dir string, cmp models.Comparison) (*os.File, error) {
	path := ArtifactPath(dir, cmp)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.CodeArtifactNotFound, "artifact %s", path)
		}
		return nil, errors.Wrapf(err, errors.CodeInternal, "open artifact %s for append", path)
	}
	return f, nil
}
