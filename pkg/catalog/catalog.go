// Package catalog builds the five fixed Cypher shapes the benchmark issues.
//
// Operation names, operand labels, and the scalar argument are interpolated
// directly into the query text. This package is the single place that does
// so: inputs are operator-supplied names, never untrusted data, and no
// escaping is applied. No other package constructs query text.
package catalog

import (
	"fmt"

	"github.com/gspatial/gsbench/pkg/errors"
	"github.com/gspatial/gsbench/pkg/models"
)

const predicateTemplate = `
MATCH (n:%s)
MATCH (m:%s)
WITH COLLECT(n) AS n_list, COLLECT(m) AS m_list
CALL gspatial.%s('%s', [n_list, m_list]) YIELD result
UNWIND result AS res
WITH res[1] AS n, res[2] AS m, res[0] AS results
WHERE n <> m AND results = true
RETURN n.idx, m.idx
`

const pairResultTemplate = `
MATCH (n:%s)
MATCH (m:%s)
WITH COLLECT(n) AS n_list, COLLECT(m) AS m_list
CALL gspatial.%s('%s', [n_list, m_list]) YIELD result
UNWIND result AS res
WITH res[1] AS n, res[2] AS m, res[0] AS results
WHERE n <> m
RETURN n.idx, m.idx, results
`

const parameterizedTemplate = `
MATCH (n:%s)
CALL gspatial.%s('%s', [[n.geometry], [%s]]) YIELD result
UNWIND result AS res
WITH n, res[0] AS result
RETURN n.idx, result
`

const singleOperandTemplate = `
MATCH (n:%s)
WITH n, collect(n.geometry) AS geometries
CALL gspatial.%s('%s', [geometries]) YIELD result
UNWIND result AS res
WITH n, res[0] AS result
RETURN n.idx, result
`

// Predicate returns the boolean-relation shape over two label sets.
// Self-pairs are filtered and only rows whose result is true are kept.
func Predicate(operation, label1, label2 string, backend models.Backend) string {
	return fmt.Sprintf(predicateTemplate, label1, label2, backend.PluginName(), operation)
}

// SetOperation returns the geometry-producing shape over two label sets.
// Self-pairs are filtered; every result is kept regardless of value.
func SetOperation(operation, label1, label2 string, backend models.Backend) string {
	return fmt.Sprintf(pairResultTemplate, label1, label2, backend.PluginName(), operation)
}

// Dual returns the scalar-producing shape over two label sets. The shape is
// identical to SetOperation; only the invoked operation differs.
func Dual(operation, label1, label2 string, backend models.Backend) string {
	return fmt.Sprintf(pairResultTemplate, label1, label2, backend.PluginName(), operation)
}

// Parameterized returns the single-label shape taking a scalar argument,
// applied per node geometry.
func Parameterized(operation, label, param string, backend models.Backend) string {
	return fmt.Sprintf(parameterizedTemplate, label, backend.PluginName(), operation, param)
}

// SingleOperand returns the shape over one label's collected geometries.
func SingleOperand(operation, label string, backend models.Backend) string {
	return fmt.Sprintf(singleOperandTemplate, label, backend.PluginName(), operation)
}

// Build resolves a category to its shape. For CategoryParameterized the
// second operand is the scalar argument, not a label.
func Build(category models.Category, operation, label1, label2 string, backend models.Backend) (string, error) {
	switch category {
	case models.CategoryPredicate:
		return Predicate(operation, label1, label2, backend), nil
	case models.CategorySetOperation:
		return SetOperation(operation, label1, label2, backend), nil
	case models.CategoryDual:
		return Dual(operation, label1, label2, backend), nil
	case models.CategoryParameterized:
		return Parameterized(operation, label1, label2, backend), nil
	case models.CategorySingleOperand:
		return SingleOperand(operation, label1, backend), nil
	default:
		return "", errors.New(errors.CodeUnknownOperation, fmt.Sprintf("no query shape for operation %q", operation))
	}
}
