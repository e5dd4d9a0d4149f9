// Package services contains business logic implementations.
package services

import (
	"sort"
	"strings"

	"github.com/gspatial/gsbench/pkg/models"
)

// OperationClassifier maps spatial operation names to their query category.
// The name sets mirror the procedures exposed by the gspatial plugin; the
// misspelled "distnace" is the name the plugin actually registers, so it is
// kept as-is.
type OperationClassifier struct {
	categories map[string]models.Category
}

// NewOperationClassifier creates a classifier preloaded with every operation
// the plugin exposes.
func NewOperationClassifier() *OperationClassifier {
	c := &OperationClassifier{
		categories: make(map[string]models.Category),
	}

	predicates := []string{
		"contains",
		"covers",
		"covered_by",
		"crosses",
		"disjoint",
		"equals",
		"intersects",
		"overlaps",
		"touches",
		"within",
	}
	setOperations := []string{
		"difference",
		"intersection",
		"union",
		"sym_difference",
	}
	duals := []string{
		"distnace",
	}
	parameterized := []string{
		"buffer",
	}
	singleOperands := []string{
		"envelope",
		"convex_hull",
		"boundary",
		"centroid",
	}

	for _, name := range predicates {
		c.categories[name] = models.CategoryPredicate
	}
	for _, name := range setOperations {
		c.categories[name] = models.CategorySetOperation
	}
	for _, name := range duals {
		c.categories[name] = models.CategoryDual
	}
	for _, name := range parameterized {
		c.categories[name] = models.CategoryParameterized
	}
	for _, name := range singleOperands {
		c.categories[name] = models.CategorySingleOperand
	}

	return c
}

// Classify returns the query category for an operation name, or
// CategoryUnknown when the plugin exposes no such operation. Names are
// matched exactly after trimming surrounding whitespace; no aliasing or
// spelling correction is attempted.
func (c *OperationClassifier) Classify(operation string) models.Category {
	name := strings.TrimSpace(operation)
	if name == "" {
		return models.CategoryUnknown
	}

	if category, ok := c.categories[name]; ok {
		return category
	}
	return models.CategoryUnknown
}

// IsKnown returns true if the operation is exposed by the plugin.
func (c *OperationClassifier) IsKnown(operation string) bool {
	return c.Classify(operation) != models.CategoryUnknown
}

// Operations returns every known operation name in sorted order.
func (c *OperationClassifier) Operations() []string {
	names := make([]string, 0, len(c.categories))
	for name := range c.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
