// Package models provides data structures shared across the benchmark harness.
package models

// Backend identifies which server-side spatial plugin a query invokes.
// It is threaded explicitly through every call that builds or runs a query;
// nothing infers the backend from ambient state.
type Backend int

const (
	// BackendNative is the natively implemented gspatial plugin.
	BackendNative Backend = iota
	// BackendJena is the Apache Jena backed reference plugin.
	BackendJena
)

// PluginName returns the server-side procedure name invoked for this backend.
func (b Backend) PluginName() string {
	if b == BackendJena {
		return "jenaOperation"
	}
	return "operation"
}

// String implements fmt.Stringer.
func (b Backend) String() string {
	if b == BackendJena {
		return "jena"
	}
	return "native"
}

// Backends returns both backends in comparison order, native first.
func Backends() []Backend {
	return []Backend{BackendNative, BackendJena}
}

// Category classifies a spatial operation by the query shape it requires.
type Category int

const (
	// CategoryUnknown marks an operation name outside every dispatch set.
	CategoryUnknown Category = iota
	// CategoryPredicate covers boolean relations between two label sets.
	CategoryPredicate
	// CategorySetOperation covers geometry-producing relations between two label sets.
	CategorySetOperation
	// CategoryDual covers scalar-producing relations between two label sets.
	CategoryDual
	// CategoryParameterized covers single-label operations taking a scalar argument.
	CategoryParameterized
	// CategorySingleOperand covers operations over one label's collected geometries.
	CategorySingleOperand
)

// String implements fmt.Stringer.
func (c Category) String() string {
	switch c {
	case CategoryPredicate:
		return "predicate"
	case CategorySetOperation:
		return "set_operation"
	case CategoryDual:
		return "dual"
	case CategoryParameterized:
		return "parameterized"
	case CategorySingleOperand:
		return "single_operand"
	default:
		return "unknown"
	}
}

// LabelArity returns how many node labels the category's query shape consumes.
func (c Category) LabelArity() int {
	switch c {
	case CategoryPredicate, CategorySetOperation, CategoryDual:
		return 2
	case CategoryParameterized, CategorySingleOperand:
		return 1
	default:
		return 0
	}
}

// Comparison names one benchmark run: a spatial operation applied to one or
// two labeled node sets. For parameterized operations Label2 carries the
// scalar argument rather than a node label.
type Comparison struct {
	Operation string `json:"operation"`
	Label1    string `json:"label1"`
	Label2    string `json:"label2,omitempty"`
}
