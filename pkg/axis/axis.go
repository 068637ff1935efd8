// Package axis defines the closed catalog of sweep dimensions. Each axis kind
// is an immutable Option binding a value type to three behaviors: Apply
// mutates a cloned generation request for one cell's value, Format renders a
// legend label, and Confirm (optional) validates the full expanded sequence
// before any render starts.
package axis

import (
	"fmt"

	"github.com/goliatone/go-gridsweep/pkg/generation"
)

// ValueType is the simplified enum of value kinds an axis can expand into.
type ValueType string

const (
	TypeInt         ValueType = "int"
	TypeFloat       ValueType = "float"
	TypeString      ValueType = "string"
	TypePermutation ValueType = "permutation"
)

// Canonical labels referenced by the expander and orchestrator.
const (
	LabelNothing = "Nothing"
	LabelSeed    = "Seed"
	LabelVarSeed = "Var. seed"
	LabelSteps   = "Steps"
)

// ApplyFunc mutates the request for one cell. values is the full expanded
// sequence of the axis, which some behaviors need for context (the prompt
// search/replace axis reads the search token from values[0]).
type ApplyFunc func(req *generation.Request, value any, values []any) error

// FormatFunc renders a legend label for one value.
type FormatFunc func(req *generation.Request, opt Option, value any) string

// ConfirmFunc validates the full expanded sequence before rendering begins.
type ConfirmFunc func(req *generation.Request, values []any) error

// Option is the immutable descriptor for one axis kind. Options are created
// once at catalog construction and never mutated.
type Option struct {
	Label   string
	Type    ValueType
	Apply   ApplyFunc
	Format  FormatFunc
	Confirm ConfirmFunc
}

// IsNothing reports whether this is the degenerate identity axis.
func (o Option) IsNothing() bool { return o.Label == LabelNothing }

// IsSeedAxis reports whether unset values on this axis should be replaced
// with freshly drawn random seeds.
func (o Option) IsSeedAxis() bool {
	return o.Label == LabelSeed || o.Label == LabelVarSeed
}

// ValidationError reports a value that is not a recognized instance of its
// domain, such as an unknown sampler or a search token absent from the
// prompt. It is raised during expansion/confirmation, before any render.
type ValidationError struct {
	Axis   string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("axis %q: %s", e.Axis, e.Reason)
	}
	return fmt.Sprintf("axis %q: %s: %q", e.Axis, e.Reason, e.Value)
}
