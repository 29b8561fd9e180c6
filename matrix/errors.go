package matrix

import (
	"errors"
	"fmt"

	"github.com/cghall/salesforce-reporting/report"
)

var (
	// ErrUnsupportedReportType is returned by New for non-matrix documents.
	ErrUnsupportedReportType = errors.New("unsupported report type")
	// ErrGroupingNotFound is returned when a path label is not among the
	// siblings at some traversal step.
	ErrGroupingNotFound = errors.New("grouping not found")
	// ErrKeyNotFound is returned when the final label of a static path has
	// no key among the resolved siblings.
	ErrKeyNotFound = errors.New("grouping key not found")
	// ErrAggregateNotFound is returned when a synthesized composite key (or
	// the requested value slot) is absent from the fact map.
	ErrAggregateNotFound = errors.New("aggregate not found")
	// ErrInvalidPathArgument is returned for path arguments that are neither
	// empty, a label, nor a label sequence.
	ErrInvalidPathArgument = errors.New("invalid path argument")
)

// UnsupportedReportTypeError names both the expected and the received tag.
type UnsupportedReportTypeError struct {
	Expected report.Format
	Actual   report.Format
}

func (e *UnsupportedReportTypeError) Error() string {
	return fmt.Sprintf("incorrect report type: expected %s, received %s", e.Expected, e.Actual)
}

func (e *UnsupportedReportTypeError) Unwrap() error { return ErrUnsupportedReportType }

// LookupError reports where a path failed to resolve.
type LookupError struct {
	Kind  error // ErrGroupingNotFound or ErrKeyNotFound
	Axis  Axis
	Label string
	Level int // 1-based depth of the failing label
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%v: %q at level %d of %s", e.Kind, e.Label, e.Level, e.Axis)
}

func (e *LookupError) Unwrap() error { return e.Kind }

// AggregateError reports a composite key that has no usable value.
type AggregateError struct {
	Key      CompositeKey
	Position int
	Cause    error
}

func (e *AggregateError) Error() string {
	return fmt.Sprintf("composite key %s: %v", e.Key, e.Cause)
}

func (e *AggregateError) Unwrap() []error { return []error{ErrAggregateNotFound, e.Cause} }
