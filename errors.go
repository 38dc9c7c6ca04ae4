package dbscan

import (
	"errors"
	"slices"

	"github.com/katalvlaran/dbscan/expansion"
	"github.com/katalvlaran/dbscan/neighborhood"
	"github.com/katalvlaran/dbscan/points"
	"github.com/katalvlaran/dbscan/registry"
	"github.com/katalvlaran/dbscan/result"
)

// Error taxonomy of a clustering run.
var (
	// ErrLoad: malformed input or a record count that differs from the
	// declared one.
	ErrLoad = errors.New("dbscan: load failed")
	// ErrInvalidParameter: non-positive eps or MinPts < 1.
	ErrInvalidParameter = errors.New("dbscan: invalid parameter")
	// ErrOutOfRange: a point ID outside [1, N].
	ErrOutOfRange = errors.New("dbscan: id out of range")
	// ErrInvalidOperation: visited bookkeeping on a non-core point.
	ErrInvalidOperation = errors.New("dbscan: invalid operation")
	// ErrEmptyInput: a nil store, or MinPts < 1 together with
	// ErrInvalidParameter. Zero points is not an error.
	ErrEmptyInput = errors.New("dbscan: empty input")
	// ErrResourceExhausted: the neighbor entry cap was exceeded.
	ErrResourceExhausted = errors.New("dbscan: resource exhausted")
	// ErrOptionViolation: an option carried an invalid value.
	ErrOptionViolation = errors.New("dbscan: invalid option supplied")
	// ErrPartition: clusters and noise did not cover every point exactly once.
	ErrPartition = errors.New("dbscan: partition violated")
)

// taxonomy maps package sentinels to the root ones.
var taxonomy = []struct{ pkg, root error }{
	{points.ErrLoad, ErrLoad},
	{points.ErrOutOfRange, ErrOutOfRange},
	{neighborhood.ErrInvalidParameter, ErrInvalidParameter},
	{neighborhood.ErrOutOfRange, ErrOutOfRange},
	{neighborhood.ErrResourceExhausted, ErrResourceExhausted},
	{neighborhood.ErrOptionViolation, ErrOptionViolation},
	{registry.ErrInvalidParameter, ErrInvalidParameter},
	{registry.ErrEmptyInput, ErrEmptyInput},
	{registry.ErrOutOfRange, ErrOutOfRange},
	{registry.ErrInvalidOperation, ErrInvalidOperation},
	{expansion.ErrRegistryNil, ErrInvalidParameter},
	{expansion.ErrOptionViolation, ErrOptionViolation},
	{result.ErrPartition, ErrPartition},
}

// PhaseError reports the pipeline phase in which a run failed.
type PhaseError struct {
	Phase string
	Err   error

	kinds []error
}

func newPhaseError(phase string, err error) *PhaseError {
	pe := &PhaseError{Phase: phase, Err: err}
	for _, t := range taxonomy {
		if errors.Is(err, t.pkg) && !slices.Contains(pe.kinds, t.root) {
			pe.kinds = append(pe.kinds, t.root)
		}
	}
	return pe
}

func (e *PhaseError) Error() string {
	return "dbscan: " + e.Phase + ": " + e.Err.Error()
}

// Unwrap exposes the root sentinels as well as the underlying error.
func (e *PhaseError) Unwrap() []error {
	return append(slices.Clone(e.kinds), e.Err)
}
