package neighborhood

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for neighborhood construction.
var (
	// ErrInvalidParameter is returned for eps ≤ 0, NaN eps or a nil store.
	ErrInvalidParameter = errors.New("neighborhood: invalid parameter")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("neighborhood: invalid option supplied")

	// ErrResourceExhausted is returned when the neighbor lists would grow
	// beyond the configured entry limit.
	ErrResourceExhausted = errors.New("neighborhood: resource exhausted")

	// ErrOutOfRange is returned when a point ID lies outside [1, N].
	ErrOutOfRange = errors.New("neighborhood: id out of range")
)

// Strategy selects how candidate pairs are enumerated.
type Strategy int

const (
	// Exhaustive compares every point with every other point.
	Exhaustive Strategy = iota

	// Grid compares a point only with points in the adjacent grid cells.
	Grid
)

// String returns the lower-case strategy name.
func (s Strategy) String() string {
	switch s {
	case Exhaustive:
		return "exhaustive"
	case Grid:
		return "grid"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy maps "exhaustive" or "grid" to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", "exhaustive":
		return Exhaustive, nil
	case "grid":
		return Grid, nil
	default:
		return Exhaustive, fmt.Errorf("%w: unknown strategy %q", ErrOptionViolation, name)
	}
}

// Option configures Build via functional arguments. An invalid Option is
// recorded and surfaced as ErrOptionViolation when Build runs.
type Option func(*BuildOptions)

// BuildOptions holds the tunables of Build.
type BuildOptions struct {
	// Ctx allows cancellation between rows.
	Ctx context.Context

	// Workers is the number of goroutines evaluating rows. Values ≤ 1
	// run sequentially.
	Workers int

	// Strategy selects exhaustive or grid candidate enumeration.
	Strategy Strategy

	// MaxEntries, if > 0, bounds the total number of neighbor entries.
	MaxEntries int

	err error
}

// DefaultOptions returns sequential exhaustive options with no entry limit.
func DefaultOptions() BuildOptions {
	return BuildOptions{
		Ctx:        context.Background(),
		Workers:    1,
		Strategy:   Exhaustive,
		MaxEntries: 0,
	}
}

// WithContext sets a context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *BuildOptions) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithWorkers sets the number of parallel row workers.
//
//	n > 1:  parallel
//	n ≤ 1:  sequential (0 and 1 are equivalent)
//	n < 0:  invalid option → ErrOptionViolation
func WithWorkers(n int) Option {
	return func(o *BuildOptions) {
		if n < 0 {
			o.err = fmt.Errorf("%w: workers cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.Workers = max(n, 1)
	}
}

// WithStrategy selects the candidate enumeration strategy.
func WithStrategy(s Strategy) Option {
	return func(o *BuildOptions) {
		if s != Exhaustive && s != Grid {
			o.err = fmt.Errorf("%w: unknown strategy %d", ErrOptionViolation, int(s))
			return
		}
		o.Strategy = s
	}
}

// WithMaxEntries bounds the total number of neighbor entries across all
// lists. 0 disables the limit.
func WithMaxEntries(n int) Option {
	return func(o *BuildOptions) {
		if n < 0 {
			o.err = fmt.Errorf("%w: max entries cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxEntries = n
	}
}
