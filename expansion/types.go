package expansion

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
)

// Sentinel errors for cluster expansion.
var (
	// ErrRegistryNil is returned if a nil registry is passed to New.
	ErrRegistryNil = errors.New("expansion: registry is nil")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("expansion: invalid option supplied")
)

// Mark values of VisitedMarks other than a point's own ID.
const (
	Unreached = 0
	Isolated  = -1
)

// State is the phase of the expansion state machine.
type State int

const (
	Idle State = iota
	SeedSelection
	Expanding
	Finalizing
	Done
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case SeedSelection:
		return "seed-selection"
	case Expanding:
		return "expanding"
	case Finalizing:
		return "finalizing"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Cluster is the write-once output of one expansion episode.
type Cluster struct {
	// ID is 1 for the first cluster and increases by one per episode.
	ID int
	// Seed is the core object the episode started from.
	Seed int
	// Members are the point IDs that joined during the episode, ascending.
	Members []int
}

// Option configures an Engine via functional arguments.
type Option func(*Options)

// Options holds the RNG, context and hooks of an Engine.
type Options struct {
	// Ctx is checked before every seed selection.
	Ctx context.Context

	// Rand drives seed selection. nil means "seed from the clock".
	Rand *rand.Rand

	// OnSeed is called with the selected seed of each episode.
	OnSeed func(seed int)

	// OnEnqueue is called when id is pushed; from is the point whose
	// neighbor list produced it.
	OnEnqueue func(id, from int)

	// OnCluster is called once per finalized cluster.
	OnCluster func(c Cluster)

	err error
}

// DefaultOptions returns Options with a background context, no RNG and
// no-op hooks.
func DefaultOptions() Options {
	return Options{
		Ctx:       context.Background(),
		OnSeed:    func(int) {},
		OnEnqueue: func(int, int) {},
		OnCluster: func(Cluster) {},
	}
}

// WithContext sets a custom context for cancellation between episodes.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithRand injects the RNG used for seed selection. A nil RNG is an
// ErrOptionViolation.
func WithRand(r *rand.Rand) Option {
	return func(o *Options) {
		if r == nil {
			o.err = fmt.Errorf("%w: rand source is nil", ErrOptionViolation)
			return
		}
		o.Rand = r
	}
}

// WithSeed injects a deterministic RNG for the given seed.
func WithSeed(seed int64) Option {
	return func(o *Options) {
		o.Rand = rngFromSeed(seed)
	}
}

// WithOnSeed registers a callback for seed selection.
func WithOnSeed(fn func(seed int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnSeed = fn
		}
	}
}

// WithOnEnqueue registers a callback for every queue push.
func WithOnEnqueue(fn func(id, from int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnEnqueue = fn
		}
	}
}

// WithOnCluster registers a callback for every finalized cluster.
func WithOnCluster(fn func(c Cluster)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnCluster = fn
		}
	}
}
