package dbscan

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/dbscan/expansion"
	"github.com/katalvlaran/dbscan/neighborhood"
)

// Observer receives run statistics. *metrics.Collector implements it.
type Observer interface {
	ObservePhase(phase string, d time.Duration)
	ObserveCluster(c expansion.Cluster)
	ObserveEnqueue()
	ObserveRun(points, cores, clusters, noise int)
	ObserveFailure(reason string)
}

// Option configures a run via functional arguments.
type Option func(*options)

type options struct {
	log        *zap.Logger
	observer   Observer
	seed       *int64
	workers    int
	strategy   neighborhood.Strategy
	maxEntries int
	onCluster  func(expansion.Cluster)
	err        error
}

func defaultOptions() options {
	return options{
		log:       zap.NewNop(),
		observer:  nopObserver{},
		onCluster: func(expansion.Cluster) {},
	}
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithObserver attaches an Observer such as a metrics collector.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithSeed fixes the seed of the seed-selection RNG. Without it a seed is
// drawn from the clock and reported in Outcome.Seed.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = &seed
	}
}

// WithWorkers evaluates neighbor rows on n goroutines.
// Negative n is an ErrOptionViolation.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: workers must be ≥ 0, got %d", ErrOptionViolation, n)
			return
		}
		o.workers = n
	}
}

// WithStrategy selects the neighbor candidate strategy.
func WithStrategy(s neighborhood.Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithMaxEntries caps the total number of neighbor entries; 0 means no
// cap. Negative n is an ErrOptionViolation.
func WithMaxEntries(n int) Option {
	return func(o *options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: max entries must be ≥ 0, got %d", ErrOptionViolation, n)
			return
		}
		o.maxEntries = n
	}
}

// WithOnCluster registers a callback invoked as each cluster is finalized.
func WithOnCluster(fn func(expansion.Cluster)) Option {
	return func(o *options) {
		if fn != nil {
			o.onCluster = fn
		}
	}
}

type nopObserver struct{}

func (nopObserver) ObservePhase(string, time.Duration) {}
func (nopObserver) ObserveCluster(expansion.Cluster) {}
func (nopObserver) ObserveEnqueue() {}
func (nopObserver) ObserveRun(int, int, int, int) {}
func (nopObserver) ObserveFailure(string) {}
