// SPDX-License-Identifier: MIT
// Package: dbscan/synth
//
// options.go: functional options for generators.
//
// Contract:
//   • Option constructors PANIC on meaningless inputs (nil RNG).
//   • Generators themselves never panic; they return sentinel errors.

package synth

import "math/rand"

type config struct {
	rng     *rand.Rand
	originX float64
	originY float64
}

// Option customizes a generator before it draws any point.
type Option func(*config)

func newConfig(opts ...Option) config {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithRand provides an explicit RNG. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("synth: WithRand(nil)")
	}
	return func(c *config) {
		c.rng = r
	}
}

// WithSeed creates a new *rand.Rand with the given seed.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithOrigin translates every generated point by (x, y).
func WithOrigin(x, y float64) Option {
	return func(c *config) {
		c.originX, c.originY = x, y
	}
}
