// SPDX-License-Identifier: MIT
// Package: dbscan/synth
//
// generators.go: point set constructors.

package synth

import (
	"math"

	"github.com/katalvlaran/dbscan/points"
)

const (
	methodBlobs   = "Blobs"
	methodRing    = "Ring"
	methodUniform = "Uniform"

	// blobSpacing is the distance between adjacent blob centers in units
	// of sigma; large enough that blobs with sigma spread do not touch.
	blobSpacing = 12.0
)

// Generator produces a point set from a resolved config.
type Generator func(cfg config) ([]points.Point, error)

// Generate runs gen with the given options.
func Generate(gen Generator, opts ...Option) ([]points.Point, error) {
	cfg := newConfig(opts...)
	if cfg.rng == nil {
		return nil, ErrNeedRandSource
	}
	pts, err := gen(cfg)
	if err != nil {
		return nil, err
	}
	for i := range pts {
		pts[i].X += cfg.originX
		pts[i].Y += cfg.originY
	}
	return pts, nil
}

// Blobs places k Gaussian blobs of perBlob points with standard deviation
// sigma. Centers sit on a circle so that neighboring centers are
// blobSpacing·sigma apart.
func Blobs(k, perBlob int, sigma float64) Generator {
	return func(cfg config) ([]points.Point, error) {
		if k < 1 || perBlob < 1 {
			return nil, wrapf(methodBlobs, "k=%d perBlob=%d", ErrTooFewPoints, k, perBlob)
		}
		if !finiteNonNeg(sigma) {
			return nil, wrapf(methodBlobs, "sigma=%v", ErrInvalidScale, sigma)
		}
		radius := 0.0
		if k > 1 {
			// chord between adjacent centers = 2·r·sin(π/k)
			radius = blobSpacing * max(sigma, 1) / (2 * math.Sin(math.Pi/float64(k)))
		}
		out := make([]points.Point, 0, k*perBlob)
		for b := 0; b < k; b++ {
			th := 2 * math.Pi * float64(b) / float64(k)
			cx, cy := radius*math.Cos(th), radius*math.Sin(th)
			for i := 0; i < perBlob; i++ {
				x := cx + cfg.rng.NormFloat64()*sigma
				y := cy + cfg.rng.NormFloat64()*sigma
				out = append(out, points.Point{X: x, Y: y})
			}
		}
		return out, nil
	}
}

// Ring places n points on a circle of the given radius, each perturbed
// radially by a uniform draw in [-jitter, jitter].
func Ring(n int, radius, jitter float64) Generator {
	return func(cfg config) ([]points.Point, error) {
		if n < 1 {
			return nil, wrapf(methodRing, "n=%d", ErrTooFewPoints, n)
		}
		if !finiteNonNeg(radius) || !finiteNonNeg(jitter) {
			return nil, wrapf(methodRing, "radius=%v jitter=%v", ErrInvalidScale, radius, jitter)
		}
		out := make([]points.Point, 0, n)
		for i := 0; i < n; i++ {
			th := 2 * math.Pi * float64(i) / float64(n)
			r := radius + (2*cfg.rng.Float64()-1)*jitter
			out = append(out, points.Point{X: r * math.Cos(th), Y: r * math.Sin(th)})
		}
		return out, nil
	}
}

// Uniform draws n points uniformly from [0,w)×[0,h).
func Uniform(n int, w, h float64) Generator {
	return func(cfg config) ([]points.Point, error) {
		if n < 1 {
			return nil, wrapf(methodUniform, "n=%d", ErrTooFewPoints, n)
		}
		if !finiteNonNeg(w) || !finiteNonNeg(h) {
			return nil, wrapf(methodUniform, "w=%v h=%v", ErrInvalidScale, w, h)
		}
		out := make([]points.Point, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, points.Point{X: cfg.rng.Float64() * w, Y: cfg.rng.Float64() * h})
		}
		return out, nil
	}
}

// Concat runs gens in order against the same RNG and joins their output.
func Concat(gens ...Generator) Generator {
	return func(cfg config) ([]points.Point, error) {
		var out []points.Point
		for _, g := range gens {
			pts, err := g(cfg)
			if err != nil {
				return nil, err
			}
			out = append(out, pts...)
		}
		return out, nil
	}
}

func finiteNonNeg(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}
