package synth_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/dbscan/synth"
)

func TestGenerate_NeedsRand(t *testing.T) {
	_, err := synth.Generate(synth.Uniform(3, 1, 1))
	require.ErrorIs(t, err, synth.ErrNeedRandSource)
}

func TestGenerate_SeedDeterminism(t *testing.T) {
	gen := synth.Concat(synth.Blobs(3, 20, 0.5), synth.Uniform(10, 50, 50))
	a, err := synth.Generate(gen, synth.WithSeed(7))
	require.NoError(t, err)
	b, err := synth.Generate(gen, synth.WithSeed(7))
	require.NoError(t, err)
	c, err := synth.Generate(gen, synth.WithSeed(8))
	require.NoError(t, err)

	require.Len(t, a, 70)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestBlobs_CentersAreSeparated(t *testing.T) {
	pts, err := synth.Generate(synth.Blobs(4, 1, 0), synth.WithSeed(1))
	require.NoError(t, err)
	require.Len(t, pts, 4)
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			assert.GreaterOrEqual(t, pts[i].DistanceTo(pts[j]), 12.0-1e-9)
		}
	}
}

func TestRing_RadiusWithinJitter(t *testing.T) {
	pts, err := synth.Generate(synth.Ring(36, 10, 0.5), synth.WithSeed(3), synth.WithOrigin(5, 5))
	require.NoError(t, err)
	for _, p := range pts {
		r := math.Hypot(p.X-5, p.Y-5)
		assert.InDelta(t, 10, r, 0.5+1e-9)
	}
}

func TestGenerators_Validation(t *testing.T) {
	cases := map[string]struct {
		gen  synth.Generator
		want error
	}{
		"blobs k":        {gen: synth.Blobs(0, 5, 1), want: synth.ErrTooFewPoints},
		"blobs sigma":    {gen: synth.Blobs(1, 5, -1), want: synth.ErrInvalidScale},
		"ring n":         {gen: synth.Ring(0, 1, 0), want: synth.ErrTooFewPoints},
		"ring radius":    {gen: synth.Ring(3, math.NaN(), 0), want: synth.ErrInvalidScale},
		"uniform extent": {gen: synth.Uniform(3, math.Inf(1), 1), want: synth.ErrInvalidScale},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := synth.Generate(tc.gen, synth.WithSeed(1))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestWithRand_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { synth.WithRand(nil) })
}
