package neighborhood_test

import (
	"bytes"
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/dbscan/neighborhood"
	"github.com/katalvlaran/dbscan/points"
	"github.com/katalvlaran/dbscan/synth"
)

// BuildSuite exercises neighbor list construction.
type BuildSuite struct {
	suite.Suite
	store *points.Store
}

func (s *BuildSuite) SetupTest() {
	// Scenario A layout: a right-angle triple and a separate pair.
	st, err := points.Load([]points.Point{
		{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}, {X: 10, Y: 10}, {X: 10, Y: 11},
	}, 5)
	s.Require().NoError(err)
	s.store = st
}

// TestScenarioA checks the exact lists for eps=1.5.
func (s *BuildSuite) TestScenarioA() {
	sets, err := neighborhood.Build(s.store, 1.5)
	s.Require().NoError(err)
	s.Equal(5, sets.Len())
	s.Equal(1.5, sets.Eps())
	s.Equal(8, sets.Entries())

	want := map[int][]int{1: {2, 3}, 2: {1, 3}, 3: {1, 2}, 4: {5}, 5: {4}}
	for id, exp := range want {
		got, err := sets.Of(id)
		s.Require().NoError(err)
		s.Equal(exp, got, "id %d", id)
	}
	s.Empty(sets.Isolated())
}

// TestBoundaryInclusive verifies that distance == eps counts as a neighbor.
func (s *BuildSuite) TestBoundaryInclusive() {
	sets, err := neighborhood.Build(s.store, 1.0)
	s.Require().NoError(err)
	got, _ := sets.Of(1)
	s.Equal([]int{2, 3}, got)
	got, _ = sets.Of(2)
	s.Equal([]int{1}, got, "(0,1)-(1,0) is sqrt(2) > 1")
}

// TestIsolated reports points without neighbors.
func (s *BuildSuite) TestIsolated() {
	sets, err := neighborhood.Build(s.store, 0.5)
	s.Require().NoError(err)
	s.Equal([]int{1, 2, 3, 4, 5}, sets.Isolated())
	s.Equal(0, sets.Entries())
}

// TestInvalidEps rejects non-positive radii.
func (s *BuildSuite) TestInvalidEps() {
	for _, eps := range []float64{0, -1} {
		_, err := neighborhood.Build(s.store, eps)
		s.ErrorIs(err, neighborhood.ErrInvalidParameter)
	}
	_, err := neighborhood.Build(nil, 1)
	s.ErrorIs(err, neighborhood.ErrInvalidParameter)
}

// TestOptionViolation surfaces bad options at Build time.
func (s *BuildSuite) TestOptionViolation() {
	_, err := neighborhood.Build(s.store, 1, neighborhood.WithWorkers(-1))
	s.ErrorIs(err, neighborhood.ErrOptionViolation)
	_, err = neighborhood.Build(s.store, 1, neighborhood.WithMaxEntries(-5))
	s.ErrorIs(err, neighborhood.ErrOptionViolation)
	_, err = neighborhood.Build(s.store, 1, neighborhood.WithStrategy(neighborhood.Strategy(9)))
	s.ErrorIs(err, neighborhood.ErrOptionViolation)
}

// TestMaxEntries fails instead of truncating.
func (s *BuildSuite) TestMaxEntries() {
	_, err := neighborhood.Build(s.store, 1.5, neighborhood.WithMaxEntries(7))
	s.ErrorIs(err, neighborhood.ErrResourceExhausted)

	sets, err := neighborhood.Build(s.store, 1.5, neighborhood.WithMaxEntries(8))
	s.NoError(err)
	s.Equal(8, sets.Entries())
}

// TestCancelled returns the context error.
func (s *BuildSuite) TestCancelled() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := neighborhood.Build(s.store, 1.5, neighborhood.WithContext(ctx))
	s.ErrorIs(err, context.Canceled)
	_, err = neighborhood.Build(s.store, 1.5, neighborhood.WithContext(ctx), neighborhood.WithWorkers(4))
	s.ErrorIs(err, context.Canceled)
}

// TestOutOfRange rejects invalid lookups.
func (s *BuildSuite) TestOutOfRange() {
	sets, err := neighborhood.Build(s.store, 1.5)
	s.Require().NoError(err)
	_, err = sets.Of(0)
	s.ErrorIs(err, neighborhood.ErrOutOfRange)
	_, err = sets.Of(6)
	s.ErrorIs(err, neighborhood.ErrOutOfRange)
	s.Equal(0, sets.Count(6))
}

// TestFormat dumps one line per point.
func (s *BuildSuite) TestFormat() {
	sets, err := neighborhood.Build(s.store, 1.5)
	s.Require().NoError(err)
	var buf bytes.Buffer
	s.Require().NoError(sets.Format(&buf))
	s.Equal("1\t2\t2 3\n2\t2\t1 3\n3\t2\t1 2\n4\t1\t5\n5\t1\t4\n", buf.String())
}

func TestBuildSuite(t *testing.T) {
	suite.Run(t, new(BuildSuite))
}

func randomStore(t testing.TB, seed int64) *points.Store {
	t.Helper()
	gen := synth.Concat(synth.Blobs(5, 60, 0.8), synth.Uniform(100, 60, 60))
	pts, err := synth.Generate(gen, synth.WithSeed(seed), synth.WithOrigin(-30, -30))
	require.NoError(t, err)
	st, err := points.Load(pts, len(pts))
	require.NoError(t, err)
	return st
}

func TestBuild_Symmetric(t *testing.T) {
	st := randomStore(t, 11)
	sets, err := neighborhood.Build(st, 1.2)
	require.NoError(t, err)

	for p := 1; p <= sets.Len(); p++ {
		list, err := sets.Of(p)
		require.NoError(t, err)
		require.True(t, slices.IsSorted(list))
		for _, q := range list {
			require.NotEqual(t, p, q)
			back, _ := sets.Of(q)
			_, found := slices.BinarySearch(back, p)
			require.True(t, found, "%d in N(%d) but %d not in N(%d)", q, p, p, q)
		}
	}
}

func TestBuild_StrategiesAgree(t *testing.T) {
	st := randomStore(t, 5)
	for _, eps := range []float64{0.3, 1.0, 2.5, 40} {
		want, err := neighborhood.Build(st, eps)
		require.NoError(t, err)

		variants := map[string][]neighborhood.Option{
			"parallel":      {neighborhood.WithWorkers(4)},
			"grid":          {neighborhood.WithStrategy(neighborhood.Grid)},
			"grid parallel": {neighborhood.WithStrategy(neighborhood.Grid), neighborhood.WithWorkers(3)},
		}
		for name, opts := range variants {
			got, err := neighborhood.Build(st, eps, opts...)
			require.NoError(t, err, name)
			require.Equal(t, want.Entries(), got.Entries(), "%s eps=%v", name, eps)
			for p := 1; p <= want.Len(); p++ {
				a, _ := want.Of(p)
				b, _ := got.Of(p)
				require.Equal(t, a, b, "%s eps=%v point=%d", name, eps, p)
			}
		}
	}
}

func TestBuild_ParallelMaxEntries(t *testing.T) {
	st := randomStore(t, 2)
	_, err := neighborhood.Build(st, 5, neighborhood.WithWorkers(4), neighborhood.WithMaxEntries(10))
	require.ErrorIs(t, err, neighborhood.ErrResourceExhausted)
}

func TestBuild_EmptyStore(t *testing.T) {
	st, err := points.Load(nil, 0)
	require.NoError(t, err)
	sets, err := neighborhood.Build(st, 1, neighborhood.WithWorkers(4))
	require.NoError(t, err)
	assert.Equal(t, 0, sets.Len())
	assert.Empty(t, sets.Isolated())
}

func TestParseStrategy(t *testing.T) {
	s, err := neighborhood.ParseStrategy("grid")
	require.NoError(t, err)
	assert.Equal(t, neighborhood.Grid, s)
	assert.Equal(t, "grid", s.String())

	s, err = neighborhood.ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, neighborhood.Exhaustive, s)

	_, err = neighborhood.ParseStrategy("kdtree")
	assert.ErrorIs(t, err, neighborhood.ErrOptionViolation)
}
