package dbscan_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/dbscan"
	"github.com/katalvlaran/dbscan/expansion"
	"github.com/katalvlaran/dbscan/metrics"
	"github.com/katalvlaran/dbscan/neighborhood"
	"github.com/katalvlaran/dbscan/points"
	"github.com/katalvlaran/dbscan/sink"
	"github.com/katalvlaran/dbscan/synth"
)

func scenarioA() []points.Point {
	return []points.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}, {X: 10, Y: 10}, {X: 10, Y: 11}}
}

// memberSets returns cluster memberships ordered by smallest member.
func memberSets(out *dbscan.Outcome) [][]int {
	var sets [][]int
	for _, c := range out.Result.Clusters() {
		sets = append(sets, c.IDs)
	}
	slices.SortFunc(sets, func(a, b []int) int { return a[0] - b[0] })
	return sets
}

type ScenarioSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *ScenarioSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *ScenarioSuite) TestScenarioA_TwoClustersNoNoise() {
	out, err := dbscan.RunPoints(s.ctx, scenarioA(),
		dbscan.Params{Eps: 1.5, MinPts: 2, Count: 5}, dbscan.WithSeed(3))
	s.Require().NoError(err)
	s.Equal(2, out.Result.NumClusters())
	s.Empty(out.Result.NoiseIDs())
	s.Equal([][]int{{1, 2, 3}, {4, 5}}, memberSets(out))
	s.Equal(5, out.CoreCount)
}

func (s *ScenarioSuite) TestScenarioB_IsolatedPointIsNoise() {
	pts := append(scenarioA(), points.Point{X: 50, Y: 50})
	out, err := dbscan.RunPoints(s.ctx, pts,
		dbscan.Params{Eps: 1.5, MinPts: 2, Count: dbscan.AnyCount}, dbscan.WithSeed(3))
	s.Require().NoError(err)
	s.Equal([]int{6}, out.Result.NoiseIDs())
	s.Equal(0, out.Result.Labels()[5])
	s.Equal([]int{6}, out.Sets.Isolated())
}

func (s *ScenarioSuite) TestScenarioC_NoCoreAllNoise() {
	out, err := dbscan.RunPoints(s.ctx, scenarioA(),
		dbscan.Params{Eps: 1.5, MinPts: 10, Count: 5}, dbscan.WithSeed(3))
	s.Require().NoError(err)
	s.Zero(out.CoreCount)
	s.Zero(out.Result.NumClusters())
	s.Equal([]int{1, 2, 3, 4, 5}, out.Result.NoiseIDs())
}

func TestScenarioSuite(t *testing.T) {
	suite.Run(t, new(ScenarioSuite))
}

func TestRun_ErrorTaxonomy(t *testing.T) {
	ctx := context.Background()
	pts := scenarioA()

	tests := []struct {
		name   string
		params dbscan.Params
		opts   []dbscan.Option
		want   []error
		phase  string
	}{
		{"CountMismatch", dbscan.Params{Eps: 1, MinPts: 2, Count: 4}, nil,
			[]error{dbscan.ErrLoad, points.ErrLoad}, dbscan.PhaseLoad},
		{"ZeroEps", dbscan.Params{Eps: 0, MinPts: 2, Count: 5}, nil,
			[]error{dbscan.ErrInvalidParameter, neighborhood.ErrInvalidParameter}, dbscan.PhaseBuild},
		{"ZeroMinPts", dbscan.Params{Eps: 1, MinPts: 0, Count: 5}, nil,
			[]error{dbscan.ErrInvalidParameter, dbscan.ErrEmptyInput}, dbscan.PhaseValidate},
		{"EntryCap", dbscan.Params{Eps: 100, MinPts: 2, Count: 5},
			[]dbscan.Option{dbscan.WithMaxEntries(3)},
			[]error{dbscan.ErrResourceExhausted}, dbscan.PhaseBuild},
		{"NegativeWorkers", dbscan.Params{Eps: 1, MinPts: 2, Count: 5},
			[]dbscan.Option{dbscan.WithWorkers(-1)},
			[]error{dbscan.ErrOptionViolation}, dbscan.PhaseValidate},
		{"NegativeMaxEntries", dbscan.Params{Eps: 1, MinPts: 2, Count: 5},
			[]dbscan.Option{dbscan.WithMaxEntries(-1)},
			[]error{dbscan.ErrOptionViolation}, dbscan.PhaseValidate},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := dbscan.RunPoints(ctx, pts, tc.params, tc.opts...)
			require.Error(t, err)
			assert.Nil(t, out)
			for _, want := range tc.want {
				assert.ErrorIs(t, err, want)
			}
			var pe *dbscan.PhaseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tc.phase, pe.Phase)
		})
	}
}

func TestRun_ZeroPoints(t *testing.T) {
	ctx := context.Background()
	p := dbscan.Params{Eps: 1, MinPts: 2, Count: dbscan.AnyCount}

	check := func(t *testing.T, out *dbscan.Outcome, err error) {
		t.Helper()
		require.NoError(t, err)
		require.NotNil(t, out.Result)
		assert.Zero(t, out.Result.Len())
		assert.Zero(t, out.Result.NumClusters())
		assert.Empty(t, out.Result.NoiseIDs())
		assert.Empty(t, out.Result.Labels())
		assert.Zero(t, out.CoreCount)
	}

	t.Run("Points", func(t *testing.T) {
		out, err := dbscan.RunPoints(ctx, []points.Point{}, dbscan.Params{Eps: 1, MinPts: 2, Count: 0})
		check(t, out, err)
	})
	t.Run("EmptyFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.txt")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		out, err := dbscan.RunFile(ctx, path, p)
		check(t, out, err)
	})
	t.Run("ZeroMinPtsStillRejected", func(t *testing.T) {
		_, err := dbscan.RunPoints(ctx, nil, dbscan.Params{Eps: 1, MinPts: 0, Count: 0})
		require.ErrorIs(t, err, dbscan.ErrInvalidParameter)
	})
}

// MinPts is checked before any distance is computed.
func TestRun_MinPtsFailsFast(t *testing.T) {
	col := metrics.NewCollector()
	_, err := dbscan.RunPoints(context.Background(), scenarioA(),
		dbscan.Params{Eps: 1.5, MinPts: -3, Count: 5}, dbscan.WithObserver(col))
	require.ErrorIs(t, err, dbscan.ErrInvalidParameter)

	count, err := testutil.GatherAndCount(col.Registry(), "dbscan_phase_duration_seconds")
	require.NoError(t, err)
	assert.Zero(t, count, "no phase ran")
}

func TestRun_NilStore(t *testing.T) {
	_, err := dbscan.Run(context.Background(), nil, dbscan.Params{Eps: 1, MinPts: 1})
	require.ErrorIs(t, err, dbscan.ErrEmptyInput)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := dbscan.RunPoints(ctx, scenarioA(), dbscan.Params{Eps: 1.5, MinPts: 2, Count: 5})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRun_DeterministicAndStrategyIndependent(t *testing.T) {
	pts, err := synth.Generate(synth.Concat(
		synth.Blobs(4, 40, 0.8),
		synth.Uniform(30, 60, 60),
	), synth.WithSeed(11))
	require.NoError(t, err)
	p := dbscan.Params{Eps: 1.2, MinPts: 4, Count: dbscan.AnyCount}

	ref, err := dbscan.RunPoints(context.Background(), pts, p, dbscan.WithSeed(5))
	require.NoError(t, err)
	again, err := dbscan.RunPoints(context.Background(), pts, p, dbscan.WithSeed(5))
	require.NoError(t, err)
	assert.Equal(t, ref.Result.Labels(), again.Result.Labels())

	grid, err := dbscan.RunPoints(context.Background(), pts, p,
		dbscan.WithSeed(5), dbscan.WithStrategy(neighborhood.Grid), dbscan.WithWorkers(4))
	require.NoError(t, err)
	assert.Equal(t, ref.Result.Labels(), grid.Result.Labels())
	assert.Equal(t, ref.Sets.Entries(), grid.Sets.Entries())
}

func TestRun_ObserverAndLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	col := metrics.NewCollector()
	var formed []int

	out, err := dbscan.RunPoints(context.Background(), scenarioA(),
		dbscan.Params{Eps: 1.5, MinPts: 2, Count: 5},
		dbscan.WithSeed(1),
		dbscan.WithLogger(zap.New(core)),
		dbscan.WithObserver(col),
		dbscan.WithOnCluster(func(c expansion.Cluster) { formed = append(formed, c.ID) }),
	)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, formed)
	assert.Equal(t, int64(1), out.Seed)

	assert.Equal(t, 2, logs.FilterMessage("Cluster formed").Len())
	finished := logs.FilterMessage("Clustering finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, int64(2), finished[0].ContextMap()["clusters"])

	count, err := testutil.GatherAndCount(col.Registry(), "dbscan_clusters_total", "dbscan_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRunFile_ToFilesSink(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "points.txt")
	require.NoError(t, os.WriteFile(input, []byte("0\t0\n0\t1\n1\t0\n10\t10\n"), 0o644))

	out, err := dbscan.RunFile(context.Background(), input,
		dbscan.Params{Eps: 1.5, MinPts: 2, Count: 4}, dbscan.WithSeed(2))
	require.NoError(t, err)

	run := out.Record(input)
	assert.Equal(t, input, run.Input)
	assert.Equal(t, int64(2), run.Seed)

	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(outDir, 0o755))
	require.NoError(t, sink.Files{Dir: outDir}.Write(context.Background(), run))

	body, err := os.ReadFile(filepath.Join(outDir, "cluster_1.data"))
	require.NoError(t, err)
	assert.Equal(t, "0.000000\t0.000000\n0.000000\t1.000000\n1.000000\t0.000000\n", string(body))
	noise, err := os.ReadFile(filepath.Join(outDir, "noise.data"))
	require.NoError(t, err)
	assert.Equal(t, "10.000000\t10.000000\n", string(noise))
}

func TestRunFile_Missing(t *testing.T) {
	_, err := dbscan.RunFile(context.Background(), filepath.Join(t.TempDir(), "none.txt"),
		dbscan.Params{Eps: 1, MinPts: 1, Count: dbscan.AnyCount})
	require.ErrorIs(t, err, dbscan.ErrLoad)
}
