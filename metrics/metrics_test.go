package metrics_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/dbscan/expansion"
	"github.com/katalvlaran/dbscan/metrics"
)

func TestCollector_Observe(t *testing.T) {
	c := metrics.NewCollector()
	c.ObserveCluster(expansion.Cluster{ID: 1, Members: []int{1, 2, 3}})
	c.ObserveCluster(expansion.Cluster{ID: 2, Members: []int{4, 5}})
	c.ObserveEnqueue()
	c.ObserveRun(6, 5, 2, 1)
	c.ObserveFailure("load")
	c.ObservePhase("build", 2*time.Millisecond)

	count, err := testutil.GatherAndCount(c.Registry())
	require.NoError(t, err)
	assert.Equal(t, 9, count)

	expected := `
# HELP dbscan_clusters_total Total clusters formed
# TYPE dbscan_clusters_total counter
dbscan_clusters_total 2
# HELP dbscan_last_run_noise_points Noise points in the most recent run
# TYPE dbscan_last_run_noise_points gauge
dbscan_last_run_noise_points 1
# HELP dbscan_run_failures_total Total clustering runs aborted by an error
# TYPE dbscan_run_failures_total counter
dbscan_run_failures_total{reason="load"} 1
`
	require.NoError(t, testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected),
		"dbscan_clusters_total", "dbscan_last_run_noise_points", "dbscan_run_failures_total"))
}

func TestCollectors_AreIndependent(t *testing.T) {
	a, b := metrics.NewCollector(), metrics.NewCollector()
	a.ObserveEnqueue()

	expected := `
# HELP dbscan_expansion_enqueued_total Total work queue pushes during cluster expansion
# TYPE dbscan_expansion_enqueued_total counter
dbscan_expansion_enqueued_total 0
`
	require.NoError(t, testutil.GatherAndCompare(b.Registry(), strings.NewReader(expected),
		"dbscan_expansion_enqueued_total"))
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := metrics.NewCollector()
	c.ObserveRun(10, 4, 1, 3)

	path := filepath.Join(t.TempDir(), "dbscan.prom")
	require.NoError(t, c.WriteTextfile(path))
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "dbscan_runs_total 1")
	assert.Contains(t, string(body), "dbscan_last_run_points 10")
}
