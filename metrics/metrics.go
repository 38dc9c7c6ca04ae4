// Package metrics exposes Prometheus collectors for clustering runs.
//
// A Collector owns its own registry, so several collectors can coexist in
// one process (tests, the watch loop) without duplicate registration. The
// batch CLI exports it with WriteTextfile for the node_exporter textfile
// collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/dbscan/expansion"
)

const namespace = "dbscan"

// Collector records run, phase and cluster statistics.
type Collector struct {
	registry *prometheus.Registry

	// runs counts completed runs.
	runs prometheus.Counter
	// failures counts aborted runs. Labels: reason
	failures *prometheus.CounterVec
	// phaseDuration measures each pipeline phase. Labels: phase
	phaseDuration *prometheus.HistogramVec
	// clusters counts finalized clusters across runs.
	clusters prometheus.Counter
	// clusterSize is the distribution of cluster membership counts.
	clusterSize prometheus.Histogram
	// enqueued counts work queue pushes.
	enqueued prometheus.Counter

	// last-run gauges
	points      prometheus.Gauge
	coreObjects prometheus.Gauge
	noise       prometheus.Gauge
}

// NewCollector creates a Collector and registers its metrics on a fresh
// registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Collector{
		registry: reg,
		runs: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total completed clustering runs",
		}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "run_failures_total",
			Help:      "Total clustering runs aborted by an error",
		}, []string{"reason"}),
		phaseDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Duration of pipeline phases in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"phase"}),
		clusters: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clusters_total",
			Help:      "Total clusters formed",
		}),
		clusterSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cluster_size_points",
			Help:      "Number of points per formed cluster",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		}),
		enqueued: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "expansion",
			Name:      "enqueued_total",
			Help:      "Total work queue pushes during cluster expansion",
		}),
		points: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "last_run",
			Name:      "points",
			Help:      "Points in the most recent run",
		}),
		coreObjects: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "last_run",
			Name:      "core_objects",
			Help:      "Core objects in the most recent run",
		}),
		noise: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "last_run",
			Name:      "noise_points",
			Help:      "Noise points in the most recent run",
		}),
	}
}

// Registry returns the registry holding every metric of c.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObservePhase records the duration of a named pipeline phase.
func (c *Collector) ObservePhase(phase string, d time.Duration) {
	c.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// ObserveCluster records one finalized cluster.
func (c *Collector) ObserveCluster(cl expansion.Cluster) {
	c.clusters.Inc()
	c.clusterSize.Observe(float64(len(cl.Members)))
}

// ObserveEnqueue records one work queue push.
func (c *Collector) ObserveEnqueue() {
	c.enqueued.Inc()
}

// ObserveRun records the totals of a completed run.
func (c *Collector) ObserveRun(points, cores, clusters, noise int) {
	c.runs.Inc()
	c.points.Set(float64(points))
	c.coreObjects.Set(float64(cores))
	c.noise.Set(float64(noise))
}

// ObserveFailure records an aborted run.
func (c *Collector) ObserveFailure(reason string) {
	c.failures.WithLabelValues(reason).Inc()
}

// WriteTextfile writes every metric in the Prometheus text format to path,
// atomically via a temporary file.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
