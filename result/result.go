// Package result partitions a finished clustering run into clusters and a
// noise set and exposes both in memory. It performs no I/O; see package
// sink for file and database output.
package result

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/dbscan/expansion"
	"github.com/katalvlaran/dbscan/points"
)

// Sentinel errors for result materialization.
var (
	// ErrStoreNil is returned if a nil store is passed to Finalize.
	ErrStoreNil = errors.New("result: store is nil")

	// ErrPartition is returned when clusters and marks do not assign every
	// point to exactly one cluster or to noise.
	ErrPartition = errors.New("result: partition violated")
)

// NoiseLabel is the Labels value of a noise point.
const NoiseLabel = 0

// ClusterPoints is one materialized cluster.
type ClusterPoints struct {
	ID     int
	Seed   int
	IDs    []int          // ascending point IDs
	Points []points.Point // Points[i] has ID IDs[i]
}

// Centroid is the mean position of a cluster.
type Centroid struct {
	ClusterID int
	X, Y      float64
	Size      int
}

// Result is the immutable outcome of a clustering run.
type Result struct {
	n        int
	clusters []ClusterPoints
	noiseIDs []int
	noise    []points.Point
	labels   []int // index i holds the label of ID i+1
}

// Finalize joins the clusters of a run with its final VisitedMarks. Noise
// is every point whose mark is Unreached or Isolated. marks must have
// length N+1 with index 0 unused.
//
// Complexity: O(N) time and memory.
func Finalize(store *points.Store, clusters []expansion.Cluster, marks []int) (*Result, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	n := store.Len()
	if len(marks) != n+1 {
		return nil, fmt.Errorf("%w: %d marks for %d points", ErrPartition, len(marks), n)
	}

	r := &Result{n: n, labels: make([]int, n)}
	for i, c := range clusters {
		if c.ID != i+1 {
			return nil, fmt.Errorf("%w: cluster %d has id %d", ErrPartition, i+1, c.ID)
		}
		cp := ClusterPoints{
			ID:     c.ID,
			Seed:   c.Seed,
			IDs:    append([]int(nil), c.Members...),
			Points: make([]points.Point, 0, len(c.Members)),
		}
		for _, id := range c.Members {
			if id < 1 || id > n {
				return nil, fmt.Errorf("%w: cluster %d member %d out of range", ErrPartition, c.ID, id)
			}
			if r.labels[id-1] != NoiseLabel {
				return nil, fmt.Errorf("%w: point %d in clusters %d and %d", ErrPartition, id, r.labels[id-1], c.ID)
			}
			r.labels[id-1] = c.ID
			cp.Points = append(cp.Points, store.At(id))
		}
		r.clusters = append(r.clusters, cp)
	}

	for id := 1; id <= n; id++ {
		noise := marks[id] == expansion.Unreached || marks[id] == expansion.Isolated
		clustered := r.labels[id-1] != NoiseLabel
		switch {
		case noise && clustered:
			return nil, fmt.Errorf("%w: point %d has noise mark %d but is in cluster %d", ErrPartition, id, marks[id], r.labels[id-1])
		case !noise && !clustered:
			return nil, fmt.Errorf("%w: point %d reached but in no cluster", ErrPartition, id)
		case noise:
			r.noiseIDs = append(r.noiseIDs, id)
			r.noise = append(r.noise, store.At(id))
		}
	}
	return r, nil
}

// Len returns the number of points N.
func (r *Result) Len() int {
	return r.n
}

// NumClusters returns the number of clusters.
func (r *Result) NumClusters() int {
	return len(r.clusters)
}

// Clusters returns the clusters ordered by ClusterId.
func (r *Result) Clusters() []ClusterPoints {
	return append([]ClusterPoints(nil), r.clusters...)
}

// Noise returns the noise points in ascending ID order.
func (r *Result) Noise() []points.Point {
	return append([]points.Point(nil), r.noise...)
}

// NoiseIDs returns the noise point IDs in ascending order.
func (r *Result) NoiseIDs() []int {
	return append([]int(nil), r.noiseIDs...)
}

// Labels returns, for each point, its ClusterId or NoiseLabel. Index i
// holds the label of ID i+1.
func (r *Result) Labels() []int {
	return append([]int(nil), r.labels...)
}

// Centroids returns the mean point of every cluster, ordered by ClusterId.
func (r *Result) Centroids() []Centroid {
	out := make([]Centroid, 0, len(r.clusters))
	for _, c := range r.clusters {
		var sx, sy float64
		for _, p := range c.Points {
			sx += p.X
			sy += p.Y
		}
		k := float64(len(c.Points))
		out = append(out, Centroid{ClusterID: c.ID, X: sx / k, Y: sy / k, Size: len(c.Points)})
	}
	return out
}
