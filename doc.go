// Package dbscan clusters 2-D points by density.
//
// A run loads points, computes every point's eps-neighborhood, classifies
// core objects (at least MinPts−1 neighbors) and grows clusters from
// randomly chosen unvisited cores by breadth-first traversal. Points never
// reached from a core are noise.
//
// The pipeline lives in subpackages:
//
//	points/        immutable point store and record parser
//	neighborhood/  pairwise neighbor lists (exhaustive or grid, optionally parallel)
//	registry/      core object classification and visited flags
//	expansion/     seed selection and cluster expansion state machine
//	result/        partition into clusters and noise, labels, centroids
//	sink/          cluster text files and SQLite run store
//	metrics/       Prometheus collectors
//	synth/         deterministic synthetic point sets
//
// Run and RunFile wire these together:
//
//	out, err := dbscan.RunFile(ctx, "points.txt",
//		dbscan.Params{Eps: 1.5, MinPts: 4, Count: dbscan.AnyCount},
//		dbscan.WithSeed(42),
//		dbscan.WithLogger(logger),
//	)
//	if errors.Is(err, dbscan.ErrLoad) { ... }
//
// Errors returned by the pipeline match both the root sentinels below and
// the sentinel of the package that failed.
package dbscan
