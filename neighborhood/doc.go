// Package neighborhood builds the directly-density-reachable lists of a
// point set: for every point p, the ordered IDs q ≠ p with
// distance(p, q) ≤ eps.
//
// What:
//
//   - Build evaluates every ordered pair (p, q) exactly once per row,
//     O(N²) distance evaluations, and appends matches in ascending q order.
//   - WithWorkers splits rows across goroutines; each row is written by a
//     single worker, so there is no cross-row contention.
//   - WithStrategy(Grid) buckets points into square cells and only probes
//     the 3×3 block around each point. Lists are sorted, so the result is
//     identical to the exhaustive scan for the same distance predicate.
//
// Options:
//
//   - WithContext:    cancellation, checked between rows.
//   - WithWorkers:    parallel row evaluation (0 or 1 means sequential).
//   - WithStrategy:   Exhaustive (default) or Grid.
//   - WithMaxEntries: upper bound on the total number of neighbor entries.
//
// Errors:
//
//   - ErrInvalidParameter:  eps ≤ 0 or NaN, or a nil store.
//   - ErrOptionViolation:   negative workers or entry limit, unknown strategy.
//   - ErrResourceExhausted: the entry limit was exceeded. Lists are never
//     truncated; the build fails instead.
package neighborhood
