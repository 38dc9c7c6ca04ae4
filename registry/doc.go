// Package registry classifies points into core and non-core objects and
// tracks, for every core object, whether cluster expansion has consumed it.
//
// A point p is a core object iff |NeighborSet[p]| ≥ MinPts − 1. The core
// set is computed once by Classify and never changes. Each core object
// carries an explicit Visited flag, false until the expansion engine marks
// it.
//
// Errors:
//
//   - ErrInvalidParameter: nil neighbor sets, or MinPts < 1 (also matches
//     ErrEmptyInput).
//   - ErrEmptyInput:       zero points.
//   - ErrOutOfRange:       a point ID outside [1, N].
//   - ErrInvalidOperation: visited bookkeeping on a non-core ID.
//
// Zero core objects is not an error: the registry is valid and every point
// will end up as noise.
package registry
