// Package points owns the raw 2-D coordinates of one clustering run.
//
// What:
//
//   - Point is an immutable (X, Y) pair.
//   - Store holds N points addressed by a stable 1-based ID in [1, N].
//   - Parse reads whitespace separated "x y" records, one per line.
//
// Contract:
//
//   - The declared point count must match the number of records exactly;
//     a short, long or malformed input fails with ErrLoad.
//   - Get and Distance fail with ErrOutOfRange for IDs outside [1, N].
//   - A Store is never mutated after it is built and is safe for
//     concurrent readers.
//
// Complexity:
//
//   - Load, Parse: O(N) time and memory.
//   - Get, Distance: O(1).
package points
