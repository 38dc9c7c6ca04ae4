// SPDX-License-Identifier: MIT
// Package: dbscan/synth
//
// Package synth generates deterministic 2-D point sets for tests,
// benchmarks, examples and the `dbscan generate` command.
//
// Generators:
//   - Blobs(k, perBlob, sigma): k isotropic Gaussian blobs on a circle.
//   - Ring(n, radius, jitter):  points on a noisy circle.
//   - Uniform(n, w, h):         uniform background noise in [0,w)×[0,h).
//   - Concat(gens...):          concatenation in argument order.
//
// Determinism:
//   - Every generator draws from cfg.rng only; same seed ⇒ same points.
//   - Draw order is fixed (blob by blob, point by point, x before y).
//
// Errors:
//   - ErrTooFewPoints, ErrInvalidScale, ErrNeedRandSource.
package synth
