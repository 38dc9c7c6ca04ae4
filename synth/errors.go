// SPDX-License-Identifier: MIT
// Package: dbscan/synth
//
// errors.go: sentinel errors for the synth package.

package synth

import (
	"errors"
	"fmt"
)

// ErrTooFewPoints indicates a count parameter (n, k, perBlob) below its minimum.
var ErrTooFewPoints = errors.New("synth: parameter too small")

// ErrInvalidScale indicates a negative or non-finite spread, radius or extent.
var ErrInvalidScale = errors.New("synth: invalid scale")

// ErrNeedRandSource indicates a generator was invoked without an RNG.
var ErrNeedRandSource = errors.New("synth: rng is required")

// wrapf attaches the generator name to err.
func wrapf(method string, format string, err error, args ...any) error {
	return fmt.Errorf("%s: %s: %w", method, fmt.Sprintf(format, args...), err)
}
