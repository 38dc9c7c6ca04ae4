package expansion

import (
	"math/rand"
	"time"
)

// rngFromSeed returns a deterministic *rand.Rand. The seed is used
// verbatim, including 0.
//
// math/rand.Rand is not goroutine-safe; an Engine owns its RNG.
func rngFromSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// rngFromClock is the production default when no RNG is injected.
func rngFromClock() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
