package worker

import (
	"math"
	"math/rand/v2"
	"time"
)

// exponentialBackoff returns base * 2^(attempt-1) capped at maxDelay.
func exponentialBackoff(attempt int, base, maxDelay time.Duration) time.Duration {
	if attempt <= 0 {
		return 0
	}
	d := time.Duration(math.Pow(2, float64(attempt-1)) * float64(base))
	if d > maxDelay || d <= 0 {
		return maxDelay
	}
	return d
}

// jitter returns a random duration in [0, maxJitter].
func jitter(maxJitter time.Duration) time.Duration {
	if maxJitter <= 0 {
		return 0
	}
	return rand.N(maxJitter + 1)
}
