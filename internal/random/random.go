package random

import (
	"math/rand"
)

// Source produces uniform random draws. It exists so game logic can be
// tested with deterministic sequences.
type Source interface {
	Intn(n int) int
	Float64() float64
}

type mathSource struct{}

func (mathSource) Intn(n int) int   { return rand.Intn(n) } //nolint:gosec // Game logic randomness, not security critical
func (mathSource) Float64() float64 { return rand.Float64() } //nolint:gosec // Game logic randomness, not security critical

// NewSource returns the default math/rand backed source.
func NewSource() Source {
	return mathSource{}
}

// IntInRange returns a random integer between min and max (inclusive).
func IntInRange(src Source, min, max int) int {
	if min >= max {
		return min
	}
	return src.Intn(max-min+1) + min
}

// Weighted draws one index from weights, where the chance of index i is
// weights[i] / sum(weights). Weights must be non-negative; a zero total
// returns 0.
func Weighted(src Source, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}

	roll := src.Intn(total)
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// WeightedPick draws count items (with replacement) from items using the
// matching weights slice.
func WeightedPick[T any](src Source, items []T, weights []int, count int) []T {
	picked := make([]T, count)
	for i := 0; i < count; i++ {
		picked[i] = items[Weighted(src, weights)]
	}
	return picked
}
