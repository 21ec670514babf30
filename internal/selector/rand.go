package selector

// Rand is the source of randomness for every draw. *math/rand/v2.Rand
// satisfies it; pass a seeded one for reproducible output. A Rand is not
// safe for concurrent use, so concurrent generation calls need their own.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// WeightedIndex draws an index with probability proportional to its weight.
// Negative weights count as zero; if every weight is zero the draw is
// uniform. It returns -1 for an empty slice.
func WeightedIndex(rng Rand, weights []float64) int {
	if len(weights) == 0 {
		return -1
	}
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return rng.IntN(len(weights))
	}

	r := rng.Float64() * total
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if r < w {
			return i
		}
		r -= w
		last = i
	}
	// Float rounding can leave r just above zero after the final weight.
	return last
}
