// Package sample draws reproducible review subsets from a converted dataset.
package sample

import (
	"math"
	"math/rand/v2"
)

// DefaultSeed seeds the run's single random source.
const DefaultSeed uint64 = 42

// Sizes bounds the two review subsets.
type Sizes struct {
	Inspection    int     `yaml:"inspection"`
	ValidationMin int     `yaml:"validation_min"`
	ValidationMax int     `yaml:"validation_max"`
	ValidationPct float64 `yaml:"validation_fraction"`
}

// DefaultSizes: 10 examples for inspection; 5% of the set, clamped to
// [10, 100], for nurse labeling.
var DefaultSizes = Sizes{
	Inspection:    10,
	ValidationMin: 10,
	ValidationMax: 100,
	ValidationPct: 0.05,
}

// InspectionSize returns min(Inspection, total).
func (s Sizes) InspectionSize(total int) int {
	return min(s.Inspection, total)
}

// ValidationSize returns max(min, min(max, round(pct*total))), clipped to
// total.
func (s Sizes) ValidationSize(total int) int {
	n := int(math.Round(s.ValidationPct * float64(total)))
	n = max(s.ValidationMin, min(s.ValidationMax, n))
	return min(n, total)
}

// Sampler owns the run's seeded random source. All draws for a run must go
// through one Sampler, in a fixed order, after every example exists.
type Sampler struct {
	rng *rand.Rand
}

// New returns a Sampler over a PCG source seeded with seed.
func New(seed uint64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Draw returns k distinct indices in [0, n) without replacement, in draw
// order. k is clipped to n.
func (s *Sampler) Draw(n, k int) []int {
	k = max(0, min(k, n))
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	// Partial Fisher-Yates: the first k slots end up uniformly sampled.
	for i := 0; i < k; i++ {
		j := i + s.rng.IntN(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k:k]
}

// Pick returns items at the given indices, in index order.
func Pick[T any](items []T, idx []int) []T {
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = items[j]
	}
	return out
}
