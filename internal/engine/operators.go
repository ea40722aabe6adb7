package engine

import (
	"fmt"
	"math/rand"

	"github.com/piwi3910/packga/internal/model"
)

// chance returns true with probability p.
func chance(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

// laterIndex picks a position uniformly from (i, n). It returns false when
// i is the last position.
func laterIndex(rng *rand.Rand, i, n int) (int, bool) {
	if i+1 >= n {
		return 0, false
	}
	return i + 1 + rng.Intn(n-i-1), true
}

// randomPermutation returns a uniform shuffle of [0, n).
func randomPermutation(rng *rand.Rand, n int) model.Permutation {
	return model.Permutation(rng.Perm(n))
}

// Crossover interleaves two parents. A read cursor walks each parent; the
// active parent starts on a fair coin flip and after every read switches
// with probability switchRate. Values already taken are skipped, so the
// child keeps the relative order of whichever parent supplied each gene.
//
// Both parents must be permutations of the same index set. Anything else is
// a programming error and panics.
func Crossover(a, b model.Permutation, switchRate float64, rng *rand.Rand) model.Permutation {
	if len(a) != len(b) {
		panic(fmt.Sprintf("engine: crossover of permutations with different lengths %d and %d", len(a), len(b)))
	}

	n := len(a)
	child := make(model.Permutation, 0, n)
	taken := make([]bool, n)
	useA := chance(rng, 0.5)
	i, j := 0, 0

	for i < n || j < n {
		var v int
		// An exhausted parent hands over to the other one.
		if (useA && i < n) || j >= n {
			v = a[i]
			i++
		} else {
			v = b[j]
			j++
		}

		if v < 0 || v >= n {
			panic(fmt.Sprintf("engine: crossover gene %d outside [0, %d)", v, n))
		}
		if !taken[v] {
			taken[v] = true
			child = append(child, v)
		}

		if chance(rng, switchRate) {
			useA = !useA
		}
	}

	if len(child) != n {
		panic(fmt.Sprintf("engine: crossover parents are not permutations of the same set (child has %d of %d genes)", len(child), n))
	}
	return child
}

// Mutate disturbs a permutation in place. Most individuals are left alone
// (skipRate); otherwise each position is kept with keepRate and swapped with
// a strictly later position the rest of the time. The last position never
// starts a swap.
func Mutate(perm model.Permutation, skipRate, keepRate float64, rng *rand.Rand) {
	if chance(rng, skipRate) {
		return
	}
	n := len(perm)
	for i := 0; i < n; i++ {
		if chance(rng, keepRate) {
			continue
		}
		j, ok := laterIndex(rng, i, n)
		if !ok {
			continue
		}
		perm[i], perm[j] = perm[j], perm[i]
	}
}

// MakeOffspring crosses two parents and mutates the child.
func MakeOffspring(a, b model.Permutation, settings model.GeneticSettings, rng *rand.Rand) model.Permutation {
	child := Crossover(a, b, settings.CrossoverSwitchRate, rng)
	Mutate(child, settings.MutationSkipRate, settings.GeneKeepRate, rng)
	return child
}
