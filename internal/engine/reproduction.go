package engine

import (
	"math/rand"

	"github.com/piwi3910/packga/internal/model"
)

// NextGeneration builds a new population from ranked survivors (best
// first). The top EliteCount survivors are copied over, then repeated
// passes over the survivors add clones and offspring until the pool holds
// at least PopulationSize individuals. Finally every member, elites
// included, goes through mutation.
//
// The pool may overshoot PopulationSize by up to one pass worth of
// additions. With no survivors the result is empty.
func NextGeneration(survivors []model.Permutation, settings model.GeneticSettings, rng *rand.Rand) []model.Permutation {
	n := len(survivors)
	eliteCount := min(n, settings.EliteCount)

	pool := make([]model.Permutation, 0, settings.PopulationSize+n)
	for i := 0; i < eliteCount; i++ {
		pool = append(pool, survivors[i].Clone())
	}

	// Without clones a lone survivor has no partner to breed with.
	canGrow := n > 0 && (settings.CloneRate > 0 || (n > 1 && settings.OffspringRate > 0))

	for canGrow && len(pool) < settings.PopulationSize {
		for i := 0; i < n; i++ {
			if chance(rng, settings.CloneRate) {
				pool = append(pool, survivors[i].Clone())
			}
			if chance(rng, settings.OffspringRate) {
				j, ok := laterIndex(rng, i, n)
				if !ok {
					continue
				}
				pool = append(pool, MakeOffspring(survivors[i], survivors[j], settings, rng))
			}
		}
	}

	for _, p := range pool {
		Mutate(p, settings.MutationSkipRate, settings.GeneKeepRate, rng)
	}
	return pool
}
