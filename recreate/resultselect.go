package recreate

import (
	"math/rand"
	"sort"

	"github.com/vrp-solver/vrp-solver/insertion"
)

// candidate pairs one selected job with the per-route Results the evaluator
// found for it, plus the cheapest (best) and second-cheapest feasible result
// among them.
type candidate struct {
	results []insertion.Result
	best    insertion.Result
	second  insertion.Result
	hasBest bool
	hasTwo  bool
}

// ResultSelector picks which of several already-evaluated candidate jobs to
// commit next, and which of that job's candidate routes to use.
type ResultSelector interface {
	// Pick returns the index into candidates to commit, or -1 if none should
	// be committed this round (every candidate failed).
	Pick(candidates []candidate, r *rand.Rand) int
}

func feasibleRanked(results []insertion.Result) (best, second insertion.Result, hasBest, hasTwo bool) {
	ranked := make([]insertion.Result, 0, len(results))
	for _, res := range results {
		if res.Success {
			ranked = append(ranked, res)
		}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Cost < ranked[j].Cost })
	switch len(ranked) {
	case 0:
		return insertion.Result{}, insertion.Result{}, false, false
	case 1:
		return ranked[0], insertion.Result{}, true, false
	default:
		return ranked[0], ranked[1], true, true
	}
}

// newCandidate evaluates results into its ranked best/second-best summary.
func newCandidate(results []insertion.Result) candidate {
	best, second, hasBest, hasTwo := feasibleRanked(results)
	return candidate{results: results, best: best, second: second, hasBest: hasBest, hasTwo: hasTwo}
}

// Best always picks the feasible candidate with the single cheapest insertion
// cost across all jobs considered this round.
type Best struct{}

// Pick implements ResultSelector.
func (Best) Pick(candidates []candidate, _ *rand.Rand) int {
	picked := -1
	for i, c := range candidates {
		if !c.hasBest {
			continue
		}
		if picked == -1 || c.best.Cost < candidates[picked].best.Cost {
			picked = i
		}
	}
	return picked
}

// Noise picks the cheapest candidate after perturbing every feasible best cost
// by an amplitude-scaled random offset, avoiding always breaking ties the same
// way when several jobs have near-identical cheapest insertions.
type Noise struct {
	Amplitude float64
}

// Pick implements ResultSelector.
func (n Noise) Pick(candidates []candidate, r *rand.Rand) int {
	picked := -1
	var pickedCost float64
	for i, c := range candidates {
		if !c.hasBest {
			continue
		}
		cost := c.best.Cost + n.Amplitude*(r.Float64()*2-1)
		if picked == -1 || cost < pickedCost {
			picked = i
			pickedCost = cost
		}
	}
	return picked
}

// RegretK picks the candidate whose regret — the gap between its second- and
// first-cheapest feasible route — is largest: a job that's only cheap on one
// specific route should be locked in now, before that route fills up with
// something else and strands it. Candidates with no second-best route fall
// back to being compared by regret 0 (ordinary best-cost tie-break).
type RegretK struct{}

// Pick implements ResultSelector.
func (RegretK) Pick(candidates []candidate, _ *rand.Rand) int {
	picked := -1
	var pickedRegret, pickedCost float64
	for i, c := range candidates {
		if !c.hasBest {
			continue
		}
		regret := 0.0
		if c.hasTwo {
			regret = c.second.Cost - c.best.Cost
		}
		if picked == -1 || regret > pickedRegret || (regret == pickedRegret && c.best.Cost < pickedCost) {
			picked = i
			pickedRegret = regret
			pickedCost = c.best.Cost
		}
	}
	return picked
}
