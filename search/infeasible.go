package search

import (
	"math/rand"

	"github.com/vrp-solver/vrp-solver/goal"
	"github.com/vrp-solver/vrp-solver/insertion"
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/population"
	"github.com/vrp-solver/vrp-solver/problem"
	"github.com/vrp-solver/vrp-solver/recreate"
	"github.com/vrp-solver/vrp-solver/ruin"
	"github.com/vrp-solver/vrp-solver/solution"
)

// stochasticConstraint wraps an inner constraint so it is skipped — Evaluate
// always reports feasible — with the given probability, independently on
// every call. It lets InfeasibleSearch relax an arbitrary subset of a
// problem's constraints without needing a per-feature toggle.
type stochasticConstraint struct {
	inner       goal.Constraint
	rng         *rand.Rand
	probability float64
}

func (s *stochasticConstraint) Evaluate(move goal.MoveContext) *goal.Violation {
	if s.rng.Float64() < s.probability {
		return nil
	}
	return s.inner.Evaluate(move)
}

func (s *stochasticConstraint) Merge(source, candidate model.Job) (model.Job, error) {
	return s.inner.Merge(source, candidate)
}

// InfeasibleSearch explores a temporarily relaxed copy of the problem — a
// random subset of constraints skipped with a random probability — for a
// bounded number of generations, repairing every candidate it produces back
// into a feasible solution before returning the best one found. This gives
// ruin/recreate a way to cross infeasible "valleys" a strictly feasible
// search can never pass through.
type InfeasibleSearch struct {
	Ruin              ruin.Ruin
	Recreate          recreate.Recreate
	RecoveryOperator  recreate.Recreate
	Evaluator         *insertion.Evaluator
	MaxRepeatCount    int
	SkipProbabilityLo float64
	SkipProbabilityHi float64
}

// Search runs the relaxed-space exploration described above, starting from
// parent, and returns a repaired, feasible candidate solution.
func (s *InfeasibleSearch) Search(original *problem.Problem, env *insertion.Environment, parent *solution.Context, r *rand.Rand) *solution.Context {
	relaxedProblem := s.relax(original, r)

	repeatCount := 1 + r.Intn(withMinimumOne(s.MaxRepeatCount))
	relaxedPop := population.NewElitism(4)

	current := parent.DeepCopy()
	for i := 0; i < repeatCount; i++ {
		ctx := insertion.NewContext(relaxedProblem, current, env)
		s.Ruin.Run(ctx)
		s.Recreate.Run(ctx)
		relaxedProblem.Goal.AcceptSolutionState(ctx.Solution)

		repaired := Repair(original, s.Evaluator, env, ctx.Solution)
		s.RecoveryOperator.Run(repaired)
		original.Goal.AcceptSolutionState(repaired.Solution)

		relaxedPop.Add(population.NewIndividual(original.Goal, repaired.Solution))
		current = repaired.Solution.DeepCopy()
	}

	if best := relaxedPop.Best(); best != nil {
		return best.Solution
	}
	return parent.DeepCopy()
}

// withMinimumOne guards against MaxRepeatCount <= 0 so r.Intn never panics.
func withMinimumOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// relax builds a copy of original whose goal context wraps every feature's
// constraint in a stochasticConstraint, each independently assigned a skip
// probability drawn uniformly from [SkipProbabilityLo, SkipProbabilityHi] (or
// forced to 1, i.e. fully disabled, with 50% chance — the same "disable
// outright half the time, otherwise only sometimes" mix the relaxed-space
// exploration it's grounded on uses).
func (s *InfeasibleSearch) relax(original *problem.Problem, r *rand.Rand) *problem.Problem {
	lo, hi := s.SkipProbabilityLo, s.SkipProbabilityHi
	if hi < lo {
		lo, hi = hi, lo
	}

	relaxedFeatures := make([]goal.Feature, len(original.Goal.Features))
	for i, f := range original.Goal.Features {
		relaxedFeatures[i] = f
		if f.Constraint == nil {
			continue
		}
		probability := lo + r.Float64()*(hi-lo)
		if r.Float64() < 0.5 {
			probability = 1
		}
		relaxedFeatures[i].Constraint = &stochasticConstraint{inner: f.Constraint, rng: r, probability: probability}
	}

	relaxedGoal, err := goal.NewGoalContext(relaxedFeatures, original.Goal.MainGoal, original.Goal.Optimisation)
	if err != nil {
		// Every name in MainGoal/Optimisation already validated against
		// original.Goal.Features; relaxedFeatures only swaps Constraints, so this
		// can't actually fail.
		panic(err)
	}

	relaxed := *original
	relaxed.Goal = relaxedGoal
	return &relaxed
}
