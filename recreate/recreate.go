package recreate

import (
	"github.com/vrp-solver/vrp-solver/goal"
	"github.com/vrp-solver/vrp-solver/insertion"
	"github.com/vrp-solver/vrp-solver/rng"
	"github.com/vrp-solver/vrp-solver/solution"
)

// Recreate re-inserts a solution's required jobs until none remain or no
// further insertion succeeds.
type Recreate interface {
	Run(ctx *insertion.Context)
}

// Operator is a single recreate strategy: a job order, a per-job evaluator and
// a way of picking which evaluated job to commit next.
type Operator struct {
	Jobs    JobSelector
	Results ResultSelector
	Eval    *insertion.Evaluator
	Policy  insertion.Policy
}

// NewOperator builds an Operator with the given job selector, result selector
// and insertion evaluator. Policy defaults to insertion.AnyPosition().
func NewOperator(jobs JobSelector, results ResultSelector, eval *insertion.Evaluator) *Operator {
	return &Operator{Jobs: jobs, Results: results, Eval: eval, Policy: insertion.AnyPosition()}
}

// Run implements Recreate: repeatedly selects the current required-job order,
// evaluates every one of them against every candidate route, commits the
// single best pick, and starts over — until Required is empty or a full round
// finds no job with any feasible insertion left, at which point every
// remaining job in that round is recorded unassigned with its failing code.
func (op *Operator) Run(ctx *insertion.Context) {
	for {
		order := op.Jobs.Select(ctx, ctx.Solution.Required)
		if len(order) == 0 {
			return
		}

		candidates := make([]candidate, len(order))
		for i, job := range order {
			candidates[i] = newCandidate(op.Eval.EvaluateCandidates(ctx, job, op.Policy))
		}

		r := ctx.Environment.RNG.ForSubsystem(rng.SubsystemRecreate)
		picked := op.Results.Pick(candidates, r)
		if picked == -1 {
			for i, job := range order {
				ctx.Solution.MarkUnassigned(job, solution.ReasonDetailed, failureCode(candidates[i].results))
			}
			return
		}
		ctx.Commit(candidates[picked].best)
	}
}

// failureCode returns the code of the first violation found among results, for
// recording alongside an unassignable job. Every candidate route was tried, so
// the reason is always "detailed" rather than a cheap placeholder.
func failureCode(results []insertion.Result) int {
	for _, res := range results {
		if res.Violation != nil {
			return int(res.Violation.Code)
		}
	}
	return int(goal.ViolationCode(0))
}
