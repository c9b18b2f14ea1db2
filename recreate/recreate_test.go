package recreate_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrp-solver/vrp-solver/goal/features"
	"github.com/vrp-solver/vrp-solver/insertion"
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/model/modeltest"
	"github.com/vrp-solver/vrp-solver/problem"
	"github.com/vrp-solver/vrp-solver/recreate"
	"github.com/vrp-solver/vrp-solver/rng"
	"github.com/vrp-solver/vrp-solver/schedule"
	"github.com/vrp-solver/vrp-solver/solution"
)

func buildProblem(t *testing.T, actors []*model.Actor, jobs []model.Job) *problem.Problem {
	t.Helper()
	fleet := model.NewFleet(actors)
	b := problem.NewProblemBuilder(fleet, modeltest.TestTransportCost{}, nil).
		WithJobs(jobs, []model.Profile{"car"})
	keys := schedule.NewKeys(b.Keys())
	b.WithFeatures(
		features.NewTransport(modeltest.TestTransportCost{}, model.DefaultActivityCost{}, keys),
		features.NewUnassigned(0),
	)
	p, err := b.Build()
	require.NoError(t, err)
	return p
}

func newInsertionContext(p *problem.Problem) *insertion.Context {
	sol := solution.NewContext(p.Fleet, p.Jobs.All())
	env := insertion.NewEnvironment(rng.NewPartitioned(1), nil, nil)
	return insertion.NewContext(p, sol, env)
}

func TestOperator_RunInsertsEveryFeasibleJob(t *testing.T) {
	actor := modeltest.Actor(0, 0, 1000)
	jobs := []model.Job{
		modeltest.SingleJob(10, 0, 0, 1000),
		modeltest.SingleJob(20, 0, 0, 1000),
		modeltest.SingleJob(30, 0, 0, 1000),
	}
	p := buildProblem(t, []*model.Actor{actor}, jobs)
	ctx := newInsertionContext(p)

	op := recreate.NewOperator(recreate.All{}, recreate.Best{}, insertion.NewEvaluator(nil, nil))
	op.Run(ctx)

	assert.Empty(t, ctx.Solution.Required)
	assert.Empty(t, ctx.Solution.Unassigned)
	assert.Equal(t, 3, ctx.Solution.Routes[0].Route().Tour.JobCount())
}

func TestOperator_RunMarksInfeasibleJobUnassigned(t *testing.T) {
	actor := modeltest.Actor(0, 0, 5)
	job := modeltest.SingleJob(100, 0, 0, 5) // unreachable within the shift
	p := buildProblem(t, []*model.Actor{actor}, []model.Job{job})
	ctx := newInsertionContext(p)

	op := recreate.NewOperator(recreate.All{}, recreate.Best{}, insertion.NewEvaluator(nil, nil))
	op.Run(ctx)

	require.Len(t, ctx.Solution.Unassigned, 1)
	assert.Equal(t, solution.ReasonDetailed, ctx.Solution.Unassigned[0].Reason)
	assert.Contains(t, ctx.Solution.Required, model.Job(job))
}

func TestTopDemand_OrdersByDescendingDemandMagnitude(t *testing.T) {
	light := &model.Single{Dimensions: model.Dimensions{"demand": []float64{1}}}
	heavy := &model.Single{Dimensions: model.Dimensions{"demand": []float64{9}}}
	ordered := recreate.TopDemand{}.Select(nil, []model.Job{light, heavy})
	assert.Equal(t, []model.Job{heavy, light}, ordered)
}

func TestFarthest_OrdersByDescendingDistanceFromFirstActor(t *testing.T) {
	actor := modeltest.Actor(0, 0, 1000)
	near := modeltest.SingleJob(5, 0, 0, 1000)
	far := modeltest.SingleJob(50, 0, 0, 1000)
	p := buildProblem(t, []*model.Actor{actor}, []model.Job{near, far})
	ctx := newInsertionContext(p)

	ordered := recreate.Farthest{}.Select(ctx, []model.Job{near, far})
	assert.Equal(t, []model.Job{far, near}, ordered)
}

func TestRandomGaps_ShufflesDeterministicallyGivenSeededRNG(t *testing.T) {
	jobs := []model.Job{
		&model.Single{Dimensions: model.Dimensions{"id": 1}},
		&model.Single{Dimensions: model.Dimensions{"id": 2}},
		&model.Single{Dimensions: model.Dimensions{"id": 3}},
	}
	sel := recreate.RandomGaps{RNG: rand.New(rand.NewSource(42))}
	out := sel.Select(nil, jobs)
	assert.ElementsMatch(t, jobs, out)
}

func TestCompositeRecreate_RunsZeroWeightMemberNever(t *testing.T) {
	actor := modeltest.Actor(0, 0, 1000)
	job := modeltest.SingleJob(10, 0, 0, 1000)
	p := buildProblem(t, []*model.Actor{actor}, []model.Job{job})
	ctx := newInsertionContext(p)

	ran := map[string]bool{}
	always := recreateFunc(func(*insertion.Context) { ran["always"] = true })
	never := recreateFunc(func(*insertion.Context) { ran["never"] = true })

	c := recreate.NewCompositeRecreate(
		map[string]recreate.Recreate{"always": always, "never": never},
		map[string]float64{"always": 1, "never": 0},
	)
	c.Run(ctx)

	assert.True(t, ran["always"])
	assert.False(t, ran["never"])
}

type recreateFunc func(ctx *insertion.Context)

func (f recreateFunc) Run(ctx *insertion.Context) { f(ctx) }
