package ruin_test

import (
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
	"github.com/vrp-solver/vrp-solver/ruin"
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

// fullSolution builds an insertion.Context with every job already committed.
func fullSolution(t *testing.T, p *problem.Problem) *insertion.Context {
	t.Helper()
	sol := solution.NewContext(p.Fleet, p.Jobs.All())
	env := insertion.NewEnvironment(rng.NewPartitioned(7), nil, nil)
	ctx := insertion.NewContext(p, sol, env)
	recreate.NewOperator(recreate.All{}, recreate.Best{}, insertion.NewEvaluator(nil, nil)).Run(ctx)
	require.Empty(t, ctx.Solution.Required)
	return ctx
}

func totalJobsOnRoutes(ctx *insertion.Context) int {
	total := 0
	for _, rctx := range ctx.Solution.Routes {
		total += rctx.Route().Tour.JobCount()
	}
	return total
}

func TestRandomJob_RemovesRequestedCountAndRequeues(t *testing.T) {
	actor := modeltest.Actor(0, 0, 1000)
	jobs := []model.Job{
		modeltest.SingleJob(10, 0, 0, 1000),
		modeltest.SingleJob(20, 0, 0, 1000),
		modeltest.SingleJob(30, 0, 0, 1000),
	}
	p := buildProblem(t, []*model.Actor{actor}, jobs)
	ctx := fullSolution(t, p)

	ruin.RandomJob{Count: 2}.Run(ctx)

	assert.Len(t, ctx.Solution.Required, 2)
	assert.Equal(t, 1, totalJobsOnRoutes(ctx))
}

func TestRandomJob_NeverRemovesLockedJob(t *testing.T) {
	actor := modeltest.Actor(0, 0, 1000)
	job := modeltest.SingleJob(10, 0, 0, 1000)
	p := buildProblem(t, []*model.Actor{actor}, []model.Job{job})
	ctx := fullSolution(t, p)
	ctx.Solution.Locked[job] = true

	ruin.RandomJob{Count: 1}.Run(ctx)

	assert.Empty(t, ctx.Solution.Required)
	assert.Equal(t, 1, totalJobsOnRoutes(ctx))
}

func TestRandomRoute_FreesWholeUnlockedRoute(t *testing.T) {
	actor := modeltest.Actor(0, 0, 1000)
	jobs := []model.Job{
		modeltest.SingleJob(10, 0, 0, 1000),
		modeltest.SingleJob(20, 0, 0, 1000),
	}
	p := buildProblem(t, []*model.Actor{actor}, jobs)
	ctx := fullSolution(t, p)
	require.Len(t, ctx.Solution.Routes, 1)

	ruin.RandomRoute{Count: 1}.Run(ctx)

	assert.Len(t, ctx.Solution.Required, 2)
	assert.Empty(t, ctx.Solution.Routes)
}

func TestRandomRoute_PartiallyRemovesRouteWithLockedJob(t *testing.T) {
	actor := modeltest.Actor(0, 0, 1000)
	locked := modeltest.SingleJob(10, 0, 0, 1000)
	free := modeltest.SingleJob(20, 0, 0, 1000)
	p := buildProblem(t, []*model.Actor{actor}, []model.Job{locked, free})
	ctx := fullSolution(t, p)
	ctx.Solution.Locked[locked] = true

	ruin.RandomRoute{Count: 1}.Run(ctx)

	assert.Contains(t, ctx.Solution.Required, model.Job(free))
	assert.NotContains(t, ctx.Solution.Required, model.Job(locked))
	require.Len(t, ctx.Solution.Routes, 1)
	assert.Equal(t, 1, ctx.Solution.Routes[0].Route().Tour.JobCount())
}

func TestWorstJob_RemovesTheDetourJobFirst(t *testing.T) {
	actor := modeltest.Actor(0, 0, 1000)
	onTheWay := modeltest.SingleJob(10, 0, 0, 1000)
	detour := modeltest.SingleJob(500, 0, 0, 1000)
	p := buildProblem(t, []*model.Actor{actor}, []model.Job{onTheWay, detour})
	ctx := fullSolution(t, p)

	ruin.WorstJob{K: 1}.Run(ctx)

	assert.Contains(t, ctx.Solution.Required, model.Job(detour))
	assert.NotContains(t, ctx.Solution.Required, model.Job(onTheWay))
}

func TestNeighbourRemoval_RemovesRequestedNeighbourCount(t *testing.T) {
	actor := modeltest.Actor(0, 0, 1000)
	jobs := []model.Job{
		modeltest.SingleJob(10, 0, 0, 1000),
		modeltest.SingleJob(11, 0, 0, 1000),
		modeltest.SingleJob(12, 0, 0, 1000),
	}
	p := buildProblem(t, []*model.Actor{actor}, jobs)
	ctx := fullSolution(t, p)

	ruin.NeighbourRemoval{K: 2}.Run(ctx)

	assert.Len(t, ctx.Solution.Required, 2)
}

func TestCompositeRuin_RunsOnlyPositiveWeightMember(t *testing.T) {
	actor := modeltest.Actor(0, 0, 1000)
	job := modeltest.SingleJob(10, 0, 0, 1000)
	p := buildProblem(t, []*model.Actor{actor}, []model.Job{job})
	ctx := fullSolution(t, p)

	ran := map[string]bool{}
	always := ruinFunc(func(*insertion.Context) { ran["always"] = true })
	never := ruinFunc(func(*insertion.Context) { ran["never"] = true })

	c := ruin.NewCompositeRuin(
		map[string]ruin.Ruin{"always": always, "never": never},
		map[string]float64{"always": 1, "never": 0},
	)
	c.Run(ctx)

	assert.True(t, ran["always"])
	assert.False(t, ran["never"])
}

type ruinFunc func(ctx *insertion.Context)

func (f ruinFunc) Run(ctx *insertion.Context) { f(ctx) }
