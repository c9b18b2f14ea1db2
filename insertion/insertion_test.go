package insertion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrp-solver/vrp-solver/goal/features"
	"github.com/vrp-solver/vrp-solver/insertion"
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/model/modeltest"
	"github.com/vrp-solver/vrp-solver/problem"
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

func TestEvaluator_EvaluateJobFindsFeasiblePositionOnFreshActor(t *testing.T) {
	actor := modeltest.Actor(0, 0, 1000)
	job := modeltest.SingleJob(10, 0, 0, 1000)
	p := buildProblem(t, []*model.Actor{actor}, []model.Job{job})
	ctx := newInsertionContext(p)

	eval := insertion.NewEvaluator(nil, nil)
	result := eval.EvaluateJob(ctx, job, insertion.AnyPosition())

	require.True(t, result.Success)
	assert.Equal(t, 1, result.Positions[0])
}

func TestEvaluator_EvaluateJobRejectsOutsideTimeWindow(t *testing.T) {
	actor := modeltest.Actor(0, 0, 5)
	job := modeltest.SingleJob(100, 0, 0, 5) // arrival at 100 >> shift end of 5
	p := buildProblem(t, []*model.Actor{actor}, []model.Job{job})
	ctx := newInsertionContext(p)

	eval := insertion.NewEvaluator(nil, nil)
	result := eval.EvaluateJob(ctx, job, insertion.AnyPosition())

	assert.False(t, result.Success)
}

func TestContext_CommitInsertsJobAndRemovesFromRequired(t *testing.T) {
	actor := modeltest.Actor(0, 0, 1000)
	job := modeltest.SingleJob(10, 0, 0, 1000)
	p := buildProblem(t, []*model.Actor{actor}, []model.Job{job})
	ctx := newInsertionContext(p)

	eval := insertion.NewEvaluator(nil, nil)
	result := eval.EvaluateJob(ctx, job, insertion.AnyPosition())
	require.True(t, result.Success)

	ctx.Commit(result)

	assert.Len(t, ctx.Solution.Routes, 1)
	assert.Empty(t, ctx.Solution.Required)
	assert.Empty(t, ctx.Solution.Unassigned)
	assert.False(t, ctx.Solution.Registry.Registry().IsAvailable(actor))
	assert.Equal(t, 1, ctx.Solution.Routes[0].Route().Tour.JobCount())
}

func TestEvaluator_PicksNearerOfTwoFreshActors(t *testing.T) {
	near := modeltest.Actor(10, 0, 1000)
	far := modeltest.Actor(1000, 0, 1000)
	job := modeltest.SingleJob(11, 0, 0, 1000)
	p := buildProblem(t, []*model.Actor{near, far}, []model.Job{job})
	ctx := newInsertionContext(p)

	eval := insertion.NewEvaluator(nil, nil)
	result := eval.EvaluateJob(ctx, job, insertion.AnyPosition())

	require.True(t, result.Success)
	assert.Same(t, near, result.Route.Route().Actor)
}

func TestCache_EvictRouteRemovesOnlyThatActorsEntries(t *testing.T) {
	c := insertion.NewCache()
	a1 := modeltest.Actor(0, 0, 100)
	a2 := modeltest.Actor(5, 0, 100)
	job := modeltest.SingleJob(1, 0, 0, 100)
	policy := insertion.AnyPosition()

	c.Put(a1, job, policy, insertion.Result{})
	c.Put(a2, job, policy, insertion.Result{})

	c.EvictRoute(solution.NewRouteContext(&solution.Route{Actor: a1, Tour: solution.NewTour(a1)}))

	_, ok1 := c.Get(a1, job, policy)
	_, ok2 := c.Get(a2, job, policy)
	assert.False(t, ok1)
	assert.True(t, ok2)
}
