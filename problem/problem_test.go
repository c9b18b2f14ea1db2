package problem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/model/modeltest"
	"github.com/vrp-solver/vrp-solver/problem"
)

func TestProblemBuilder_BuildSucceedsWithNoFeatures(t *testing.T) {
	actor := modeltest.Actor(0, 0, 100)
	fleet := model.NewFleet([]*model.Actor{actor})
	job := modeltest.SingleJob(5, 10, 0, 100)

	p, err := problem.NewProblemBuilder(fleet, modeltest.TestTransportCost{}, nil).
		WithJobs([]model.Job{job}, []model.Profile{"car"}).
		Build()

	assert.NoError(t, err)
	assert.Len(t, p.Jobs.All(), 1)
	assert.NotNil(t, p.Activity, "nil activity cost must default to DefaultActivityCost")
}

func TestProblemBuilder_BuildRejectsLockOnUnknownJob(t *testing.T) {
	actor := modeltest.Actor(0, 0, 100)
	fleet := model.NewFleet([]*model.Actor{actor})
	known := modeltest.SingleJob(5, 10, 0, 100)
	stray := modeltest.SingleJob(6, 10, 0, 100)

	lock := &model.Lock{
		IsApplicable: func(*model.Actor) bool { return true },
		Details:      []model.LockDetail{{Jobs: []model.Job{stray}}},
	}

	_, err := problem.NewProblemBuilder(fleet, modeltest.TestTransportCost{}, nil).
		WithJobs([]model.Job{known}, []model.Profile{"car"}).
		WithLocks(lock).
		Build()

	assert.Error(t, err)
}

func TestProblemBuilder_BuildRejectsUnknownGoalMapFeature(t *testing.T) {
	actor := modeltest.Actor(0, 0, 100)
	fleet := model.NewFleet([]*model.Actor{actor})

	_, err := problem.NewProblemBuilder(fleet, modeltest.TestTransportCost{}, nil).
		WithGoalMaps([][]string{{"missing"}}, nil).
		Build()

	assert.Error(t, err)
}
