package telemetry_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/vrp-solver/vrp-solver/telemetry"
)

func TestMetrics_RecordGenerationTracksAcceptedAndRejected(t *testing.T) {
	log, _ := test.NewNullLogger()
	m := telemetry.NewMetrics(0, log)

	m.RecordGeneration(100, true)
	m.RecordGeneration(90, true)
	m.RecordGeneration(90, false)

	snap := m.Snapshot()
	assert.EqualValues(t, 3, snap.Generations)
	assert.EqualValues(t, 2, snap.Accepted)
	assert.EqualValues(t, 1, snap.Rejected)
	assert.Equal(t, 90.0, snap.BestFitness)
}

func TestMetrics_LogsOnConfiguredInterval(t *testing.T) {
	log, hook := test.NewNullLogger()
	m := telemetry.NewMetrics(2, log)

	m.RecordGeneration(1, true)
	assert.Empty(t, hook.Entries)

	m.RecordGeneration(1, true)
	assert.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
}

func TestMetrics_RecordRuinAndRecreateCountByName(t *testing.T) {
	log, _ := test.NewNullLogger()
	m := telemetry.NewMetrics(0, log)

	m.RecordRuin("random-job")
	m.RecordRuin("random-job")
	m.RecordRecreate("best-insertion")

	assert.EqualValues(t, 2, m.RuinInvocations["random-job"])
	assert.EqualValues(t, 1, m.RecreateInvocations["best-insertion"])
}
