// Package telemetry tracks search-loop statistics — per-generation fitness,
// operator invocation counts, acceptance/rejection tallies — and periodically
// logs them, the way the ambient stack this codebase is built from reports
// run-level counters through logrus rather than ad-hoc fmt.Println calls.
package telemetry

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Metrics accumulates counters across a solver run. Not safe for concurrent
// writes from multiple search threads; callers serialize updates at
// generation boundaries.
type Metrics struct {
	Generations         int64
	BestFitness         float64
	RuinInvocations     map[string]int64
	RecreateInvocations map[string]int64
	Accepted            int64
	Rejected            int64
	Started             time.Time

	logEvery int64
	log      *logrus.Logger
}

// NewMetrics creates an empty Metrics that logs a summary line to log every
// logEvery generations (0 disables periodic logging; Print can still be
// called directly). A nil log defaults to logrus.StandardLogger().
func NewMetrics(logEvery int64, log *logrus.Logger) *Metrics {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Metrics{
		RuinInvocations:     make(map[string]int64),
		RecreateInvocations: make(map[string]int64),
		Started:             time.Now(),
		logEvery:            logEvery,
		log:                 log,
	}
}

// RecordGeneration advances the generation counter, records the generation's
// best fitness and accept/reject outcome, and logs a summary line if this
// generation falls on the configured logging interval.
func (m *Metrics) RecordGeneration(bestFitness float64, accepted bool) {
	m.Generations++
	m.BestFitness = bestFitness
	if accepted {
		m.Accepted++
	} else {
		m.Rejected++
	}
	if m.logEvery > 0 && m.Generations%m.logEvery == 0 {
		m.Print()
	}
}

// RecordRuin increments the invocation count for a named ruin operator.
func (m *Metrics) RecordRuin(name string) { m.RuinInvocations[name]++ }

// RecordRecreate increments the invocation count for a named recreate
// operator.
func (m *Metrics) RecordRecreate(name string) { m.RecreateInvocations[name]++ }

// Print emits the current counters as a single structured log entry.
func (m *Metrics) Print() {
	m.log.WithFields(logrus.Fields{
		"generations": m.Generations,
		"best_fitness": m.BestFitness,
		"accepted":    m.Accepted,
		"rejected":    m.Rejected,
		"elapsed":     time.Since(m.Started).Round(time.Millisecond).String(),
	}).Info("search progress")
}

// Summary is a point-in-time, immutable snapshot suitable for returning from a
// completed solver run without exposing the live Metrics' internal maps.
type Summary struct {
	Generations int64
	BestFitness float64
	Accepted    int64
	Rejected    int64
	Elapsed     time.Duration
}

// Snapshot captures the current counters.
func (m *Metrics) Snapshot() Summary {
	return Summary{
		Generations: m.Generations,
		BestFitness: m.BestFitness,
		Accepted:    m.Accepted,
		Rejected:    m.Rejected,
		Elapsed:     time.Since(m.Started),
	}
}
