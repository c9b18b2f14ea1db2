// Package quota provides cooperative cancellation signals checked at generation
// boundaries in the search loop: time budgets, cost targets and external
// cancellation, composed the way admission policies are in the ambient stack
// this codebase is built from — a small policy interface with one constructor
// per policy and a composite that combines them.
package quota

import (
	"sync/atomic"
	"time"
)

// Quota reports whether the search loop should stop at the next opportunity.
// Checked after every generation, never mid-generation.
type Quota interface {
	IsReached() bool
}

// Unlimited never signals termination; the loop runs until some other
// termination criterion (generation count, cost target) stops it.
type Unlimited struct{}

// IsReached implements Quota.
func (Unlimited) IsReached() bool { return false }

// TimeLimit signals termination once the wall-clock budget elapses.
type TimeLimit struct {
	deadline time.Time
}

// NewTimeLimit returns a TimeLimit that expires after budget.
func NewTimeLimit(budget time.Duration) *TimeLimit {
	return &TimeLimit{deadline: time.Now().Add(budget)}
}

// IsReached implements Quota.
func (t *TimeLimit) IsReached() bool { return time.Now().After(t.deadline) }

// CostTarget signals termination once the best solution's fitness drops to or
// below target. Update must be called by the search loop after ranking the
// population each generation.
type CostTarget struct {
	target float64
	best   atomic.Value // float64, boxed
}

// NewCostTarget returns a CostTarget that triggers once the tracked best cost
// reaches target or lower.
func NewCostTarget(target float64) *CostTarget {
	ct := &CostTarget{target: target}
	ct.best.Store(float64(0))
	ct.Update(float64(1<<63 - 1))
	return ct
}

// Update records the current best solution's fitness.
func (c *CostTarget) Update(cost float64) { c.best.Store(cost) }

// IsReached implements Quota.
func (c *CostTarget) IsReached() bool {
	return c.best.Load().(float64) <= c.target
}

// Cancellable wraps an externally-signalled stop (e.g. a context cancellation or
// a CLI interrupt handler) as a Quota.
type Cancellable struct {
	cancelled atomic.Bool
}

// NewCancellable returns a Cancellable, initially not signalled.
func NewCancellable() *Cancellable { return &Cancellable{} }

// Cancel signals termination; safe to call from any goroutine, any number of
// times.
func (c *Cancellable) Cancel() { c.cancelled.Store(true) }

// IsReached implements Quota.
func (c *Cancellable) IsReached() bool { return c.cancelled.Load() }

// Composite signals termination once any one of its member quotas does.
type Composite struct {
	quotas []Quota
}

// NewComposite combines quotas with OR semantics.
func NewComposite(quotas ...Quota) *Composite { return &Composite{quotas: quotas} }

// IsReached implements Quota.
func (c *Composite) IsReached() bool {
	for _, q := range c.quotas {
		if q.IsReached() {
			return true
		}
	}
	return false
}
