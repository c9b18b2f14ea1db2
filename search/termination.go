package search

import "github.com/vrp-solver/vrp-solver/quota"

// Termination combines a hard generation cap with a quota, either of which can
// stop a search thread. A zero MaxGenerations means no generation cap; a nil
// Quota is treated as quota.Unlimited{}.
type Termination struct {
	MaxGenerations int64
	Quota          quota.Quota
}

// NewTermination builds a Termination, defaulting a nil q to quota.Unlimited{}.
func NewTermination(maxGenerations int64, q quota.Quota) Termination {
	if q == nil {
		q = quota.Unlimited{}
	}
	return Termination{MaxGenerations: maxGenerations, Quota: q}
}

// Reached reports whether generations have exhausted the generation cap, or
// the underlying quota has signalled termination.
func (t Termination) Reached(generations int64) bool {
	if t.MaxGenerations > 0 && generations >= t.MaxGenerations {
		return true
	}
	return t.Quota.IsReached()
}

// Estimate returns a fractional progress estimate in [0, 1], consulted by
// Rosomaxa to decide when to leave its exploration phase. When a generation
// cap is set this is simply generations/MaxGenerations; with no cap, progress
// can only be read off the quota as reached-or-not, which this approximates
// as 0 until the quota fires and 1 once it does — a coarse stand-in for
// quotas that don't expose a continuous progress signal (e.g. a wall-clock
// budget, which could report elapsed/budget, but the generic quota.Quota
// interface here only exposes IsReached).
func (t Termination) Estimate(generations int64) float64 {
	if t.MaxGenerations > 0 {
		est := float64(generations) / float64(t.MaxGenerations)
		if est > 1 {
			est = 1
		}
		return est
	}
	if t.Quota.IsReached() {
		return 1
	}
	return 0
}
