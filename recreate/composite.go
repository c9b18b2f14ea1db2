package recreate

import (
	"sort"

	"github.com/vrp-solver/vrp-solver/insertion"
	"github.com/vrp-solver/vrp-solver/rng"
)

// weighted pairs a Recreate with its activation weight.
type weighted struct {
	name   string
	op     Recreate
	weight float64
}

// CompositeRecreate draws one sub-strategy per Run call from a weighted
// mixture, via a cumulative-probability categorical draw: the same shape as
// an empirical-distribution sampler, over named recreate strategies instead
// of numeric outcomes. Not safe for concurrent Run calls on the same
// instance; give each search thread its own CompositeRecreate.
type CompositeRecreate struct {
	members      []weighted
	cdf          []float64
	lastSelected string
}

// NewCompositeRecreate builds a CompositeRecreate from a name->weight map and
// a name->Recreate lookup; weights are normalised internally so callers may
// pass raw, unnormalised activation weights.
func NewCompositeRecreate(ops map[string]Recreate, weights map[string]float64) *CompositeRecreate {
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	sort.Strings(names) // deterministic iteration order for a reproducible cdf

	c := &CompositeRecreate{}
	total := 0.0
	for _, name := range names {
		w := weights[name]
		if w <= 0 {
			continue
		}
		total += w
		c.members = append(c.members, weighted{name: name, op: ops[name], weight: w})
	}
	cumulative := 0.0
	c.cdf = make([]float64, len(c.members))
	for i, m := range c.members {
		cumulative += m.weight / total
		c.cdf[i] = cumulative
	}
	if len(c.cdf) > 0 {
		c.cdf[len(c.cdf)-1] = 1.0
	}
	return c
}

// Run implements Recreate: draws one member by weight and runs it.
func (c *CompositeRecreate) Run(ctx *insertion.Context) {
	if len(c.members) == 0 {
		return
	}
	r := ctx.Environment.RNG.ForSubsystem(rng.SubsystemRecreate)
	u := r.Float64()
	idx := sort.SearchFloat64s(c.cdf, u)
	if idx >= len(c.members) {
		idx = len(c.members) - 1
	}
	c.lastSelected = c.members[idx].name
	c.members[idx].op.Run(ctx)
}

// LastSelected returns the name of the sub-strategy drawn by the most recent
// Run call, or "" if Run has never been called.
func (c *CompositeRecreate) LastSelected() string { return c.lastSelected }

// Clone returns a copy of c with its own LastSelected state, safe to hand to
// a concurrent search thread while c.members and c.cdf — read-only after
// NewCompositeRecreate returns — stay shared.
func (c *CompositeRecreate) Clone() Recreate {
	return &CompositeRecreate{members: c.members, cdf: c.cdf}
}
