package ruin

import (
	"sort"

	"github.com/vrp-solver/vrp-solver/insertion"
	"github.com/vrp-solver/vrp-solver/rng"
)

type weighted struct {
	name   string
	op     Ruin
	weight float64
}

// CompositeRuin draws one sub-strategy per Run call from a weighted mixture,
// the same cumulative-probability categorical draw CompositeRecreate uses.
// Not safe for concurrent Run calls on the same instance; give each search
// thread its own CompositeRuin.
type CompositeRuin struct {
	members      []weighted
	cdf          []float64
	lastSelected string
}

// NewCompositeRuin builds a CompositeRuin from a name->weight map and a
// name->Ruin lookup; weights are normalised internally.
func NewCompositeRuin(ops map[string]Ruin, weights map[string]float64) *CompositeRuin {
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	sort.Strings(names)

	c := &CompositeRuin{}
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

// Run implements Ruin: draws one member by weight and runs it.
func (c *CompositeRuin) Run(ctx *insertion.Context) {
	if len(c.members) == 0 {
		return
	}
	r := ctx.Environment.RNG.ForSubsystem(rng.SubsystemRuin)
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
func (c *CompositeRuin) LastSelected() string { return c.lastSelected }

// Clone returns a copy of c with its own LastSelected state, safe to hand to
// a concurrent search thread while c.members and c.cdf — read-only after
// NewCompositeRuin returns — stay shared.
func (c *CompositeRuin) Clone() Ruin {
	return &CompositeRuin{members: c.members, cdf: c.cdf}
}
