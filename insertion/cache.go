package insertion

import (
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/solution"
)

// cacheKey identifies one cached evaluation: a route (by its actor — actors are
// compared by pointer identity), a job, and the position policy it was
// evaluated under.
type cacheKey struct {
	actor  *model.Actor
	job    model.Job
	policy Policy
}

// Cache memoises Evaluator.EvaluateJob results keyed by (actor, job, policy),
// grounded on the lookup table the insertion cache in the heuristics layer this
// codebase draws from uses to avoid re-scanning a route that hasn't changed
// since the job was last evaluated against it.
type Cache struct {
	entries map[cacheKey]Result
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]Result)}
}

// Get returns the cached result for (actor, job, policy), if present.
func (c *Cache) Get(actor *model.Actor, job model.Job, policy Policy) (Result, bool) {
	r, ok := c.entries[cacheKey{actor: actor, job: job, policy: policy}]
	return r, ok
}

// Put stores result for (actor, job, policy).
func (c *Cache) Put(actor *model.Actor, job model.Job, policy Policy, result Result) {
	c.entries[cacheKey{actor: actor, job: job, policy: policy}] = result
}

// EvictRoute drops every cached entry for the given route's actor, e.g. because
// the route's tour changed (a successful insertion) or it was freed back to the
// registry.
func (c *Cache) EvictRoute(routeCtx *solution.RouteContext) {
	actor := routeCtx.Route().Actor
	for key := range c.entries {
		if key.actor == actor {
			delete(c.entries, key)
		}
	}
}

// EvictJob drops every cached entry for job, across every route — used when a
// job becomes unassigned (e.g. ruined) so a stale "infeasible everywhere"
// result from before the ruin doesn't linger.
func (c *Cache) EvictJob(job model.Job) {
	for key := range c.entries {
		if key.job == job {
			delete(c.entries, key)
		}
	}
}

// Clear empties the cache entirely.
func (c *Cache) Clear() { c.entries = make(map[cacheKey]Result) }
