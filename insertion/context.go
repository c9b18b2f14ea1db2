// Package insertion scores and applies candidate moves: given a job, a policy
// restricting which routes/positions are eligible, and a solution under
// construction, find the cheapest feasible insertion (or prove none exists).
package insertion

import (
	"github.com/vrp-solver/vrp-solver/problem"
	"github.com/vrp-solver/vrp-solver/solution"
)

// Context bundles everything one evaluation call needs: the shared, immutable
// Problem, the Context being built up, this thread's Environment, and an
// optional per-route evaluation Cache.
type Context struct {
	Problem     *problem.Problem
	Solution    *solution.Context
	Environment *Environment
	Cache       *Cache
}

// NewContext builds an insertion Context with no cache attached.
func NewContext(p *problem.Problem, sol *solution.Context, env *Environment) *Context {
	return &Context{Problem: p, Solution: sol, Environment: env}
}

// WithCache attaches a Cache to the Context, returning it for chaining.
func (c *Context) WithCache(cache *Cache) *Context {
	c.Cache = cache
	return c
}

// Commit applies a successful Result: registers the route (marking its actor
// used, if this is the first job on a previously-free actor), splices the
// activities into the tour, runs the goal context's AcceptInsertion hook,
// recomputes the route's derived state, marks the job assigned, and
// invalidates any cached evaluations the change makes stale.
func (c *Context) Commit(result Result) {
	if !result.Success {
		return
	}
	routeKnown := false
	for _, rctx := range c.Solution.Routes {
		if rctx == result.Route {
			routeKnown = true
			break
		}
	}
	if !routeKnown {
		c.Solution.Registry.Registry().UseActor(result.Route.Route().Actor)
		c.Solution.Routes = append(c.Solution.Routes, result.Route)
	}

	result.Apply(c.Problem.Goal, c.Solution)
	c.Problem.Goal.AcceptRouteState(result.Route)
	c.Solution.RemoveRequired(result.Job)
	c.Solution.MarkAssigned(result.Job)

	if c.Cache != nil {
		c.Cache.EvictRoute(result.Route)
		c.Cache.EvictJob(result.Job)
	}
}
