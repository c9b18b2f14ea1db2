package solution

import "github.com/vrp-solver/vrp-solver/model"

// UnassignmentReason classifies why a job could not be placed; Detailed carries a
// per-constraint code for diagnostics, Simple is a cheap placeholder used when the
// full reason isn't worth computing (e.g. during a cheap feasibility pre-check).
type UnassignmentReason int

const (
	ReasonUnknown UnassignmentReason = iota
	ReasonSimple
	ReasonDetailed
)

// UnassignedJob records why one job is currently not part of any route.
type UnassignedJob struct {
	Job    model.Job
	Reason UnassignmentReason
	Code   int // meaningful only when Reason == ReasonDetailed; a constraint's ViolationCode
}

// RegistryContext wraps a Registry with an index of already-built, empty
// RouteContexts per actor, so handing out a "fresh" actor reuses an existing empty
// tour rather than constructing a new one each time.
type RegistryContext struct {
	registry *Registry
	empty    map[*model.Actor]*RouteContext
}

// NewRegistryContext builds a RegistryContext over a fresh Registry.
func NewRegistryContext(fleet *model.Fleet) *RegistryContext {
	return &RegistryContext{registry: NewRegistry(fleet), empty: make(map[*model.Actor]*RouteContext)}
}

// Registry returns the underlying actor-availability tracker.
func (rc *RegistryContext) Registry() *Registry { return rc.registry }

// NextRoute returns a RouteContext for one free actor per detail-equivalence group,
// creating and caching an empty tour the first time each actor is requested.
func (rc *RegistryContext) NextRoute() []*RouteContext {
	actors := rc.registry.Next()
	out := make([]*RouteContext, 0, len(actors))
	for _, a := range actors {
		out = append(out, rc.GetRoute(a))
	}
	return out
}

// GetRoute returns the cached empty RouteContext for actor, building one if absent.
func (rc *RegistryContext) GetRoute(actor *model.Actor) *RouteContext {
	if ctx, ok := rc.empty[actor]; ok {
		return ctx
	}
	ctx := NewRouteContext(&Route{Actor: actor, Tour: NewTour(actor)})
	rc.empty[actor] = ctx
	return ctx
}

// FreeRoute returns actor to the registry's available pool.
func (rc *RegistryContext) FreeRoute(actor *model.Actor) {
	rc.registry.FreeActor(actor)
}

// DeepCopy returns an independent RegistryContext.
func (rc *RegistryContext) DeepCopy() *RegistryContext {
	out := &RegistryContext{registry: rc.registry.DeepCopy(), empty: make(map[*model.Actor]*RouteContext, len(rc.empty))}
	for a, ctx := range rc.empty {
		out.empty[a] = ctx.DeepCopy()
	}
	return out
}

// Context is a partially or fully built solution: the routes constructed so far,
// the jobs still needing a home (required, possibly reduced by Ignored), which of
// those are currently unassigned and why, any jobs fixed in place by a Lock, the
// actor registry, and a solution-wide RouteState for cross-route feature state.
type Context struct {
	Required   []model.Job
	Ignored    []model.Job
	Unassigned []UnassignedJob
	Locked     map[model.Job]bool
	Routes     []*RouteContext
	Registry   *RegistryContext
	State      *RouteState
}

// NewContext builds an empty Context over the given fleet and job set; every job
// starts out required and unassigned.
func NewContext(fleet *model.Fleet, jobs []model.Job) *Context {
	unassigned := make([]UnassignedJob, 0, len(jobs))
	for _, j := range jobs {
		unassigned = append(unassigned, UnassignedJob{Job: j, Reason: ReasonUnknown})
	}
	return &Context{
		Required:   append([]model.Job(nil), jobs...),
		Unassigned: unassigned,
		Locked:     make(map[model.Job]bool),
		Registry:   NewRegistryContext(fleet),
		State:      NewRouteState(),
	}
}

// KeepRoutes replaces the solution's route set (e.g. after a recreate pass adds
// newly-used routes, or a ruin pass removes jobs but leaves empty routes behind for
// RemoveEmptyRoutes to clean up).
func (c *Context) KeepRoutes(routes []*RouteContext) { c.Routes = routes }

// RemoveEmptyRoutes drops every route with no job activities, freeing its actor
// back to the registry.
func (c *Context) RemoveEmptyRoutes() {
	kept := make([]*RouteContext, 0, len(c.Routes))
	for _, rctx := range c.Routes {
		if rctx.Route().Tour.HasJobs() {
			kept = append(kept, rctx)
		} else {
			c.Registry.FreeRoute(rctx.Route().Actor)
		}
	}
	c.Routes = kept
}

// MarkUnassigned records job as unassigned with the given reason, replacing any
// existing entry for the same job.
func (c *Context) MarkUnassigned(job model.Job, reason UnassignmentReason, code int) {
	for i, u := range c.Unassigned {
		if u.Job == job {
			c.Unassigned[i] = UnassignedJob{Job: job, Reason: reason, Code: code}
			return
		}
	}
	c.Unassigned = append(c.Unassigned, UnassignedJob{Job: job, Reason: reason, Code: code})
}

// MarkAssigned removes job from the unassigned list, if present.
func (c *Context) MarkAssigned(job model.Job) {
	for i, u := range c.Unassigned {
		if u.Job == job {
			c.Unassigned = append(c.Unassigned[:i], c.Unassigned[i+1:]...)
			return
		}
	}
}

// IsLocked reports whether job is fixed in place and must not be ruined.
func (c *Context) IsLocked(job model.Job) bool { return c.Locked[job] }

// RemoveRequired drops job from the required-for-insertion list, returning
// whether it was present. Called by a recreate operator once a job has been
// placed onto a route.
func (c *Context) RemoveRequired(job model.Job) bool {
	for i, j := range c.Required {
		if j == job {
			c.Required = append(c.Required[:i], c.Required[i+1:]...)
			return true
		}
	}
	return false
}

// AddRequired appends job back onto the required-for-insertion list. Called by
// a ruin operator after removing a job from a route, so a later recreate pass
// picks it up.
func (c *Context) AddRequired(job model.Job) { c.Required = append(c.Required, job) }

// DeepCopy returns an independent Context suitable for a search iteration to
// mutate without disturbing the caller's copy.
func (c *Context) DeepCopy() *Context {
	out := &Context{
		Required:   append([]model.Job(nil), c.Required...),
		Ignored:    append([]model.Job(nil), c.Ignored...),
		Unassigned: append([]UnassignedJob(nil), c.Unassigned...),
		Locked:     make(map[model.Job]bool, len(c.Locked)),
		Routes:     make([]*RouteContext, len(c.Routes)),
		Registry:   c.Registry.DeepCopy(),
		State:      c.State.Clone(),
	}
	for j, v := range c.Locked {
		out.Locked[j] = v
	}
	for i, r := range c.Routes {
		out.Routes[i] = r.DeepCopy()
	}
	return out
}
