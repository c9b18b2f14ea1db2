package solution

// StateKey is an opaque token issued by a key registry at problem-build time,
// identifying one feature's slot in a RouteState map. External callers never
// construct one directly; see the `goal` package's StateKeyRegistry.
type StateKey int

// RouteState is a flat map from StateKey to either a route-wide value or a
// per-activity slice of values, grounded on vrp-core's `RouteState`
// (construction/heuristics/context.rs). Values are stored as `any` (erased type,
// downcast by the registering feature) to avoid import cycles between this package
// and `goal`, which owns the concrete value types.
type RouteState struct {
	route    map[StateKey]any
	activity map[StateKey]any // value is always a slice, indexed by activity position
}

// NewRouteState creates an empty RouteState.
func NewRouteState() *RouteState {
	return &RouteState{route: make(map[StateKey]any, 4), activity: make(map[StateKey]any, 4)}
}

// RouteValue returns the route-wide value for key, or ok=false if unset.
func (s *RouteState) RouteValue(key StateKey) (any, bool) {
	v, ok := s.route[key]
	return v, ok
}

// PutRouteValue stores a route-wide value for key.
func (s *RouteState) PutRouteValue(key StateKey, value any) {
	s.route[key] = value
}

// ActivityValues returns the per-activity slice for key, or ok=false if unset.
func (s *RouteState) ActivityValues(key StateKey) (any, bool) {
	v, ok := s.activity[key]
	return v, ok
}

// PutActivityValues stores a per-activity slice for key.
func (s *RouteState) PutActivityValues(key StateKey, values any) {
	s.activity[key] = values
}

// Clear wipes all stored state (called before a route's state is recomputed).
func (s *RouteState) Clear() {
	s.route = make(map[StateKey]any, 4)
	s.activity = make(map[StateKey]any, 4)
}

// Clone returns a shallow copy: the maps are new, but stored values (expected to be
// immutable snapshots) are shared.
func (s *RouteState) Clone() *RouteState {
	out := NewRouteState()
	for k, v := range s.route {
		out.route[k] = v
	}
	for k, v := range s.activity {
		out.activity[k] = v
	}
	return out
}

// RouteContext owns a Route plus its derived RouteState and a stale flag signalling
// that state must be recomputed before the next query.
type RouteContext struct {
	route *Route
	state *RouteState
	stale bool
}

// NewRouteContext wraps a fresh Route, initially marked stale so the first
// `accept_route_state` pass populates its state.
func NewRouteContext(route *Route) *RouteContext {
	return &RouteContext{route: route, state: NewRouteState(), stale: true}
}

// Route returns the read-only route.
func (rc *RouteContext) Route() *Route { return rc.route }

// State returns the read-only route state. Reading derived state from a stale
// route without having recomputed it first is a programmer error; callers of
// feature state callbacks are responsible for checking IsStale before relying
// on cached values.
func (rc *RouteContext) State() *RouteState { return rc.state }

// RouteMut returns a mutable route and marks the context stale.
func (rc *RouteContext) RouteMut() *Route {
	rc.stale = true
	return rc.route
}

// StateMut returns a mutable state and marks the context stale.
func (rc *RouteContext) StateMut() *RouteState {
	rc.stale = true
	return rc.state
}

// IsStale reports whether this context's derived state needs recomputation.
func (rc *RouteContext) IsStale() bool { return rc.stale }

// MarkStale sets or clears the stale flag directly; used by the composite feature
// state after a recompute pass completes.
func (rc *RouteContext) MarkStale(stale bool) { rc.stale = stale }

// DeepCopy returns an independent RouteContext; the Route is deep-copied, the
// RouteState is cloned (sharing immutable stored values).
func (rc *RouteContext) DeepCopy() *RouteContext {
	return &RouteContext{route: rc.route.DeepCopy(), state: rc.state.Clone(), stale: rc.stale}
}
