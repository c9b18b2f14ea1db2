// Package solution models a partially or fully built VRP solution: tours of
// activities, per-route derived state, actor usage tracking and the solution-wide
// job bookkeeping (required/ignored/unassigned/locked).
package solution

import "github.com/vrp-solver/vrp-solver/model"

// Registry tracks which actors of a Fleet are free vs. in use, grouped by
// detail-equivalence so interchangeable actors can be handed out interchangeably.
// Grounded on vrp-core's `models/solution/registry.rs`.
type Registry struct {
	fleet     *model.Fleet
	available map[model.GroupKey]map[*model.Actor]bool
	group     map[*model.Actor]model.GroupKey
}

// NewRegistry builds a Registry with every actor in the fleet initially available.
func NewRegistry(fleet *model.Fleet) *Registry {
	r := &Registry{
		fleet:     fleet,
		available: make(map[model.GroupKey]map[*model.Actor]bool),
		group:     make(map[*model.Actor]model.GroupKey),
	}
	for key, actors := range fleet.Groups() {
		set := make(map[*model.Actor]bool, len(actors))
		for _, a := range actors {
			set[a] = true
			r.group[a] = key
		}
		r.available[key] = set
	}
	return r
}

// UseActor removes an actor from the available set.
func (r *Registry) UseActor(actor *model.Actor) {
	key := r.group[actor]
	delete(r.available[key], actor)
}

// FreeActor returns an actor to the available set.
func (r *Registry) FreeActor(actor *model.Actor) {
	key := r.group[actor]
	if r.available[key] == nil {
		r.available[key] = make(map[*model.Actor]bool)
	}
	r.available[key][actor] = true
}

// All returns every actor in the fleet, used or not.
func (r *Registry) All() []*model.Actor { return r.fleet.Actors }

// Available returns every currently-free actor.
func (r *Registry) Available() []*model.Actor {
	var out []*model.Actor
	for _, set := range r.available {
		for a := range set {
			out = append(out, a)
		}
	}
	return out
}

// Next returns one free actor per detail-equivalence group, so recreate tries at
// most one representative per interchangeable group rather than every individual
// free vehicle.
func (r *Registry) Next() []*model.Actor {
	var out []*model.Actor
	for _, set := range r.available {
		for a := range set {
			out = append(out, a)
			break
		}
	}
	return out
}

// IsAvailable reports whether the given actor is currently free.
func (r *Registry) IsAvailable(actor *model.Actor) bool {
	return r.available[r.group[actor]][actor]
}

// DeepCopy returns an independent copy of the registry's usage bookkeeping. The
// underlying Fleet is shared (immutable).
func (r *Registry) DeepCopy() *Registry {
	out := &Registry{
		fleet:     r.fleet,
		available: make(map[model.GroupKey]map[*model.Actor]bool, len(r.available)),
		group:     r.group, // immutable mapping, safe to share
	}
	for key, set := range r.available {
		newSet := make(map[*model.Actor]bool, len(set))
		for a, v := range set {
			newSet[a] = v
		}
		out.available[key] = newSet
	}
	return out
}
