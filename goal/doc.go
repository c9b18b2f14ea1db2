// Package goal composes modular Features (constraint, state, objective) into a
// single GoalContext that the insertion evaluator, recreate, ruin and search
// packages drive moves and solutions through.
package goal
