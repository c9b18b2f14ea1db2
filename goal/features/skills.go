package features

import (
	"github.com/vrp-solver/vrp-solver/goal"
	"github.com/vrp-solver/vrp-solver/model"
)

const skillsDimension = "skills" // model.Dimensions key: []string required skills

// ViolationSkills marks a move whose actor lacks one of the job's required
// skills.
const ViolationSkills goal.ViolationCode = 6

func skillsOf(dims model.Dimensions) []string {
	v, _ := dims[skillsDimension].([]string)
	return v
}

func hasAllSkills(actorSkills, required []string) bool {
	have := make(map[string]bool, len(actorSkills))
	for _, s := range actorSkills {
		have[s] = true
	}
	for _, s := range required {
		if !have[s] {
			return false
		}
	}
	return true
}

type skillsFeature struct{}

// NewSkills builds the actor/job skill-compatibility constraint: an actor may
// serve a job only if its Dimensions["skills"] superset the job's.
func NewSkills() goal.Feature {
	return goal.Feature{Name: "skills", Constraint: skillsFeature{}}
}

func (skillsFeature) Evaluate(move goal.MoveContext) *goal.Violation {
	m, ok := move.(goal.RouteMoveContext)
	if !ok {
		return nil
	}
	required := skillsOf(m.Job.Dimens())
	if len(required) == 0 {
		return nil
	}
	actorSkills := skillsOf(m.Route.Route().Actor.Dimensions)
	if !hasAllSkills(actorSkills, required) {
		return &goal.Violation{Code: ViolationSkills, Stopped: true}
	}
	return nil
}

func (skillsFeature) Merge(source, candidate model.Job) (model.Job, error) {
	a, b := skillsOf(source.Dimens()), skillsOf(candidate.Dimens())
	if !equalSkillSets(a, b) {
		return nil, &goal.MergeError{Code: ViolationSkills}
	}
	return candidate, nil
}

func equalSkillSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	have := make(map[string]bool, len(a))
	for _, s := range a {
		have[s] = true
	}
	for _, s := range b {
		if !have[s] {
			return false
		}
	}
	return true
}
