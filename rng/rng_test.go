package rng_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vrp-solver/vrp-solver/rng"
)

func TestPartitioned_SameSeedSameSubsystemReproducesSequence(t *testing.T) {
	a := rng.NewPartitioned(42).ForSubsystem(rng.SubsystemRuin)
	b := rng.NewPartitioned(42).ForSubsystem(rng.SubsystemRuin)

	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Int63(), b.Int63())
	}
}

func TestPartitioned_DifferentSubsystemsDiverge(t *testing.T) {
	p := rng.NewPartitioned(42)
	ruin := p.ForSubsystem(rng.SubsystemRuin).Int63()
	recreate := p.ForSubsystem(rng.SubsystemRecreate).Int63()
	assert.NotEqual(t, ruin, recreate)
}

func TestPartitioned_ForSubsystemCachesInstance(t *testing.T) {
	p := rng.NewPartitioned(7)
	first := p.ForSubsystem(rng.SubsystemInsertion)
	second := p.ForSubsystem(rng.SubsystemInsertion)
	assert.Same(t, first, second)
}

func TestPartitioned_ForkIsolatesFromParent(t *testing.T) {
	parent := rng.NewPartitioned(1)
	child := parent.Fork("thread-1")
	assert.NotEqual(t, parent.Seed(), child.Seed())
}
