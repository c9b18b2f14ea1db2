package insertion

import (
	"github.com/sirupsen/logrus"
	"github.com/vrp-solver/vrp-solver/quota"
	"github.com/vrp-solver/vrp-solver/rng"
)

// Environment bundles the per-search-thread resources an evaluation needs beyond
// the shared, read-only Problem: a private RNG partition, the run's termination
// quota, and a logger. One Environment belongs to exactly one search thread.
type Environment struct {
	RNG   *rng.Partitioned
	Quota quota.Quota
	Log   *logrus.Logger
}

// NewEnvironment builds an Environment, defaulting a nil quota to quota.Unlimited{}
// and a nil logger to logrus.StandardLogger().
func NewEnvironment(r *rng.Partitioned, q quota.Quota, log *logrus.Logger) *Environment {
	if q == nil {
		q = quota.Unlimited{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Environment{RNG: r, Quota: q, Log: log}
}
