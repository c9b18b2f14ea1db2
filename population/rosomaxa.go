package population

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/schedule"
	"github.com/vrp-solver/vrp-solver/solution"
)

// weightDimensions is the length of the per-solution summary vector fed into
// the self-organising map: max-load variance, duration mean, distance mean,
// waiting mean, distance gravity, customer deviation, in that order.
const weightDimensions = 6

// Phase is Rosomaxa's current search stage, driving whether Select draws from
// the SOM or falls back to the elite subset alone.
type Phase int

const (
	PhaseInitial Phase = iota
	PhaseExploration
	PhaseExploitation
)

// RosomaxaConfig tunes the elite subset and self-organising map.
type RosomaxaConfig struct {
	SelectionSize      int     // individuals drawn per Select call beyond the best
	EliteSize          int     // max size of the elite sortedList
	NodeCount          int     // number of SOM nodes; fixed for the lifetime of the map
	NodeCapacity       int     // individuals retained per node between rebalances
	SpreadFactor       float64 // unused by the fixed-grid simplification below, kept for config-shape parity
	ReductionFactor    float64 // unused by the fixed-grid simplification below, kept for config-shape parity
	DistributionFactor float64 // unused by the fixed-grid simplification below, kept for config-shape parity
	LearningRate       float64 // node weight nudge toward its members' centroid on rebalance
	RebalanceMemory    int     // unused directly; NodeCapacity plays this role in the fixed-grid map
	RebalanceCount     int     // Add calls between automatic node rebalances
	ExplorationRatio   float64 // termination estimate threshold that flips Exploration -> Exploitation
}

// defaultRosomaxaConfig fills zero-valued fields with the constants
// vrp-core's implementation ships as defaults.
func defaultRosomaxaConfig(cfg RosomaxaConfig) RosomaxaConfig {
	if cfg.SelectionSize <= 0 {
		cfg.SelectionSize = 4
	}
	if cfg.EliteSize <= 0 {
		cfg.EliteSize = 4
	}
	if cfg.NodeCount <= 0 {
		cfg.NodeCount = 8
	}
	if cfg.NodeCapacity <= 0 {
		cfg.NodeCapacity = 10
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 0.1
	}
	if cfg.RebalanceCount <= 0 {
		cfg.RebalanceCount = 100
	}
	if cfg.ExplorationRatio <= 0 {
		cfg.ExplorationRatio = 0.9
	}
	return cfg
}

// somNode is one cell of the fixed-grid self-organising map: a weight vector
// and the individuals most recently routed to it.
type somNode struct {
	weight  []float64
	members *sortedList
}

// Rosomaxa is the GSOM-derived population variant: an elite subset for direct
// exploitation plus a self-organising map over solution "weight" vectors that
// routes new individuals by proximity during exploration. This implementation
// fixes the map's node count at construction rather than growing/splitting
// nodes as the original GSOM does — a deliberate simplification, see DESIGN.md.
type Rosomaxa struct {
	cfg       RosomaxaConfig
	keys      schedule.Keys
	transport model.TransportCost

	elite *sortedList
	nodes []*somNode

	phase               Phase
	seeds               []*Individual
	addsSinceRebalance  int
	terminationEstimate float64
}

// NewRosomaxa builds a Rosomaxa population. keys and transport are the same
// schedule state keys and transport cost model the problem's feature pipeline
// uses, needed to read back route statistics for the weight vector.
func NewRosomaxa(cfg RosomaxaConfig, keys schedule.Keys, transport model.TransportCost) *Rosomaxa {
	cfg = defaultRosomaxaConfig(cfg)
	return &Rosomaxa{
		cfg:       cfg,
		keys:      keys,
		transport: transport,
		elite:     newSortedList(cfg.EliteSize),
		phase:     PhaseInitial,
	}
}

// ObserveTermination records the search loop's current termination estimate
// (0 at the start of a run, 1 at its budget), consulted by Select/Add to
// decide when Exploration should give way to Exploitation.
func (r *Rosomaxa) ObserveTermination(estimate float64) {
	r.terminationEstimate = estimate
	if r.phase == PhaseExploration && estimate >= r.cfg.ExplorationRatio {
		r.phase = PhaseExploitation
	}
}

// Add implements Population: always merges individual into the elite subset,
// and — once enough seeds have accumulated — also routes it into the nearest
// (or a freshly grown) SOM node.
func (r *Rosomaxa) Add(individual *Individual) bool {
	improved := r.elite.add(individual)

	if r.phase == PhaseInitial {
		r.seeds = append(r.seeds, individual)
		if len(r.seeds) >= 4 {
			r.phase = PhaseExploration
			for _, seed := range r.seeds {
				r.route(seed)
			}
			r.seeds = nil
		}
		return improved
	}
	if r.phase == PhaseExploration {
		r.route(individual)
	}
	return improved
}

// route assigns individual to the nearest SOM node by weight-vector distance,
// growing a fresh node (seeded at individual's own weight) while under
// NodeCount, then periodically rebalances every RebalanceCount routes.
func (r *Rosomaxa) route(individual *Individual) {
	w := weightVector(individual, r.keys, r.transport)

	if len(r.nodes) < r.cfg.NodeCount {
		r.nodes = append(r.nodes, &somNode{
			weight:  w,
			members: newSortedList(r.cfg.NodeCapacity),
		})
		r.nodes[len(r.nodes)-1].members.add(individual)
	} else {
		nearest := r.nearestNode(w)
		nearest.members.add(individual)
	}

	r.addsSinceRebalance++
	if r.addsSinceRebalance >= r.cfg.RebalanceCount {
		r.rebalance()
		r.addsSinceRebalance = 0
	}
}

func (r *Rosomaxa) nearestNode(w []float64) *somNode {
	best := r.nodes[0]
	bestDist := floats.Distance(w, best.weight, 2)
	for _, node := range r.nodes[1:] {
		d := floats.Distance(w, node.weight, 2)
		if d < bestDist {
			best, bestDist = node, d
		}
	}
	return best
}

// rebalance nudges every node's weight vector toward the centroid of its
// currently-held members by LearningRate, the SOM training update.
func (r *Rosomaxa) rebalance() {
	for _, node := range r.nodes {
		members := node.members.individuals
		if len(members) == 0 {
			continue
		}
		centroid := make([]float64, weightDimensions)
		for _, ind := range members {
			floats.Add(centroid, weightVector(ind, r.keys, r.transport))
		}
		floats.Scale(1/float64(len(members)), centroid)

		cur := mat.NewVecDense(weightDimensions, append([]float64(nil), node.weight...))
		target := mat.NewVecDense(weightDimensions, centroid)
		diff := mat.NewVecDense(weightDimensions, nil)
		diff.SubVec(target, cur)
		cur.AddScaledVec(cur, r.cfg.LearningRate, diff)
		copy(node.weight, cur.RawVector().Data)
	}
}

// Select implements Population: during Exploration, draws the overall best
// plus two from the elite subset and up to two from every SOM node's
// population; otherwise (Initial, Exploitation, or no nodes grown yet) falls
// back to the elite subset alone.
func (r *Rosomaxa) Select(n int, rng *rand.Rand) []*Individual {
	if n <= 0 {
		n = r.cfg.SelectionSize
	}
	if r.phase != PhaseExploration || len(r.nodes) == 0 {
		return selectUniform(r.elite.individuals, n, rng)
	}

	pool := make([]*Individual, 0, len(r.elite.individuals)+2*len(r.nodes))
	pool = append(pool, firstN(r.elite.individuals, 2)...)
	for _, node := range r.nodes {
		pool = append(pool, firstN(node.members.individuals, 2)...)
	}
	if len(pool) == 0 {
		return selectUniform(r.elite.individuals, n, rng)
	}
	return selectUniform(pool, n, rng)
}

func firstN(individuals []*Individual, n int) []*Individual {
	if len(individuals) <= n {
		return individuals
	}
	return individuals[:n]
}

// Best implements Population.
func (r *Rosomaxa) Best() *Individual { return r.elite.best() }

// Len implements Population: the elite subset's size, the population's
// externally-visible size regardless of how many individuals the SOM nodes
// additionally retain internally.
func (r *Rosomaxa) Len() int { return r.elite.len() }

// weightVector computes individual's six-dimensional summary statistic,
// averaged/aggregated across every route in its solution.
func weightVector(individual *Individual, keys schedule.Keys, transport model.TransportCost) []float64 {
	routes := individual.Solution.Routes
	if len(routes) == 0 {
		return make([]float64, weightDimensions)
	}

	distances := make([]float64, 0, len(routes))
	durations := make([]float64, 0, len(routes))
	waitings := make([]float64, 0, len(routes))
	jobCounts := make([]float64, 0, len(routes))
	maxLoads := make([]float64, 0, len(routes))
	var gravities []float64

	for _, routeCtx := range routes {
		distances = append(distances, float64(schedule.TotalDistance(routeCtx, keys)))
		durations = append(durations, float64(schedule.TotalDuration(routeCtx, keys)))
		waitings = append(waitings, float64(schedule.WaitingTime(routeCtx, keys, 0)))
		jobCounts = append(jobCounts, float64(routeCtx.Route().Tour.JobCount()))
		maxLoads = append(maxLoads, routeMaxLoad(routeCtx))

		profile := routeCtx.Route().Actor.Detail.Profile
		depot := routeCtx.Route().Actor.Detail.Start
		for _, act := range routeCtx.Route().Tour.JobActivities() {
			gravities = append(gravities, transport.DistanceApprox(profile, depot, act.Place.Location))
		}
	}

	return []float64{
		variance(maxLoads),
		mean(durations),
		mean(distances),
		mean(waitings),
		mean(gravities),
		variance(jobCounts),
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

func variance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.Variance(xs, nil)
}

// weightDemandDimension mirrors goal/features/capacity.go's "demand" Dimens()
// convention; duplicated rather than imported since that accessor is
// unexported, and the population package has no other reason to depend on
// goal/features.
const weightDemandDimension = "demand"

// routeMaxLoad returns the largest L2 norm of cumulative per-dimension demand
// reached anywhere along routeCtx's tour.
func routeMaxLoad(routeCtx *solution.RouteContext) float64 {
	var running []float64
	maxNorm := 0.0
	for _, act := range routeCtx.Route().Tour.All() {
		if act.Job == nil {
			continue
		}
		demand, _ := act.Job.Dimens()[weightDemandDimension].([]float64)
		if len(demand) > len(running) {
			grown := make([]float64, len(demand))
			copy(grown, running)
			running = grown
		}
		for i, v := range demand {
			running[i] += v
		}
		if n := floats.Norm(running, 2); n > maxNorm {
			maxNorm = n
		}
	}
	return maxNorm
}
