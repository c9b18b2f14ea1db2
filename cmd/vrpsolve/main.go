// Idiomatic entrypoint for the Cobra CLI that delegates to the root command
// defined in this package.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vrp-solver/vrp-solver/config"
	"github.com/vrp-solver/vrp-solver/goal/features"
	"github.com/vrp-solver/vrp-solver/insertion"
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/population"
	"github.com/vrp-solver/vrp-solver/problem"
	"github.com/vrp-solver/vrp-solver/quota"
	"github.com/vrp-solver/vrp-solver/recreate"
	"github.com/vrp-solver/vrp-solver/rng"
	"github.com/vrp-solver/vrp-solver/ruin"
	"github.com/vrp-solver/vrp-solver/schedule"
	"github.com/vrp-solver/vrp-solver/search"
	"github.com/vrp-solver/vrp-solver/solution"
	"github.com/vrp-solver/vrp-solver/telemetry"
)

var (
	vehicles    int
	jobs        int
	capacity    float64
	seed        int64
	generations int64
	threads     int
	logLevel    string
	configPath  string
)

var rootCmd = &cobra.Command{
	Use:   "vrpsolve",
	Short: "Ruin-and-recreate vehicle routing solver",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build a synthetic routing instance and solve it",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)

		cfg := config.Config{
			Seed:        seed,
			Termination: config.Termination{MaxGenerations: generations},
			Ruin: config.OperatorWeights{
				"random-job": 1, "random-route": 1, "worst-job": 1,
			},
			Recreate: config.OperatorWeights{"best-insertion": 1},
			Population: config.Population{Variant: "rosomaxa", Size: 8},
		}
		if configPath != "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = *loaded
		}

		logrus.Infof("building synthetic instance: %d vehicles, %d jobs", vehicles, jobs)
		instance := buildSyntheticInstance(cfg.Seed, vehicles, jobs, capacity)

		p, err := buildProblem(instance)
		if err != nil {
			return err
		}

		evaluator := insertion.NewEvaluator(nil, nil)
		initial := solution.NewContext(p.Fleet, p.Jobs.All())
		initialEnv := insertion.NewEnvironment(rng.NewPartitioned(rng.Seed(cfg.Seed)), nil, nil)
		initialCtx := insertion.NewContext(p, initial, initialEnv)
		recreate.NewOperator(recreate.All{}, recreate.Best{}, evaluator).Run(initialCtx)

		ruinOp := buildRuin(cfg.Ruin)
		recreateOp := buildRecreate(cfg.Recreate, evaluator)
		pop := buildPopulation(cfg.Population, p)
		term := buildTermination(cfg.Termination)
		metrics := telemetry.NewMetrics(cfg.LogEvery, logrus.StandardLogger())

		runner := search.NewRunner(p, ruinOp, recreateOp, evaluator, pop, term, metrics, rng.Seed(cfg.Seed), threads)
		best := runner.Run(initialCtx.Solution)

		metrics.Print()
		if best == nil {
			logrus.Warn("search produced no individual")
			return nil
		}
		logrus.Infof("best solution: %d routes, %d unassigned, fitness=%.2f",
			len(best.Solution.Routes), len(best.Solution.Unassigned), p.Goal.Fitness(best.Solution))
		return nil
	},
}

func buildProblem(instance syntheticInstance) (*problem.Problem, error) {
	b := problem.NewProblemBuilder(instance.fleet, instance.transport, nil).
		WithJobs(instance.jobs, []model.Profile{"car"})
	keys := schedule.NewKeys(b.Keys())
	b.WithFeatures(
		features.NewUnassigned(1000),
		features.NewTransport(instance.transport, model.DefaultActivityCost{}, keys),
		features.NewCapacity(b.Keys()),
	).WithGoalMaps(
		[][]string{{"unassigned"}, {"transport"}},
		[]string{"unassigned", "transport", "capacity"},
	)
	return b.Build()
}

func buildRuin(weights config.OperatorWeights) ruin.Ruin {
	ops := map[string]ruin.Ruin{
		"random-job":              ruin.RandomJob{Count: 3, Limits: ruin.RemovalTracker{MaxRuinedJobs: 10}},
		"random-route":            ruin.RandomRoute{Count: 1, Limits: ruin.RemovalTracker{MaxAffectedRoutes: 2}},
		"adjusted-string-removal": ruin.AdjustedStringRemoval{MinLength: 2, MaxLength: 6, MaxRatio: 0.3, MaxRoutes: 2},
		"neighbour-removal":       ruin.NeighbourRemoval{K: 5},
		"worst-job":               ruin.WorstJob{K: 3},
		"close-route":             ruin.CloseRoute{K: 1},
	}
	return ruin.NewCompositeRuin(ops, weights)
}

func buildRecreate(weights config.OperatorWeights, evaluator *insertion.Evaluator) recreate.Recreate {
	ops := map[string]recreate.Recreate{
		"best-insertion":   recreate.NewOperator(recreate.All{}, recreate.Best{}, evaluator),
		"regret-insertion": recreate.NewOperator(recreate.All{}, recreate.RegretK{}, evaluator),
		"blinks":           recreate.NewOperator(recreate.All{}, recreate.Noise{Amplitude: 1.5}, evaluator),
	}
	return recreate.NewCompositeRecreate(ops, weights)
}

func buildPopulation(cfg config.Population, p *problem.Problem) population.Population {
	switch cfg.Variant {
	case "greedy":
		return population.NewGreedy()
	case "rosomaxa":
		keys := schedule.Keys{}
		return population.NewRosomaxa(population.RosomaxaConfig{}, keys, p.Transport)
	default:
		size := cfg.Size
		if size <= 0 {
			size = 4
		}
		return population.NewElitism(size)
	}
}

func buildTermination(cfg config.Termination) search.Termination {
	var quotas []quota.Quota
	if cfg.MaxDuration > 0 {
		quotas = append(quotas, quota.NewTimeLimit(cfg.MaxDuration))
	}
	if cfg.CostTarget != nil {
		quotas = append(quotas, quota.NewCostTarget(*cfg.CostTarget))
	}
	var q quota.Quota
	switch len(quotas) {
	case 0:
		q = quota.Unlimited{}
	case 1:
		q = quotas[0]
	default:
		q = quota.NewComposite(quotas...)
	}
	return search.NewTermination(cfg.MaxGenerations, q)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().IntVar(&vehicles, "vehicles", 4, "Number of vehicles in the synthetic fleet")
	runCmd.Flags().IntVar(&jobs, "jobs", 40, "Number of demand jobs to scatter")
	runCmd.Flags().Float64Var(&capacity, "capacity", 40, "Per-vehicle capacity")
	runCmd.Flags().Int64Var(&seed, "seed", 1, "Random seed")
	runCmd.Flags().Int64Var(&generations, "generations", 200, "Maximum generations per search thread")
	runCmd.Flags().IntVar(&threads, "threads", 0, "Search threads (0 = GOMAXPROCS)")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&configPath, "config", "", "Optional YAML config overriding solver defaults")

	rootCmd.AddCommand(runCmd)
}

func main() {
	Execute()
}
