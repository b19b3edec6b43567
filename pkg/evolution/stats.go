package evolution

import (
	"gonum.org/v1/gonum/stat"

	everr "github.com/ducminhle1904/genome-evolver/internal/errors"
)

// GenerationStats summarizes the costs of one evaluated population
type GenerationStats struct {
	PopulationSize int     `json:"population_size"`
	Best           uint64  `json:"best"`
	Worst          uint64  `json:"worst"`
	Mean           float64 `json:"mean"`
	StdDev         float64 `json:"std_dev"`
}

// ComputeStats summarizes an evaluated population
func ComputeStats(p *Population) (GenerationStats, error) {
	stats := GenerationStats{PopulationSize: p.Size()}
	if p.Size() == 0 {
		return stats, nil
	}

	costs := make([]float64, 0, p.Size())
	for i, o := range p.organisms {
		if !o.evaluated {
			return stats, everr.NewEvaluationPreconditionError("population", "ComputeStats",
				"every organism must be evaluated before summarizing").WithContext("index", i)
		}
		if i == 0 || o.fitness < stats.Best {
			stats.Best = o.fitness
		}
		if o.fitness > stats.Worst {
			stats.Worst = o.fitness
		}
		costs = append(costs, float64(o.fitness))
	}

	if len(costs) > 1 {
		stats.Mean, stats.StdDev = stat.MeanStdDev(costs, nil)
	} else {
		stats.Mean = costs[0]
	}
	return stats, nil
}
