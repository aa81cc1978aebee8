package scheduler

import (
	"context"
)

// ComparisonRecord is one algorithm's entry in a comparator run.
// Error is set, and every field but Algorithm left at its zero value, when the
// algorithm itself failed — a per-algorithm failure never aborts its
// peers.
type ComparisonRecord struct {
	Algorithm      string
	TotalSlots     int
	Unscheduled    int
	SuccessRate    float64
	Metadata       map[string]interface{}
	Fitness        *float64
	HardViolations *int
	SoftViolations *int
	Error          string
}

// geneticComparisonConfig holds the reduced parameters the comparator
// runs the genetic optimizer with.
var geneticComparisonConfig = GeneticConfig{PopulationSize: 20, MaxGenerations: 30}

// Compare runs the DSATUR graph-coloring generator, a Welsh-Powell
// coloring pass, and the genetic optimizer (with reduced parameters)
// over the same input and returns one record per algorithm.
func Compare(ctx context.Context, repo Repository, input GreedyInput, cfg SlotConfig) []ComparisonRecord {
	records := make([]ComparisonRecord, 0, 3)

	records = append(records, compareGraphColoring(ctx, repo, input, cfg, DSATUR))
	records = append(records, compareGraphColoring(ctx, repo, input, cfg, WelshPowell))
	records = append(records, compareGenetic(ctx, input, cfg))

	return records
}

func compareGraphColoring(ctx context.Context, repo Repository, input GreedyInput, cfg SlotConfig, algorithm ColoringAlgorithm) ComparisonRecord {
	result, err := GenerateGraphColoring(ctx, repo, input, cfg, algorithm)
	if err != nil {
		return ComparisonRecord{Algorithm: string(algorithm), Error: err.Error()}
	}

	total := len(result.Schedule)
	record := ComparisonRecord{
		Algorithm:   string(algorithm),
		TotalSlots:  total,
		Unscheduled: len(result.Unscheduled),
		SuccessRate: successRate(total, len(result.Unscheduled)),
		Metadata: map[string]interface{}{
			"algorithm":  string(algorithm),
			"totalNodes": result.Metadata.TotalNodes,
			"totalEdges": result.Metadata.TotalEdges,
			"colorsUsed": result.Metadata.ColorsUsed,
		},
	}
	return record
}

func compareGenetic(ctx context.Context, input GreedyInput, cfg SlotConfig) ComparisonRecord {
	genCfg := geneticComparisonConfig
	genCfg.Slots = cfg

	result, err := GenerateGenetic(ctx, input, genCfg)
	if err != nil {
		return ComparisonRecord{Algorithm: "genetic", Error: err.Error()}
	}

	total := len(result.Schedule)
	hard := result.Fitness.Hard
	soft := result.Fitness.Soft
	fitness := result.Fitness.Fitness

	return ComparisonRecord{
		Algorithm:      "genetic",
		TotalSlots:     total,
		Unscheduled:    len(result.Unschedulable),
		SuccessRate:    successRate(total, len(result.Unschedulable)),
		Metadata: map[string]interface{}{
			"algorithm":      "genetic",
			"generations":    result.Generations,
			"populationSize": result.PopulationSize,
		},
		Fitness:        &fitness,
		HardViolations: &hard,
		SoftViolations: &soft,
	}
}

func successRate(totalSlots, unscheduled int) float64 {
	denominator := totalSlots + unscheduled
	if denominator == 0 {
		return 0
	}
	return float64(totalSlots) / float64(denominator) * 100
}
