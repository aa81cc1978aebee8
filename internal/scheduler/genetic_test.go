package scheduler

import (
	"context"
	"math/rand"
	"testing"
)

func buildGeneticInput() GreedyInput {
	return GreedyInput{
		Courses: []Course{
			{ID: "c1", Duration: 60, Frequency: 2, TeacherID: "t1", StudentGroupIDs: []string{"sg1"}},
			{ID: "c2", Duration: 60, Frequency: 1, TeacherID: "t2", StudentGroupIDs: []string{"sg1"}},
		},
		StudentGroups: map[string]StudentGroup{
			"sg1": {ID: "sg1", Name: "sg1", Size: 20},
		},
		Classrooms: []Classroom{
			{ID: "cl1", Name: "cl1", Capacity: 30},
			{ID: "cl2", Name: "cl2", Capacity: 30},
		},
		Teachers: map[string]Teacher{
			"t1": {ID: "t1", Name: "t1"},
			"t2": {ID: "t2", Name: "t2"},
		},
	}
}

func TestGenerateGeneticReturnsOneGenePerSession(t *testing.T) {
	result, err := GenerateGenetic(context.Background(), buildGeneticInput(), GeneticConfig{
		PopulationSize: 10,
		MaxGenerations: 15,
		Rand:           rand.New(rand.NewSource(42)),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Schedule) != 3 {
		t.Fatalf("expected 3 genes (one per required session), got %d", len(result.Schedule))
	}
	if result.Generations == 0 {
		t.Fatal("expected at least one generation to run")
	}
}

func TestGenerateGeneticDropsCapacityUnschedulableSessions(t *testing.T) {
	input := buildGeneticInput()
	input.Classrooms = []Classroom{{ID: "tiny", Name: "tiny", Capacity: 1}}

	result, err := GenerateGenetic(context.Background(), input, GeneticConfig{
		PopulationSize: 5,
		MaxGenerations: 5,
		Rand:           rand.New(rand.NewSource(1)),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Schedule) != 0 {
		t.Fatalf("expected no genes to be produced when no classroom fits, got %d", len(result.Schedule))
	}
	if len(result.Unschedulable) != 3 {
		t.Fatalf("expected all 3 sessions to be marked unschedulable, got %d", len(result.Unschedulable))
	}
}

func TestStddevOfConstantSequenceIsZero(t *testing.T) {
	if got := stddev([]int{3, 3, 3}); got != 0 {
		t.Fatalf("stddev of a constant sequence must be 0, got %f", got)
	}
}
