package scheduler

import (
	"context"
	"testing"
)

func TestCompareRunsAllThreeAlgorithms(t *testing.T) {
	repo := &stubRepository{}
	records := Compare(context.Background(), repo, buildGraphColorInput(), SlotConfig{})

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	seen := map[string]bool{}
	for _, r := range records {
		seen[r.Algorithm] = true
		if r.Error != "" {
			t.Fatalf("algorithm %s failed unexpectedly: %s", r.Algorithm, r.Error)
		}
	}
	for _, want := range []string{"dsatur", "welsh-powell", "genetic"} {
		if !seen[want] {
			t.Fatalf("expected a record for %s", want)
		}
	}
}

func TestSuccessRateWithNoSlotsIsZero(t *testing.T) {
	if got := successRate(0, 0); got != 0 {
		t.Fatalf("successRate(0,0) = %f, want 0", got)
	}
}
