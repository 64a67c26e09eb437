package dashboard

import (
	"testing"

	"github.com/avp818/coach-hub/internal/storage"
)

func intp(v int) *int { return &v }

func TestScorePerfectWeekDay(t *testing.T) {
	goal := &storage.Goal{Targets: storage.GoalTargets{ProteinG: 150, FatG: 60, CarbsG: 200, FiberG: intp(30)}}
	totals := storage.MacroTotals{ProteinG: 150, FatG: 60, CarbsG: 200, FiberG: 30}

	if got := Score(totals, goal); got != 7.0 {
		t.Fatalf("expected 7.0, got %v", got)
	}
}

func TestScoreHalfway(t *testing.T) {
	goal := &storage.Goal{Targets: storage.GoalTargets{ProteinG: 150, FatG: 60, CarbsG: 200, FiberG: intp(30)}}
	totals := storage.MacroTotals{ProteinG: 75, FatG: 30, CarbsG: 100, FiberG: 0}

	if got := Score(totals, goal); got != 3.5 {
		t.Fatalf("expected 3.5, got %v", got)
	}
}

func TestScoreFiberCountsOnlyWhenEaten(t *testing.T) {
	goal := &storage.Goal{Targets: storage.GoalTargets{ProteinG: 150, FatG: 60, CarbsG: 200, FiberG: intp(30)}}

	// Macros met, no fiber logged: fiber stays out of the average.
	none := storage.MacroTotals{ProteinG: 150, FatG: 60, CarbsG: 200, FiberG: 0}
	if got := Score(none, goal); got != 7.0 {
		t.Fatalf("unlogged fiber must not count, got %v", got)
	}

	// Macros met, fiber logged at half target: fiber joins as a fourth ratio.
	half := storage.MacroTotals{ProteinG: 150, FatG: 60, CarbsG: 200, FiberG: 15}
	if got := Score(half, goal); got != 6.1 {
		t.Fatalf("expected 6.1 with fiber at half target, got %v", got)
	}
}

func TestScoreCapsOvershoot(t *testing.T) {
	goal := &storage.Goal{Targets: storage.GoalTargets{ProteinG: 150, FatG: 60, CarbsG: 200}}
	exact := storage.MacroTotals{ProteinG: 150, FatG: 60, CarbsG: 200}
	over := storage.MacroTotals{ProteinG: 300, FatG: 60, CarbsG: 200}

	if Score(exact, goal) != Score(over, goal) {
		t.Fatal("overshooting a macro must not change the score")
	}
}

func TestScoreNilGoal(t *testing.T) {
	if got := Score(storage.MacroTotals{ProteinG: 150}, nil); got != 0 {
		t.Fatalf("expected 0 without a goal, got %v", got)
	}
}

func TestScoreIgnoresAbsentFiberTarget(t *testing.T) {
	goal := &storage.Goal{Targets: storage.GoalTargets{ProteinG: 100, FatG: 50, CarbsG: 100}}
	totals := storage.MacroTotals{ProteinG: 100, FatG: 50, CarbsG: 100, FiberG: 0}

	if got := Score(totals, goal); got != 7.0 {
		t.Fatalf("fiber without a target must not count, got %v", got)
	}
}

func TestScoreZeroTargets(t *testing.T) {
	goal := &storage.Goal{}
	if got := Score(storage.MacroTotals{ProteinG: 10}, goal); got != 0 {
		t.Fatalf("expected 0 with no positive targets, got %v", got)
	}
}
