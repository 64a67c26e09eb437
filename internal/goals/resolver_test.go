package goals

import (
	"testing"

	"github.com/avp818/coach-hub/internal/storage"
)

func goal(start string, end *string) storage.Goal {
	return storage.Goal{StartDate: start, EndDate: end}
}

func strPtr(s string) *string { return &s }

func TestResolvePicksCoveringInterval(t *testing.T) {
	goals := []storage.Goal{
		goal("2026-01-01", strPtr("2026-03-01")),
		goal("2026-03-01", nil),
	}

	got := Resolve(goals, "2026-02-15")
	if got == nil || got.StartDate != "2026-01-01" {
		t.Fatalf("expected first interval for Feb 15, got %+v", got)
	}
}

func TestResolveEndExclusiveStartInclusive(t *testing.T) {
	goals := []storage.Goal{
		goal("2026-01-01", strPtr("2026-03-01")),
		goal("2026-03-01", nil),
	}

	// On the boundary day the new interval wins: end is exclusive.
	got := Resolve(goals, "2026-03-01")
	if got == nil || got.StartDate != "2026-03-01" {
		t.Fatalf("expected second interval on its start date, got %+v", got)
	}
}

func TestResolveBeforeFirstGoal(t *testing.T) {
	goals := []storage.Goal{
		goal("2026-01-01", strPtr("2026-03-01")),
		goal("2026-03-01", nil),
	}

	if got := Resolve(goals, "2025-12-31"); got != nil {
		t.Fatalf("expected nil before the first interval, got %+v", got)
	}
}

func TestResolveEmpty(t *testing.T) {
	if got := Resolve(nil, "2026-01-01"); got != nil {
		t.Fatalf("expected nil for no goals, got %+v", got)
	}
}

func TestResolveOpenInterval(t *testing.T) {
	goals := []storage.Goal{goal("2026-01-01", nil)}

	got := Resolve(goals, "2030-06-06")
	if got == nil || got.StartDate != "2026-01-01" {
		t.Fatalf("open interval must cover any later date, got %+v", got)
	}
}
