package period

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeDay(t *testing.T) {
	got, err := NormalizeDay("2026-03-05")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got != "2026-03-05" {
		t.Fatalf("unexpected day %s", got)
	}

	for _, bad := range []string{"", "2026-3-5", "05.03.2026", "2026-02-30", "not-a-date"} {
		if _, err := NormalizeDay(bad); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("%q: expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestNormalizeWeek(t *testing.T) {
	cases := map[string]string{
		"2026-03-02": "2026-03-02", // Monday maps to itself
		"2026-03-05": "2026-03-02", // Thursday
		"2026-03-08": "2026-03-02", // Sunday belongs to the week before
		"2026-03-09": "2026-03-09", // next Monday
	}
	for in, want := range cases {
		got, err := NormalizeWeek(in)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if got != want {
			t.Errorf("%s: expected %s, got %s", in, want, got)
		}
	}
}

func TestWeekStartSunday(t *testing.T) {
	sunday := time.Date(2026, 3, 8, 15, 30, 0, 0, time.UTC)
	if got := FormatDay(WeekStart(sunday)); got != "2026-03-02" {
		t.Fatalf("expected 2026-03-02, got %s", got)
	}
}
