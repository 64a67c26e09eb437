package dashboard

import (
	"math"

	"github.com/avp818/coach-hub/internal/storage"
)

// Score rates a day's totals against a goal on a 0..7 scale. Each macro with
// a positive target contributes min(1, actual/target); fiber only counts when
// the goal carries a fiber target and the day logged any fiber, so an
// untracked fiber intake never drags the score down. The eligible ratios are
// averaged, scaled to 7 and rounded to one decimal. A nil goal or a goal with
// no positive targets scores zero, so overshooting a macro never inflates the
// score.
func Score(totals storage.MacroTotals, goal *storage.Goal) float64 {
	if goal == nil {
		return 0
	}

	var sum float64
	var count int
	add := func(actual, target int) {
		if target <= 0 {
			return
		}
		ratio := float64(actual) / float64(target)
		if ratio > 1 {
			ratio = 1
		}
		sum += ratio
		count++
	}

	add(totals.ProteinG, goal.Targets.ProteinG)
	add(totals.FatG, goal.Targets.FatG)
	add(totals.CarbsG, goal.Targets.CarbsG)
	if goal.Targets.FiberG != nil && totals.FiberG > 0 {
		add(totals.FiberG, *goal.Targets.FiberG)
	}

	if count == 0 {
		return 0
	}
	return round1(sum / float64(count) * 7)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
