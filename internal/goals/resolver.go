package goals

import "github.com/avp818/coach-hub/internal/storage"

// Resolve picks the goal whose interval covers the given date: the latest
// start with start <= date and (end is nil or end > date). Returns nil when
// no interval covers the date, so days before the first goal score zero.
func Resolve(goals []storage.Goal, date string) *storage.Goal {
	var best *storage.Goal
	for i := range goals {
		g := &goals[i]
		if g.StartDate > date {
			continue
		}
		if g.EndDate != nil && *g.EndDate <= date {
			continue
		}
		if best == nil || g.StartDate > best.StartDate {
			best = g
		}
	}
	return best
}
