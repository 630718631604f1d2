package progress

import (
	"time"

	"archetype-quiz-service/internal/clock"
	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/scoring"
)

// TouchStreak updates the daily streak counter for activity at now:
// unchanged if already active today, +1 if last active yesterday, else 1.
func TouchStreak(stats domain.SuiteStats, now time.Time) domain.SuiteStats {
	today := clock.DateKey(now)
	switch stats.LastActiveDate {
	case today:
		if stats.Streak == 0 {
			stats.Streak = 1
		}
	case clock.Yesterday(now):
		stats.Streak++
	default:
		stats.Streak = 1
	}
	stats.LastActiveDate = today
	return stats
}

// Award is the outcome of folding one suite run into the cumulative stats.
type Award struct {
	Stats     domain.SuiteStats
	Total     int
	Bonus     int
	Awarded   int
	Before    scoring.Level
	After     scoring.Level
	LeveledUp bool
	NewBest   bool
}

// AwardRun sums the run, refreshes the daily streak and adds the total plus
// the streak bonus to the experience counter.
func AwardRun(stats domain.SuiteStats, results []domain.ChallengeResult, now time.Time) Award {
	total := 0
	for _, r := range results {
		total += r.Points
	}

	before := scoring.LevelFor(stats.Experience)
	stats = TouchStreak(stats, now)
	bonus := scoring.StreakBonus(total, stats.Streak)

	stats.Experience += total + bonus
	stats.TotalRuns++
	newBest := total > stats.BestScore
	if newBest {
		stats.BestScore = total
	}
	after := scoring.LevelFor(stats.Experience)

	return Award{
		Stats:     stats,
		Total:     total,
		Bonus:     bonus,
		Awarded:   total + bonus,
		Before:    before,
		After:     after,
		LeveledUp: before.Name != after.Name,
		NewBest:   newBest,
	}
}
