// Package progress implements the 21-day challenge record, its streak and
// milestone rules, and the experience accumulator. Every function takes the
// current time explicitly so no wall-clock reads hide in the bookkeeping.
package progress

import (
	"sort"
	"time"

	"archetype-quiz-service/internal/clock"
	"archetype-quiz-service/internal/domain"
)

// ProgramDays is the length of a challenge program.
const ProgramDays = 21

// Milestone days.
const (
	MilestoneWeek1 = 7
	MilestoneWeek2 = 14
	MilestoneFinal = 21
)

// Enroll returns a fresh record stamped with today's date.
func Enroll(archetype domain.ArchetypeCode, now time.Time) domain.ChallengeRecord {
	return domain.ChallengeRecord{
		Enrolled:       true,
		Archetype:      archetype,
		StartDate:      clock.DateKey(now),
		CurrentDay:     1,
		DaysCompleted:  []int{},
		BaselineScores: map[string]int{},
	}
}

// CurrentDay is min(21, whole days since start + 1), never below 1.
func CurrentDay(rec domain.ChallengeRecord, now time.Time) int {
	start, err := clock.ParseDate(rec.StartDate, now.Location())
	if err != nil {
		return max(1, rec.CurrentDay)
	}
	day := clock.DaysSince(start, now) + 1
	return min(ProgramDays, max(1, day))
}

// RecordSession applies one completed session to rec. The returned flag
// reports whether this was the first qualifying completion of the calendar
// day; later sessions on the same day only bump the session counter.
func RecordSession(rec domain.ChallengeRecord, now time.Time) (domain.ChallengeRecord, bool) {
	rec = clone(rec)
	today := clock.DateKey(now)

	// currentDay never moves backwards, even if the clock does
	rec.CurrentDay = max(rec.CurrentDay, CurrentDay(rec, now))
	rec.SessionsCompleted++

	first := rec.LastActivity != today
	if !containsDay(rec.DaysCompleted, rec.CurrentDay) {
		rec.DaysCompleted = insertDay(rec.DaysCompleted, rec.CurrentDay)
		first = true
	}
	rec.LastActivity = today

	unlockMilestones(&rec, today)
	return rec, first
}

func unlockMilestones(rec *domain.ChallengeRecord, today string) {
	thresholds := []struct {
		day int
		m   *domain.Milestone
	}{
		{MilestoneWeek1, &rec.Milestones.Day7},
		{MilestoneWeek2, &rec.Milestones.Day14},
		{MilestoneFinal, &rec.Milestones.Day21},
	}
	for _, th := range thresholds {
		if th.m.Unlocked {
			continue
		}
		if rec.CurrentDay >= th.day {
			th.m.Unlocked = true
			th.m.Date = today
		}
	}
}

// Streak is the length of the run of consecutive days at the tail of the
// completed-day set.
func Streak(days []int) int {
	if len(days) == 0 {
		return 0
	}
	sorted := append([]int(nil), days...)
	sort.Ints(sorted)
	run := 1
	for i := len(sorted) - 1; i > 0; i-- {
		if sorted[i] == sorted[i-1] {
			continue
		}
		if sorted[i]-sorted[i-1] != 1 {
			break
		}
		run++
	}
	return run
}

// Snapshot derives the read model of rec without mutating it.
func Snapshot(suite domain.SuiteID, rec domain.ChallengeRecord, now time.Time) domain.Progress {
	if !rec.Enrolled {
		return domain.Progress{Suite: suite, DaysCompleted: []int{}}
	}
	day := max(rec.CurrentDay, CurrentDay(rec, now))
	return domain.Progress{
		Suite:             suite,
		Enrolled:          true,
		CurrentDay:        day,
		DaysCompleted:     append([]int{}, rec.DaysCompleted...),
		SessionsCompleted: rec.SessionsCompleted,
		Streak:            Streak(rec.DaysCompleted),
		Milestones:        rec.Milestones,
		CompletedToday:    rec.LastActivity == clock.DateKey(now),
	}
}

func containsDay(days []int, day int) bool {
	i := sort.SearchInts(days, day)
	return i < len(days) && days[i] == day
}

func insertDay(days []int, day int) []int {
	i := sort.SearchInts(days, day)
	days = append(days, 0)
	copy(days[i+1:], days[i:])
	days[i] = day
	return days
}

func clone(rec domain.ChallengeRecord) domain.ChallengeRecord {
	days := make([]int, len(rec.DaysCompleted))
	copy(days, rec.DaysCompleted)
	sort.Ints(days)
	rec.DaysCompleted = days
	if rec.BaselineScores != nil {
		scores := make(map[string]int, len(rec.BaselineScores))
		for k, v := range rec.BaselineScores {
			scores[k] = v
		}
		rec.BaselineScores = scores
	}
	return rec
}
