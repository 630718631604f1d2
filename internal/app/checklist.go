package app

import (
	"context"

	"archetype-quiz-service/internal/clock"
	"archetype-quiz-service/internal/content"
	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/kvstore"
	"archetype-quiz-service/internal/progress"
)

// ChecklistView is today's checklist with its laws and tip.
type ChecklistView struct {
	Day      domain.ChecklistDay `json:"day"`
	Laws     [5]content.Law      `json:"laws"`
	Tip      string              `json:"tip"`
	Progress *domain.Progress    `json:"progress,omitempty"`
}

// ChecklistService keeps the same-day wellness checklist of the quantum suite.
type ChecklistService struct {
	store   kvstore.Store
	clock   clock.Clock
	unlocks *UnlockService
	tracker *TrackerService
}

func NewChecklistService(store kvstore.Store, c clock.Clock, unlocks *UnlockService, tracker *TrackerService) *ChecklistService {
	return &ChecklistService{store: store, clock: c, unlocks: unlocks, tracker: tracker}
}

// Today returns the snapshot for the current calendar date.
func (s *ChecklistService) Today(ctx context.Context, profileID string) (ChecklistView, error) {
	if err := s.unlocks.Require(ctx, profileID, domain.ProductQuantum); err != nil {
		return ChecklistView{}, err
	}
	now := s.clock.Now()
	return s.view(s.load(ctx, profileID, clock.DateKey(now)), now.YearDay()), nil
}

// Toggle flips one law for today. The first time all five are checked on a
// date, the quantum suite records a session and its daily streak advances.
func (s *ChecklistService) Toggle(ctx context.Context, profileID string, law int) (ChecklistView, error) {
	if law < 0 || law >= len(content.Laws) {
		return ChecklistView{}, domain.ErrUnknownLaw
	}
	if err := s.unlocks.Require(ctx, profileID, domain.ProductQuantum); err != nil {
		return ChecklistView{}, err
	}

	now := s.clock.Now()
	date := clock.DateKey(now)
	day := s.load(ctx, profileID, date)
	day.Laws[law] = !day.Laws[law]

	var prog *domain.Progress
	if allChecked(day.Laws) && !day.Completed {
		day.Completed = true
		p, err := s.completeDay(ctx, profileID)
		if err != nil {
			return ChecklistView{}, err
		}
		prog = p
	}
	if err := kvstore.SaveJSON(ctx, scoped(s.store, profileID), checklistKey(date), day); err != nil {
		return ChecklistView{}, err
	}

	view := s.view(day, now.YearDay())
	view.Progress = prog
	return view, nil
}

func (s *ChecklistService) completeDay(ctx context.Context, profileID string) (*domain.Progress, error) {
	keys := scoped(s.store, profileID)
	stats := kvstore.LoadJSON(ctx, keys, statsKey(domain.SuiteQuantum), domain.SuiteStats{})
	stats = progress.TouchStreak(stats, s.clock.Now())
	if err := kvstore.SaveJSON(ctx, keys, statsKey(domain.SuiteQuantum), stats); err != nil {
		return nil, err
	}

	if _, ok := s.tracker.Record(ctx, profileID, domain.SuiteQuantum); !ok {
		if _, err := s.tracker.Enroll(ctx, profileID, domain.SuiteQuantum); err != nil {
			return nil, err
		}
	}
	prog, _, err := s.tracker.RecordSession(ctx, profileID, domain.SuiteQuantum)
	if err != nil {
		return nil, err
	}
	return &prog, nil
}

func (s *ChecklistService) load(ctx context.Context, profileID, date string) domain.ChecklistDay {
	day := kvstore.LoadJSON(ctx, scoped(s.store, profileID), checklistKey(date), domain.ChecklistDay{})
	day.Date = date
	return day
}

func (s *ChecklistService) view(day domain.ChecklistDay, yearDay int) ChecklistView {
	return ChecklistView{Day: day, Laws: content.Laws, Tip: content.TipForDay(yearDay)}
}

func allChecked(laws [5]bool) bool {
	for _, ok := range laws {
		if !ok {
			return false
		}
	}
	return true
}
