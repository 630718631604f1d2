package app

import (
	"context"

	"archetype-quiz-service/internal/clock"
	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/kvstore"
	"archetype-quiz-service/internal/progress"
	"go.uber.org/zap"
)

// TrainingService folds completed suite runs into experience and progress.
type TrainingService struct {
	store   kvstore.Store
	clock   clock.Clock
	tracker *TrackerService
}

func NewTrainingService(store kvstore.Store, c clock.Clock, tracker *TrackerService) *TrainingService {
	return &TrainingService{store: store, clock: c, tracker: tracker}
}

// Stats returns the cumulative stats of suite.
func (s *TrainingService) Stats(ctx context.Context, profileID string, suite domain.SuiteID) domain.SuiteStats {
	return kvstore.LoadJSON(ctx, scoped(s.store, profileID), statsKey(suite), domain.SuiteStats{})
}

// CompleteSuite awards experience for one run, updates the streak before
// the bonus is computed and records the session in the 21-day tracker.
func (s *TrainingService) CompleteSuite(ctx context.Context, profileID string, suite domain.SuiteID, results []domain.ChallengeResult) (domain.SuiteOutcome, error) {
	if !suite.Valid() {
		return domain.SuiteOutcome{}, domain.ErrUnknownSuite
	}
	if err := s.tracker.unlocks.Require(ctx, profileID, domain.ProductForSuite(suite)); err != nil {
		return domain.SuiteOutcome{}, err
	}
	if _, ok := s.tracker.Record(ctx, profileID, suite); !ok {
		return domain.SuiteOutcome{}, domain.ErrNotEnrolled
	}

	award := progress.AwardRun(s.Stats(ctx, profileID, suite), results, s.clock.Now())
	if err := kvstore.SaveJSON(ctx, scoped(s.store, profileID), statsKey(suite), award.Stats); err != nil {
		return domain.SuiteOutcome{}, err
	}
	prog, _, err := s.tracker.RecordSession(ctx, profileID, suite)
	if err != nil {
		return domain.SuiteOutcome{}, err
	}
	if err := s.tracker.saveBaseline(ctx, profileID, suite, results); err != nil {
		return domain.SuiteOutcome{}, err
	}

	zap.L().Info("suite completed",
		zap.String("profile", profileID),
		zap.String("suite", string(suite)),
		zap.Int("total", award.Total),
		zap.Int("bonus", award.Bonus),
		zap.Int("experience", award.Stats.Experience),
		zap.Bool("leveledUp", award.LeveledUp))

	return domain.SuiteOutcome{
		Suite:      suite,
		Results:    append([]domain.ChallengeResult{}, results...),
		Total:      award.Total,
		Bonus:      award.Bonus,
		Awarded:    award.Awarded,
		Streak:     award.Stats.Streak,
		Experience: award.Stats.Experience,
		Level:      award.After.Name,
		LeveledUp:  award.LeveledUp,
		NewBest:    award.NewBest,
		Progress:   prog,
	}, nil
}
