package app

import (
	"context"

	"archetype-quiz-service/internal/clock"
	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/kvstore"
	"archetype-quiz-service/internal/progress"
	"go.uber.org/zap"
)

// TrackerService persists the 21-day record of each suite.
type TrackerService struct {
	store   kvstore.Store
	clock   clock.Clock
	unlocks *UnlockService
}

func NewTrackerService(store kvstore.Store, c clock.Clock, unlocks *UnlockService) *TrackerService {
	return &TrackerService{store: store, clock: c, unlocks: unlocks}
}

// Enroll starts the suite's program. Enrolling twice keeps the existing record.
func (s *TrackerService) Enroll(ctx context.Context, profileID string, suite domain.SuiteID) (domain.Progress, error) {
	if !suite.Valid() {
		return domain.Progress{}, domain.ErrUnknownSuite
	}
	if err := s.unlocks.Require(ctx, profileID, domain.ProductForSuite(suite)); err != nil {
		return domain.Progress{}, err
	}

	now := s.clock.Now()
	if rec, ok := s.record(ctx, profileID, suite); ok {
		return progress.Snapshot(suite, rec, now), nil
	}

	// the archetype is informational; a profile may enroll before the quiz
	archetype, _ := storedArchetype(ctx, s.store, profileID)
	rec := progress.Enroll(archetype, now)
	if err := s.save(ctx, profileID, suite, rec); err != nil {
		return domain.Progress{}, err
	}
	zap.L().Info("suite enrolled", zap.String("profile", profileID), zap.String("suite", string(suite)))
	return progress.Snapshot(suite, rec, now), nil
}

// RecordSession applies one completed session. The flag reports whether it
// was the first qualifying completion of the day.
func (s *TrackerService) RecordSession(ctx context.Context, profileID string, suite domain.SuiteID) (domain.Progress, bool, error) {
	if !suite.Valid() {
		return domain.Progress{}, false, domain.ErrUnknownSuite
	}
	rec, ok := s.record(ctx, profileID, suite)
	if !ok {
		return domain.Progress{}, false, domain.ErrNotEnrolled
	}
	now := s.clock.Now()
	rec, first := progress.RecordSession(rec, now)
	if err := s.save(ctx, profileID, suite, rec); err != nil {
		return domain.Progress{}, false, err
	}
	return progress.Snapshot(suite, rec, now), first, nil
}

// Progress returns the read model; a missing record yields neutral progress.
func (s *TrackerService) Progress(ctx context.Context, profileID string, suite domain.SuiteID) (domain.Progress, error) {
	if !suite.Valid() {
		return domain.Progress{}, domain.ErrUnknownSuite
	}
	rec, _ := s.record(ctx, profileID, suite)
	return progress.Snapshot(suite, rec, s.clock.Now()), nil
}

// Record returns the raw record of suite, if any.
func (s *TrackerService) Record(ctx context.Context, profileID string, suite domain.SuiteID) (domain.ChallengeRecord, bool) {
	return s.record(ctx, profileID, suite)
}

func (s *TrackerService) record(ctx context.Context, profileID string, suite domain.SuiteID) (domain.ChallengeRecord, bool) {
	rec := kvstore.LoadJSON(ctx, scoped(s.store, profileID), challengeKey(suite), domain.ChallengeRecord{})
	return rec, rec.Enrolled
}

func (s *TrackerService) save(ctx context.Context, profileID string, suite domain.SuiteID, rec domain.ChallengeRecord) error {
	return kvstore.SaveJSON(ctx, scoped(s.store, profileID), challengeKey(suite), rec)
}

// saveBaseline records the first run's per-game scores; later runs leave them.
func (s *TrackerService) saveBaseline(ctx context.Context, profileID string, suite domain.SuiteID, results []domain.ChallengeResult) error {
	rec, ok := s.record(ctx, profileID, suite)
	if !ok || len(rec.BaselineScores) > 0 {
		return nil
	}
	rec.BaselineScores = make(map[string]int, len(results))
	for _, r := range results {
		rec.BaselineScores[r.Label] = r.Points
	}
	return s.save(ctx, profileID, suite, rec)
}
