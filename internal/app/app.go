// Package app holds the use cases of the archetype service: profiles, the
// quiz, simulated purchases, the 21-day tracker, suite runs, the wellness
// checklist and live play sessions.
package app

import (
	"context"
	"time"

	"archetype-quiz-service/internal/clock"
	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/kvstore"
)

// Persisted keys, relative to a profile's prefix.
const (
	keyCreated          = "created"
	keyUnlocks          = "unlocks"
	keyDelivery         = "delivery"
	keyArchetype        = "archetype"
	keyVisualPreference = "visual_preference"
)

func challengeKey(suite domain.SuiteID) string { return "challenge:" + string(suite) }
func statsKey(suite domain.SuiteID) string { return "stats:" + string(suite) }
func checklistKey(date string) string { return "checklist:" + date }

// DefaultConfirmWait is the mandatory delay before a delivery can be confirmed.
const DefaultConfirmWait = 5 * time.Second

// Options configures the services.
type Options struct {
	Clock       clock.Clock
	PaymentURLs map[domain.Product]string
	ConfirmWait time.Duration
}

// Services bundles every use case over one store.
type Services struct {
	Profiles   *ProfileService
	Assessment *AssessmentService
	Unlocks    *UnlockService
	Tracker    *TrackerService
	Training   *TrainingService
	Checklist  *ChecklistService
	Export     *ExportService
}

func New(store kvstore.Store, opts Options) *Services {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.ConfirmWait <= 0 {
		opts.ConfirmWait = DefaultConfirmWait
	}

	profiles := NewProfileService(store, opts.Clock)
	unlocks := NewUnlockService(store, opts.Clock, opts.PaymentURLs, opts.ConfirmWait)
	tracker := NewTrackerService(store, opts.Clock, unlocks)
	svc := &Services{
		Profiles:   profiles,
		Assessment: NewAssessmentService(store, unlocks),
		Unlocks:    unlocks,
		Tracker:    tracker,
		Training:   NewTrainingService(store, opts.Clock, tracker),
		Checklist:  NewChecklistService(store, opts.Clock, unlocks, tracker),
	}
	svc.Export = NewExportService(svc)
	return svc
}

func scoped(store kvstore.Store, profileID string) kvstore.Store {
	return kvstore.ProfileKeys(store, profileID)
}

// ProfileService creates and looks up anonymous profiles.
type ProfileService struct {
	store kvstore.Store
	clock clock.Clock
	newID func() string
}

func NewProfileService(store kvstore.Store, c clock.Clock) *ProfileService {
	return &ProfileService{store: store, clock: c, newID: newID}
}

// Create registers a fresh profile.
func (s *ProfileService) Create(ctx context.Context) (domain.Profile, error) {
	p := domain.Profile{ID: s.newID(), CreatedAt: s.clock.Now()}
	if err := kvstore.SaveJSON(ctx, scoped(s.store, p.ID), keyCreated, p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

// Get returns the profile or domain.ErrProfileNotFound.
func (s *ProfileService) Get(ctx context.Context, id string) (domain.Profile, error) {
	if id == "" {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	p := kvstore.LoadJSON(ctx, scoped(s.store, id), keyCreated, domain.Profile{})
	if p.ID != id {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	return p, nil
}
