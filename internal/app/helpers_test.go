package app_test

import (
	"context"
	"testing"
	"time"

	"archetype-quiz-service/internal/app"
	"archetype-quiz-service/internal/clock"
	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/infra/memory"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func (c *fakeClock) nextDay() { c.now = c.now.AddDate(0, 0, 1) }

var _ clock.Clock = (*fakeClock)(nil)

type fixture struct {
	ctx     context.Context
	clock   *fakeClock
	store   *memory.Store
	svc     *app.Services
	profile string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:   context.Background(),
		clock: &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)},
		store: memory.NewStore(),
	}
	f.svc = app.New(f.store, app.Options{
		Clock: f.clock,
		PaymentURLs: map[domain.Product]string{
			domain.ProductReport:  "https://pay.example.com/report",
			domain.ProductBrain:   "https://pay.example.com/brain",
			domain.ProductQuantum: "https://pay.example.com/quantum",
		},
	})
	p, err := f.svc.Profiles.Create(f.ctx)
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	f.profile = p.ID
	return f
}

func (f *fixture) unlock(t *testing.T, products ...domain.Product) {
	t.Helper()
	for _, p := range products {
		if _, err := f.svc.Unlocks.CompletePurchase(f.ctx, f.profile, p); err != nil {
			t.Fatalf("purchase %s: %v", p, err)
		}
	}
}

// selections answers every scored question with option idx.
func selections(idx int) domain.QuizSubmission {
	sel := make([]int, 11)
	for i := range sel {
		sel[i] = idx
	}
	return domain.QuizSubmission{Selections: sel}
}
