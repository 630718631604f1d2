package app

import (
	"context"
	"fmt"

	"archetype-quiz-service/internal/content"
	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/kvstore"
	"archetype-quiz-service/internal/scoring"
)

// AssessmentService scores quiz submissions and serves the resulting profile.
type AssessmentService struct {
	store   kvstore.Store
	unlocks *UnlockService
}

func NewAssessmentService(store kvstore.Store, unlocks *UnlockService) *AssessmentService {
	return &AssessmentService{store: store, unlocks: unlocks}
}

// Submit validates one selection per question, computes the archetype and
// stores it together with the visual preference.
func (s *AssessmentService) Submit(ctx context.Context, profileID string, sub domain.QuizSubmission) (domain.QuizOutcome, error) {
	questions := content.Questions()
	if len(sub.Selections) != len(questions) {
		return domain.QuizOutcome{}, domain.ErrIncompleteQuiz
	}

	answers := make([]domain.ArchetypeCode, 0, content.ScoredQuestions)
	preference := ""
	for i, q := range questions {
		idx := sub.Selections[i]
		if idx < 0 || idx >= len(q.Options) {
			return domain.QuizOutcome{}, fmt.Errorf("question %s: %w", q.ID, domain.ErrOptionNotFound)
		}
		opt := q.Options[idx]
		if q.Scored {
			answers = append(answers, opt.Category)
		} else if opt.Preference != "" {
			preference = opt.Preference
		}
	}

	outcome := domain.QuizOutcome{
		Archetype:        scoring.Archetype(answers),
		VisualPreference: preference,
		Tally:            scoring.Tally(answers),
	}
	keys := scoped(s.store, profileID)
	if err := kvstore.SaveJSON(ctx, keys, keyArchetype, outcome.Archetype); err != nil {
		return domain.QuizOutcome{}, err
	}
	if err := kvstore.SaveJSON(ctx, keys, keyVisualPreference, outcome.VisualPreference); err != nil {
		return domain.QuizOutcome{}, err
	}
	return outcome, nil
}

// Archetype returns the stored archetype or domain.ErrNoArchetype.
func (s *AssessmentService) Archetype(ctx context.Context, profileID string) (domain.ArchetypeCode, error) {
	return storedArchetype(ctx, s.store, profileID)
}

// AssessmentResult is what a profile may see of its archetype. Locked
// profiles only get the teaser.
type AssessmentResult struct {
	Archetype        content.Archetype `json:"archetype"`
	VisualPreference string            `json:"visualPreference,omitempty"`
	Locked           bool              `json:"locked"`
}

func (s *AssessmentService) Result(ctx context.Context, profileID string) (AssessmentResult, error) {
	code, err := s.Archetype(ctx, profileID)
	if err != nil {
		return AssessmentResult{}, err
	}
	full, _ := content.ArchetypeFor(code)
	res := AssessmentResult{
		Archetype:        full,
		VisualPreference: kvstore.LoadJSON(ctx, scoped(s.store, profileID), keyVisualPreference, ""),
	}
	if err := s.unlocks.Require(ctx, profileID, domain.ProductReport); err != nil {
		res.Locked = true
		res.Archetype = content.Archetype{
			Code:    full.Code,
			Name:    full.Name,
			Tagline: full.Tagline,
			Teaser:  full.Teaser,
		}
	}
	return res, nil
}

func storedArchetype(ctx context.Context, store kvstore.Store, profileID string) (domain.ArchetypeCode, error) {
	code := kvstore.LoadJSON(ctx, scoped(store, profileID), keyArchetype, domain.ArchetypeCode(""))
	if !code.Valid() {
		return "", domain.ErrNoArchetype
	}
	return code, nil
}
