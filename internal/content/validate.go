package content

import (
	"fmt"

	"archetype-quiz-service/internal/domain"
)

// ScoredQuestions is the number of questions that count toward the archetype.
const ScoredQuestions = 10

// Validate checks the static tables for internal consistency. It is run once
// at startup so a malformed table fails fast instead of at request time.
func Validate() error {
	for _, code := range domain.ArchetypeOrder {
		a, ok := archetypes[code]
		if !ok {
			return fmt.Errorf("archetype %s: missing description", code)
		}
		if a.Name == "" || len(a.Strengths) == 0 || len(a.BlindSpots) == 0 || len(a.Strategies) == 0 {
			return fmt.Errorf("archetype %s: incomplete description", code)
		}
	}

	scoredCount := 0
	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		if seen[q.ID] {
			return fmt.Errorf("question %s: duplicate id", q.ID)
		}
		seen[q.ID] = true
		if len(q.Options) != 4 {
			return fmt.Errorf("question %s: expected 4 options, got %d", q.ID, len(q.Options))
		}
		if !q.Scored {
			continue
		}
		scoredCount++
		cats := make(map[domain.ArchetypeCode]bool)
		for _, opt := range q.Options {
			if !opt.Category.Valid() {
				return fmt.Errorf("question %s: invalid category %q", q.ID, opt.Category)
			}
			cats[opt.Category] = true
		}
		if len(cats) != len(domain.ArchetypeOrder) {
			return fmt.Errorf("question %s: options must cover every archetype", q.ID)
		}
	}
	if scoredCount != ScoredQuestions {
		return fmt.Errorf("expected %d scored questions, got %d", ScoredQuestions, scoredCount)
	}

	for _, p := range puzzles {
		if p.Missing < 0 || p.Missing > 8 || p.Grid[p.Missing] != "" {
			return fmt.Errorf("puzzle %s: missing cell must be blank", p.ID)
		}
		if p.Answer < 0 || p.Answer >= len(p.Options) {
			return fmt.Errorf("puzzle %s: answer out of range", p.ID)
		}
		if p.Rule == "" {
			return fmt.Errorf("puzzle %s: missing rule", p.ID)
		}
	}

	for d, p := range presets {
		if p.PatternPuzzles > len(puzzles) {
			return fmt.Errorf("preset %s: %d puzzles requested, bank has %d", d, p.PatternPuzzles, len(puzzles))
		}
		if p.PatternHints < 0 || p.PatternHints > 2 {
			return fmt.Errorf("preset %s: hints must be 0-2", d)
		}
		if p.NBackLength <= p.NBackN {
			return fmt.Errorf("preset %s: n-back sequence shorter than n", d)
		}
		if p.ReactionMaxDelay < p.ReactionMinDelay {
			return fmt.Errorf("preset %s: reaction delay window inverted", d)
		}
		if p.SwitchEvery <= 0 {
			return fmt.Errorf("preset %s: switch interval must be positive", d)
		}
	}
	return nil
}
