// Package scoring holds the pure scoring formulas of the quiz and the
// timed challenges.
package scoring

import "archetype-quiz-service/internal/domain"

// Tally counts answers per archetype. Unknown codes are ignored.
func Tally(answers []domain.ArchetypeCode) map[domain.ArchetypeCode]int {
	counts := make(map[domain.ArchetypeCode]int, len(domain.ArchetypeOrder))
	for _, code := range domain.ArchetypeOrder {
		counts[code] = 0
	}
	for _, a := range answers {
		if a.Valid() {
			counts[a]++
		}
	}
	return counts
}

// Archetype returns the plurality category. Ties go to the category that
// comes first in domain.ArchetypeOrder; an empty list yields the first one.
func Archetype(answers []domain.ArchetypeCode) domain.ArchetypeCode {
	counts := Tally(answers)
	best := domain.ArchetypeOrder[0]
	for _, code := range domain.ArchetypeOrder[1:] {
		if counts[code] > counts[best] {
			best = code
		}
	}
	return best
}
