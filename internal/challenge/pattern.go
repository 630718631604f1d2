package challenge

import (
	"math/rand"
	"time"

	"archetype-quiz-service/internal/content"
	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/scheduler"
	"archetype-quiz-service/internal/scoring"
)

// PatternState is the client view of the pattern-completion test.
type PatternState struct {
	Phase     Phase          `json:"phase"`
	Puzzle    content.Puzzle `json:"puzzle"`
	Index     int            `json:"index"`
	Count     int            `json:"count"`
	HintsLeft int            `json:"hintsLeft"`
	Hint      string         `json:"hint,omitempty"`
	Score     int            `json:"score"`
}

// Pattern presents grid puzzles with one missing cell and four candidates.
type Pattern struct {
	base
	timers    *scheduler.Group
	puzzles   []content.Puzzle
	idx       int
	hintsLeft int
	hinted    bool
	shownAt   time.Time
}

func NewPattern(s scheduler.Scheduler, rng *rand.Rand, p content.Preset) *Pattern {
	bank := content.Puzzles()
	rng.Shuffle(len(bank), func(i, j int) { bank[i], bank[j] = bank[j], bank[i] })
	count := min(p.PatternPuzzles, len(bank))
	return &Pattern{
		base:      base{name: "Pattern Logic", phase: PhaseReady},
		timers:    scheduler.NewGroup(s),
		puzzles:   bank[:count],
		hintsLeft: p.PatternHints,
	}
}

func (pt *Pattern) Start() {
	if pt.phase != PhaseReady {
		return
	}
	pt.present(0)
}

func (pt *Pattern) Stop() { pt.timers.Stop() }

func (pt *Pattern) present(i int) {
	if i >= len(pt.puzzles) {
		pt.timers.Stop()
		pt.finish()
		return
	}
	pt.idx = i
	pt.hinted = false
	pt.shownAt = pt.timers.Now()
	pt.phase = PhaseAwaiting
}

// Hint reveals the rule behind the current puzzle. Asking again for the same
// puzzle does not consume another hint.
func (pt *Pattern) Hint() (string, error) {
	if pt.phase != PhaseAwaiting {
		return "", ErrNotAwaiting
	}
	if !pt.hinted {
		if pt.hintsLeft <= 0 {
			return "", ErrNoHints
		}
		pt.hintsLeft--
		pt.hinted = true
	}
	return pt.puzzles[pt.idx].Rule, nil
}

// Choose picks one of the four candidate fillers.
func (pt *Pattern) Choose(option int) (Trial, error) {
	if pt.phase != PhaseAwaiting {
		return Trial{}, ErrNotAwaiting
	}
	if option < 0 || option >= len(pt.puzzles[pt.idx].Options) {
		return Trial{}, ErrUnsupportedInput
	}
	correct := option == pt.puzzles[pt.idx].Answer
	rt := pt.timers.Now().Sub(pt.shownAt)
	tr := Trial{Correct: correct, Points: scoring.Pattern(correct, pt.hinted), ReactionMS: millis(rt)}
	if pt.hinted {
		tr.Note = "hint used"
	}
	pt.score += tr.Points
	tr = pt.record(tr)
	pt.phase = PhaseFeedback
	next := pt.idx + 1
	pt.timers.After(FeedbackDelay, func() { pt.present(next) })
	return tr, nil
}

func (pt *Pattern) Handle(in Input) (Trial, error) {
	switch in.Action {
	case ActionAnswer:
		return pt.Choose(in.Choice)
	case ActionHint:
		rule, err := pt.Hint()
		if err != nil {
			return Trial{}, err
		}
		return Trial{Index: len(pt.trials), Note: rule}, nil
	default:
		return Trial{}, ErrUnsupportedInput
	}
}

// Current returns the puzzle on screen.
func (pt *Pattern) Current() content.Puzzle { return pt.puzzles[pt.idx] }

func (pt *Pattern) Snapshot() any {
	st := PatternState{
		Phase:     pt.phase,
		Index:     pt.idx,
		Count:     len(pt.puzzles),
		HintsLeft: pt.hintsLeft,
		Score:     pt.score,
	}
	if pt.phase != PhaseReady && pt.idx < len(pt.puzzles) {
		st.Puzzle = pt.puzzles[pt.idx]
		if pt.hinted {
			st.Hint = pt.puzzles[pt.idx].Rule
		}
	}
	return st
}

func (pt *Pattern) Result() domain.ChallengeResult { return pt.result() }
