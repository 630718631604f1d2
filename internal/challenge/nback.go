package challenge

import (
	"math/rand"
	"time"

	"archetype-quiz-service/internal/content"
	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/scheduler"
	"archetype-quiz-service/internal/scoring"
)

// GridCells is the number of positions a stimulus can occupy.
const GridCells = 9

// NBackState is the client view of the position-memory test.
type NBackState struct {
	Phase    Phase `json:"phase"`
	N        int   `json:"n"`
	Index    int   `json:"index"`
	Length   int   `json:"length"`
	Position int   `json:"position"`
	CanMatch bool  `json:"canMatch"`
	Score    int   `json:"score"`
}

// NBack flashes positions on a 3x3 grid; the player signals when the current
// position equals the one shown n steps earlier.
type NBack struct {
	base
	timers    *scheduler.Group
	n         int
	seq       []int
	idx       int
	visible   bool
	responded bool
	display   time.Duration
	gap       time.Duration
	shownAt   time.Time
}

func NewNBack(s scheduler.Scheduler, rng *rand.Rand, p content.Preset) *NBack {
	return &NBack{
		base:    base{name: "Position Memory", phase: PhaseReady},
		timers:  scheduler.NewGroup(s),
		n:       p.NBackN,
		seq:     nbackSequence(rng, p.NBackN, p.NBackLength),
		idx:     -1,
		display: p.NBackDisplay,
		gap:     p.NBackGap,
	}
}

// nbackSequence builds positions where roughly 30% of eligible steps repeat
// the position n back.
func nbackSequence(rng *rand.Rand, n, length int) []int {
	seq := make([]int, length)
	for i := range seq {
		if i >= n && rng.Intn(10) < 3 {
			seq[i] = seq[i-n]
			continue
		}
		seq[i] = rng.Intn(GridCells)
		for i >= n && seq[i] == seq[i-n] {
			seq[i] = rng.Intn(GridCells)
		}
	}
	return seq
}

func (nb *NBack) Start() {
	if nb.phase != PhaseReady {
		return
	}
	nb.show(0)
}

func (nb *NBack) Stop() { nb.timers.Stop() }

func (nb *NBack) show(i int) {
	nb.idx = i
	nb.visible = true
	nb.responded = false
	nb.shownAt = nb.timers.Now()
	if i >= nb.n {
		nb.phase = PhaseAwaiting
	} else {
		nb.phase = PhasePresenting
	}
	nb.timers.After(nb.display, func() {
		nb.visible = false
		nb.timers.After(nb.gap, nb.closeWindow)
	})
}

func (nb *NBack) closeWindow() {
	if nb.idx >= nb.n && !nb.responded {
		// silence is correct unless this was a match; a miss costs nothing
		nb.record(Trial{Correct: !nb.isMatch(), Note: "no response"})
	}
	if nb.idx+1 >= len(nb.seq) {
		nb.timers.Stop()
		nb.finish()
		return
	}
	nb.show(nb.idx + 1)
}

func (nb *NBack) isMatch() bool {
	return nb.idx >= nb.n && nb.seq[nb.idx] == nb.seq[nb.idx-nb.n]
}

// Match signals that the current position repeats the one n steps back.
func (nb *NBack) Match() (Trial, error) {
	switch {
	case nb.phase == PhaseReady || nb.phase == PhaseDone:
		return Trial{}, ErrNotAwaiting
	case nb.idx < nb.n:
		return Trial{}, ErrTooEarly
	case nb.responded:
		return Trial{}, ErrNotAwaiting
	}
	nb.responded = true
	match := nb.isMatch()
	before := nb.score
	nb.score = scoring.NBack(nb.score, match)
	rt := nb.timers.Now().Sub(nb.shownAt)
	return nb.record(Trial{Correct: match, Points: nb.score - before, ReactionMS: millis(rt)}), nil
}

func (nb *NBack) Handle(in Input) (Trial, error) {
	if in.Action != ActionMatch {
		return Trial{}, ErrUnsupportedInput
	}
	return nb.Match()
}

// Sequence returns the generated positions.
func (nb *NBack) Sequence() []int { return append([]int(nil), nb.seq...) }

// Index returns the index of the current stimulus, -1 before start.
func (nb *NBack) Index() int { return nb.idx }

func (nb *NBack) Snapshot() any {
	st := NBackState{
		Phase:    nb.phase,
		N:        nb.n,
		Index:    nb.idx,
		Length:   len(nb.seq),
		Position: -1,
		CanMatch: nb.phase == PhaseAwaiting && !nb.responded,
		Score:    nb.score,
	}
	if nb.visible && nb.idx >= 0 {
		st.Position = nb.seq[nb.idx]
	}
	return st
}

func (nb *NBack) Result() domain.ChallengeResult { return nb.result() }
