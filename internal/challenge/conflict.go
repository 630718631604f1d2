package challenge

import (
	"math/rand"
	"time"

	"archetype-quiz-service/internal/content"
	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/scheduler"
	"archetype-quiz-service/internal/scoring"
)

// ConflictState is the client view of the color-word test.
type ConflictState struct {
	Phase     Phase    `json:"phase"`
	Word      string   `json:"word,omitempty"`
	Ink       string   `json:"ink,omitempty"`
	Options   []string `json:"options"`
	Trial     int      `json:"trial"`
	Trials    int      `json:"trials"`
	Remaining int      `json:"remainingSeconds"`
	Score     int      `json:"score"`
}

// Conflict shows a color word printed in a possibly different ink color; the
// player must name the ink. The run ends after a fixed number of trials or
// when the countdown reaches zero, whichever comes first.
type Conflict struct {
	base
	timers    *scheduler.Group
	rng       *rand.Rand
	total     int
	remaining int
	presented int
	word      string
	ink       string
	shownAt   time.Time
}

func NewConflict(s scheduler.Scheduler, rng *rand.Rand, p content.Preset) *Conflict {
	return &Conflict{
		base:      base{name: "Color Conflict", phase: PhaseReady},
		timers:    scheduler.NewGroup(s),
		rng:       rng,
		total:     p.ConflictTrials,
		remaining: p.ConflictSeconds,
	}
}

func (c *Conflict) Start() {
	if c.phase != PhaseReady {
		return
	}
	c.phase = PhasePresenting
	c.timers.Every(time.Second, c.tick)
	c.present()
}

func (c *Conflict) Stop() { c.timers.Stop() }

func (c *Conflict) tick() {
	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		c.end()
	}
}

func (c *Conflict) present() {
	if c.presented >= c.total {
		c.end()
		return
	}
	c.word = content.Colors[c.rng.Intn(len(content.Colors))]
	c.ink = c.word
	// three in four trials are incongruent
	if c.rng.Intn(4) != 0 {
		for c.ink == c.word {
			c.ink = content.Colors[c.rng.Intn(len(content.Colors))]
		}
	}
	c.presented++
	c.shownAt = c.timers.Now()
	c.phase = PhaseAwaiting
}

// Answer names the ink color of the current stimulus.
func (c *Conflict) Answer(color string) (Trial, error) {
	if c.phase != PhaseAwaiting {
		return Trial{}, ErrNotAwaiting
	}
	rt := c.timers.Now().Sub(c.shownAt)
	correct := color == c.ink
	tr := Trial{Correct: correct, Points: scoring.Conflict(correct, rt), ReactionMS: millis(rt)}
	c.score += tr.Points
	tr = c.record(tr)
	c.phase = PhaseFeedback
	c.timers.After(FeedbackDelay, c.present)
	return tr, nil
}

func (c *Conflict) Handle(in Input) (Trial, error) {
	if in.Action != ActionAnswer {
		return Trial{}, ErrUnsupportedInput
	}
	if in.Choice < 0 || in.Choice >= len(content.Colors) {
		return Trial{}, ErrUnsupportedInput
	}
	return c.Answer(content.Colors[in.Choice])
}

func (c *Conflict) end() {
	c.timers.Stop()
	c.finish()
}

// Current returns the stimulus on screen.
func (c *Conflict) Current() (word, ink string) { return c.word, c.ink }

// Remaining returns the seconds left on the countdown.
func (c *Conflict) Remaining() int { return c.remaining }

func (c *Conflict) Snapshot() any {
	st := ConflictState{
		Phase:     c.phase,
		Options:   content.Colors,
		Trial:     c.presented,
		Trials:    c.total,
		Remaining: c.remaining,
		Score:     c.score,
	}
	if c.phase == PhaseAwaiting {
		st.Word, st.Ink = c.word, c.ink
	}
	return st
}

func (c *Conflict) Result() domain.ChallengeResult { return c.result() }
