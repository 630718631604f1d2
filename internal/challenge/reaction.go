package challenge

import (
	"math/rand"
	"time"

	"archetype-quiz-service/internal/content"
	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/scheduler"
	"archetype-quiz-service/internal/scoring"
)

// ReactionState is the client view of the reaction-latency test.
type ReactionState struct {
	Phase   Phase `json:"phase"`
	Trial   int   `json:"trial"`
	Trials  int   `json:"trials"`
	Visible bool  `json:"visible"`
	Score   int   `json:"score"`
}

// Reaction waits a random delay, shows a stimulus and times the tap.
// Tapping before the stimulus is a false start.
type Reaction struct {
	base
	timers   *scheduler.Group
	rng      *rand.Rand
	total    int
	minDelay time.Duration
	maxDelay time.Duration
	pending  scheduler.Timer
	shownAt  time.Time
}

func NewReaction(s scheduler.Scheduler, rng *rand.Rand, p content.Preset) *Reaction {
	return &Reaction{
		base:     base{name: "Reaction Time", phase: PhaseReady},
		timers:   scheduler.NewGroup(s),
		rng:      rng,
		total:    p.ReactionTrials,
		minDelay: p.ReactionMinDelay,
		maxDelay: p.ReactionMaxDelay,
	}
}

func (r *Reaction) Start() {
	if r.phase != PhaseReady {
		return
	}
	r.arm()
}

func (r *Reaction) Stop() { r.timers.Stop() }

func (r *Reaction) arm() {
	if len(r.trials) >= r.total {
		r.timers.Stop()
		r.finish()
		return
	}
	delay := r.minDelay
	if window := r.maxDelay - r.minDelay; window > 0 {
		delay += time.Duration(r.rng.Int63n(int64(window) + 1))
	}
	r.phase = PhaseWaiting
	r.pending = r.timers.After(delay, r.show)
}

func (r *Reaction) show() {
	r.pending = nil
	r.shownAt = r.timers.Now()
	r.phase = PhaseAwaiting
}

// Tap registers the player's response for the current trial.
func (r *Reaction) Tap() (Trial, error) {
	var tr Trial
	switch r.phase {
	case PhaseWaiting:
		if r.pending != nil {
			r.pending.Cancel()
			r.pending = nil
		}
		tr = Trial{Note: "false start"}
	case PhaseAwaiting:
		rt := r.timers.Now().Sub(r.shownAt)
		tr = Trial{Correct: true, Points: scoring.Reaction(rt), ReactionMS: millis(rt)}
	default:
		return Trial{}, ErrNotAwaiting
	}
	r.score += tr.Points
	tr = r.record(tr)
	r.phase = PhaseFeedback
	r.timers.After(FeedbackDelay, r.arm)
	return tr, nil
}

func (r *Reaction) Handle(in Input) (Trial, error) {
	if in.Action != ActionTap {
		return Trial{}, ErrUnsupportedInput
	}
	return r.Tap()
}

func (r *Reaction) Snapshot() any {
	return ReactionState{
		Phase:   r.phase,
		Trial:   len(r.trials),
		Trials:  r.total,
		Visible: r.phase == PhaseAwaiting,
		Score:   r.score,
	}
}

func (r *Reaction) Result() domain.ChallengeResult { return r.result() }
