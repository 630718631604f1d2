// Package challenge implements the timed mini-game state machines. Each
// machine owns a scheduler.Group, accepts exactly one qualifying input per
// trial and reports a domain.ChallengeResult once it reaches PhaseDone.
package challenge

import (
	"errors"
	"time"

	"archetype-quiz-service/internal/domain"
	"github.com/montanaflynn/stats"
)

// FeedbackDelay is how long a scored trial stays in PhaseFeedback.
const FeedbackDelay = 400 * time.Millisecond

var (
	// ErrNotAwaiting is returned for input outside the response window.
	ErrNotAwaiting = errors.New("challenge is not awaiting a response")
	// ErrTooEarly is returned for an n-back match before n stimuli were shown.
	ErrTooEarly = errors.New("match not available yet")
	// ErrNoHints is returned when the hint allowance is exhausted.
	ErrNoHints = errors.New("no hints left")
	// ErrUnsupportedInput is returned for inputs a challenge does not understand.
	ErrUnsupportedInput = errors.New("unsupported input")
)

// Phase is the state of a challenge.
type Phase string

const (
	PhaseReady      Phase = "ready"
	PhasePresenting Phase = "presenting"
	PhaseWaiting    Phase = "waiting"
	PhaseAwaiting   Phase = "awaiting"
	PhaseFeedback   Phase = "feedback"
	PhasePlaying    Phase = "playing"
	PhasePaused     Phase = "paused"
	PhaseDone       Phase = "done"
)

// Input is a transport-neutral user action.
type Input struct {
	Action string `json:"action"`
	Choice int    `json:"choice"`
}

// Input actions.
const (
	ActionAnswer = "answer"
	ActionMatch  = "match"
	ActionTap    = "tap"
	ActionHint   = "hint"
	ActionMove   = "move"
	ActionFire   = "fire"
)

// Trial is the log entry of one stimulus-response cycle.
type Trial struct {
	Index      int    `json:"index"`
	Correct    bool   `json:"correct"`
	Points     int    `json:"points"`
	ReactionMS *int   `json:"reactionMs,omitempty"`
	Note       string `json:"note,omitempty"`
}

// Challenge is the common surface of every mini-game.
type Challenge interface {
	Name() string
	Start()
	Stop()
	Phase() Phase
	Score() int
	Handle(in Input) (Trial, error)
	Snapshot() any
	Result() domain.ChallengeResult
	// OnDone registers a callback fired once when the challenge finishes.
	OnDone(fn func())
}

// base carries the bookkeeping shared by every machine.
type base struct {
	name   string
	phase  Phase
	score  int
	trials []Trial
	onDone func()
}

func (b *base) Name() string     { return b.name }
func (b *base) Phase() Phase     { return b.phase }
func (b *base) Score() int       { return b.score }
func (b *base) OnDone(fn func()) { b.onDone = fn }

// Trials returns a copy of the trial log.
func (b *base) Trials() []Trial {
	return append([]Trial(nil), b.trials...)
}

func (b *base) record(tr Trial) Trial {
	tr.Index = len(b.trials)
	b.trials = append(b.trials, tr)
	return tr
}

func (b *base) finish() {
	if b.phase == PhaseDone {
		return
	}
	b.phase = PhaseDone
	if b.onDone != nil {
		b.onDone()
	}
}

// result summarizes the trial log: mean latency over trials with a latency
// sample and accuracy over scored trials.
func (b *base) result() domain.ChallengeResult {
	res := domain.ChallengeResult{Label: b.name, Points: b.score}
	var latencies []float64
	correct := 0
	for _, tr := range b.trials {
		if tr.ReactionMS != nil {
			latencies = append(latencies, float64(*tr.ReactionMS))
		}
		if tr.Correct {
			correct++
		}
	}
	if mean, err := stats.Mean(latencies); err == nil {
		ms := int(mean + 0.5)
		res.ReactionMS = &ms
	}
	if len(b.trials) > 0 {
		acc := float64(correct) / float64(len(b.trials))
		res.Accuracy = &acc
	}
	return res
}

func millis(d time.Duration) *int {
	ms := int(d / time.Millisecond)
	return &ms
}
