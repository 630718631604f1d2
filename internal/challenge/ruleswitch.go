package challenge

import (
	"math/rand"
	"time"

	"archetype-quiz-service/internal/content"
	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/scheduler"
	"archetype-quiz-service/internal/scoring"
)

// Rule is the active sorting dimension.
type Rule string

const (
	RuleShape Rule = "shape"
	RuleColor Rule = "color"
)

// Card is a shape+color pairing.
type Card struct {
	Shape string `json:"shape"`
	Color string `json:"color"`
}

// RuleSwitchState is the client view of the rule-switching test. The active
// rule is deliberately absent.
type RuleSwitchState struct {
	Phase    Phase   `json:"phase"`
	Targets  [2]Card `json:"targets"`
	Stimulus Card    `json:"stimulus"`
	Item     int     `json:"item"`
	Items    int     `json:"items"`
	Score    int     `json:"score"`
}

// RuleSwitch asks the player to sort each stimulus onto one of two reference
// cards, by shape or by color. The rule flips every SwitchEvery items
// without warning.
type RuleSwitch struct {
	base
	timers   *scheduler.Group
	rng      *rand.Rand
	targets  [2]Card
	items    int
	every    int
	item     int
	stimulus Card
	answer   int
	shownAt  time.Time
}

func NewRuleSwitch(s scheduler.Scheduler, rng *rand.Rand, p content.Preset) *RuleSwitch {
	shapes := rng.Perm(len(content.Shapes))
	colors := rng.Perm(len(content.Colors))
	return &RuleSwitch{
		base:   base{name: "Rule Switch", phase: PhaseReady},
		timers: scheduler.NewGroup(s),
		rng:    rng,
		targets: [2]Card{
			{Shape: content.Shapes[shapes[0]], Color: content.Colors[colors[0]]},
			{Shape: content.Shapes[shapes[1]], Color: content.Colors[colors[1]]},
		},
		items: p.SwitchItems,
		every: max(1, p.SwitchEvery),
	}
}

// RuleAt returns the rule governing item i.
func (rs *RuleSwitch) RuleAt(i int) Rule {
	if (i/rs.every)%2 == 0 {
		return RuleShape
	}
	return RuleColor
}

func (rs *RuleSwitch) Start() {
	if rs.phase != PhaseReady {
		return
	}
	rs.present(0)
}

func (rs *RuleSwitch) Stop() { rs.timers.Stop() }

func (rs *RuleSwitch) present(i int) {
	if i >= rs.items {
		rs.timers.Stop()
		rs.finish()
		return
	}
	rs.item = i
	// the stimulus shares its shape with one target and its color with the other
	byShape := rs.rng.Intn(2)
	rs.stimulus = Card{Shape: rs.targets[byShape].Shape, Color: rs.targets[1-byShape].Color}
	if rs.RuleAt(i) == RuleShape {
		rs.answer = byShape
	} else {
		rs.answer = 1 - byShape
	}
	rs.shownAt = rs.timers.Now()
	rs.phase = PhaseAwaiting
}

// Answer sorts the current stimulus onto target 0 or 1.
func (rs *RuleSwitch) Answer(target int) (Trial, error) {
	if rs.phase != PhaseAwaiting {
		return Trial{}, ErrNotAwaiting
	}
	if target != 0 && target != 1 {
		return Trial{}, ErrUnsupportedInput
	}
	correct := target == rs.answer
	rt := rs.timers.Now().Sub(rs.shownAt)
	tr := rs.record(Trial{Correct: correct, Points: scoring.RuleSwitch(correct), ReactionMS: millis(rt)})
	rs.score += tr.Points
	rs.phase = PhaseFeedback
	next := rs.item + 1
	rs.timers.After(FeedbackDelay, func() { rs.present(next) })
	return tr, nil
}

func (rs *RuleSwitch) Handle(in Input) (Trial, error) {
	if in.Action != ActionAnswer {
		return Trial{}, ErrUnsupportedInput
	}
	return rs.Answer(in.Choice)
}

// Expected returns the correct target for the stimulus on screen.
func (rs *RuleSwitch) Expected() int { return rs.answer }

// Current returns the stimulus on screen.
func (rs *RuleSwitch) Current() Card { return rs.stimulus }

// Targets returns the two reference cards.
func (rs *RuleSwitch) Targets() [2]Card { return rs.targets }

func (rs *RuleSwitch) Snapshot() any {
	return RuleSwitchState{
		Phase:    rs.phase,
		Targets:  rs.targets,
		Stimulus: rs.stimulus,
		Item:     rs.item,
		Items:    rs.items,
		Score:    rs.score,
	}
}

func (rs *RuleSwitch) Result() domain.ChallengeResult { return rs.result() }
