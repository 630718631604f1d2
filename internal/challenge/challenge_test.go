package challenge

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"archetype-quiz-service/internal/content"
	"archetype-quiz-service/internal/scheduler"
)

var epoch = time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)

func newSched() *scheduler.Virtual {
	return scheduler.NewVirtual(epoch)
}

func preset() content.Preset {
	return content.PresetFor(content.DifficultyNormal)
}

func colorIndex(t *testing.T, color string) int {
	t.Helper()
	for i, c := range content.Colors {
		if c == color {
			return i
		}
	}
	t.Fatalf("unknown color %s", color)
	return -1
}

func TestConflictCorrectAnswerAt200ms(t *testing.T) {
	s := newSched()
	c := NewConflict(s, rand.New(rand.NewSource(1)), preset())
	c.Start()

	s.Advance(200 * time.Millisecond)
	_, ink := c.Current()
	tr, err := c.Handle(Input{Action: ActionAnswer, Choice: colorIndex(t, ink)})
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if !tr.Correct || tr.Points != 26 || *tr.ReactionMS != 200 {
		t.Fatalf("expected 26 points at 200ms, got %+v", tr)
	}
	if c.Phase() != PhaseFeedback {
		t.Fatalf("expected feedback phase, got %s", c.Phase())
	}
	if _, err := c.Answer(ink); !errors.Is(err, ErrNotAwaiting) {
		t.Fatalf("second input in the same trial must be rejected, got %v", err)
	}
}

func TestConflictWrongAnswerScoresZero(t *testing.T) {
	s := newSched()
	c := NewConflict(s, rand.New(rand.NewSource(2)), preset())
	c.Start()
	_, ink := c.Current()
	wrong := content.Colors[(colorIndex(t, ink)+1)%len(content.Colors)]

	s.Advance(200 * time.Millisecond)
	tr, err := c.Answer(wrong)
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if tr.Correct || tr.Points != 0 || c.Score() != 0 {
		t.Fatalf("expected zero for a wrong answer, got %+v score=%d", tr, c.Score())
	}
}

func TestConflictEndsAfterTrialCount(t *testing.T) {
	s := newSched()
	p := preset()
	p.ConflictTrials = 3
	c := NewConflict(s, rand.New(rand.NewSource(3)), p)
	done := 0
	c.OnDone(func() { done++ })
	c.Start()

	for i := 0; i < 3; i++ {
		_, ink := c.Current()
		if _, err := c.Answer(ink); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		s.Advance(FeedbackDelay)
	}
	if c.Phase() != PhaseDone || done != 1 {
		t.Fatalf("expected done once, phase=%s done=%d", c.Phase(), done)
	}
	if s.Pending() != 0 {
		t.Fatalf("expected every timer cancelled, %d pending", s.Pending())
	}
	res := c.Result()
	if res.Points != c.Score() || res.Accuracy == nil || *res.Accuracy != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestConflictCountdownKeepsAnsweredTrial(t *testing.T) {
	s := newSched()
	p := preset()
	p.ConflictSeconds = 2
	c := NewConflict(s, rand.New(rand.NewSource(4)), p)
	c.Start()

	s.Advance(1900 * time.Millisecond)
	_, ink := c.Current()
	tr, err := c.Answer(ink)
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	s.Advance(200 * time.Millisecond)
	if c.Phase() != PhaseDone {
		t.Fatalf("expected countdown to end the run, got %s", c.Phase())
	}
	if c.Score() != tr.Points || len(c.Trials()) != 1 {
		t.Fatalf("answered trial must still count: score=%d trials=%d", c.Score(), len(c.Trials()))
	}
	if c.Remaining() != 0 {
		t.Fatalf("expected countdown at zero, got %d", c.Remaining())
	}
}

func TestNBackMatchRules(t *testing.T) {
	s := newSched()
	p := preset()
	nb := NewNBack(s, rand.New(rand.NewSource(5)), p)
	nb.Start()

	if _, err := nb.Match(); !errors.Is(err, ErrTooEarly) {
		t.Fatalf("expected ErrTooEarly on the first stimulus, got %v", err)
	}

	seq := nb.Sequence()
	step := p.NBackDisplay + p.NBackGap
	for nb.Phase() != PhaseDone {
		i := nb.Index()
		if i >= p.NBackN {
			before := nb.Score()
			tr, err := nb.Match()
			if err != nil {
				t.Fatalf("match at %d: %v", i, err)
			}
			isMatch := seq[i] == seq[i-p.NBackN]
			switch {
			case isMatch && nb.Score() != before+30:
				t.Fatalf("expected +30 on a true match at %d", i)
			case !isMatch && nb.Score() != max(0, before-5):
				t.Fatalf("expected -5 clamped on a false match at %d", i)
			}
			if tr.Correct != isMatch {
				t.Fatalf("trial correctness mismatch at %d", i)
			}
			if nb.Score() < 0 {
				t.Fatalf("score went negative")
			}
			if _, err := nb.Match(); !errors.Is(err, ErrNotAwaiting) {
				t.Fatalf("expected one response per stimulus, got %v", err)
			}
		}
		s.Advance(step)
	}
	if len(nb.Trials()) != len(seq)-p.NBackN {
		t.Fatalf("expected one trial per eligible stimulus, got %d", len(nb.Trials()))
	}
}

func TestNBackFalseMatchesNeverGoNegative(t *testing.T) {
	s := newSched()
	p := preset()
	nb := NewNBack(s, rand.New(rand.NewSource(6)), p)
	nb.seq = make([]int, p.NBackLength)
	for i := range nb.seq {
		nb.seq[i] = i % GridCells
	}
	nb.Start()
	for nb.Phase() != PhaseDone {
		if nb.Index() >= p.NBackN {
			tr, err := nb.Match()
			if err != nil {
				t.Fatalf("match: %v", err)
			}
			if tr.Correct || nb.Score() != 0 {
				t.Fatalf("expected clamped zero score on false matches, got %d", nb.Score())
			}
		}
		s.Advance(p.NBackDisplay + p.NBackGap)
	}
}

func TestNBackWithoutResponseCostsNothing(t *testing.T) {
	s := newSched()
	p := preset()
	nb := NewNBack(s, rand.New(rand.NewSource(7)), p)
	nb.Start()
	s.Advance(time.Duration(p.NBackLength) * (p.NBackDisplay + p.NBackGap))
	if nb.Phase() != PhaseDone || nb.Score() != 0 {
		t.Fatalf("expected finished run with zero score, phase=%s score=%d", nb.Phase(), nb.Score())
	}
}

func TestPatternScoringWithAndWithoutHints(t *testing.T) {
	s := newSched()
	p := preset()
	p.PatternPuzzles = 3
	p.PatternHints = 1
	pt := NewPattern(s, rand.New(rand.NewSource(8)), p)
	pt.Start()

	tr, err := pt.Choose(pt.Current().Answer)
	if err != nil || tr.Points != 35 {
		t.Fatalf("expected 35 without hint, got %+v %v", tr, err)
	}
	s.Advance(FeedbackDelay)

	rule, err := pt.Hint()
	if err != nil || rule != pt.Current().Rule {
		t.Fatalf("expected rule text, got %q %v", rule, err)
	}
	if _, err := pt.Hint(); err != nil {
		t.Fatalf("repeat hint on the same puzzle should be free, got %v", err)
	}
	tr, _ = pt.Choose(pt.Current().Answer)
	if tr.Points != 20 {
		t.Fatalf("expected 20 after hint, got %d", tr.Points)
	}
	s.Advance(FeedbackDelay)

	if _, err := pt.Hint(); !errors.Is(err, ErrNoHints) {
		t.Fatalf("expected hints exhausted, got %v", err)
	}
	wrong := (pt.Current().Answer + 1) % 4
	tr, _ = pt.Choose(wrong)
	if tr.Points != 0 || tr.Correct {
		t.Fatalf("expected 0 for a wrong choice, got %+v", tr)
	}
	s.Advance(FeedbackDelay)
	if pt.Phase() != PhaseDone || pt.Score() != 55 {
		t.Fatalf("expected done with 55 points, phase=%s score=%d", pt.Phase(), pt.Score())
	}
}

func TestPatternHardAllowsNoHints(t *testing.T) {
	s := newSched()
	pt := NewPattern(s, rand.New(rand.NewSource(9)), content.PresetFor(content.DifficultyHard))
	pt.Start()
	if _, err := pt.Handle(Input{Action: ActionHint}); !errors.Is(err, ErrNoHints) {
		t.Fatalf("expected no hints on hard, got %v", err)
	}
}

func TestReactionFalseStart(t *testing.T) {
	s := newSched()
	r := NewReaction(s, rand.New(rand.NewSource(10)), preset())
	r.Start()
	if r.Phase() != PhaseWaiting {
		t.Fatalf("expected waiting phase, got %s", r.Phase())
	}

	tr, err := r.Tap()
	if err != nil {
		t.Fatalf("tap: %v", err)
	}
	if tr.Points != 0 || tr.ReactionMS != nil || tr.Note != "false start" {
		t.Fatalf("expected false start without latency, got %+v", tr)
	}
	if res := r.Result(); res.ReactionMS != nil {
		t.Fatalf("false starts must not produce a latency sample, got %d", *res.ReactionMS)
	}
	s.Advance(FeedbackDelay)
	if r.Phase() != PhaseWaiting || len(r.Trials()) != 1 {
		t.Fatalf("expected next trial armed, phase=%s trials=%d", r.Phase(), len(r.Trials()))
	}
}

func TestReactionScoresLatency(t *testing.T) {
	s := newSched()
	p := preset()
	p.ReactionTrials = 1
	p.ReactionMinDelay = 2 * time.Second
	p.ReactionMaxDelay = 2 * time.Second
	r := NewReaction(s, rand.New(rand.NewSource(11)), p)
	r.Start()

	s.Advance(2 * time.Second)
	if r.Phase() != PhaseAwaiting {
		t.Fatalf("expected stimulus after the delay, got %s", r.Phase())
	}
	s.Advance(210 * time.Millisecond)
	tr, err := r.Tap()
	if err != nil {
		t.Fatalf("tap: %v", err)
	}
	if tr.Points != 90 || *tr.ReactionMS != 210 {
		t.Fatalf("expected 90 points at 210ms, got %+v", tr)
	}
	s.Advance(FeedbackDelay)
	if r.Phase() != PhaseDone {
		t.Fatalf("expected done after the only trial, got %s", r.Phase())
	}
	if res := r.Result(); res.ReactionMS == nil || *res.ReactionMS != 210 {
		t.Fatalf("expected mean latency 210, got %+v", res)
	}
}

func TestRuleSwitchFollowsHiddenRule(t *testing.T) {
	s := newSched()
	p := preset()
	rs := NewRuleSwitch(s, rand.New(rand.NewSource(12)), p)
	rs.Start()

	targets := rs.Targets()
	for i := 0; i < p.SwitchItems; i++ {
		stim := rs.Current()
		want := 0
		if rs.RuleAt(i) == RuleShape && stim.Shape == targets[1].Shape {
			want = 1
		}
		if rs.RuleAt(i) == RuleColor && stim.Color == targets[1].Color {
			want = 1
		}
		if want != rs.Expected() {
			t.Fatalf("item %d: expected target %d, machine says %d", i, want, rs.Expected())
		}
		choice := want
		if i%2 == 1 {
			choice = 1 - want
		}
		tr, err := rs.Answer(choice)
		if err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		if (tr.Points == 25) != (choice == want) {
			t.Fatalf("item %d: unexpected points %d", i, tr.Points)
		}
		s.Advance(FeedbackDelay)
	}
	if rs.Phase() != PhaseDone {
		t.Fatalf("expected done, got %s", rs.Phase())
	}
	if rs.Score() != 25*(p.SwitchItems/2) {
		t.Fatalf("expected half the items scored, got %d", rs.Score())
	}
}

func TestRuleSwitchChangesAtFixedPoints(t *testing.T) {
	rs := NewRuleSwitch(newSched(), rand.New(rand.NewSource(13)), preset())
	every := preset().SwitchEvery
	if rs.RuleAt(0) != RuleShape || rs.RuleAt(every-1) != RuleShape || rs.RuleAt(every) != RuleColor || rs.RuleAt(2*every) != RuleShape {
		t.Fatalf("rule must flip every %d items", every)
	}
}

func TestStopCancelsTimers(t *testing.T) {
	s := newSched()
	machines := []Challenge{
		NewConflict(s, rand.New(rand.NewSource(1)), preset()),
		NewNBack(s, rand.New(rand.NewSource(1)), preset()),
		NewReaction(s, rand.New(rand.NewSource(1)), preset()),
	}
	for _, m := range machines {
		m.Start()
		m.Stop()
	}
	if s.Pending() != 0 {
		t.Fatalf("expected no live timers after Stop, got %d", s.Pending())
	}
}
