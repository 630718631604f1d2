package scheduler

import "time"

// Group tracks the timers created by one owner so they can be cancelled
// together on a phase transition or teardown.
type Group struct {
	sched  Scheduler
	timers []Timer
}

// NewGroup returns a group scheduling on s.
func NewGroup(s Scheduler) *Group {
	return &Group{sched: s}
}

func (g *Group) Now() time.Time { return g.sched.Now() }

func (g *Group) After(d time.Duration, fn func()) Timer {
	return g.track(g.sched.After(d, fn))
}

func (g *Group) Every(d time.Duration, fn func()) Timer {
	return g.track(g.sched.Every(d, fn))
}

func (g *Group) Frame(fn func(dt time.Duration)) Timer {
	return g.track(g.sched.Frame(fn))
}

// Stop cancels every timer created through the group.
func (g *Group) Stop() {
	for _, t := range g.timers {
		t.Cancel()
	}
	g.timers = g.timers[:0]
}

func (g *Group) track(t Timer) Timer {
	g.timers = append(g.timers, t)
	return t
}
