// Package scheduler replaces interval and animation-frame callbacks with an
// explicit, cancellable timer abstraction. Callbacks always run on the
// goroutine that advances the scheduler, so state machines driven by it never
// need locking.
package scheduler

import (
	"time"

	"archetype-quiz-service/internal/clock"
)

// DefaultFrameInterval approximates a 60Hz animation frame.
const DefaultFrameInterval = time.Second / 60

// Timer is a handle to scheduled work.
type Timer interface {
	Cancel()
}

// Scheduler schedules one-shot, periodic and per-frame callbacks.
type Scheduler interface {
	clock.Clock
	After(d time.Duration, fn func()) Timer
	Every(d time.Duration, fn func()) Timer
	Frame(fn func(dt time.Duration)) Timer
}

// Virtual is a deterministic scheduler whose time only moves on Advance.
type Virtual struct {
	now           time.Time
	frameInterval time.Duration
	seq           uint64
	entries       []*entry
}

type entry struct {
	seq       uint64
	at        time.Time
	every     time.Duration
	fn        func()
	cancelled bool
}

func (e *entry) Cancel() { e.cancelled = true }

// NewVirtual returns a virtual scheduler starting at start.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start, frameInterval: DefaultFrameInterval}
}

// WithFrameInterval overrides the frame period; non-positive values are ignored.
func (v *Virtual) WithFrameInterval(d time.Duration) *Virtual {
	if d > 0 {
		v.frameInterval = d
	}
	return v
}

func (v *Virtual) Now() time.Time { return v.now }

func (v *Virtual) After(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	return v.add(d, 0, fn)
}

func (v *Virtual) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		d = time.Millisecond
	}
	return v.add(d, d, fn)
}

func (v *Virtual) Frame(fn func(dt time.Duration)) Timer {
	interval := v.frameInterval
	return v.add(interval, interval, func() { fn(interval) })
}

func (v *Virtual) add(delay, every time.Duration, fn func()) *entry {
	v.seq++
	e := &entry{seq: v.seq, at: v.now.Add(delay), every: every, fn: fn}
	v.entries = append(v.entries, e)
	return e
}

// Pending returns the number of live timers.
func (v *Virtual) Pending() int {
	n := 0
	for _, e := range v.entries {
		if !e.cancelled {
			n++
		}
	}
	return n
}

// Advance moves time forward by d, firing every due callback in time order.
// Callbacks may schedule or cancel other timers.
func (v *Virtual) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	v.AdvanceTo(v.now.Add(d))
}

// AdvanceTo moves time forward to target; earlier targets are ignored.
func (v *Virtual) AdvanceTo(target time.Time) {
	if target.Before(v.now) {
		return
	}
	for {
		next := v.nextDue(target)
		if next == nil {
			break
		}
		v.now = next.at
		if next.every > 0 {
			next.at = next.at.Add(next.every)
		} else {
			next.cancelled = true
		}
		next.fn()
	}
	v.now = target
	v.prune()
}

func (v *Virtual) nextDue(target time.Time) *entry {
	var best *entry
	for _, e := range v.entries {
		if e.cancelled || e.at.After(target) {
			continue
		}
		if best == nil || e.at.Before(best.at) || (e.at.Equal(best.at) && e.seq < best.seq) {
			best = e
		}
	}
	return best
}

func (v *Virtual) prune() {
	live := v.entries[:0]
	for _, e := range v.entries {
		if !e.cancelled {
			live = append(live, e)
		}
	}
	for i := len(live); i < len(v.entries); i++ {
		v.entries[i] = nil
	}
	v.entries = live
}
