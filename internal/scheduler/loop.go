package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Loop drives a Virtual scheduler from the wall clock and serializes external
// events onto the same goroutine.
type Loop struct {
	sched  *Virtual
	tick   time.Duration
	wall   func() time.Time
	events chan func()
	done   chan struct{}
}

// NewLoop creates a loop whose virtual time starts at the current wall time.
func NewLoop(tick time.Duration) *Loop {
	if tick <= 0 {
		tick = DefaultFrameInterval
	}
	now := time.Now()
	return &Loop{
		sched:  NewVirtual(now).WithFrameInterval(tick),
		tick:   tick,
		wall:   time.Now,
		events: make(chan func(), 32),
		done:   make(chan struct{}),
	}
}

// Scheduler exposes the loop's scheduler. It must only be used from callbacks
// running on the loop.
func (l *Loop) Scheduler() Scheduler { return l.sched }

// Run processes ticks and events until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.events:
			l.sched.AdvanceTo(l.wall())
			l.safely(fn)
		case <-ticker.C:
			l.sched.AdvanceTo(l.wall())
		}
	}
}

// Do posts fn to the loop and waits for it to run.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	ran := make(chan struct{})
	wrapped := func() {
		defer close(ran)
		fn()
	}
	select {
	case l.events <- wrapped:
	case <-l.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ran:
		return nil
	case <-l.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) safely(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("loop event panicked", zap.Any("panic", r))
		}
	}()
	fn()
}
