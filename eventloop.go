// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coro

import (
	"log/slog"
	"sync/atomic"
	"time"

	"code.hybscloud.com/coro/internal/heapq"
)

// Clock abstracts wall-clock reads and blocking waits so EventLoop and Sleep
// are deterministically testable. realClock is used unless WithClock
// overrides it.
type Clock interface {
	Now() time.Time
	SleepUntil(t time.Time)
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) SleepUntil(t time.Time) {
	if d := time.Until(t); d > 0 {
		time.Sleep(d)
	}
}

type delayEntry struct {
	awakeAt time.Time
	seq     uint64
	frame   Frame
}

// EventLoop is a single-threaded cooperative scheduler: a FIFO ready queue
// plus a min-heap of delayed work ordered by wake time, ties broken by
// insertion order. Run drains both, ready work first, until both are empty.
//
// An EventLoop is not safe for concurrent use from multiple goroutines; like
// the Tasks and Generators it drives, it is meant to be owned by exactly one
// goroutine at a time.
type EventLoop struct {
	ready   []Frame
	readyAt int
	delays  *heapq.Heap[delayEntry]
	clock   Clock
	logger  *slog.Logger
	seq     uint64
	running bool
}

// LoopOption configures an EventLoop built with NewEventLoop.
type LoopOption func(*EventLoop)

// WithLogger attaches a logger the loop uses for debug-level scheduling
// traces (task enqueued, delay armed, loop drained). A nil logger (the
// default) disables tracing entirely.
func WithLogger(l *slog.Logger) LoopOption {
	return func(lp *EventLoop) { lp.logger = l }
}

// WithClock overrides the loop's notion of time, for deterministic tests
// that simulate Sleep without actually waiting.
func WithClock(c Clock) LoopOption {
	return func(lp *EventLoop) { lp.clock = c }
}

// WithReadyCapacity preallocates the ready queue's backing array.
func WithReadyCapacity(n int) LoopOption {
	return func(lp *EventLoop) { lp.ready = make([]Frame, 0, n) }
}

// NewEventLoop constructs an EventLoop with the given options applied.
func NewEventLoop(opts ...LoopOption) *EventLoop {
	lp := &EventLoop{
		clock: realClock{},
		delays: heapq.New(func(a, b delayEntry) bool {
			if !a.awakeAt.Equal(b.awakeAt) {
				return a.awakeAt.Before(b.awakeAt)
			}
			return a.seq < b.seq
		}),
	}
	for _, opt := range opts {
		opt(lp)
	}
	return lp
}

func (l *EventLoop) clockNow() time.Time { return l.clock.Now() }

// AddTask enqueues f onto the ready FIFO queue.
func (l *EventLoop) AddTask(f Frame) {
	l.ready = append(l.ready, f)
	if l.logger != nil {
		l.logger.Debug("coro: task enqueued", "ready_len", len(l.ready)-l.readyAt)
	}
}

// Submit enqueues a Task's frame onto l, to be driven when Run reaches it.
// The Task's result is retrieved with Task.Wait once it has settled (Wait
// then returns immediately, since the loop already drove it to completion).
//
// Submit is a free function rather than a method on EventLoop because it
// needs T as a type parameter, which a method declared on *EventLoop cannot
// introduce.
func Submit[T any](l *EventLoop, t Task[T]) {
	l.AddTask(t.frame)
}

func (l *EventLoop) addDelayed(f Frame, at time.Time) {
	l.seq++
	l.delays.Push(delayEntry{awakeAt: at, seq: l.seq, frame: f})
	if l.logger != nil {
		l.logger.Debug("coro: delay armed", "awake_at", at, "pending", l.delays.Len())
	}
}

func (l *EventLoop) popReady() Frame {
	f := l.ready[l.readyAt]
	l.ready[l.readyAt] = nil
	l.readyAt++
	if l.readyAt*2 > len(l.ready) {
		l.ready = append(l.ready[:0], l.ready[l.readyAt:]...)
		l.readyAt = 0
	}
	return f
}

func (l *EventLoop) hasReady() bool { return l.readyAt < len(l.ready) }

// Run drains the ready queue and the delay heap until both are empty,
// running ready work before waking any delayed work whose time has come.
// Run panics if called reentrantly.
func (l *EventLoop) Run() {
	if l.running {
		panic("coro: nested EventLoop.Run is unsupported")
	}
	l.running = true
	defer func() { l.running = false }()

	for l.hasReady() || l.delays.Len() > 0 {
		if l.hasReady() {
			drive(l.popReady())
			continue
		}
		top := l.delays.Peek()
		if now := l.clock.Now(); top.awakeAt.After(now) {
			l.clock.SleepUntil(top.awakeAt)
		}
		entry := l.delays.Pop()
		drive(entry.frame)
	}
	if l.logger != nil {
		l.logger.Debug("coro: loop drained")
	}
}

var currentLoop atomic.Pointer[EventLoop]

// GetLoop returns the process-wide default EventLoop, creating it on first
// use. Tests and callers that need an isolated loop should use UseLoop
// instead of relying on this singleton.
func GetLoop() *EventLoop {
	for {
		if l := currentLoop.Load(); l != nil {
			return l
		}
		currentLoop.CompareAndSwap(nil, NewEventLoop())
	}
}

// UseLoop installs l as the loop future Sleep calls (and anything else using
// GetLoop) resolve against, returning a function that restores the previous
// loop. Intended for tests that need a deterministic, isolated loop:
//
//	restore := coro.UseLoop(coro.NewEventLoop(coro.WithClock(stub)))
//	defer restore()
func UseLoop(l *EventLoop) (restore func()) {
	prev := currentLoop.Swap(l)
	return func() { currentLoop.Store(prev) }
}
