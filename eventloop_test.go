// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coro_test

import (
	"testing"
	"time"

	"code.hybscloud.com/coro"
	"code.hybscloud.com/coro/internal/contframe"
)

// clockStub is a deterministic, non-blocking stand-in for coro.Clock: instead
// of actually sleeping, SleepUntil jumps the stub's notion of "now" straight
// to the requested time and records how far it jumped.
type clockStub struct {
	now       time.Time
	jumps     []time.Duration
	sleepCall int
}

func newClockStub(start time.Time) *clockStub { return &clockStub{now: start} }

func (c *clockStub) Now() time.Time { return c.now }

func (c *clockStub) SleepUntil(t time.Time) {
	c.sleepCall++
	if t.After(c.now) {
		c.jumps = append(c.jumps, t.Sub(c.now))
		c.now = t
	}
}

func sleepingTask[T any](loop *coro.EventLoop, after time.Duration, v T) coro.Task[T] {
	return coro.NewTask(func() contframe.Expr[T] {
		return contframe.Bind(coro.SleepOnLoop(loop, after), func(coro.Unit) contframe.Expr[T] {
			return contframe.Return(v)
		})
	})
}

func TestRunDrainsReadyQueueFIFO(t *testing.T) {
	loop := coro.NewEventLoop(coro.WithClock(newClockStub(time.Unix(0, 0))))
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		task := coro.NewTask(func() contframe.Expr[coro.Unit] {
			order = append(order, i)
			return contframe.Return(coro.Unit{})
		})
		coro.Submit(loop, task)
	}
	loop.Run()
	want := []int{0, 1, 2, 3, 4}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestRunReturnsWhenBothQueuesEmpty(t *testing.T) {
	loop := coro.NewEventLoop(coro.WithClock(newClockStub(time.Unix(0, 0))))
	loop.Run()
}

func TestNestedRunPanics(t *testing.T) {
	loop := coro.NewEventLoop(coro.WithClock(newClockStub(time.Unix(0, 0))))
	task := coro.NewTask(func() contframe.Expr[coro.Unit] {
		defer func() {
			if recover() == nil {
				t.Error("expected panic on nested Run")
			}
		}()
		loop.Run()
		return contframe.Return(coro.Unit{})
	})
	coro.Submit(loop, task)
	loop.Run()
}

// TestTwoParallelSleepsScenario4 implements §8 scenario 4: two tasks, one
// sleeping 1s and returning 2.5, the other sleeping 2s and returning 42.
// Submitted together, Run must finish after the longer sleep (≈2s), not the
// sum of both (≈3s), and each task's own result must be unaffected by the
// other's delay.
func TestTwoParallelSleepsScenario4(t *testing.T) {
	start := time.Unix(0, 0)
	clock := newClockStub(start)
	loop := coro.NewEventLoop(coro.WithClock(clock))

	task1 := sleepingTask(loop, time.Second, 2.5)
	task2 := sleepingTask(loop, 2*time.Second, 42)

	coro.Submit(loop, task1)
	coro.Submit(loop, task2)
	loop.Run()

	if elapsed := clock.Now().Sub(start); elapsed != 2*time.Second {
		t.Fatalf("wall clock advanced %v, want exactly 2s (not the 3s sum)", elapsed)
	}

	v1, err := task1.Wait()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v1 != 2.5 {
		t.Fatalf("task1 got %v, want 2.5", v1)
	}

	v2, err := task2.Wait()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v2 != 42 {
		t.Fatalf("task2 got %v, want 42", v2)
	}
}

// TestNestedAwaitAfterSleepScenario5 implements §8 scenario 5: a task that
// sleeps, then (after waking) awaits a child task, with wall clock driven
// only by the sleep and observable ordering "start, sleep-resume, child
// body, finish".
func TestNestedAwaitAfterSleepScenario5(t *testing.T) {
	start := time.Unix(0, 0)
	clock := newClockStub(start)
	loop := coro.NewEventLoop(coro.WithClock(clock))

	var trace []string

	child := coro.NewTask(func() contframe.Expr[int] {
		trace = append(trace, "child-body")
		return contframe.Return(7)
	})

	parent := coro.NewTask(func() contframe.Expr[int] {
		trace = append(trace, "start")
		return contframe.Bind(coro.SleepOnLoop(loop, time.Second), func(coro.Unit) contframe.Expr[int] {
			trace = append(trace, "sleep-resume")
			return contframe.Bind(coro.AwaitTask(child), func(v int) contframe.Expr[int] {
				trace = append(trace, "finish")
				return contframe.Return(v)
			})
		})
	})

	coro.Submit(loop, parent)
	loop.Run()

	if elapsed := clock.Now().Sub(start); elapsed != time.Second {
		t.Fatalf("wall clock advanced %v, want 1s", elapsed)
	}

	want := []string{"start", "sleep-resume", "child-body", "finish"}
	if len(trace) != len(want) {
		t.Fatalf("got %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("got %v, want %v", trace, want)
		}
	}

	got, err := parent.Wait()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}

func TestDelayHeapTieBreaksByInsertionOrder(t *testing.T) {
	clock := newClockStub(time.Unix(0, 0))
	loop := coro.NewEventLoop(coro.WithClock(clock))
	var order []int
	for i := 0; i < 4; i++ {
		i := i
		task := coro.NewTask(func() contframe.Expr[coro.Unit] {
			return contframe.Bind(coro.SleepOnLoop(loop, time.Second), func(coro.Unit) contframe.Expr[coro.Unit] {
				order = append(order, i)
				return contframe.Return(coro.Unit{})
			})
		})
		coro.Submit(loop, task)
	}
	loop.Run()
	want := []int{0, 1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("simultaneous wake times did not resolve by insertion order: got %v, want %v", order, want)
		}
	}
}

func TestUseLoopInstallsAndRestoresPreviousLoop(t *testing.T) {
	original := coro.GetLoop()
	replacement := coro.NewEventLoop(coro.WithClock(newClockStub(time.Unix(0, 0))))
	restore := coro.UseLoop(replacement)
	if coro.GetLoop() != replacement {
		t.Fatal("UseLoop must install the replacement as the current default loop")
	}
	restore()
	if coro.GetLoop() != original {
		t.Fatal("restore must bring back the previous default loop")
	}
}
