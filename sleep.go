// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coro

import (
	"time"

	"code.hybscloud.com/coro/internal/contframe"
)

// sleepAwaitable is the Awaitable a Task parks on for a time-based delay. It
// registers with an EventLoop's delay heap rather than symmetrically
// transferring anywhere: nothing is runnable until the clock says so.
type sleepAwaitable struct {
	loop    *EventLoop
	awakeAt time.Time
}

func (s sleepAwaitable) Ready() bool { return !s.loop.clockNow().Before(s.awakeAt) }

func (s sleepAwaitable) OnSuspend(waiter Frame) Transfer {
	s.loop.addDelayed(waiter, s.awakeAt)
	return Park()
}

func (s sleepAwaitable) OnResume() (Unit, error) { return Unit{}, nil }

// SleepUntil suspends the enclosing Task body until the given wall-clock
// time on the process-wide default loop (see GetLoop/UseLoop).
func SleepUntil(at time.Time) contframe.Expr[Unit] {
	return Await[Unit](sleepAwaitable{loop: GetLoop(), awakeAt: at})
}

// SleepFor suspends the enclosing Task body for the given duration on the
// process-wide default loop.
func SleepFor(d time.Duration) contframe.Expr[Unit] {
	loop := GetLoop()
	return Await[Unit](sleepAwaitable{loop: loop, awakeAt: loop.clockNow().Add(d)})
}

// SleepOnLoop is SleepFor against an explicit loop, for callers driving more
// than one EventLoop (e.g. isolated per-test loops).
func SleepOnLoop(loop *EventLoop, d time.Duration) contframe.Expr[Unit] {
	return Await[Unit](sleepAwaitable{loop: loop, awakeAt: loop.clockNow().Add(d)})
}
