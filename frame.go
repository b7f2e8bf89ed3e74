// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coro

// Frame is the minimal capability the scheduler and the Awaitable protocol
// need from a suspendable computation: advance it one step, and report
// whether it has finished.
//
// Resume returns the Frame to run next when completion or an await triggers
// a symmetric transfer — control passes directly to that Frame without
// returning up the call stack — or nil when this Frame is simply parked
// waiting on an external event (a Sleep not yet due) or has nothing further
// to hand off. Drivers loop on the returned Frame rather than recursing,
// which is what keeps a long Then/await chain from growing the Go stack.
type Frame interface {
	Resume() Frame
	Done() bool
}

// drive pumps f and whatever it symmetrically transfers into, until the
// chain completes or genuinely parks. It never recurses.
func drive(f Frame) {
	for f != nil {
		if f.Done() {
			return
		}
		f = f.Resume()
	}
}

// Transfer is the result of Awaitable.OnSuspend: either "parked, nothing to
// run right now" (the zero value) or "transfer control to this Frame".
type Transfer struct {
	target Frame
}

// Park reports that an Awaitable has arranged its own resumption (e.g. with
// an EventLoop's delay queue) and nothing should run immediately.
func Park() Transfer { return Transfer{} }

// TransferTo reports that control should move directly to f — the symmetric
// transfer case, used when awaiting a Task that can simply be driven now.
func TransferTo(f Frame) Transfer { return Transfer{target: f} }

// Awaitable is implemented by anything a Task can await: another Task, a
// Sleep, or a user-defined source of asynchrony. Ready, OnSuspend and
// OnResume mirror the coroutine_traits await_ready/await_suspend/await_resume
// triad this runtime is modeled on, but expressed without compiler support
// for suspension — OnSuspend hands the waiting Frame to whatever will
// eventually resume it.
type Awaitable[A any] interface {
	// Ready reports whether OnResume can be called immediately.
	Ready() bool
	// OnSuspend arranges for waiter to be resumed once the awaited value is
	// available, and reports whether that can happen via immediate
	// symmetric transfer or must wait for an external event.
	OnSuspend(waiter Frame) Transfer
	// OnResume produces the awaited value. Called only once Ready is true
	// (or, for not-ready awaits, once the arranged resumption fires).
	OnResume() (A, error)
}
