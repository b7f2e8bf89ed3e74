// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coro

import (
	"fmt"

	"code.hybscloud.com/coro/internal/contframe"
)

// Task is a lazy, one-shot asynchronous computation. A Task does nothing
// until it is driven — by Wait, by submission to an EventLoop, or by being
// awaited from another Task's body. A Task may be awaited by only one
// caller: awaiting the same Task twice is a protocol error. Calling Wait
// again on a settled Task returns the same stored result.
type Task[T any] struct {
	frame *taskFrame[T]
}

// NewTask builds a Task whose body is constructed lazily by bodyFn the first
// time the Task is driven. bodyFn is invoked at most once.
func NewTask[T any](bodyFn func() contframe.Expr[T]) Task[T] {
	return Task[T]{frame: &taskFrame[T]{bodyFn: bodyFn, promise: newPromise[T]()}}
}

// Just constructs an already-settled-on-first-resume Task: driving it once
// immediately completes with v.
func Just[T any](v T) Task[T] {
	return NewTask(func() contframe.Expr[T] { return contframe.Return(v) })
}

// Wait drives the Task to completion on the calling goroutine and returns
// its result, without submitting any work to an EventLoop. Wait follows
// symmetric transfers into tasks this one awaits, so an await chain runs in
// one Go stack frame regardless of depth.
//
// Wait panics if the Task parks on an Awaitable that requires an external
// driver (e.g. a Sleep not yet due) — such tasks must be driven via
// EventLoop.Run; Wait is for synchronous chains of plain Task-awaits-Task.
func (t Task[T]) Wait() (T, error) {
	drive(t.frame)
	if !t.frame.Done() {
		panic("coro: Wait() parked on an awaitable that needs an external driver (e.g. Sleep); drive this task via EventLoop.Run instead")
	}
	return t.frame.promise.settled()
}

// AwaitTask adopts t as an Awaitable[T] for use inside another Task's body.
// Awaiting the same Task more than once is a protocol error (see promise).
func AwaitTask[T any](t Task[T]) contframe.Expr[T] {
	return Await[T](taskAwaiter[T]{frame: t.frame})
}

// Then builds a new Task that awaits t and applies f to its result. If t
// fails, the new Task fails with the same error and f never runs.
//
// Then is a free function, not a method, because it introduces a second
// type parameter (U) that a method on Task[T] cannot carry.
func Then[T, U any](t Task[T], f func(T) U) Task[U] {
	return NewTask(func() contframe.Expr[U] {
		return contframe.Bind(AwaitTask(t), func(v T) contframe.Expr[U] {
			return contframe.Return(f(v))
		})
	})
}

// ThenVoid is Then for a Task[Unit] continuation whose callback takes no
// argument, the Go analogue of the Task<void>::then(F) overload.
func ThenVoid[U any](t Task[Unit], f func() U) Task[U] {
	return Then(t, func(Unit) U { return f() })
}

// Catching builds a new Task that awaits t and invokes h with the error if
// t fails; on success h is not called. Either way the new Task completes
// successfully with Unit — Catching observes a failure, it does not
// propagate it.
func (t Task[T]) Catching(h func(error)) Task[Unit] {
	return NewTask(func() contframe.Expr[Unit] {
		return contframe.Bind(awaitCatchable[T](taskAwaiter[T]{frame: t.frame}), func(r Either[error, T]) contframe.Expr[Unit] {
			if err, ok := r.GetLeft(); ok {
				h(err)
			}
			return contframe.Return(Unit{})
		})
	})
}

// Finally builds a new Task that awaits t, always runs f, and then
// re-raises t's error if it failed. f runs whether or not t succeeded.
func (t Task[T]) Finally(f func()) Task[Unit] {
	return NewTask(func() contframe.Expr[Unit] {
		return contframe.Bind(awaitCatchable[T](taskAwaiter[T]{frame: t.frame}), func(r Either[error, T]) contframe.Expr[Unit] {
			f()
			if err, ok := r.GetLeft(); ok {
				return Fail[Unit](err)
			}
			return contframe.Return(Unit{})
		})
	})
}

// taskAwaiter adapts a Task[T] to Awaitable[T]. Ready always reports false:
// Tasks are lazy, so the first await always has to drive the body at least
// one step.
type taskAwaiter[T any] struct {
	frame *taskFrame[T]
}

func (a taskAwaiter[T]) Ready() bool { return false }

func (a taskAwaiter[T]) OnSuspend(waiter Frame) Transfer {
	a.frame.promise.registerWaiter(waiter)
	return TransferTo(a.frame)
}

func (a taskAwaiter[T]) OnResume() (T, error) {
	return a.frame.promise.settled()
}

// taskFrame is the Frame implementation driving a Task[T]'s body. It owns a
// contframe.Suspension[T] between steps and interprets the Operation it
// carries: awaitRequest (ready now, or park via OnSuspend) or failRequest
// (abort immediately).
type taskFrame[T any] struct {
	bodyFn  func() contframe.Expr[T]
	started bool
	awaiting bool
	susp    *contframe.Suspension[T]
	pending *awaitRequest
	promise *promise[T]
}

func (f *taskFrame[T]) Done() bool { return f.promise.isDone() }

func (f *taskFrame[T]) Resume() (next Frame) {
	defer func() {
		if r := recover(); r != nil {
			next = f.completeErr(panicToError(r))
		}
	}()

	var resumeVal any
	haveResume := false

	if f.started && f.awaiting {
		f.awaiting = false
		v, err := f.pending.produce()
		packed, abort := f.pending.pack(v, err)
		if abort {
			f.susp.Discard()
			return f.completeErr(err)
		}
		resumeVal, haveResume = packed, true
	}

	for {
		var result T
		var susp *contframe.Suspension[T]
		switch {
		case !f.started:
			f.started = true
			result, susp = contframe.Step[T](f.bodyFn())
		case haveResume:
			result, susp = f.susp.Resume(resumeVal)
			haveResume = false
		default:
			panic("coro: task frame resumed while not pending on anything")
		}

		if susp == nil {
			return f.completeOK(result)
		}

		switch req := susp.Op().(type) {
		case *failRequest:
			susp.Discard()
			return f.completeErr(req.err)
		case *awaitRequest:
			f.susp = susp
			if req.ready() {
				v, err := req.produce()
				packed, abort := req.pack(v, err)
				if abort {
					susp.Discard()
					return f.completeErr(err)
				}
				resumeVal, haveResume = packed, true
				continue
			}
			f.pending = req
			f.awaiting = true
			tr := req.onSuspend(f)
			return tr.target
		default:
			panic(fmt.Sprintf("coro: unknown task operation %T", req))
		}
	}
}

func (f *taskFrame[T]) completeOK(v T) Frame {
	f.promise.complete(v, nil)
	return f.promise.takeWaiter()
}

func (f *taskFrame[T]) completeErr(err error) Frame {
	var zero T
	f.promise.complete(zero, err)
	return f.promise.takeWaiter()
}

func panicToError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("coro: task panicked: %w", err)
	}
	return fmt.Errorf("coro: task panicked: %v", r)
}
