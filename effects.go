// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coro

import "code.hybscloud.com/coro/internal/contframe"

// awaitRequest is the Operation a Task body suspends on to await an
// Awaitable[A] for some A. pack closes over the concrete A so the resumed
// value handed back into the contframe chain is boxed with the exact static
// type the continuation expects — contframe itself only ever sees any.
type awaitRequest struct {
	ready     func() bool
	onSuspend func(waiter Frame) Transfer
	produce   func() (any, error)
	// pack converts (value, err) from produce into the value to resume the
	// chain with, or reports abort=true to short-circuit the whole Task
	// instead of continuing (the non-catching Await path).
	pack func(value any, err error) (resume any, abort bool)
}

// failRequest is the Operation Fail suspends on: an immediate, unconditional
// abort carrying err. Both Task and Generator drivers treat it as terminal.
type failRequest struct {
	err error
}

// Await suspends a Task body until aw is ready, propagating any error from
// aw by aborting the enclosing Task — the continuation after Await never
// runs. Use this to sequence one Awaitable after another.
func Await[A any](aw Awaitable[A]) contframe.Expr[A] {
	req := &awaitRequest{
		ready:     aw.Ready,
		onSuspend: aw.OnSuspend,
		produce: func() (any, error) {
			v, err := aw.OnResume()
			return v, err
		},
		pack: func(v any, err error) (any, bool) {
			if err != nil {
				return nil, true
			}
			return v, false
		},
	}
	return contframe.Perform[A](req)
}

// awaitCatchable suspends like Await, but never aborts: the outcome is
// wrapped as Either[error, A] and handed to the continuation, which decides
// what to do with a failure. Catching and Finally are built on this.
func awaitCatchable[A any](aw Awaitable[A]) contframe.Expr[Either[error, A]] {
	req := &awaitRequest{
		ready:     aw.Ready,
		onSuspend: aw.OnSuspend,
		produce: func() (any, error) {
			v, err := aw.OnResume()
			return v, err
		},
		pack: func(v any, err error) (any, bool) {
			if err != nil {
				return Left[error, A](err), false
			}
			return Right[error, A](v.(A)), false
		},
	}
	return contframe.Perform[Either[error, A]](req)
}

// Fail aborts the enclosing Task or Generator body with err. Equivalent to
// raising an exception at this point in the computation: nothing after Fail
// in the same body runs.
func Fail[T any](err error) contframe.Expr[T] {
	return contframe.Perform[T](&failRequest{err: err})
}
