// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package contframe

import "sync/atomic"

// Suspension represents a computation parked on an effect operation. It
// carries the pending Operation and a one-shot resumption handle: Resume may
// be called at most once, matching the runtime's "a frame is never resumed
// after it is done" invariant. Calling Resume twice panics.
type Suspension[A any] struct {
	used atomic.Bool
	op   Operation
	ef   *EffectFrame[Erased]
	rest Frame
}

// Op returns the operation that caused the suspension.
func (s *Suspension[A]) Op() Operation { return s.op }

// Resume advances the computation with value v. It returns the completed
// value with a nil Suspension, or a zero value with the next Suspension.
func (s *Suspension[A]) Resume(v Erased) (A, *Suspension[A]) {
	if !s.used.CompareAndSwap(false, true) {
		panic("contframe: suspension resumed twice")
	}
	return classifyStepResult[A](evalFrames[stepProcessor[A], Erased](s.ef.Resume(v), s.rest, stepProcessor[A]{}))
}

// Discard marks the suspension as consumed without resuming it, releasing
// the driver from ever having to call Resume.
func (s *Suspension[A]) Discard() {
	s.used.Store(true)
}

// Step drives m until it completes or suspends, returning the completed
// value with a nil Suspension, or a zero value with the Suspension to drive
// further via Resume.
func Step[A any](m Expr[A]) (A, *Suspension[A]) {
	return classifyStepResult[A](evalFrames[stepProcessor[A], Erased](Erased(m.Value), m.Frame, stepProcessor[A]{}))
}

// stepProcessor stops evalFrames at the first EffectFrame instead of
// dispatching it, handing the caller a Suspension to drive externally.
type stepProcessor[A any] struct{}

func (stepProcessor[A]) processEffect(f *EffectFrame[Erased], rest Frame) (Erased, Frame, Erased, bool) {
	return nil, nil, &Suspension[A]{op: f.Operation, ef: f, rest: rest}, false
}

func (stepProcessor[A]) processReturn(current Erased) Erased { return current }

func classifyStepResult[A any](result Erased) (A, *Suspension[A]) {
	if susp, ok := result.(*Suspension[A]); ok {
		var zero A
		return zero, susp
	}
	return result.(A), nil
}
