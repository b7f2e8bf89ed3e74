// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package contframe is a defunctionalized continuation evaluator: computations
// are built as chains of Frame values (Bind/Map/Then/Effect) rather than closures,
// and evalFrames walks the chain with an explicit loop instead of recursion. This
// is what lets a coro.Task or coro.Generator suspend at an effect, hand a
// *Suspension back to its driver, and later resume without growing the Go stack
// one frame per awaited step.
//
// The package carries exactly the frame/trampoline/affine-resume machinery a
// stepping external driver needs. It does not know what an "await" or a
// "yield" is — those are domain operations the coro package performs through
// Perform and interprets by type-switching Suspension.Op().
package contframe

// Erased is a type-erased value flowing through the frame chain. Concrete
// types are recovered via type assertions at frame boundaries.
type Erased = any

// Operation identifies an effect a computation suspends on. The driver
// decides what it means; contframe only carries it.
type Operation = any

// Frame is a defunctionalized continuation node. Dispatch is by type switch
// in evalFrames, not by a tag field — Frame is a pure marker interface.
type Frame interface {
	frame()
}

// ReturnFrame marks a completed computation: evalFrames returns the current
// value when it reaches one.
type ReturnFrame struct{}

func (ReturnFrame) frame() {}

// BindFrame is monadic bind: apply F to the current value to get the next
// Expr, then continue with Next.
type BindFrame[A, B any] struct {
	F    func(A) Expr[B]
	Next Frame
}

func (*BindFrame[A, B]) frame() {}

// MapFrame transforms the current value with F, then continues with Next.
type MapFrame[A, B any] struct {
	F    func(A) B
	Next Frame
}

func (*MapFrame[A, B]) frame() {}

// ThenFrame discards the current value, evaluates Second, then continues
// with Next.
type ThenFrame[A, B any] struct {
	Second Expr[B]
	Next   Frame
}

func (*ThenFrame[A, B]) frame() {}

// EffectFrame suspends the computation on Operation. Resume converts the
// driver's response into the value the chain continues with.
type EffectFrame[A any] struct {
	Operation Operation
	Resume    func(A) Erased
	Next      Frame
}

func (*EffectFrame[A]) frame() {}

// Expr is a defunctionalized computation: either already complete (Value
// valid, Frame a ReturnFrame) or suspended at Frame.
type Expr[A any] struct {
	Value A
	Frame Frame
}

// Return builds an already-completed Expr.
func Return[A any](a A) Expr[A] {
	return Expr[A]{Value: a, Frame: ReturnFrame{}}
}

// Suspend builds an Expr suspended at the given frame.
func Suspend[A any](frame Frame) Expr[A] {
	var zero A
	return Expr[A]{Value: zero, Frame: frame}
}

// chainedFrame links two frame chains without mutating either.
type chainedFrame struct {
	first Frame
	rest  Frame
}

func (*chainedFrame) frame() {}

// ChainFrames links first before second, skipping allocation when either
// side is the identity (ReturnFrame).
func ChainFrames(first, second Frame) Frame {
	if _, ok := first.(ReturnFrame); ok {
		return second
	}
	if _, ok := second.(ReturnFrame); ok {
		return first
	}
	return &chainedFrame{first: first, rest: second}
}

// Bind sequences m into f, short-circuiting to f(m.Value) directly when m
// is already complete.
func Bind[A, B any](m Expr[A], f func(A) Expr[B]) Expr[B] {
	if _, ok := m.Frame.(ReturnFrame); ok {
		return f(m.Value)
	}
	bf := &BindFrame[Erased, Erased]{
		F: func(a Erased) Expr[Erased] {
			r := f(a.(A))
			return Expr[Erased]{Value: Erased(r.Value), Frame: r.Frame}
		},
		Next: ReturnFrame{},
	}
	var zero B
	return Expr[B]{Value: zero, Frame: ChainFrames(m.Frame, bf)}
}

// Map transforms m's eventual value with f.
func Map[A, B any](m Expr[A], f func(A) B) Expr[B] {
	if _, ok := m.Frame.(ReturnFrame); ok {
		return Return(f(m.Value))
	}
	mf := &MapFrame[Erased, Erased]{
		F:    func(a Erased) Erased { return f(a.(A)) },
		Next: ReturnFrame{},
	}
	var zero B
	return Expr[B]{Value: zero, Frame: ChainFrames(m.Frame, mf)}
}

// Then sequences m before n, discarding m's value.
func Then[A, B any](m Expr[A], n Expr[B]) Expr[B] {
	if _, ok := m.Frame.(ReturnFrame); ok {
		return n
	}
	tf := &ThenFrame[Erased, Erased]{
		Second: Expr[Erased]{Value: Erased(n.Value), Frame: n.Frame},
		Next:   ReturnFrame{},
	}
	var zero B
	return Expr[B]{Value: zero, Frame: ChainFrames(m.Frame, tf)}
}

func identityResume(v Erased) Erased { return v }

// Perform suspends the computation on op. The driver recovers op from the
// returned Suspension's Op and supplies a resume value of static type A.
//
// Unlike a fully open effect system, contframe fixes no Op/Handler
// polymorphism here: the coro package closes over exactly the operations it
// needs (await, yield, fail), so Perform only needs the produced type A.
func Perform[A any](op Operation) Expr[A] {
	var zero A
	return Expr[A]{
		Value: zero,
		Frame: &EffectFrame[Erased]{
			Operation: op,
			Resume:    identityResume,
			Next:      ReturnFrame{},
		},
	}
}
