// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coro

import (
	"fmt"

	"code.hybscloud.com/coro/internal/contframe"
	"golang.org/x/exp/constraints"
)

// puller is the internal pull contract every Generator source and
// combinator implements. pull returns the next value, whether one was
// produced, and an error if the source failed — exhaustion is (zero, false,
// nil), failure is (zero, false, err).
type puller[T any] interface {
	pull() (T, bool, error)
	close()
}

// Generator is a lazy, pull-driven sequence: nothing upstream runs until a
// consumer calls MoveNext, Next, or a terminal operation like ForEach. A
// Generator is single-use in the sense that pulling from it is stateful and
// not safe for concurrent callers.
type Generator[T any] struct {
	src    puller[T]
	cur    T
	err    error
	closed bool
}

func newGenerator[T any](src puller[T]) Generator[T] {
	return Generator[T]{src: src}
}

// MoveNext advances the Generator and reports whether a value is available.
// Call Current to read it. MoveNext returning false means either exhaustion
// (Err is nil) or failure (Err is non-nil); either way the Generator is done
// and further calls return false.
func (g *Generator[T]) MoveNext() bool {
	if g.closed {
		return false
	}
	v, ok, err := g.src.pull()
	if err != nil {
		g.err = err
		g.closed = true
		return false
	}
	if !ok {
		g.closed = true
		return false
	}
	g.cur = v
	return true
}

// Current returns the value produced by the most recent successful MoveNext.
func (g *Generator[T]) Current() T { return g.cur }

// Err returns the error that stopped the Generator, or nil if it stopped by
// exhaustion or hasn't stopped yet.
func (g *Generator[T]) Err() error { return g.err }

// Next is MoveNext/Current/Err folded into one call: it returns the next
// value and true, or a zero value, false, and any error that stopped the
// Generator.
func (g *Generator[T]) Next() (T, bool, error) {
	if g.MoveNext() {
		return g.cur, true, nil
	}
	var zero T
	return zero, false, g.err
}

// Close releases any resources the underlying source holds (relevant mainly
// to GenerateWith bodies parked mid-yield) and marks the Generator done. It
// is always safe to call, including after exhaustion.
func (g *Generator[T]) Close() {
	if !g.closed {
		g.src.close()
		g.closed = true
	}
}

// ForEach pulls every remaining value, calling f for each, and returns any
// error that stopped the Generator early.
func (g Generator[T]) ForEach(f func(T)) error {
	for g.MoveNext() {
		f(g.Current())
	}
	return g.Err()
}

// Reduce folds the remaining values with f, seeding the accumulator with the
// first value. ok is false if the Generator produced no values at all.
func (g Generator[T]) Reduce(f func(acc, v T) T) (result T, ok bool, err error) {
	if !g.MoveNext() {
		return result, false, g.Err()
	}
	acc := g.Current()
	for g.MoveNext() {
		acc = f(acc, g.Current())
	}
	return acc, true, g.Err()
}

// Fold folds the remaining values of g with f, starting from init.
//
// Fold is a free function, not a method, because the accumulator type R can
// differ from the element type T.
func Fold[T, R any](g Generator[T], init R, f func(acc R, v T) R) (R, error) {
	acc := init
	for g.MoveNext() {
		acc = f(acc, g.Current())
	}
	return acc, g.Err()
}

// FromSlice builds a Generator over the elements of xs, in order.
func FromSlice[T any](xs []T) Generator[T] {
	i := 0
	return newGenerator[T](&funcPuller[T]{
		pullFn: func() (T, bool, error) {
			if i >= len(xs) {
				var zero T
				return zero, false, nil
			}
			v := xs[i]
			i++
			return v, true, nil
		},
	})
}

// rangeNumeric bounds FromRange to the types a wandering pointer can be
// stepped over: x/exp/constraints.Integer and .Float, not the full Ordered
// (which also admits strings, which can't be compared against 0 the way the
// step checks below do).
type rangeNumeric interface {
	constraints.Integer | constraints.Float
}

// FromRange builds a Generator over start, start+step, start+2*step, ...,
// stopping before stop is reached or passed. A zero or wrong-signed step
// (one that can never reach stop) yields an immediately-exhausted Generator
// rather than looping forever.
func FromRange[T rangeNumeric](start, stop, step T) Generator[T] {
	cur := start
	done := step == 0 || (step > 0 && start >= stop) || (step < 0 && start <= stop)
	return newGenerator[T](&funcPuller[T]{
		pullFn: func() (T, bool, error) {
			if done {
				var zero T
				return zero, false, nil
			}
			v := cur
			cur += step
			if step > 0 && cur >= stop {
				done = true
			} else if step < 0 && cur <= stop {
				done = true
			}
			return v, true, nil
		},
	})
}

type funcPuller[T any] struct {
	pullFn func() (T, bool, error)
}

func (p *funcPuller[T]) pull() (T, bool, error) { return p.pullFn() }
func (p *funcPuller[T]) close()                 {}

// Map lazily transforms each value of g with f.
//
// Map is a free function because it introduces a second type parameter.
func Map[T, U any](g Generator[T], f func(T) U) Generator[U] {
	return newGenerator[U](&mapPuller[T, U]{upstream: g.src, f: f})
}

type mapPuller[T, U any] struct {
	upstream puller[T]
	f        func(T) U
}

func (p *mapPuller[T, U]) pull() (U, bool, error) {
	v, ok, err := p.upstream.pull()
	if err != nil || !ok {
		var zero U
		return zero, false, err
	}
	return p.f(v), true, nil
}

func (p *mapPuller[T, U]) close() { p.upstream.close() }

// Filter lazily keeps only values of g for which pred returns true.
func (g Generator[T]) Filter(pred func(T) bool) Generator[T] {
	return newGenerator[T](&filterPuller[T]{upstream: g.src, pred: pred})
}

type filterPuller[T any] struct {
	upstream puller[T]
	pred     func(T) bool
}

func (p *filterPuller[T]) pull() (T, bool, error) {
	for {
		v, ok, err := p.upstream.pull()
		if err != nil || !ok {
			return v, ok, err
		}
		if p.pred(v) {
			return v, true, nil
		}
	}
}

func (p *filterPuller[T]) close() { p.upstream.close() }

// Take limits g to its first n values, without pulling upstream at all when
// n is zero or negative.
func (g Generator[T]) Take(n int) Generator[T] {
	return newGenerator[T](&takePuller[T]{upstream: g.src, remaining: n})
}

type takePuller[T any] struct {
	upstream  puller[T]
	remaining int
}

func (p *takePuller[T]) pull() (T, bool, error) {
	if p.remaining <= 0 {
		var zero T
		return zero, false, nil
	}
	v, ok, err := p.upstream.pull()
	if err != nil || !ok {
		var zero T
		return zero, false, err
	}
	p.remaining--
	return v, true, nil
}

func (p *takePuller[T]) close() { p.upstream.close() }

// TakeWhile yields values of g while pred holds, stopping at the first value
// for which it doesn't; that value is pulled from upstream and discarded.
func (g Generator[T]) TakeWhile(pred func(T) bool) Generator[T] {
	return newGenerator[T](&takeWhilePuller[T]{upstream: g.src, pred: pred})
}

type takeWhilePuller[T any] struct {
	upstream puller[T]
	pred     func(T) bool
	done     bool
}

func (p *takeWhilePuller[T]) pull() (T, bool, error) {
	if p.done {
		var zero T
		return zero, false, nil
	}
	v, ok, err := p.upstream.pull()
	if err != nil || !ok {
		p.done = true
		var zero T
		return zero, false, err
	}
	if !p.pred(v) {
		p.done = true
		var zero T
		return zero, false, nil
	}
	return v, true, nil
}

func (p *takeWhilePuller[T]) close() { p.upstream.close() }

// Scan lazily folds g with f, yielding each intermediate accumulator value
// (not the seed). Scan is a free function because the state type S can
// differ from the element type T.
func Scan[T, S any](g Generator[T], init S, f func(acc S, v T) S) Generator[S] {
	return newGenerator[S](&scanPuller[T, S]{upstream: g.src, state: init, f: f})
}

type scanPuller[T, S any] struct {
	upstream puller[T]
	state    S
	f        func(S, T) S
}

func (p *scanPuller[T, S]) pull() (S, bool, error) {
	v, ok, err := p.upstream.pull()
	if err != nil || !ok {
		var zero S
		return zero, false, err
	}
	p.state = p.f(p.state, v)
	return p.state, true, nil
}

func (p *scanPuller[T, S]) close() { p.upstream.close() }

// Yield suspends a GenerateWith body, handing v to its consumer. The body
// resumes the next time the Generator is pulled.
func Yield[T any](v T) contframe.Expr[Unit] {
	return contframe.Perform[Unit](&yieldRequest{value: v})
}

type yieldRequest struct {
	value any
}

// GenerateWith builds a Generator whose values come from running an
// effectful body written with Yield and Fail, rather than decorating an
// existing puller. bodyFn is invoked lazily, on the first pull.
func GenerateWith[T any](bodyFn func() contframe.Expr[Unit]) Generator[T] {
	return newGenerator[T](&genExprPuller[T]{bodyFn: bodyFn})
}

type genExprPuller[T any] struct {
	bodyFn  func() contframe.Expr[Unit]
	started bool
	susp    *contframe.Suspension[Unit]
}

func (p *genExprPuller[T]) pull() (result T, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.susp = nil
			var zero T
			result, ok, err = zero, false, panicToError(r)
		}
	}()

	var susp *contframe.Suspension[Unit]
	if !p.started {
		p.started = true
		_, susp = contframe.Step[Unit](p.bodyFn())
	} else if p.susp == nil {
		var zero T
		return zero, false, nil
	} else {
		_, susp = p.susp.Resume(Unit{})
	}
	return p.handle(susp)
}

func (p *genExprPuller[T]) handle(susp *contframe.Suspension[Unit]) (T, bool, error) {
	if susp == nil {
		p.susp = nil
		var zero T
		return zero, false, nil
	}
	switch req := susp.Op().(type) {
	case *yieldRequest:
		p.susp = susp
		return req.value.(T), true, nil
	case *failRequest:
		susp.Discard()
		p.susp = nil
		var zero T
		return zero, false, req.err
	default:
		susp.Discard()
		p.susp = nil
		var zero T
		return zero, false, fmt.Errorf("coro: unexpected generator operation %T", req)
	}
}

func (p *genExprPuller[T]) close() {
	if p.susp != nil {
		p.susp.Discard()
		p.susp = nil
	}
}
