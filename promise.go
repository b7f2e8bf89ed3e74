// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coro

// promise holds the single settled outcome of a Task[T] and, while pending,
// at most one waiting Frame. It is the affine, single-writer/single-reader
// slot backing Task.Wait and Await: settle happens exactly once, and
// registering a second waiter is a protocol error.
type promise[T any] struct {
	done   bool
	value  T
	err    error
	waiter Frame
}

func newPromise[T any]() *promise[T] { return &promise[T]{} }

func (p *promise[T]) complete(v T, err error) {
	if p.done {
		panic("coro: task promise completed twice")
	}
	p.value, p.err, p.done = v, err, true
}

// settled returns the completed result. Panics if called before completion —
// callers only reach it after Done() is true.
func (p *promise[T]) settled() (T, error) {
	if !p.done {
		panic("coro: task promise read before completion")
	}
	return p.value, p.err
}

func (p *promise[T]) isDone() bool { return p.done }

func (p *promise[T]) registerWaiter(w Frame) {
	if p.waiter != nil {
		panic("coro: task already has a waiter (a Task may be awaited by only one caller)")
	}
	p.waiter = w
}

func (p *promise[T]) takeWaiter() Frame {
	w := p.waiter
	p.waiter = nil
	return w
}
