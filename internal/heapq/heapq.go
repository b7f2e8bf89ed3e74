// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package heapq adapts the standard library's container/heap algorithm to a
// typed, generic min-heap. It backs the event loop's delay queue, the same
// role std::priority_queue<Delay> plays for a cooperative scheduler: pop the
// frame with the earliest wake time first.
package heapq

import "container/heap"

// Heap is a generic binary min-heap ordered by a caller-supplied less
// function. Ties are broken however less decides — callers wanting a stable
// order should fold an insertion sequence number into their element type.
type Heap[T any] struct {
	h *slice[T]
}

// New constructs an empty Heap ordered by less.
func New[T any](less func(a, b T) bool) *Heap[T] {
	s := &slice[T]{less: less}
	heap.Init(s)
	return &Heap[T]{h: s}
}

// Len returns the number of elements in the heap.
func (q *Heap[T]) Len() int { return q.h.Len() }

// Push adds v to the heap.
func (q *Heap[T]) Push(v T) { heap.Push(q.h, v) }

// Pop removes and returns the least element. Panics if the heap is empty.
func (q *Heap[T]) Pop() T { return heap.Pop(q.h).(T) }

// Peek returns the least element without removing it. Panics if the heap is
// empty.
func (q *Heap[T]) Peek() T { return q.h.items[0] }

// slice implements container/heap.Interface over a typed slice.
type slice[T any] struct {
	items []T
	less  func(a, b T) bool
}

func (s *slice[T]) Len() int           { return len(s.items) }
func (s *slice[T]) Less(i, j int) bool { return s.less(s.items[i], s.items[j]) }
func (s *slice[T]) Swap(i, j int)      { s.items[i], s.items[j] = s.items[j], s.items[i] }

func (s *slice[T]) Push(x any) { s.items = append(s.items, x.(T)) }

func (s *slice[T]) Pop() any {
	old := s.items
	n := len(old)
	v := old[n-1]
	s.items = old[:n-1]
	return v
}
