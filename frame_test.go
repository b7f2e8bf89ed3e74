// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coro_test

import (
	"testing"

	"code.hybscloud.com/coro"
)

// chainFrame is a minimal coro.Frame used to exercise drive's trampoline
// directly, without going through Task or Generator.
type chainFrame struct {
	ran  *[]int
	id   int
	next coro.Frame
	done bool
}

func (f *chainFrame) Resume() coro.Frame {
	*f.ran = append(*f.ran, f.id)
	f.done = true
	return f.next
}

func (f *chainFrame) Done() bool { return f.done }

func TestDriveFollowsSymmetricTransferChain(t *testing.T) {
	var ran []int
	third := &chainFrame{ran: &ran, id: 3}
	second := &chainFrame{ran: &ran, id: 2, next: third}
	first := &chainFrame{ran: &ran, id: 1, next: second}

	callDrive(first)

	want := []int{1, 2, 3}
	if len(ran) != len(want) {
		t.Fatalf("got %v, want %v", ran, want)
	}
	for i := range want {
		if ran[i] != want[i] {
			t.Fatalf("got %v, want %v", ran, want)
		}
	}
}

func TestDriveStopsOnAlreadyDoneFrame(t *testing.T) {
	var ran []int
	f := &chainFrame{ran: &ran, id: 1, done: true}
	callDrive(f)
	if len(ran) != 0 {
		t.Fatalf("drive must not resume an already-done frame, ran %v", ran)
	}
}

// callDrive runs a Frame to quiescence the same way EventLoop.Run and
// Task.Wait do, by submitting it through a fresh loop: drive itself is
// unexported, so this exercises the same trampoline behavior via the public
// surface that wraps it.
func callDrive(f coro.Frame) {
	loop := coro.NewEventLoop()
	loop.AddTask(f)
	loop.Run()
}

