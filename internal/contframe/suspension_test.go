// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package contframe_test

import (
	"testing"

	"code.hybscloud.com/coro/internal/contframe"
)

type probe struct{ tag string }

func TestStepPure(t *testing.T) {
	m := contframe.Return(42)
	result, susp := contframe.Step(m)
	if susp != nil {
		t.Fatal("expected nil suspension for pure computation")
	}
	if result != 42 {
		t.Fatalf("got %d, want 42", result)
	}
}

func TestStepSingleEffect(t *testing.T) {
	m := contframe.Perform[int](probe{tag: "ask"})
	_, susp := contframe.Step(m)
	if susp == nil {
		t.Fatal("expected suspension")
	}
	if p, ok := susp.Op().(probe); !ok || p.tag != "ask" {
		t.Fatalf("expected probe{ask}, got %#v", susp.Op())
	}
	result, susp := susp.Resume(99)
	if susp != nil {
		t.Fatal("expected nil suspension after resume")
	}
	if result != 99 {
		t.Fatalf("got %d, want 99", result)
	}
}

func TestStepChainedEffects(t *testing.T) {
	m := contframe.Bind(contframe.Perform[int](probe{tag: "first"}), func(a int) contframe.Expr[int] {
		return contframe.Map(contframe.Perform[int](probe{tag: "second"}), func(b int) int {
			return a + b
		})
	})

	_, susp := contframe.Step(m)
	if susp == nil || susp.Op().(probe).tag != "first" {
		t.Fatalf("expected first suspension, got %#v", susp)
	}
	_, susp = susp.Resume(10)
	if susp == nil || susp.Op().(probe).tag != "second" {
		t.Fatalf("expected second suspension, got %#v", susp)
	}
	result, susp := susp.Resume(5)
	if susp != nil {
		t.Fatal("expected completion")
	}
	if result != 15 {
		t.Fatalf("got %d, want 15", result)
	}
}

func TestSuspensionResumedTwicePanics(t *testing.T) {
	m := contframe.Perform[int](probe{tag: "ask"})
	_, susp := contframe.Step(m)
	susp.Resume(1)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on double resume")
		}
	}()
	susp.Resume(2)
}

func TestSuspensionDiscard(t *testing.T) {
	m := contframe.Perform[int](probe{tag: "ask"})
	_, susp := contframe.Step(m)
	susp.Discard()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic after discard")
		}
	}()
	susp.Resume(1)
}

func TestThenDiscardsFirstValue(t *testing.T) {
	m := contframe.Then(contframe.Return("ignored"), contframe.Return(7))
	result, susp := contframe.Step(m)
	if susp != nil {
		t.Fatal("expected pure completion")
	}
	if result != 7 {
		t.Fatalf("got %d, want 7", result)
	}
}
