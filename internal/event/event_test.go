// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package event

import "testing"

func TestInvokeOrder(t *testing.T) {
	var e Event[int]
	var got []int
	e.AddBind(func(v int) { got = append(got, v) })
	e.AddBind(func(v int) { got = append(got, v*10) })
	e.Invoke(2)
	e.Invoke(3)
	want := []int{2, 20, 3, 30}
	if len(got) != len(want) {
		t.Fatalf("Invoke\nhave %v\nwant %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Invoke\nhave %v\nwant %v", got, want)
		}
	}
}

func TestRemoveBind(t *testing.T) {
	var e Event[struct{}]
	var n1, n2 int
	h1 := e.AddBind(func(struct{}) { n1++ })
	e.AddBind(func(struct{}) { n2++ })
	if !e.RemoveBind(h1) {
		t.Fatal("RemoveBind: unexpected failure")
	}
	if e.RemoveBind(h1) {
		t.Fatal("RemoveBind: unexpected success on removed handle")
	}
	e.Invoke(struct{}{})
	if n1 != 0 || n2 != 1 {
		t.Fatalf("Invoke after RemoveBind\nhave %d/%d\nwant 0/1", n1, n2)
	}
}

func TestUnsubscribeDuringInvoke(t *testing.T) {
	var e Event[struct{}]
	var n int
	var h Handle
	h = e.AddBind(func(struct{}) {
		n++
		e.RemoveBind(h)
	})
	e.Invoke(struct{}{})
	e.Invoke(struct{}{})
	if n != 1 {
		t.Fatalf("self-removing handler ran %d times, want 1", n)
	}
	if e.Len() != 0 {
		t.Fatalf("Len\nhave %d\nwant 0", e.Len())
	}
}
