package vdom

import "testing"

func TestConditionals(t *testing.T) {
	a, b := El("a", nil), El("b", nil)

	if If(true, a) != a || If(false, a) != nil {
		t.Error("If should return the node only when the condition holds")
	}
	if IfElse(true, a, b) != a || IfElse(false, a, b) != b {
		t.Error("IfElse picked the wrong branch")
	}

	calls := 0
	build := func() *VNode { calls++; return a }
	if When(false, build) != nil || calls != 0 {
		t.Errorf("When(false) = called %d times, want 0", calls)
	}
	if When(true, build) != a || calls != 1 {
		t.Errorf("When(true) = called %d times, want 1", calls)
	}

	children := Children("x", If(false, a), When(true, func() *VNode { return b }))
	if len(children) != 2 || children[1] != b {
		t.Errorf("Children dropped the wrong nodes: %v", children)
	}
}

func TestMap(t *testing.T) {
	out := Map([]string{"a", "", "c"}, func(s string, i int) *VNode {
		return If(s != "", Text(s))
	})
	if len(out) != 2 || out[0].Text != "a" || out[1].Text != "c" {
		t.Errorf("Map = %v, want two text nodes", out)
	}
}
