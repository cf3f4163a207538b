package vdom

import (
	"testing"

	"golang.org/x/net/html"
)

func comp(props Props) *VNode  { return El("div", nil) }
func other(props Props) *VNode { return El("span", nil) }

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindComponent, "Component"},
		{KindNative, "Native"},
		{VKind(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("VKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestFuncID(t *testing.T) {
	if FuncID(comp) != FuncID(comp) {
		t.Error("same function should have the same id")
	}
	if FuncID(comp) == FuncID(other) {
		t.Error("different functions should differ")
	}
	if FuncID(nil) != 0 {
		t.Error("nil function id should be 0")
	}
}

func TestEqual(t *testing.T) {
	a := El("ul", Attrs{".list": true}, El("li", nil, "one"), Comp(comp, Attrs{"key": "c"}))
	b := El("ul", Attrs{".list": true}, El("li", nil, "one"), Comp(comp, Attrs{"key": "c"}))
	if !Equal(a, b) {
		t.Errorf("expected equal:\n%s\n%s", a, b)
	}

	c := El("ul", Attrs{".list": true}, El("li", nil, "two"), Comp(comp, Attrs{"key": "c"}))
	if Equal(a, c) {
		t.Error("different text should not be equal")
	}

	d := El("ul", Attrs{".list": true}, El("li", nil, "one"), Comp(other, Attrs{"key": "c"}))
	if Equal(a, d) {
		t.Error("different component functions should not be equal")
	}
}

func TestChildren(t *testing.T) {
	native := &html.Node{Type: html.ElementNode, Data: "canvas"}
	kids := Children("a", nil, false, 3, []string{"x", "y"}, []*VNode{Text("z"), nil}, native)

	want := []string{`"a"`, `"3"`, `"x"`, `"y"`, `"z"`, "<native canvas>"}
	if len(kids) != len(want) {
		t.Fatalf("got %d children, want %d: %v", len(kids), len(want), kids)
	}
	for i, w := range want {
		if kids[i].Name() != w {
			t.Errorf("child %d = %s, want %s", i, kids[i].Name(), w)
		}
	}
}

func TestValuesEqual(t *testing.T) {
	s := []int{1}
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"ints", 1, 1, true},
		{"int vs int64", 1, int64(1), false},
		{"strings", "a", "b", false},
		{"nil", nil, nil, true},
		{"same slice", s, s, true},
		{"copied slice", s, []int{1}, false},
		{"same func", comp, comp, true},
		{"structs", struct{ A int }{1}, struct{ A int }{1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValuesEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("ValuesEqual = %v, want %v", got, tt.want)
			}
		})
	}
}
