package vtest_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/minidom/pkg/render"
	"github.com/vango-dev/minidom/pkg/router"
	"github.com/vango-dev/minidom/pkg/vdom"
	"github.com/vango-dev/minidom/pkg/vtest"
)

func counter(props vdom.Props) *vdom.VNode {
	count := render.UseState(props, 0)
	return vdom.El("button", vdom.Attrs{
		"#inc":    true,
		"onclick": func() { count.Set(count.Get() + 1) },
	}, count.Get())
}

func loader(props vdom.Props) *vdom.VNode {
	data := render.UseAsync(props, func(ctx context.Context) (string, error) {
		time.Sleep(5 * time.Millisecond)
		return "loaded", nil
	})
	if data.Loading {
		return vdom.El("p", nil, "loading")
	}
	return vdom.El("p", nil, data.Value)
}

func TestHarnessClickAndFlush(t *testing.T) {
	h := vtest.New(t)
	h.Render(vdom.Comp(counter, vdom.Attrs{"key": "c"}))

	h.Click("inc")
	h.ExpectContains(">0<")

	if n := h.Flush(); n != 1 {
		t.Errorf("Flush() = %d, want 1", n)
	}
	h.ExpectContains(">1<")
}

func TestHarnessSettle(t *testing.T) {
	h := vtest.New(t)
	h.Render(vdom.Comp(loader, vdom.Attrs{"key": "l"}))
	h.ExpectContains("loading")

	h.Settle()
	h.ExpectContains("<p>loaded</p>")
	h.ExpectNotContains("loading")
}

func TestHarnessMount(t *testing.T) {
	h := vtest.NewBuilder().WithURL("http://localhost/?/posts/7").Build(t)
	post := func(props vdom.Props) *vdom.VNode {
		return vdom.El("h1", nil, "post ", props.String("id"))
	}
	h.Mount([]router.Route{
		{Pattern: "/", Component: counter},
		{Pattern: "/posts/{id}", Component: post},
	})
	h.ExpectContains("<h1>post 7</h1>")

	if err := h.Router.Go("?/"); err != nil {
		t.Fatalf("Go: %v", err)
	}
	h.ExpectContains(`<button id="inc">0</button>`)
}

func TestHarnessMutations(t *testing.T) {
	h := vtest.New(t)
	h.Render(vdom.El("p", nil, "a"))

	stats := h.Mutations(func() { h.Render(vdom.El("p", nil, "a")) })
	if stats.Total() != 0 {
		t.Errorf("re-render cost %d mutations, want 0", stats.Total())
	}
}

func TestHarnessByText(t *testing.T) {
	h := vtest.New(t)
	h.Render(vdom.El("ul", nil, vdom.El("li", nil, "one"), vdom.El("li", nil, "two")))

	if n := h.ByText("two"); n.Data != "li" {
		t.Errorf("ByText found <%s>, want <li>", n.Data)
	}
}

func TestRenderToString(t *testing.T) {
	node := vdom.El("div", vdom.Attrs{"class": "container"},
		vdom.El("h1", nil, "Hello"),
		vdom.El("p", nil, "World"),
	)

	out, err := vtest.RenderToString(node)
	if err != nil {
		t.Fatalf("RenderToString: %v", err)
	}
	want := `<div class="container"><h1>Hello</h1><p>World</p></div>`
	if out != want {
		t.Errorf("RenderToString = %q, want %q", out, want)
	}
}

func TestRenderToStringError(t *testing.T) {
	if _, err := vtest.RenderToString(nil); err == nil {
		t.Error("expected an error for a nil node")
	}
}

func TestExpectContains_Pass(t *testing.T) {
	node := vdom.El("div", nil, "Hello World")

	mockT := &testing.T{}
	vtest.ExpectContains(mockT, node, "Hello")

	if mockT.Failed() {
		t.Error("ExpectContains should have passed")
	}
}

func TestExpectNotContains_Pass(t *testing.T) {
	node := vdom.El("div", nil, "Hello World")

	mockT := &testing.T{}
	vtest.ExpectNotContains(mockT, node, "Goodbye")

	if mockT.Failed() {
		t.Error("ExpectNotContains should have passed")
	}
}

func TestExpectElementAndAttribute(t *testing.T) {
	node := vdom.El("a", vdom.Attrs{"href": "?/x&y"}, vdom.El("span", nil))

	mockT := &testing.T{}
	vtest.ExpectElement(mockT, node, "span")
	vtest.ExpectAttribute(mockT, node, "href", "?/x&y")

	if mockT.Failed() {
		t.Error("assertions should have passed")
	}
	if out, _ := vtest.RenderToString(node); !strings.Contains(out, "&amp;") {
		t.Errorf("expected escaped href, got %s", out)
	}
}
