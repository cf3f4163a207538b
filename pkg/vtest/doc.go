// Package vtest provides testing helpers for minidom components.
//
// The vtest package reduces boilerplate when testing components by
// providing a harness that owns a document, a window, a renderer and its
// loop, plus render assertions.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.New(t)
//	    h.Render(vdom.Comp(Counter, vdom.Attrs{"key": "c"}))
//	    h.Click("inc")
//	    h.Flush()
//	    h.ExpectContains("1")
//	}
//
// # Fluent Builder
//
// Options chain through the builder:
//
//	h := vtest.NewBuilder().
//	    WithURL("http://localhost/?/posts/7").
//	    WithStrictHooks().
//	    Build(t)
//
// # Routed Apps
//
//	rt := h.Mount([]router.Route{{Pattern: "/posts/{id}", Component: Post}})
//	h.ExpectContains("post 7")
//
// # One-Shot Assertions
//
// Assert on the committed HTML of a node description:
//
//	vtest.ExpectContains(t, Greeting(), "Welcome")
//	vtest.ExpectNotContains(t, Greeting(), "Login")
package vtest
