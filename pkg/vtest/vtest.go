package vtest

import (
	"context"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/html"

	"github.com/vango-dev/minidom/pkg/dom"
	"github.com/vango-dev/minidom/pkg/render"
	"github.com/vango-dev/minidom/pkg/router"
	"github.com/vango-dev/minidom/pkg/vdom"
)

// DefaultURL is the window location of a harness built without WithURL.
const DefaultURL = "http://localhost/?/"

// Builder allows fluent construction of harnesses.
type Builder struct {
	url     string
	opts    []render.Option
	timeout time.Duration
}

// NewBuilder creates a harness builder.
func NewBuilder() *Builder {
	return &Builder{url: DefaultURL, timeout: 5 * time.Second}
}

// WithURL sets the initial window location.
func (b *Builder) WithURL(url string) *Builder {
	b.url = url
	return b
}

// WithStrictHooks makes hook-order diagnostics panic.
func (b *Builder) WithStrictHooks() *Builder {
	b.opts = append(b.opts, render.WithStrictHooks(true))
	return b
}

// WithRenderOptions appends renderer options.
func (b *Builder) WithRenderOptions(opts ...render.Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// WithTimeout bounds Settle.
func (b *Builder) WithTimeout(d time.Duration) *Builder {
	b.timeout = d
	return b
}

// Build creates the harness. Resources are released with t.Cleanup.
func (b *Builder) Build(t testing.TB) *Harness {
	t.Helper()
	doc := dom.NewDocument()
	win, err := dom.NewWindow(doc, b.url)
	if err != nil {
		t.Fatalf("vtest: window: %v", err)
	}
	r := render.New(doc, b.opts...)
	h := &Harness{t: t, Doc: doc, Window: win, Renderer: r, Loop: r.Loop(), timeout: b.timeout}
	t.Cleanup(h.close)
	return h
}

// Harness drives components against a live document. Everything runs on
// the test goroutine: posted tasks run when Flush or Settle is called.
type Harness struct {
	t        testing.TB
	Doc      *dom.Document
	Window   *dom.Window
	Renderer *render.Renderer
	Loop     *render.Loop
	Router   *router.Router
	timeout  time.Duration
}

// New creates a harness with default settings.
func New(t testing.TB) *Harness {
	t.Helper()
	return NewBuilder().Build(t)
}

func (h *Harness) close() {
	if h.Router != nil {
		h.Router.Close()
	}
	h.Renderer.Close()
}

// Render commits node into the body and returns the live node.
func (h *Harness) Render(node *vdom.VNode) *html.Node {
	h.t.Helper()
	n, err := h.Renderer.Render(node, h.Doc.Body())
	if err != nil {
		h.t.Fatalf("vtest: render: %v", err)
	}
	return n
}

// Mount attaches a router to the body and renders the current location.
func (h *Harness) Mount(routes []router.Route, opts ...router.Option) *router.Router {
	h.t.Helper()
	rt, err := router.New(h.Renderer, h.Window, h.Doc.Body(), routes, opts...)
	if err != nil {
		h.t.Fatalf("vtest: router: %v", err)
	}
	h.Router = rt
	return rt
}

// Flush runs queued loop tasks and returns how many ran.
func (h *Harness) Flush() int {
	return h.Loop.RunPending()
}

// Settle runs loop tasks until no async work is in flight.
func (h *Harness) Settle() {
	h.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	if err := h.Loop.Settle(ctx); err != nil {
		h.t.Fatalf("vtest: settle: %v", err)
	}
}

// HTML returns the serialized children of the body.
func (h *Harness) HTML() string {
	h.t.Helper()
	out, err := dom.InnerHTML(h.Doc.Body())
	if err != nil {
		h.t.Fatalf("vtest: serialize: %v", err)
	}
	return out
}

// ByID returns the element with the given id, failing the test when absent.
func (h *Harness) ByID(id string) *html.Node {
	h.t.Helper()
	n := h.Doc.GetElementByID(id)
	if n == nil {
		h.t.Fatalf("vtest: no element with id %q in %s", id, truncate(h.HTML(), 200))
	}
	return n
}

// ByText returns the first element whose text content is text.
func (h *Harness) ByText(text string) *html.Node {
	h.t.Helper()
	n := dom.Find(h.Doc.Body(), func(n *html.Node) bool {
		return n.Type == html.ElementNode && dom.TextContent(n) == text
	})
	if n == nil {
		h.t.Fatalf("vtest: no element with text %q in %s", text, truncate(h.HTML(), 200))
	}
	return n
}

// Click dispatches a click at the element with the given id.
func (h *Harness) Click(id string) bool {
	h.t.Helper()
	return h.Doc.Click(h.ByID(id))
}

// Input sets the value of the element with the given id and dispatches an
// input event.
func (h *Harness) Input(id, value string) bool {
	h.t.Helper()
	return h.Doc.Input(h.ByID(id), value)
}

// Mutations runs fn and returns the mutations it caused.
func (h *Harness) Mutations(fn func()) dom.Stats {
	before := h.Doc.Stats()
	fn()
	return h.Doc.Stats().Sub(before)
}

// ExpectContains fails the test when the body does not contain expected.
func (h *Harness) ExpectContains(expected string) {
	h.t.Helper()
	if got := h.HTML(); !strings.Contains(got, expected) {
		h.t.Errorf("expected body to contain %q, got: %s", expected, truncate(got, 200))
	}
}

// ExpectNotContains fails the test when the body contains unexpected.
func (h *Harness) ExpectNotContains(unexpected string) {
	h.t.Helper()
	if got := h.HTML(); strings.Contains(got, unexpected) {
		h.t.Errorf("expected body not to contain %q, got: %s", unexpected, truncate(got, 200))
	}
}

// RenderToString commits node into a fresh document and returns its HTML.
func RenderToString(node *vdom.VNode) (string, error) {
	doc := dom.NewDocument()
	r := render.New(doc)
	defer r.Close()
	n, err := r.Render(node, nil)
	if err != nil {
		return "", err
	}
	return dom.HTML(n)
}

func renderOrFail(t testing.TB, node *vdom.VNode) string {
	t.Helper()
	out, err := RenderToString(node)
	if err != nil {
		t.Fatalf("vtest: render: %v", err)
	}
	return out
}

// ExpectContains fails the test when the committed HTML of node does not
// contain expected.
func ExpectContains(t testing.TB, node *vdom.VNode, expected string) {
	t.Helper()
	if got := renderOrFail(t, node); !strings.Contains(got, expected) {
		t.Errorf("expected output to contain %q, got: %s", expected, truncate(got, 200))
	}
}

// ExpectNotContains fails the test when the committed HTML of node
// contains unexpected.
func ExpectNotContains(t testing.TB, node *vdom.VNode, unexpected string) {
	t.Helper()
	if got := renderOrFail(t, node); strings.Contains(got, unexpected) {
		t.Errorf("expected output not to contain %q, got: %s", unexpected, truncate(got, 200))
	}
}

// ExpectElement fails the test when the committed tree has no tag element.
func ExpectElement(t testing.TB, node *vdom.VNode, tag string) {
	t.Helper()
	out := renderOrFail(t, node)
	if !strings.Contains(out, "<"+tag+">") && !strings.Contains(out, "<"+tag+" ") {
		t.Errorf("expected element <%s>, got: %s", tag, truncate(out, 200))
	}
}

// ExpectAttribute fails the test when the committed tree has no element
// with attr="value".
func ExpectAttribute(t testing.TB, node *vdom.VNode, attr, value string) {
	t.Helper()
	expected := attr + `="` + html.EscapeString(value) + `"`
	if out := renderOrFail(t, node); !strings.Contains(out, expected) {
		t.Errorf("expected attribute %s, got: %s", expected, truncate(out, 200))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
