package render

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/minidom/internal/errors"
	"github.com/vango-dev/minidom/pkg/vdom"
)

// Scope is the ambient handle of one component invocation. Components
// receive it under the "$" prop; ScopeOf extracts it.
//
// A new Scope is created for every invocation. Keyed components share a
// hook table across invocations, and the table points at the most recently
// mounted Scope, which is the instance State.Set and async settlements
// re-render.
type Scope struct {
	r *Renderer

	// Root scopes own refs of elements rendered outside any component.
	root   bool
	target *html.Node

	vnode  *vdom.VNode
	parent *html.Node
	old    *html.Node // live node at invocation
	node   *html.Node // live node after commit
	frame  frame
	app    *Scope
	key    string
	refs   map[string]*html.Node

	table     *slotTable
	cursor    int
	rendering bool
	queue     []func()
	pending   bool
}

// ScopeOf returns the scope stored in a component's props, or nil.
func ScopeOf(props vdom.Props) *Scope {
	s, _ := props.Get(vdom.AmbientKey).(*Scope)
	return s
}

// scopeOf returns the scope of a component that is currently rendering.
func scopeOf(props vdom.Props) *Scope {
	s := ScopeOf(props)
	if s == nil || !s.rendering {
		panic(errors.New("M202"))
	}
	return s
}

func (r *Renderer) newScope(parent *html.Node, v *vdom.VNode, reuse *html.Node, f frame) *Scope {
	s := &Scope{
		r:      r,
		vnode:  v,
		parent: parent,
		old:    reuse,
		frame:  f,
		key:    v.Props.Key(),
		refs:   make(map[string]*html.Node),
	}
	if f.owner == nil || f.owner.root {
		s.app = s
	} else {
		s.app = f.owner.app
	}
	if s.key != "" {
		if t := r.lookupTable(parent, s.key, false); t != nil {
			s.bind(t)
		}
	}
	return s
}

// bind attaches the scope to a hook table. The table keeps pointing at the
// last mounted scope until this invocation commits, so a failed render
// leaves updates routed to the instance still in the document.
func (s *Scope) bind(t *slotTable) {
	if prev := t.owner; prev != nil && prev.node != nil {
		for name, n := range prev.refs {
			s.refs[name] = n
		}
	} else {
		t.owner = s
	}
	s.table = t
}

// call invokes the component function with the scope in its props.
func (s *Scope) call() *vdom.VNode {
	props := s.vnode.Props.Clone()
	props[vdom.AmbientKey] = vdom.Prop{Kind: vdom.PropAmbient, Name: vdom.AmbientKey, Value: s}

	s.rendering = true
	defer func() { s.rendering = false }()

	out := s.vnode.Comp(props)
	s.checkOrder()
	return out
}

// checkOrder compares the hook call count with the previous render on the
// same live node.
func (s *Scope) checkOrder() {
	t := s.table
	if t == nil {
		return
	}
	if t.renders > 0 && s.old != nil && s.old == t.lastNode && s.cursor != t.count {
		s.r.hookOrder(errors.New("M201").WithDetailf("%s: expected %d hook calls, got %d",
			vdom.FuncName(s.vnode.Comp), t.count, s.cursor))
	}
	t.count = s.cursor
	t.renders++
}

// mounted records the live node produced by the invocation.
func (s *Scope) mounted(n *html.Node) {
	s.node = n
	if s.table != nil {
		s.table.owner = s
		s.table.lastNode = n
	}
}

// flush runs the effects queued during the invocation.
func (s *Scope) flush() {
	q := s.queue
	s.queue = nil
	for _, fn := range q {
		fn()
	}
}

func (s *Scope) setRef(name string, n *html.Node) {
	s.refs[name] = n
}

// Self returns the component description being rendered.
func (s *Scope) Self() *vdom.VNode { return s.vnode }

// Key returns the component's identity key.
func (s *Scope) Key() string { return s.key }

// Node returns the live node produced by the last commit of this instance;
// nil during a first render.
func (s *Scope) Node() *html.Node {
	if s.node != nil {
		return s.node
	}
	return s.old
}

// App returns the scope of the outermost component.
func (s *Scope) App() *Scope { return s.app }

// Ref returns the live node recorded under name by this component's
// subtree ($name sigil), or nil.
func (s *Scope) Ref(name string) *html.Node { return s.refs[name] }

// Children returns the component's child descriptions.
func (s *Scope) Children() []*vdom.VNode {
	if s.vnode == nil {
		return nil
	}
	return s.vnode.Children
}

// Renderer returns the renderer that invoked the component.
func (s *Scope) Renderer() *Renderer { return s.r }

// Rendering reports whether the component function is running.
func (s *Scope) Rendering() bool { return s.rendering }

// AfterCommit queues fn to run once the component's subtree is committed,
// alongside its effects. It may only be called while rendering.
func (s *Scope) AfterCommit(fn func()) {
	if !s.rendering {
		panic(errors.New("M202").WithDetail("AfterCommit"))
	}
	s.queue = append(s.queue, fn)
}

// Render re-commits this instance synchronously. During a pass the
// request is posted to the loop instead.
func (s *Scope) Render() error {
	return s.r.rerender(s)
}

// Invalidate posts a re-render of this instance to the loop. Repeated
// calls before the loop runs coalesce.
func (s *Scope) Invalidate() {
	if s.pending {
		return
	}
	s.pending = true
	s.r.loop.Post(func() {
		s.pending = false
		if err := s.r.rerender(s); err != nil {
			s.r.logger.Error("re-render failed", "component", vdom.FuncName(s.vnode.Comp), "error", err)
		}
	})
}
