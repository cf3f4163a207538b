package render

import (
	"fmt"
	"sort"

	"golang.org/x/net/html"

	"github.com/vango-dev/minidom/internal/errors"
	"github.com/vango-dev/minidom/pkg/dom"
	"github.com/vango-dev/minidom/pkg/vdom"
)

// nodeState is the renderer's metadata for one live node.
type nodeState struct {
	tag    string    // element tag as described
	chain  []uintptr // component identities producing the node, outermost first
	native bool      // externally owned

	props     vdom.Props
	owner     *Scope
	listeners map[string]dom.ListenerID

	// hook tables of keyed components rendered as children of this node
	hooks   map[string]*slotTable
	touched map[string]*slotTable
}

// frame is the position-independent context of a commit.
type frame struct {
	owner *Scope    // component receiving refs
	chain []uintptr // components already resolved at this position
	ns    string    // active namespace URI
}

func (f frame) child(id uintptr) frame {
	chain := make([]uintptr, len(f.chain)+1)
	copy(chain, f.chain)
	chain[len(f.chain)] = id
	return frame{owner: f.owner, chain: chain, ns: f.ns}
}

func (r *Renderer) state(n *html.Node) *nodeState {
	m := r.meta[n]
	if m == nil {
		m = &nodeState{}
		r.meta[n] = m
	}
	return m
}

func (r *Renderer) tagOf(n *html.Node, m *nodeState) string {
	if m != nil && m.tag != "" {
		return m.tag
	}
	return n.Data
}

// matches reports whether live node n can be reused for v at a position
// where chain components are already resolved.
func (r *Renderer) matches(n *html.Node, v *vdom.VNode, chain []uintptr) bool {
	m := r.meta[n]
	var have []uintptr
	if m != nil {
		have = m.chain
	}
	switch v.Kind {
	case vdom.KindElement:
		return n.Type == html.ElementNode && (m == nil || !m.native) &&
			r.tagOf(n, m) == v.Tag && chainEqual(have, chain)
	case vdom.KindText:
		return n.Type == html.TextNode && (m == nil || !m.native) && chainEqual(have, chain)
	case vdom.KindComponent:
		d := len(chain)
		return len(have) > d && chainEqual(have[:d], chain) && have[d] == vdom.FuncID(v.Comp)
	case vdom.KindNative:
		return n == v.Native
	}
	return false
}

func chainEqual(a, b []uintptr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// commitChildren reconciles the children of parent against vnodes.
func (r *Renderer) commitChildren(parent *html.Node, vnodes []*vdom.VNode, f frame) error {
	pm := r.state(parent)
	pm.touched = make(map[string]*slotTable)
	f.chain = nil

	old := dom.ChildNodes(parent)

	// Front: commit in place while identities match.
	cut := 0
	for cut < len(vnodes) && cut < len(old) && r.matches(old[cut], vnodes[cut], nil) {
		if _, err := r.commitNode(parent, vnodes[cut], old[cut], nil, f); err != nil {
			return err
		}
		cut++
	}

	// Back: same from the ends of both lists, down to the cut.
	i, j := len(vnodes)-1, len(old)-1
	for i >= cut && j >= cut && r.matches(old[j], vnodes[i], nil) {
		if _, err := r.commitNode(parent, vnodes[i], old[j], nil, f); err != nil {
			return err
		}
		i--
		j--
	}

	// Middle: positional, new nodes go before the first back-matched node.
	var ref *html.Node
	if j+1 < len(old) {
		ref = old[j+1]
	}
	k := cut
	for ; k <= i; k++ {
		var o *html.Node
		if k <= j {
			o = old[k]
		}
		if _, err := r.commitNode(parent, vnodes[k], o, ref, f); err != nil {
			return err
		}
	}

	r.sweep(pm)

	for ; k <= j; k++ {
		r.remove(old[k])
	}
	return nil
}

// sweep unmounts hook tables not touched since the last children-commit
// and installs the touched set.
func (r *Renderer) sweep(pm *nodeState) {
	for _, key := range sortedTableKeys(pm.hooks) {
		if _, ok := pm.touched[key]; !ok {
			r.kill(pm.hooks[key])
		}
	}
	pm.hooks = pm.touched
}

// commitNode commits v at the position of old, or before ref when old is
// nil, and returns the live node.
func (r *Renderer) commitNode(parent *html.Node, v *vdom.VNode, old, ref *html.Node, f frame) (*html.Node, error) {
	if v == nil {
		return nil, errors.New("M401").WithDetail("nil child")
	}
	reuse := old
	if old != nil && !r.matches(old, v, f.chain) {
		reuse = nil
	}

	var (
		n   *html.Node
		err error
	)
	switch v.Kind {
	case vdom.KindText:
		n = r.commitText(parent, v, reuse, old, ref, f)
	case vdom.KindElement:
		n, err = r.commitElement(parent, v, reuse, old, ref, f)
	case vdom.KindComponent:
		n, err = r.commitComponent(parent, v, reuse, old, ref, f)
	case vdom.KindNative:
		n = r.commitNative(parent, v, reuse, old, ref, f)
	default:
		err = errors.New("M401").WithDetailf("unknown kind %s", v.Kind)
	}
	if err != nil {
		return nil, err
	}
	if v.Ref != "" && f.owner != nil {
		f.owner.setRef(v.Ref, n)
	}
	return n, nil
}

// attach puts a new node in place of replace, or before ref.
func (r *Renderer) attach(parent, n, replace, ref *html.Node) {
	if replace != nil {
		r.unmount(replace)
		r.doc.ReplaceChild(parent, n, replace)
		return
	}
	r.doc.InsertBefore(parent, n, ref)
}

func (r *Renderer) commitText(parent *html.Node, v *vdom.VNode, reuse, old, ref *html.Node, f frame) *html.Node {
	n := reuse
	if n != nil {
		r.doc.SetText(n, v.Text)
	} else {
		n = r.doc.CreateText(v.Text)
		r.attach(parent, n, old, ref)
	}
	m := r.state(n)
	m.chain = f.chain
	m.owner = f.owner
	return n
}

func (r *Renderer) commitNative(parent *html.Node, v *vdom.VNode, reuse, old, ref *html.Node, f frame) *html.Node {
	n := v.Native
	if reuse == nil {
		r.attach(parent, n, old, ref)
	}
	m := r.state(n)
	m.native = true
	m.chain = f.chain
	return n
}

func (r *Renderer) commitElement(parent *html.Node, v *vdom.VNode, reuse, old, ref *html.Node, f frame) (*html.Node, error) {
	ns := f.ns
	if x := v.Props.String("xmlns"); x != "" {
		ns = x
	}

	n := reuse
	if n == nil {
		if ns != "" {
			n = r.doc.CreateElementNS(ns, v.Tag)
		} else {
			n = r.doc.CreateElement(v.Tag)
		}
		r.attach(parent, n, old, ref)
	}
	m := r.state(n)
	m.tag = v.Tag

	if err := r.commitChildren(n, v.Children, frame{owner: f.owner, ns: ns}); err != nil {
		return nil, err
	}
	r.commitProps(n, m, v.Props, ns)
	m.chain = f.chain
	m.owner = f.owner
	return n, nil
}

func (r *Renderer) commitComponent(parent *html.Node, v *vdom.VNode, reuse, old, ref *html.Node, f frame) (*html.Node, error) {
	if v.Comp == nil {
		return nil, errors.New("M401").WithDetail("component without function")
	}

	// Children first, so they exist when the component observes them.
	if reuse != nil && reuse.Type == html.ElementNode && len(v.Children) > 0 {
		if err := r.commitChildren(reuse, v.Children, frame{owner: f.owner, ns: f.ns}); err != nil {
			return nil, err
		}
	}

	s := r.newScope(parent, v, reuse, f)
	out := s.call()
	if out == nil {
		return nil, errors.New("M400").WithDetail(vdom.FuncName(v.Comp))
	}

	n, err := r.commitNode(parent, out, old, ref, f.child(vdom.FuncID(v.Comp)).withOwner(s))
	if err != nil {
		return nil, err
	}
	s.mounted(n)
	s.flush()
	return n, nil
}

func (f frame) withOwner(s *Scope) frame {
	f.owner = s
	return f
}

// commitProps applies changed props and clears removed ones.
func (r *Renderer) commitProps(n *html.Node, m *nodeState, props vdom.Props, ns string) {
	prev := m.props
	events := make(map[string]bool)

	for _, key := range props.Keys() {
		p := props[key]
		if p.Kind == vdom.PropEvent || p.Kind == vdom.PropRerenderEvent {
			events[p.Name] = true
			continue
		}
		if q, ok := prev[key]; ok && q.Kind == p.Kind && vdom.ValuesEqual(q.Value, p.Value) {
			continue
		}
		r.setProp(n, p, ns)
	}
	for _, key := range prev.Keys() {
		q := prev[key]
		if q.Kind == vdom.PropEvent || q.Kind == vdom.PropRerenderEvent {
			events[q.Name] = true
			continue
		}
		if _, ok := props[key]; !ok {
			r.clearProp(n, q, ns)
		}
	}

	m.props = props
	r.syncListeners(n, m, events)
}

func (r *Renderer) usesField(n *html.Node, name, ns string) bool {
	return ns == "" && !r.denylist[name] && r.doc.HasField(n, name)
}

func (r *Renderer) setProp(n *html.Node, p vdom.Prop, ns string) {
	switch p.Kind {
	case vdom.PropRawField:
		r.doc.SetField(n, p.Name, p.Value)
	case vdom.PropPlain:
		if r.usesField(n, p.Name, ns) {
			r.doc.SetField(n, p.Name, p.Value)
			return
		}
		if b, ok := p.Value.(bool); p.Value == nil || (ok && !b) {
			r.doc.RemoveAttr(n, p.Name)
			return
		}
		r.doc.SetAttr(n, p.Name, vdom.Stringify(p.Value))
	}
}

func (r *Renderer) clearProp(n *html.Node, p vdom.Prop, ns string) {
	switch p.Kind {
	case vdom.PropRawField:
		r.doc.SetField(n, p.Name, nil)
	case vdom.PropPlain:
		if r.usesField(n, p.Name, ns) {
			r.doc.SetField(n, p.Name, nil)
			return
		}
		r.doc.RemoveAttr(n, p.Name)
	}
}

// syncListeners keeps one dispatcher per event type with a handler. The
// dispatcher reads the latest props, so a new handler value costs nothing.
func (r *Renderer) syncListeners(n *html.Node, m *nodeState, types map[string]bool) {
	names := make([]string, 0, len(types))
	for typ := range types {
		names = append(names, typ)
	}
	sort.Strings(names)

	for _, typ := range names {
		_, have := m.listeners[typ]
		want := handler(m.props, "on"+typ) != nil || handler(m.props, "@"+typ) != nil
		switch {
		case want && !have:
			if m.listeners == nil {
				m.listeners = make(map[string]dom.ListenerID)
			}
			typ := typ
			m.listeners[typ] = r.doc.AddEventListener(n, typ, func(e *dom.Event) {
				r.handleEvent(n, typ, e)
			})
		case !want && have:
			r.doc.RemoveEventListener(n, typ, m.listeners[typ])
			delete(m.listeners, typ)
		}
	}
}

func handler(props vdom.Props, key string) any {
	p, ok := props[key]
	if !ok || !vdom.Truthy(p.Value) {
		return nil
	}
	return p.Value
}

func (r *Renderer) handleEvent(n *html.Node, typ string, e *dom.Event) {
	m := r.meta[n]
	if m == nil {
		return
	}
	rerender := handler(m.props, "@"+typ)
	h := handler(m.props, "on"+typ)
	if h == nil {
		h = rerender
	}
	r.call(h, e)

	if rerender != nil {
		if err := r.rerender(m.owner); err != nil {
			r.logger.Error("event re-render failed", "event", typ, "error", err)
		}
	}
}

// call invokes an event handler value.
func (r *Renderer) call(h any, e *dom.Event) {
	switch fn := h.(type) {
	case nil:
	case func(*dom.Event):
		fn(e)
	case func():
		fn()
	case vdom.Handler:
		if fn.Fn != nil {
			fn.Fn(e, fn.Args...)
		}
	case func(*dom.Event, ...any):
		fn(e)
	case []any:
		if len(fn) == 0 {
			return
		}
		if f, ok := fn[0].(func(*dom.Event, ...any)); ok {
			f(e, fn[1:]...)
			return
		}
		r.logger.Warn("unsupported event handler", "type", fmt.Sprintf("%T", fn[0]))
	default:
		r.logger.Warn("unsupported event handler", "type", fmt.Sprintf("%T", h))
	}
}

// remove unmounts n and detaches it.
func (r *Renderer) remove(n *html.Node) {
	r.unmount(n)
	r.doc.Remove(n)
}

// unmount fires the hook cleanups of every table under n, releases
// listeners and drops metadata. Externally owned subtrees are left alone.
func (r *Renderer) unmount(n *html.Node) {
	dom.Walk(n, func(c *html.Node) bool {
		m := r.meta[c]
		if m != nil && m.native {
			delete(r.meta, c)
			return false
		}
		if m != nil {
			for _, key := range sortedTableKeys(m.hooks) {
				r.kill(m.hooks[key])
			}
			for _, key := range sortedTableKeys(m.touched) {
				r.kill(m.touched[key])
			}
			delete(r.meta, c)
		}
		delete(r.roots, c)
		r.doc.ReleaseNode(c)
		return true
	})
}

func sortedTableKeys(m map[string]*slotTable) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
