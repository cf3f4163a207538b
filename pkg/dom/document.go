package dom

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Namespace URIs accepted by CreateElementNS.
const (
	NamespaceSVG    = "http://www.w3.org/2000/svg"
	NamespaceMathML = "http://www.w3.org/1998/Math/MathML"
	NamespaceXHTML  = "http://www.w3.org/1999/xhtml"
)

// Document is a live document tree plus the browser state that plain
// markup does not carry.
type Document struct {
	root *html.Node
	head *html.Node
	body *html.Node

	state        map[*html.Node]*nodeState
	nextListener ListenerID
	observers    []Observer
	stats        Stats
	style        *html.Node
}

type nodeState struct {
	fields    map[string]any
	listeners map[string][]listener
}

// NewDocument returns an empty <html><head></head><body></body></html>
// document.
func NewDocument() *Document {
	root := &html.Node{Type: html.DocumentNode}
	htmlEl := newElement("html", "")
	head := newElement("head", "")
	body := newElement("body", "")
	htmlEl.AppendChild(head)
	htmlEl.AppendChild(body)
	root.AppendChild(htmlEl)

	return &Document{
		root:  root,
		head:  head,
		body:  body,
		state: make(map[*html.Node]*nodeState),
	}
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Head returns the <head> element.
func (d *Document) Head() *html.Node { return d.head }

// Body returns the <body> element.
func (d *Document) Body() *html.Node { return d.body }

func newElement(tag, ns string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, Namespace: ns}
	if ns == "" {
		n.DataAtom = atom.Lookup([]byte(tag))
	}
	return n
}

// shortNamespace maps a namespace URI to the short form x/net/html uses.
func shortNamespace(uri string) string {
	switch uri {
	case "", NamespaceXHTML:
		return ""
	case NamespaceSVG:
		return "svg"
	case NamespaceMathML:
		return "math"
	}
	return uri
}

// CreateElement creates a detached HTML element.
func (d *Document) CreateElement(tag string) *html.Node {
	n := newElement(strings.ToLower(tag), "")
	d.record(Mutation{Op: OpCreate, Target: n, Key: n.Data})
	return n
}

// CreateElementNS creates a detached element in the namespace identified by
// uri. The HTML namespace and "" create a plain HTML element.
func (d *Document) CreateElementNS(uri, tag string) *html.Node {
	n := newElement(tag, shortNamespace(uri))
	d.record(Mutation{Op: OpCreate, Target: n, Key: n.Data})
	return n
}

// CreateText creates a detached text node.
func (d *Document) CreateText(text string) *html.Node {
	n := &html.Node{Type: html.TextNode, Data: text}
	d.record(Mutation{Op: OpCreate, Target: n, Value: text})
	return n
}

// AppendChild appends child to parent, detaching it from its current parent.
func (d *Document) AppendChild(parent, child *html.Node) {
	d.InsertBefore(parent, child, nil)
}

// InsertBefore inserts child into parent before ref. A nil ref appends.
func (d *Document) InsertBefore(parent, child, ref *html.Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	parent.InsertBefore(child, ref)
	d.record(Mutation{Op: OpInsert, Target: child, Parent: parent})
}

// ReplaceChild puts newChild in old's position and detaches old.
func (d *Document) ReplaceChild(parent, newChild, old *html.Node) {
	if newChild.Parent != nil {
		newChild.Parent.RemoveChild(newChild)
	}
	parent.InsertBefore(newChild, old)
	parent.RemoveChild(old)
	d.record(Mutation{Op: OpReplace, Target: newChild, Parent: parent})
}

// Remove detaches n from its parent. Detached nodes are ignored.
func (d *Document) Remove(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	parent.RemoveChild(n)
	d.record(Mutation{Op: OpRemove, Target: n, Parent: parent})
}

// SetText replaces the data of a text node.
func (d *Document) SetText(n *html.Node, text string) {
	if n.Data == text {
		return
	}
	n.Data = text
	d.record(Mutation{Op: OpSetText, Target: n, Value: text})
}

// Attr returns the value of the attribute key.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets the attribute key to val.
func (d *Document) SetAttr(n *html.Node, key, val string) {
	setAttr(n, key, val)
	d.record(Mutation{Op: OpSetAttr, Target: n, Key: key, Value: val})
}

// RemoveAttr removes the attribute key. Absent attributes are ignored.
func (d *Document) RemoveAttr(n *html.Node, key string) {
	if !removeAttr(n, key) {
		return
	}
	d.record(Mutation{Op: OpRemoveAttr, Target: n, Key: key})
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) bool {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return true
		}
	}
	return false
}

func (d *Document) nodeState(n *html.Node, create bool) *nodeState {
	st := d.state[n]
	if st == nil && create {
		st = &nodeState{}
		d.state[n] = st
	}
	return st
}

// Release drops the fields and listeners of n and its descendants.
// Listener removals are recorded.
func (d *Document) Release(n *html.Node) {
	Walk(n, func(c *html.Node) bool {
		d.ReleaseNode(c)
		return true
	})
}

// ReleaseNode drops the fields and listeners of n alone.
func (d *Document) ReleaseNode(n *html.Node) {
	st := d.state[n]
	if st == nil {
		return
	}
	for _, typ := range sortedListenerTypes(st.listeners) {
		for range st.listeners[typ] {
			d.record(Mutation{Op: OpUnlisten, Target: n, Key: typ})
		}
	}
	delete(d.state, n)
}

// HTML serializes n and its descendants.
func HTML(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// InnerHTML serializes the children of n.
func InnerHTML(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// HTML serializes the whole document.
func (d *Document) HTML() (string, error) {
	return HTML(d.root)
}

// AddStyle appends CSS text to the document's shared <style> element,
// creating it in <head> on first use.
func (d *Document) AddStyle(css string) {
	if d.style == nil {
		d.style = d.CreateElement("style")
		d.style.AppendChild(&html.Node{Type: html.TextNode})
		d.AppendChild(d.head, d.style)
	}
	text := d.style.FirstChild
	d.SetText(text, text.Data+css)
}

// StyleSheet returns the accumulated CSS text.
func (d *Document) StyleSheet() string {
	if d.style == nil || d.style.FirstChild == nil {
		return ""
	}
	return d.style.FirstChild.Data
}
