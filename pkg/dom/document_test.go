package dom

import (
	"testing"

	"golang.org/x/net/html"
)

func TestNewDocument(t *testing.T) {
	d := NewDocument()
	out, err := d.HTML()
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	if out != "<html><head></head><body></body></html>" {
		t.Errorf("HTML() = %q", out)
	}
	if d.Stats().Total() != 0 {
		t.Errorf("Stats().Total() = %d, want 0", d.Stats().Total())
	}
}

func TestMutationsAreCounted(t *testing.T) {
	d := NewDocument()
	ul := d.CreateElement("ul")
	d.AppendChild(d.Body(), ul)
	a := d.CreateElement("li")
	b := d.CreateElement("li")
	d.AppendChild(ul, b)
	d.InsertBefore(ul, a, b)
	d.SetText(d.CreateText("x"), "y")

	s := d.Stats()
	if got := s.Count(OpCreate); got != 4 {
		t.Errorf("Count(Create) = %d, want 4", got)
	}
	if got := s.Count(OpInsert); got != 3 {
		t.Errorf("Count(Insert) = %d, want 3", got)
	}
	if got := s.Count(OpSetText); got != 1 {
		t.Errorf("Count(SetText) = %d, want 1", got)
	}
	if ChildAt(ul, 0) != a || Index(b) != 1 {
		t.Error("InsertBefore did not place node before ref")
	}

	before := d.Stats()
	d.SetText(ChildAt(d.Body(), 0), ChildAt(d.Body(), 0).Data)
	d.RemoveAttr(ul, "missing")
	if d.Stats().Sub(before).Total() != 0 {
		t.Error("no-op mutations were recorded")
	}
}

func TestReplaceAndRemove(t *testing.T) {
	d := NewDocument()
	p := d.CreateElement("p")
	span := d.CreateElement("span")
	d.AppendChild(d.Body(), p)
	d.ReplaceChild(d.Body(), span, p)

	if d.Body().FirstChild != span || p.Parent != nil {
		t.Fatal("ReplaceChild did not swap nodes")
	}
	d.Remove(span)
	d.Remove(span)
	if d.Stats().Count(OpRemove) != 1 {
		t.Errorf("Count(Remove) = %d, want 1", d.Stats().Count(OpRemove))
	}
}

func TestObserve(t *testing.T) {
	d := NewDocument()
	var ops []Op
	cancel := d.Observe(func(m Mutation) { ops = append(ops, m.Op) })
	d.AppendChild(d.Body(), d.CreateElement("div"))
	cancel()
	d.CreateElement("div")

	if len(ops) != 2 || ops[0] != OpCreate || ops[1] != OpInsert {
		t.Errorf("observed %v", ops)
	}
}

func TestAttributes(t *testing.T) {
	d := NewDocument()
	n := d.CreateElement("div")
	d.SetAttr(n, "data-x", "1")
	d.SetAttr(n, "data-x", "2")
	if v, ok := Attr(n, "data-x"); !ok || v != "2" {
		t.Errorf("Attr = %q, %v", v, ok)
	}
	if len(n.Attr) != 1 {
		t.Errorf("len(Attr) = %d, want 1", len(n.Attr))
	}
	d.RemoveAttr(n, "data-x")
	if _, ok := Attr(n, "data-x"); ok {
		t.Error("attribute still present")
	}
}

func TestCreateElementNS(t *testing.T) {
	d := NewDocument()
	svg := d.CreateElementNS(NamespaceSVG, "svg")
	if svg.Namespace != "svg" {
		t.Errorf("Namespace = %q, want svg", svg.Namespace)
	}
	if d.HasField(svg, "className") {
		t.Error("svg element should expose no fields")
	}
	div := d.CreateElementNS(NamespaceXHTML, "div")
	if div.Namespace != "" || div.DataAtom == 0 {
		t.Errorf("xhtml element = %+v", div)
	}
}

func TestAddStyle(t *testing.T) {
	d := NewDocument()
	d.AddStyle(".a{color:red}")
	d.AddStyle(".b{color:blue}")

	styles := FindAll(d.Head(), ByTag("style"))
	if len(styles) != 1 {
		t.Fatalf("found %d style elements, want 1", len(styles))
	}
	if got := d.StyleSheet(); got != ".a{color:red}.b{color:blue}" {
		t.Errorf("StyleSheet() = %q", got)
	}
}

func TestQueries(t *testing.T) {
	d := NewDocument()
	nav := d.CreateElement("nav")
	a := d.CreateElement("a")
	b := d.CreateElement("b")
	d.AppendChild(d.Body(), nav)
	d.AppendChild(nav, a)
	d.AppendChild(a, b)
	d.SetField(a, "id", "home")
	d.SetField(a, "className", "link active")
	d.AppendChild(b, d.CreateText("Home"))

	if Closest(b, "a") != a || Closest(b, "nav") != nav || Closest(b, "ul") != nil {
		t.Error("Closest returned wrong ancestor")
	}
	if d.GetElementByID("home") != a {
		t.Error("GetElementByID did not find the anchor")
	}
	if !HasClass(a, "active") || HasClass(a, "act") {
		t.Error("HasClass mismatch")
	}
	if TextContent(nav) != "Home" {
		t.Errorf("TextContent = %q", TextContent(nav))
	}
	if !Contains(nav, b) || Contains(b, nav) {
		t.Error("Contains mismatch")
	}
	if len(ChildNodes(nav)) != 1 {
		t.Error("ChildNodes mismatch")
	}
}

func TestRenderSerialization(t *testing.T) {
	d := NewDocument()
	p := d.CreateElement("p")
	d.SetAttr(p, "class", "x")
	d.AppendChild(p, d.CreateText("a < b"))

	got, err := HTML(p)
	if err != nil {
		t.Fatal(err)
	}
	if got != `<p class="x">a &lt; b</p>` {
		t.Errorf("HTML = %q", got)
	}
	inner, _ := InnerHTML(p)
	if inner != "a &lt; b" {
		t.Errorf("InnerHTML = %q", inner)
	}
	if p.Type != html.ElementNode {
		t.Error("not an element")
	}
}
