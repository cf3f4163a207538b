package dom

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the children of the visited node.
func Walk(n *html.Node, fn func(*html.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		Walk(c, fn)
		c = next
	}
}

// ChildNodes returns the children of n in order.
func ChildNodes(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// ChildAt returns the i-th child of n, or nil.
func ChildAt(n *html.Node, i int) *html.Node {
	c := n.FirstChild
	for ; c != nil && i > 0; i-- {
		c = c.NextSibling
	}
	return c
}

// Index returns the position of n among its siblings, or -1 when detached.
func Index(n *html.Node) int {
	if n.Parent == nil {
		return -1
	}
	i := 0
	for c := n.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c == n {
			return i
		}
		i++
	}
	return -1
}

// Contains reports whether n is root or one of its descendants.
func Contains(root, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}

// Closest returns the nearest inclusive ancestor of n that is an element
// named tag.
func Closest(n *html.Node, tag string) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && n.Data == tag {
			return n
		}
	}
	return nil
}

// Find returns the first node under root (inclusive) matching fn.
func Find(root *html.Node, fn func(*html.Node) bool) *html.Node {
	var found *html.Node
	Walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if fn(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node under root (inclusive) matching fn, in
// document order.
func FindAll(root *html.Node, fn func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	Walk(root, func(n *html.Node) bool {
		if fn(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// ByTag matches elements named tag.
func ByTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	}
}

// ByID matches the element whose id attribute equals id.
func ByID(id string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		v, ok := Attr(n, "id")
		return ok && n.Type == html.ElementNode && v == id
	}
}

// GetElementByID returns the element under the document root with the id.
func (d *Document) GetElementByID(id string) *html.Node {
	return Find(d.root, ByID(id))
}

// TextContent concatenates the text of n and its descendants.
func TextContent(n *html.Node) string {
	var b strings.Builder
	Walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

// HasClass reports whether the class attribute of n lists name.
func HasClass(n *html.Node, name string) bool {
	v, _ := Attr(n, "class")
	for _, c := range strings.Fields(v) {
		if c == name {
			return true
		}
	}
	return false
}

func sortedListenerTypes(m map[string][]listener) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
