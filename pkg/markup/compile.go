package markup

import (
	"strings"

	"github.com/vango-dev/minidom/internal/errors"
	"github.com/vango-dev/minidom/pkg/vdom"
)

type state uint8

const (
	stateChild  state = iota // between tags
	stateOpen                // reading a tag name
	stateKey                 // reading an attribute name
	stateValue               // reading an unquoted attribute value
	stateQuoted              // reading a quoted attribute value
	stateClose               // reading a closing tag
)

// sigils that start an attribute directly after '<' (default tag).
const sigils = "#$:.-"

type frame struct {
	tag      any // string or vdom.ComponentFunc; nil until read
	props    []any
	children []*vdom.VNode
}

type compiler struct {
	st    state
	stack []*frame
	tok   token
}

// Compile builds one node description from literal segments interleaved
// with values. len(literals) must be len(values)+1.
func Compile(literals []string, values ...any) (*vdom.VNode, error) {
	if len(literals) != len(values)+1 {
		return nil, errors.New("M104").
			WithDetailf("%d literals, %d values", len(literals), len(values))
	}

	c := &compiler{stack: []*frame{{}}}
	for i, s := range literals {
		if err := c.scan(s); err != nil {
			return nil, err
		}
		if i < len(values) {
			c.interpolate(values[i], len(values)-i-1)
		} else if c.st == stateChild {
			if text := c.tok.text(); strings.TrimSpace(text) != "" {
				c.top().children = append(c.top().children, vdom.Text(text))
			}
			c.tok.reset()
		}
	}
	return c.finish()
}

func (c *compiler) top() *frame {
	return c.stack[len(c.stack)-1]
}

func (c *compiler) scan(s string) error {
	for i := 0; i < len(s); i++ {
		ch := s[i]
		var next byte
		if i+1 < len(s) {
			next = s[i+1]
		}

		switch {
		case c.st == stateChild && ch == '<':
			if text := c.tok.text(); strings.TrimSpace(text) != "" {
				c.top().children = append(c.top().children, vdom.Text(text))
			}
			if next == '/' {
				c.st = stateClose
			} else {
				c.stack = append(c.stack, &frame{})
				if next != 0 && strings.IndexByte(sigils, next) >= 0 {
					c.st = stateKey
				} else {
					c.st = stateOpen
				}
			}

		case c.st == stateClose && ch == '>':
			if err := c.closeTag(); err != nil {
				return err
			}
			c.st = stateChild

		case (c.st == stateOpen || c.st == stateKey || c.st == stateValue) &&
			(isSpace(ch) || ch == '>' || (ch == '/' && next == '>')):
			c.endToken()
			switch ch {
			case '/':
				c.st = stateClose
			case '>':
				c.st = stateChild
			default:
				c.st = stateKey
			}

		case c.st == stateKey && ch == '=':
			c.top().props = append(c.top().props, c.tok.text())
			if next == '"' || next == '\'' {
				c.st = stateQuoted
			} else {
				c.st = stateValue
			}

		case c.st == stateQuoted && ch == c.tok.first():
			c.top().props = append(c.top().props, c.tok.text()[1:])
			c.st = stateKey

		default:
			c.tok.addByte(ch)
			continue
		}
		c.tok.reset()
	}
	return nil
}

// endToken finishes a tag name, bare attribute or unquoted value.
func (c *compiler) endToken() {
	f := c.top()
	switch c.st {
	case stateOpen:
		f.tag = c.tok.value()
	case stateKey:
		if c.tok.empty() {
			return
		}
		if v, ok := c.tok.spread(); ok {
			f.props = append(f.props, "...", v)
			return
		}
		f.props = append(f.props, c.tok.text(), true)
	case stateValue:
		f.props = append(f.props, c.tok.value())
	}
}

func (c *compiler) interpolate(v any, remaining int) {
	if c.st != stateChild {
		if !dropped(v) {
			c.tok.addValue(v)
		}
		return
	}
	if text := c.tok.text(); strings.TrimSpace(text) != "" || (text != "" && remaining > 0) {
		c.top().children = append(c.top().children, vdom.Text(text))
		c.tok.reset()
	}
	c.top().children = vdom.AppendChild(c.top().children, v)
}

func (c *compiler) closeTag() error {
	if len(c.stack) < 2 {
		return errors.New("M103").WithDetailf("unexpected <%s> outside any tag", c.tok.text())
	}
	f := c.top()
	c.stack = c.stack[:len(c.stack)-1]

	node := &vdom.VNode{Props: make(vdom.Props)}
	if fn, ok := componentFunc(f.tag); ok {
		node.Kind = vdom.KindComponent
		node.Comp = fn
	} else {
		node.Kind = vdom.KindElement
		node.Tag = vdom.Stringify(f.tag)
		if node.Tag == "" {
			node.Tag = "div"
		}
	}

	if err := c.checkClosing(node); err != nil {
		return err
	}

	for i := 0; i+1 < len(f.props); i += 2 {
		node.Set(vdom.Stringify(f.props[i]), f.props[i+1])
	}
	node.Children = f.children

	c.top().children = append(c.top().children, node)
	return nil
}

// checkClosing accepts `>`, `/>`, `</>`, `</tag>` and `</%v>` with the
// opening component function.
func (c *compiler) checkClosing(node *vdom.VNode) error {
	if c.tok.empty() {
		return nil
	}
	if len(c.tok.parts) == 2 && node.Kind == vdom.KindComponent {
		if s, _ := c.tok.parts[0].(string); s == "/" {
			if fn, ok := componentFunc(c.tok.parts[1]); ok && vdom.FuncID(fn) == vdom.FuncID(node.Comp) {
				return nil
			}
		}
	}
	text := c.tok.text()
	if text == "/" {
		return nil
	}
	if node.Kind == vdom.KindElement && strings.TrimPrefix(text, "/") == node.Tag {
		return nil
	}
	return errors.New("M103").WithDetailf("unexpected <%s> in <%s>", text, tagName(node))
}

func (c *compiler) finish() (*vdom.VNode, error) {
	if text := c.tok.text(); strings.TrimSpace(text) != "" {
		return nil, errors.New("M100").WithDetailf("leftovers: %q", text)
	}
	if len(c.stack) > 1 {
		open := make([]string, 0, len(c.stack)-1)
		for _, f := range c.stack[1:] {
			open = append(open, "<"+frameName(f)+">")
		}
		return nil, errors.New("M101").WithDetail(strings.Join(open, " "))
	}
	children := c.stack[0].children
	switch len(children) {
	case 0:
		return nil, errors.New("M105")
	case 1:
		return children[0], nil
	}
	names := make([]string, len(children))
	for i, n := range children {
		names[i] = n.Name()
	}
	return nil, errors.New("M102").WithDetailf("%d nodes: %s", len(children), strings.Join(names, ", "))
}

func tagName(n *vdom.VNode) string {
	if n.Kind == vdom.KindComponent {
		return vdom.FuncName(n.Comp)
	}
	return n.Tag
}

func frameName(f *frame) string {
	if fn, ok := componentFunc(f.tag); ok {
		return vdom.FuncName(fn)
	}
	if s := vdom.Stringify(f.tag); s != "" {
		return s
	}
	return "div"
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}

func dropped(v any) bool {
	b, ok := v.(bool)
	return v == nil || (ok && !b)
}

// Must panics when err is not nil.
func Must(node *vdom.VNode, err error) *vdom.VNode {
	if err != nil {
		panic(err)
	}
	return node
}

// Template compiles format, splitting it into literals at each %v. %%
// produces a literal percent sign; other verbs are kept as text.
func Template(format string, values ...any) (*vdom.VNode, error) {
	return Compile(Split(format), values...)
}

// MustTemplate is Template that panics on error.
func MustTemplate(format string, values ...any) *vdom.VNode {
	return Must(Template(format, values...))
}

// Split splits format into literal segments at each %v.
func Split(format string) []string {
	var (
		literals []string
		b        strings.Builder
	)
	for i := 0; i < len(format); i++ {
		if format[i] == '%' && i+1 < len(format) {
			switch format[i+1] {
			case '%':
				b.WriteByte('%')
				i++
				continue
			case 'v':
				literals = append(literals, b.String())
				b.Reset()
				i++
				continue
			}
		}
		b.WriteByte(format[i])
	}
	return append(literals, b.String())
}

// Raw interleaves literals and values into one string.
func Raw(literals []string, values ...any) string {
	var b strings.Builder
	for i, s := range literals {
		b.WriteString(s)
		if i < len(values) {
			b.WriteString(vdom.Stringify(values[i]))
		}
	}
	return b.String()
}
