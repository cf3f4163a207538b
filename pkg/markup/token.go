package markup

import (
	"strings"

	"github.com/vango-dev/minidom/pkg/vdom"
)

// token accumulates literal bytes and interpolated values.
type token struct {
	parts []any
}

func (t *token) addByte(c byte) {
	if n := len(t.parts); n > 0 {
		if s, ok := t.parts[n-1].(string); ok {
			t.parts[n-1] = s + string(c)
			return
		}
	}
	t.parts = append(t.parts, string(c))
}

func (t *token) addValue(v any) {
	t.parts = append(t.parts, v)
}

func (t *token) reset() {
	t.parts = t.parts[:0]
}

func (t *token) empty() bool {
	return len(t.parts) == 0
}

// value returns a lone part as-is and concatenates anything longer.
func (t *token) value() any {
	switch len(t.parts) {
	case 0:
		return ""
	case 1:
		return t.parts[0]
	}
	return t.text()
}

func (t *token) text() string {
	var b strings.Builder
	for _, p := range t.parts {
		b.WriteString(vdom.Stringify(p))
	}
	return b.String()
}

// first returns the first literal byte, or 0.
func (t *token) first() byte {
	if len(t.parts) == 0 {
		return 0
	}
	s, ok := t.parts[0].(string)
	if !ok || s == "" {
		return 0
	}
	return s[0]
}

// spread reports whether the token is `...` directly followed by one value.
func (t *token) spread() (any, bool) {
	if len(t.parts) != 2 {
		return nil, false
	}
	if s, ok := t.parts[0].(string); !ok || s != "..." {
		return nil, false
	}
	return t.parts[1], true
}

// componentFunc returns fn when v is a component function.
func componentFunc(v any) (vdom.ComponentFunc, bool) {
	switch fn := v.(type) {
	case vdom.ComponentFunc:
		return fn, fn != nil
	case func(vdom.Props) *vdom.VNode:
		return fn, fn != nil
	}
	return nil, false
}
