package vdom

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"golang.org/x/net/html"

	"github.com/vango-dev/minidom/pkg/dom"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindComponent              // Component function
	KindNative                 // Externally-owned live node
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComponent:
		return "Component"
	case KindNative:
		return "Native"
	default:
		return "Unknown"
	}
}

// ComponentFunc renders props into exactly one node.
type ComponentFunc func(props Props) *VNode

// VNode is a node description.
type VNode struct {
	Kind     VKind         // Node type
	Tag      string        // Element tag name (e.g., "div")
	Props    Props         // Classified props
	Children []*VNode      // Child nodes
	Ref      string        // Name the committed node is recorded under
	Text     string        // For KindText
	Comp     ComponentFunc // For KindComponent
	Native   *html.Node    // For KindNative
}

// Handler is an event handler with bound trailing arguments.
// The handler receives the event first, then Args.
type Handler struct {
	Fn   func(e *dom.Event, args ...any)
	Args []any
}

// FuncID returns the identity of a component function. Two closures built
// from the same function literal share an identity.
func FuncID(fn ComponentFunc) uintptr {
	if fn == nil {
		return 0
	}
	return reflect.ValueOf(fn).Pointer()
}

// FuncName returns the qualified name of a component function.
func FuncName(fn ComponentFunc) string {
	if fn == nil {
		return ""
	}
	if f := runtime.FuncForPC(FuncID(fn)); f != nil {
		return f.Name()
	}
	return fmt.Sprintf("%#x", FuncID(fn))
}

// Name returns a short human-readable description of the node.
func (v *VNode) Name() string {
	if v == nil {
		return "<nil>"
	}
	switch v.Kind {
	case KindElement:
		return "<" + v.Tag + ">"
	case KindText:
		return fmt.Sprintf("%q", v.Text)
	case KindComponent:
		return fmt.Sprintf("<component %#x>", FuncID(v.Comp))
	case KindNative:
		if v.Native != nil && v.Native.Type == html.ElementNode {
			return "<native " + v.Native.Data + ">"
		}
		return "<native>"
	}
	return "<unknown>"
}

// String renders the description tree in a compact debug form.
func (v *VNode) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v *VNode) write(b *strings.Builder) {
	if v == nil {
		b.WriteString("nil")
		return
	}
	if v.Kind != KindElement && v.Kind != KindComponent {
		b.WriteString(v.Name())
		return
	}
	if v.Kind == KindElement {
		b.WriteString(v.Tag)
	} else {
		b.WriteString(v.Name())
	}
	if len(v.Props) > 0 {
		b.WriteString("{")
		for i, k := range v.Props.Keys() {
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(b, "%s=%v", k, v.Props[k].Value)
		}
		b.WriteString("}")
	}
	if v.Ref != "" {
		b.WriteString("$" + v.Ref)
	}
	b.WriteString("[")
	for i, c := range v.Children {
		if i > 0 {
			b.WriteString(" ")
		}
		c.write(b)
	}
	b.WriteString("]")
}

// Equal reports whether two descriptions are structurally equal. Function
// values compare by code pointer.
func Equal(a, b *VNode) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Tag != b.Tag || a.Ref != b.Ref || a.Text != b.Text || a.Native != b.Native {
		return false
	}
	if FuncID(a.Comp) != FuncID(b.Comp) {
		return false
	}
	if len(a.Props) != len(b.Props) {
		return false
	}
	for k, pa := range a.Props {
		pb, ok := b.Props[k]
		if !ok || pa.Kind != pb.Kind || pa.Name != pb.Name || !ValuesEqual(pa.Value, pb.Value) {
			return false
		}
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// ValuesEqual compares two prop or dependency values: comparable values
// with ==, functions, maps, slices, channels and pointers by identity.
func ValuesEqual(a, b any) bool {
	// Fast path for common types
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}

	if b == nil {
		return false
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		if ra.Kind() == reflect.Slice && ra.Len() != rb.Len() {
			return false
		}
		return ra.Pointer() == rb.Pointer()
	}
	if ra.Type().Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
