package vdom

import (
	"fmt"
	"reflect"

	"golang.org/x/net/html"
)

// El creates an element node. Attrs are classified; children are
// normalized with Children.
func El(tag string, attrs Attrs, children ...any) *VNode {
	node := &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Props:    make(Props),
		Children: Children(children...),
	}
	for _, k := range sortedKeys(attrs) {
		node.Set(k, attrs[k])
	}
	return node
}

// Comp creates a component node.
func Comp(fn ComponentFunc, attrs Attrs, children ...any) *VNode {
	node := &VNode{
		Kind:     KindComponent,
		Comp:     fn,
		Props:    make(Props),
		Children: Children(children...),
	}
	for _, k := range sortedKeys(attrs) {
		node.Set(k, attrs[k])
	}
	return node
}

// Text creates a text node from a string, number or boolean.
func Text(content any) *VNode {
	return &VNode{
		Kind: KindText,
		Text: Stringify(content),
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Native wraps an externally-owned live node.
func Native(n *html.Node) *VNode {
	return &VNode{
		Kind:   KindNative,
		Native: n,
	}
}

// Children normalizes child values: slices are spread, nil and false are
// dropped, everything else becomes one child.
func Children(values ...any) []*VNode {
	out := make([]*VNode, 0, len(values))
	for _, v := range values {
		out = AppendChild(out, v)
	}
	return out
}

// AppendChild appends the normalized form of v to children.
func AppendChild(children []*VNode, v any) []*VNode {
	switch x := v.(type) {
	case nil:
		return children
	case bool:
		if !x {
			return children
		}
		return append(children, Text(x))
	case *VNode:
		if x == nil {
			return children
		}
		return append(children, x)
	case []*VNode:
		for _, c := range x {
			children = AppendChild(children, c)
		}
		return children
	case []any:
		for _, c := range x {
			children = AppendChild(children, c)
		}
		return children
	case *html.Node:
		if x == nil {
			return children
		}
		return append(children, Native(x))
	case ComponentFunc:
		return append(children, Comp(x, nil))
	case func(Props) *VNode:
		return append(children, Comp(x, nil))
	case string:
		return append(children, Text(x))
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for i := 0; i < rv.Len(); i++ {
			children = AppendChild(children, rv.Index(i).Interface())
		}
		return children
	}
	return append(children, Text(v))
}
