package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// reflection describes how a field maps onto the attribute list.
type reflection uint8

const (
	reflectNone   reflection = iota // property only
	reflectString                   // attribute holds the string form
	reflectBool                     // attribute present when truthy
	reflectMarkup                   // replaces children with parsed markup
	reflectText                     // replaces children with one text node
)

type fieldSpec struct {
	attr string
	mode reflection
}

var globalFields = map[string]fieldSpec{
	"id":              {"id", reflectString},
	"className":       {"class", reflectString},
	"classList":       {"class", reflectString},
	"style":           {"style", reflectString},
	"title":           {"title", reflectString},
	"lang":            {"lang", reflectString},
	"dir":             {"dir", reflectString},
	"hidden":          {"hidden", reflectBool},
	"tabIndex":        {"tabindex", reflectString},
	"accessKey":       {"accesskey", reflectString},
	"draggable":       {"draggable", reflectString},
	"contentEditable": {"contenteditable", reflectString},
	"innerHTML":       {"", reflectMarkup},
	"textContent":     {"", reflectText},
	"innerText":       {"", reflectText},
	"scrollTop":       {"", reflectNone},
	"scrollLeft":      {"", reflectNone},
}

var elementFields = map[string]map[string]fieldSpec{
	"a": {
		"href":     {"href", reflectString},
		"target":   {"target", reflectString},
		"rel":      {"rel", reflectString},
		"download": {"download", reflectString},
	},
	"input": {
		"value":        {"", reflectNone},
		"defaultValue": {"value", reflectString},
		"checked":      {"", reflectNone},
		"type":         {"type", reflectString},
		"name":         {"name", reflectString},
		"placeholder":  {"placeholder", reflectString},
		"disabled":     {"disabled", reflectBool},
		"readOnly":     {"readonly", reflectBool},
		"required":     {"required", reflectBool},
		"multiple":     {"multiple", reflectBool},
		"autofocus":    {"autofocus", reflectBool},
		"min":          {"min", reflectString},
		"max":          {"max", reflectString},
		"step":         {"step", reflectString},
		"list":         {"list", reflectNone},
		"form":         {"form", reflectNone},
	},
	"textarea": {
		"value":       {"", reflectNone},
		"name":        {"name", reflectString},
		"placeholder": {"placeholder", reflectString},
		"disabled":    {"disabled", reflectBool},
		"readOnly":    {"readonly", reflectBool},
		"rows":        {"rows", reflectString},
		"cols":        {"cols", reflectString},
		"form":        {"form", reflectNone},
	},
	"select": {
		"value":         {"", reflectNone},
		"selectedIndex": {"", reflectNone},
		"name":          {"name", reflectString},
		"disabled":      {"disabled", reflectBool},
		"multiple":      {"multiple", reflectBool},
		"form":          {"form", reflectNone},
	},
	"option": {
		"value":    {"value", reflectString},
		"label":    {"label", reflectString},
		"disabled": {"disabled", reflectBool},
		"selected": {"", reflectNone},
		"text":     {"", reflectText},
		"form":     {"form", reflectNone},
	},
	"button": {
		"type":     {"type", reflectString},
		"name":     {"name", reflectString},
		"value":    {"value", reflectString},
		"disabled": {"disabled", reflectBool},
		"form":     {"form", reflectNone},
	},
	"form": {
		"action": {"action", reflectString},
		"method": {"method", reflectString},
		"name":   {"name", reflectString},
	},
	"label": {
		"htmlFor": {"for", reflectString},
		"form":    {"form", reflectNone},
	},
	"img": {
		"src":    {"src", reflectString},
		"alt":    {"alt", reflectString},
		"width":  {"width", reflectString},
		"height": {"height", reflectString},
	},
	"iframe": {
		"src":    {"src", reflectString},
		"width":  {"width", reflectString},
		"height": {"height", reflectString},
	},
	"script": {
		"src":  {"src", reflectString},
		"type": {"type", reflectString},
	},
	"link": {
		"href": {"href", reflectString},
		"rel":  {"rel", reflectString},
	},
	"video": {
		"src":      {"src", reflectString},
		"controls": {"controls", reflectBool},
		"autoplay": {"autoplay", reflectBool},
	},
}

func lookupField(n *html.Node, name string) (fieldSpec, bool) {
	if n == nil || n.Type != html.ElementNode || n.Namespace != "" {
		return fieldSpec{}, false
	}
	if spec, ok := elementFields[n.Data][name]; ok {
		return spec, true
	}
	spec, ok := globalFields[name]
	return spec, ok
}

// HasField reports whether n exposes a settable field called name.
// Elements in a foreign namespace expose none.
func (d *Document) HasField(n *html.Node, name string) bool {
	_, ok := lookupField(n, name)
	return ok
}

// Field returns the last value stored in the field, or nil.
func (d *Document) Field(n *html.Node, name string) any {
	st := d.nodeState(n, false)
	if st == nil {
		return nil
	}
	return st.fields[name]
}

// SetField stores value in the field and reflects it onto the attribute
// list or the children where the field reflects. Unknown fields are stored
// as expando properties. A nil value stores "".
func (d *Document) SetField(n *html.Node, name string, value any) {
	if value == nil {
		value = ""
	}
	st := d.nodeState(n, true)
	if st.fields == nil {
		st.fields = make(map[string]any)
	}
	st.fields[name] = value

	if spec, ok := lookupField(n, name); ok {
		d.reflectField(n, spec, value)
	}
	d.record(Mutation{Op: OpSetField, Target: n, Key: name, Value: fieldString(value)})
}

func (d *Document) reflectField(n *html.Node, spec fieldSpec, value any) {
	switch spec.mode {
	case reflectString:
		setAttr(n, spec.attr, fieldString(value))
	case reflectBool:
		if fieldTruthy(value) {
			setAttr(n, spec.attr, "")
		} else {
			removeAttr(n, spec.attr)
		}
	case reflectText:
		clearChildren(n)
		if s := fieldString(value); s != "" {
			n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
		}
	case reflectMarkup:
		clearChildren(n)
		nodes, err := html.ParseFragment(strings.NewReader(fieldString(value)), n)
		if err != nil {
			return
		}
		for _, c := range nodes {
			n.AppendChild(c)
		}
	}
}

func clearChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

func fieldString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	}
	return fmt.Sprint(v)
}

func fieldTruthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	return true
}
