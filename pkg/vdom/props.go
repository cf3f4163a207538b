package vdom

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PropKind classifies a prop key. The first five kinds only exist while
// props are being built; they never appear in a finished Props map.
type PropKind uint8

const (
	PropClassToggle   PropKind = iota + 1 // .name  -> appended to classList when truthy
	PropIDSet                             // #name  -> id when truthy
	PropRefBind                           // $name  -> VNode.Ref when truthy
	PropStyleVar                          // --name -> custom property appended to style
	PropSpread                            // ...    -> shallow merge of a prop bag
	PropEvent                             // on<type>
	PropRerenderEvent                     // @<type>, re-renders the owner after the handler
	PropRawField                          // !<name>, set as a field bypassing attributes
	PropPlain                             // field or attribute
	PropAmbient                           // $, the renderer's scope handle
)

// String returns the string representation of the PropKind.
func (k PropKind) String() string {
	switch k {
	case PropClassToggle:
		return "ClassToggle"
	case PropIDSet:
		return "IDSet"
	case PropRefBind:
		return "RefBind"
	case PropStyleVar:
		return "StyleVar"
	case PropSpread:
		return "Spread"
	case PropEvent:
		return "Event"
	case PropRerenderEvent:
		return "RerenderEvent"
	case PropRawField:
		return "RawField"
	case PropPlain:
		return "Plain"
	case PropAmbient:
		return "Ambient"
	default:
		return "Unknown"
	}
}

// AmbientKey is the props key the renderer stores its scope handle under.
const AmbientKey = "$"

// Prop is one classified prop.
type Prop struct {
	Kind  PropKind
	Name  string // event type, field or attribute name
	Value any
}

// Props holds classified props keyed by the key as written.
type Props map[string]Prop

// Attrs is an unclassified prop bag, used for spreads and hand-built nodes.
type Attrs map[string]any

// Classify returns the kind of a prop key and the name it addresses.
func Classify(key string) (PropKind, string) {
	switch {
	case key == AmbientKey:
		return PropAmbient, key
	case key == "...":
		return PropSpread, key
	case strings.HasPrefix(key, "--"):
		return PropStyleVar, key
	case len(key) > 1 && key[0] == '.':
		return PropClassToggle, key[1:]
	case len(key) > 1 && key[0] == '#':
		return PropIDSet, key[1:]
	case len(key) > 1 && key[0] == '$':
		return PropRefBind, key[1:]
	case len(key) > 1 && key[0] == '@':
		return PropRerenderEvent, key[1:]
	case len(key) > 1 && key[0] == '!':
		return PropRawField, key[1:]
	case len(key) > 2 && key[0] == 'o' && key[1] == 'n':
		return PropEvent, key[2:]
	default:
		return PropPlain, key
	}
}

// Set resolves one key/value pair into the node: sigil keys update
// classList, id, Ref, style or merge a spread; everything else is stored
// classified.
func (v *VNode) Set(key string, value any) {
	if v.Props == nil {
		v.Props = make(Props)
	}

	kind, name := Classify(key)
	switch kind {
	case PropClassToggle:
		if Truthy(value) {
			v.Props.concat("classList", " "+name)
		}
	case PropIDSet:
		if Truthy(value) {
			v.Props["id"] = Prop{Kind: PropPlain, Name: "id", Value: name}
		}
	case PropRefBind:
		if Truthy(value) {
			v.Ref = name
		}
	case PropStyleVar:
		v.Props.concat("style", ";"+key+":"+Stringify(value)+";")
	case PropSpread:
		v.spread(value)
	default:
		v.Props[key] = Prop{Kind: kind, Name: name, Value: value}
	}
}

func (v *VNode) spread(value any) {
	switch bag := value.(type) {
	case nil:
	case Props:
		for k, p := range bag {
			v.Props[k] = p
		}
	case Attrs:
		for _, k := range sortedKeys(bag) {
			v.Set(k, bag[k])
		}
	case map[string]any:
		for _, k := range sortedKeys(bag) {
			v.Set(k, bag[k])
		}
	case map[string]string:
		keys := make([]string, 0, len(bag))
		for k := range bag {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v.Set(k, bag[k])
		}
	}
}

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (p Props) concat(key, suffix string) {
	cur, _ := p[key].Value.(string)
	p[key] = Prop{Kind: PropPlain, Name: key, Value: cur + suffix}
}

// Get returns the value stored under key, or nil.
func (p Props) Get(key string) any {
	return p[key].Value
}

// Has reports whether key is present.
func (p Props) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String returns the value under key formatted as a string, or "".
func (p Props) String(key string) string {
	v, ok := p[key]
	if !ok || v.Value == nil {
		return ""
	}
	return Stringify(v.Value)
}

// Key returns the component identity: the key prop, else the id prop.
func (p Props) Key() string {
	if k := p.String("key"); k != "" {
		return k
	}
	return p.String("id")
}

// Keys returns the keys in sorted order.
func (p Props) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy.
func (p Props) Clone() Props {
	out := make(Props, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	return out
}

// NewProps classifies an attribute bag.
func NewProps(attrs Attrs) (Props, string) {
	v := &VNode{Props: make(Props)}
	for _, k := range sortedKeys(attrs) {
		v.Set(k, attrs[k])
	}
	return v.Props, v.Ref
}

// Truthy reports whether a value counts as set for sigil props: nil, false,
// "", and numeric zero do not.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	}
	return true
}

// Stringify formats a prop or text value the way it is written to the
// document.
func Stringify(v any) string {
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
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}
