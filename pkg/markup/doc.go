// Package markup compiles tagged-literal templates into vdom node
// descriptions.
//
// A template is a sequence of literal text segments interleaved with Go
// values, the way a tagged template literal arrives at its tag function:
//
//	node, err := markup.Template(`<ul .list=%v>%v</ul>`, wide, items)
//
// Literal text is scanned by a small state machine. Values in child
// position become children (slices are spread, nil and false dropped).
// Values in attribute position are concatenated into the name or value
// being read; a value standing alone keeps its Go type, so a component
// function in tag position produces a component node and `.big=%v` with a
// bool stays a bool.
//
// Attribute-name sigils are resolved when the tag closes:
//
//	.name=v    append " name" to classList when v is truthy
//	#name=v    set id to name when v is truthy
//	$name      record the committed node as ref name
//	--name=v   append ";--name:v;" to style
//	...=bag    merge a prop bag (vdom.Props, vdom.Attrs, map[string]any)
//	name       bare attribute, value true
//
// Compile is pure: the same inputs always produce equal trees.
package markup
