// Package vdom provides the node description model for minidom.
//
// A node description is a lightweight tree produced fresh on every render
// pass (by the markup compiler or by hand) and consumed by the reconciler,
// which commits it against a live document. Descriptions are never retained
// after a commit.
//
// # Core Types
//
// VNode is the single node type, discriminated by Kind:
//   - KindElement: a markup element with Tag, Props, Children and Ref
//   - KindText: a text value
//   - KindComponent: a ComponentFunc with Props and Children
//   - KindNative: an externally-owned *html.Node inserted as-is
//
// # Props
//
// Props maps the key as written to a Prop carrying a PropKind. Sigil keys
// (.class, #id, $ref, --var, ...) are resolved when props are built, so
// the committer dispatches on Kind and never inspects key prefixes:
//
//	n := vdom.El("button", vdom.Attrs{
//	    ".primary": active,
//	    "@click":   onClick,
//	}, vdom.Text("Save"))
package vdom
