// Package dom is the live document minidom commits into.
//
// The tree itself is a golang.org/x/net/html node tree, so it can be
// serialized with html.Render and inspected with the usual x/net/html
// idioms. Document layers on what a browser adds to plain markup:
//
//   - settable fields per element type, reflected to attributes where the
//     browser reflects them (id, className, href, disabled, ...)
//   - event listeners with bubbling dispatch
//   - a Window with location, history (push/replace/back/forward with
//     popstate) and scroll/focus state
//   - mutation records, counted in Stats and delivered to observers
//
// Every mutating method records exactly one Mutation, which is what the
// reconciler's minimality guarantees are measured against.
package dom
