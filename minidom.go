// Package minidom provides the public API for the minidom UI runtime.
//
// This is the recommended import for most applications:
//
//	import "github.com/vango-dev/minidom"
//
// Usage:
//
//	func Counter(props minidom.Props) *minidom.VNode {
//	    count := minidom.UseState(props, 0)
//	    return minidom.MustHTML(`<button onclick=%v>%v</button>`,
//	        func() { count.Set(count.Get() + 1) }, count.Get())
//	}
//
//	doc := minidom.NewDocument()
//	r := minidom.NewRenderer(doc)
//	r.Render(minidom.Comp(Counter, minidom.Attrs{"key": "c"}), doc.Body())
package minidom

import (
	"context"

	"golang.org/x/net/html"

	"github.com/vango-dev/minidom/internal/errors"
	"github.com/vango-dev/minidom/pkg/dom"
	"github.com/vango-dev/minidom/pkg/markup"
	"github.com/vango-dev/minidom/pkg/render"
	"github.com/vango-dev/minidom/pkg/router"
	"github.com/vango-dev/minidom/pkg/vdom"
)

// =============================================================================
// Node descriptions (re-export from pkg/vdom)
// =============================================================================

// VNode is a node description.
type VNode = vdom.VNode

// Props holds the classified props a component receives.
type Props = vdom.Props

// Attrs is an unclassified prop bag.
type Attrs = vdom.Attrs

// ComponentFunc renders props into exactly one node.
type ComponentFunc = vdom.ComponentFunc

// Handler is an event handler with bound trailing arguments.
type Handler = vdom.Handler

// El creates an element node.
var El = vdom.El

// Comp creates a component node.
var Comp = vdom.Comp

// Text creates a text node.
var Text = vdom.Text

// Native wraps an externally-owned live node.
var Native = vdom.Native

// =============================================================================
// Markup compiler (re-export from pkg/markup)
// =============================================================================

// HTML compiles a template, splitting format at each %v.
func HTML(format string, values ...any) (*VNode, error) {
	return markup.Template(format, values...)
}

// MustHTML is HTML that panics on a parse error.
func MustHTML(format string, values ...any) *VNode {
	return markup.MustTemplate(format, values...)
}

// Compile compiles pre-split literals and the values between them.
var Compile = markup.Compile

// CSS appends a rule to the document's shared style sheet.
var CSS = markup.CSS

// =============================================================================
// Document and renderer
// =============================================================================

// Document is the live document tree.
type Document = dom.Document

// Event is a dispatched DOM event.
type Event = dom.Event

// Renderer reconciles node descriptions into a document.
type Renderer = render.Renderer

// Scope is a component's hook identity.
type Scope = render.Scope

// Cleanup undoes an effect.
type Cleanup = render.Cleanup

// NewDocument returns an empty document.
var NewDocument = dom.NewDocument

// NewWindow returns a window with history for doc.
var NewWindow = dom.NewWindow

// NewRenderer creates a renderer committing into doc.
var NewRenderer = render.New

// Render commits node as the only child of target with a new renderer.
// Use a Renderer directly to keep hook state between renders.
func Render(doc *Document, node *VNode, target *html.Node) (*html.Node, error) {
	return render.New(doc).Render(node, target)
}

// =============================================================================
// Hooks (re-export from pkg/render)
// =============================================================================

// UseState returns the state slot of the current hook position.
func UseState[T any](props Props, initial T) *render.State[T] {
	return render.UseState(props, initial)
}

// UseEffect runs mount after commit when deps change.
func UseEffect(props Props, mount func() Cleanup, deps ...any) {
	render.UseEffect(props, mount, deps...)
}

// UseMemo caches compute until deps change.
func UseMemo[T any](props Props, compute func() T, deps ...any) T {
	return render.UseMemo(props, compute, deps...)
}

// UseAsync runs factory off the loop and re-renders when it settles.
func UseAsync[T any](props Props, factory func(context.Context) (T, error), deps ...any) *render.Async[T] {
	return render.UseAsync(props, factory, deps...)
}

// =============================================================================
// Router (re-export from pkg/router)
// =============================================================================

// Route maps a path pattern to a component.
type Route = router.Route

// Router renders the component matching the window location.
type Router = router.Router

// NewRouter mounts routes into target.
var NewRouter = router.New

// Link creates an anchor to a route.
var Link = router.Link

// =============================================================================
// Errors
// =============================================================================

// Error is the structured error raised by the runtime.
type Error = errors.Error

// IsParseError reports whether err is a markup parse error.
func IsParseError(err error) bool { return errors.Is(err, errors.CategoryParse) }

// IsHookError reports whether err is a hook misuse error.
func IsHookError(err error) bool { return errors.Is(err, errors.CategoryHook) }

// IsRouteError reports whether err is a route configuration error.
func IsRouteError(err error) bool { return errors.Is(err, errors.CategoryRoute) }

// IsRenderError reports whether err is an invalid node description.
func IsRenderError(err error) bool { return errors.Is(err, errors.CategoryRender) }
