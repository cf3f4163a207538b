// Package render commits vdom node descriptions into a live dom.Document
// and manages component hook state.
//
// # Passes
//
// Every call to Renderer.Render, every "@" event and every State.Set or
// UseAsync settlement ends in a render pass. A pass runs to completion,
// including its effect flush, before another may start; a request made
// while a pass is running is posted to the renderer's Loop.
//
// # Reconciliation
//
// Children are reconciled positionally. A forward scan commits children
// in place while identities match; a backward scan does the same from the
// ends of both lists; whatever is left in the middle is committed
// position by position, with new nodes inserted before the first
// back-matched node. Appends and prepends therefore cost one creation
// each. Plain elements are identified by tag, components by function,
// so an interior reorder of same-tag elements updates them in place.
//
// # Hooks
//
// Hooks take the component's props as first argument and address a slot
// table by (parent live node, key prop):
//
//	func Counter(props vdom.Props) *vdom.VNode {
//	    count := render.UseState(props, 0)
//	    render.UseEffect(props, func() render.Cleanup {
//	        log.Println("mounted")
//	        return nil
//	    })
//	    return vdom.El("button", vdom.Attrs{
//	        "onclick": func() { count.Set(count.Get() + 1) },
//	    }, count.Get())
//	}
//
// A component using hooks must be given a key or id prop.
package render
