package router

import (
	"github.com/vango-dev/minidom/pkg/vdom"
)

// Link creates an anchor to a route. Clicks on it are routed by the Router
// rendering around it.
func Link(href string, children ...any) *vdom.VNode {
	return vdom.El("a", vdom.Attrs{"href": href}, children...)
}

// NavLink is Link with the "active" class when href is the current
// location's route.
func (rt *Router) NavLink(href string, children ...any) *vdom.VNode {
	link := Link(href, children...)
	if m := rt.current; m != nil && rt.routeOf(href) == m.Path {
		link.Set(".active", true)
	}
	return link
}
