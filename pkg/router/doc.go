// Package router renders the component matching the document location
// and keeps it in sync with history navigation.
//
// Routes are matched against the route path carried in the query string
// (see routepath). A pattern is made of literal segments, {name} for one
// segment and {...name} for the remainder of the path:
//
//	rt, err := router.New(renderer, win, doc.Body(), []router.Route{
//	    {Pattern: "/", Component: Home},
//	    {Pattern: "/posts/{id}", Component: Post},
//	    {Pattern: "/files/{...path}", Component: Files},
//	})
//
// The matched component receives the decoded parameters, the query
// parameters and key, which is set to the matched pattern.
//
// # Navigation
//
// Go pushes a history entry and renders the new route. Before leaving, the
// scroll offset of the element registered with UseRoute is saved into the
// outgoing history entry; Back and Forward render the entry they land on
// and restore the offset after commit.
//
// Clicks on links under the target whose href starts with a route prefix
// ("?/" or "/?/" by default) are routed with Go instead of leaving the
// page. Modified clicks and non-primary buttons are left alone.
package router
