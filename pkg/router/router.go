package router

import (
	"log/slog"
	"net/url"

	"golang.org/x/net/html"

	"github.com/vango-dev/minidom/internal/errors"
	"github.com/vango-dev/minidom/pkg/dom"
	"github.com/vango-dev/minidom/pkg/render"
	"github.com/vango-dev/minidom/pkg/routepath"
	"github.com/vango-dev/minidom/pkg/vdom"
)

const (
	// scrollKey is the history state key holding a saved scroll offset.
	scrollKey = "scrollTop"

	// routerKey is the prop the routed component finds its router under.
	routerKey = "$router"
)

// From returns the router that rendered a routed component, or nil.
// Pass it down explicitly to nested components.
func From(props vdom.Props) *Router {
	rt, _ := props.Get(routerKey).(*Router)
	return rt
}

// Router renders the route matching the window location into a target.
// Like the renderer, it belongs to the loop goroutine.
type Router struct {
	renderer *render.Renderer
	doc      *dom.Document
	win      *dom.Window
	target   *html.Node
	routes   []*compiled
	opts     Options
	logger   *slog.Logger

	current  *Match
	captures map[string]func() *html.Node

	popstate dom.ListenerID
	click    dom.ListenerID
	closed   bool
}

// New compiles routes, starts listening for navigation and renders the
// route matching the current location.
func New(r *render.Renderer, win *dom.Window, target *html.Node, routes []Route, opts ...Option) (*Router, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	rt := &Router{
		renderer: r,
		doc:      r.Document(),
		win:      win,
		target:   target,
		opts:     o,
		logger:   o.Logger.With("component", "router"),
		captures: make(map[string]func() *html.Node),
	}
	for _, route := range routes {
		c, err := compile(route)
		if err != nil {
			return nil, err
		}
		rt.routes = append(rt.routes, c)
	}
	if _, _, ok := rt.match(rt.routeOf(o.DefaultPath)); !ok {
		return nil, errors.New("M301").WithDetail(o.DefaultPath)
	}

	rt.popstate = win.AddEventListener("popstate", rt.onPopState)
	rt.click = rt.doc.AddEventListener(target, "click", rt.onClick)

	if err := rt.renderLocation(); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

// Current returns the route state of the last navigation.
func (rt *Router) Current() *Match { return rt.current }

// Window returns the window the router navigates.
func (rt *Router) Window() *dom.Window { return rt.win }

// Go saves the scroll offset of the current route, pushes href and
// renders the route it names.
func (rt *Router) Go(href string) error {
	h := rt.win.History()
	if m := rt.current; m != nil {
		state := map[string]any{}
		if capture := rt.captures[m.Key]; capture != nil {
			if n := capture(); n != nil {
				state[scrollKey] = rt.doc.Field(n, scrollKey)
			}
		}
		if err := h.ReplaceState(state, ""); err != nil {
			return err
		}
	}
	if err := h.PushState(map[string]any{}, href); err != nil {
		return err
	}
	rt.logger.Debug("navigate", "href", rt.win.Href())
	return rt.renderLocation()
}

// Back moves one history entry back; the popstate renders it.
func (rt *Router) Back() bool { return rt.win.History().Back() }

// Forward moves one history entry forward.
func (rt *Router) Forward() bool { return rt.win.History().Forward() }

// Close stops listening for navigation. The rendered route stays.
func (rt *Router) Close() {
	if rt.closed {
		return
	}
	rt.closed = true
	rt.win.RemoveEventListener("popstate", rt.popstate)
	rt.doc.RemoveEventListener(rt.target, "click", rt.click)
}

// UseRoute registers capture as the scroll container of the routed
// component. Its offset is saved when navigating away and restored after
// commit when the history entry carries one. The component must be the
// one the router rendered, whose key is the route pattern.
func (rt *Router) UseRoute(props vdom.Props, capture func() *html.Node) {
	s := render.ScopeOf(props)
	if s == nil || !s.Rendering() {
		panic(errors.New("M202").WithDetail("UseRoute"))
	}
	if s.Key() == "" {
		panic(errors.New("M200").WithDetail("UseRoute"))
	}
	rt.captures[s.Key()] = capture

	saved := rt.win.History().State()[scrollKey]
	if !vdom.Truthy(saved) {
		return
	}
	doc := rt.doc
	s.AfterCommit(func() {
		if n := capture(); n != nil {
			doc.SetField(n, scrollKey, saved)
		}
	})
}

func (rt *Router) onPopState(*dom.Event) {
	if err := rt.renderLocation(); err != nil {
		rt.logger.Error("popstate render failed", "href", rt.win.Href(), "error", err)
	}
}

func (rt *Router) onClick(e *dom.Event) {
	if e.DefaultPrevented() || e.CtrlKey || e.MetaKey || e.ShiftKey || e.AltKey || e.Button != 0 {
		return
	}
	a := dom.Closest(e.Target, "a")
	if a == nil {
		return
	}
	href, _ := dom.Attr(a, "href")
	if !routepath.IsInternal(href, rt.opts.LinkPrefixes) {
		return
	}
	e.PreventDefault()
	if err := rt.Go(href); err != nil {
		rt.logger.Error("link navigation failed", "href", href, "error", err)
	}
}

// routeOf returns the route path named by href, resolved against the
// current location.
func (rt *Router) routeOf(href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	path, _ := routepath.FromQuery(rt.win.Location().ResolveReference(ref).RawQuery)
	return path
}

func (rt *Router) match(path string) (*compiled, map[string]string, bool) {
	for _, c := range rt.routes {
		if params, ok := c.match(path); ok {
			return c, params, true
		}
	}
	return nil, nil, false
}

// renderLocation renders the route named by the window location, or
// navigates to the default path when none matches.
func (rt *Router) renderLocation() error {
	path, query := routepath.FromQuery(rt.win.Location().RawQuery)
	c, params, ok := rt.match(path)
	if !ok {
		if path == rt.routeOf(rt.opts.DefaultPath) {
			return errors.New("M301").WithDetail(rt.opts.DefaultPath)
		}
		rt.logger.Debug("no route matches, using default", "path", path)
		return rt.Go(rt.opts.DefaultPath)
	}

	rt.win.ScrollTo(0, 0)
	rt.win.Blur()

	m := &Match{
		Pattern: c.Pattern,
		Key:     c.Pattern,
		Path:    path,
		Params:  params,
		Query:   query,
	}
	rt.current = m

	node := &vdom.VNode{Kind: vdom.KindComponent, Comp: c.Component, Props: m.props(rt)}
	_, err := rt.renderer.Render(node, rt.target)
	return err
}
