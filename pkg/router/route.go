package router

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/vango-dev/minidom/internal/errors"
	"github.com/vango-dev/minidom/pkg/routepath"
	"github.com/vango-dev/minidom/pkg/vdom"
)

// Route maps a path pattern to the component rendered for it.
type Route struct {
	Pattern   string
	Component vdom.ComponentFunc
}

// Match is the route state derived from the location on each navigation.
type Match struct {
	// Pattern is the matched route pattern.
	Pattern string

	// Key identifies the route instance; it equals Pattern.
	Key string

	// Path is the route path as found in the location.
	Path string

	// Params are the decoded pattern parameters.
	Params map[string]string

	// Query holds the parameters following the route path.
	Query url.Values
}

// compiled is a Route with its pattern compiled.
type compiled struct {
	Route
	re       *regexp.Regexp
	catchAll map[string]bool
}

var (
	placeholderRe = regexp.MustCompile(`/\{(\.\.\.)?([^{}/]*)\}`)
	paramNameRe   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// compile turns a pattern into an anchored regexp. A trailing slash is
// optional in both the pattern and the path.
func compile(r Route) (*compiled, error) {
	pattern := r.Pattern
	if r.Component == nil {
		return nil, errors.New("M300").WithDetailf("%q has no component", pattern)
	}
	if !strings.HasPrefix(pattern, "/") {
		return nil, errors.New("M300").WithDetailf("%q must start with /", pattern)
	}

	body := strings.TrimSuffix(pattern, "/")
	c := &compiled{Route: r, catchAll: make(map[string]bool)}
	seen := make(map[string]bool)

	var b strings.Builder
	b.WriteString("^")
	last := 0
	for _, loc := range placeholderRe.FindAllStringSubmatchIndex(body, -1) {
		literal := body[last:loc[0]]
		if strings.ContainsAny(literal, "{}") {
			return nil, errors.New("M300").WithDetailf("%q: unbalanced brace", pattern)
		}
		b.WriteString(regexp.QuoteMeta(literal))

		rest := loc[2] >= 0
		name := body[loc[4]:loc[5]]
		switch {
		case !paramNameRe.MatchString(name):
			return nil, errors.New("M300").WithDetailf("%q: invalid parameter name %q", pattern, name)
		case seen[name]:
			return nil, errors.New("M300").WithDetailf("%q: duplicate parameter %q", pattern, name)
		case rest && loc[1] != len(body):
			return nil, errors.New("M300").WithDetailf("%q: {...%s} must be the last segment", pattern, name)
		}
		seen[name] = true

		if rest {
			c.catchAll[name] = true
			b.WriteString(`/(?P<` + name + `>.*)`)
		} else {
			b.WriteString(`/(?P<` + name + `>[^/]+)`)
		}
		last = loc[1]
	}
	tail := body[last:]
	if strings.ContainsAny(tail, "{}") {
		return nil, errors.New("M300").WithDetailf("%q: unbalanced brace", pattern)
	}
	b.WriteString(regexp.QuoteMeta(tail))
	b.WriteString("/?$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, errors.New("M300").WithDetail(pattern).Wrap(err)
	}
	c.re = re
	return c, nil
}

// match returns the decoded parameters when path matches.
func (c *compiled) match(path string) (map[string]string, bool) {
	m := c.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	params := make(map[string]string)
	for i, name := range c.re.SubexpNames() {
		if name == "" {
			continue
		}
		v, err := routepath.DecodeSegment(m[i], c.catchAll[name])
		if err != nil {
			return nil, false
		}
		params[name] = v
	}
	return params, true
}

// props builds the component props: query parameters, then pattern
// parameters, then key. Values are stored as plain props so that names
// like "onclick" are never treated as handlers.
func (m *Match) props(rt *Router) vdom.Props {
	props := make(vdom.Props, len(m.Query)+len(m.Params)+2)
	set := func(k string, v any) {
		props[k] = vdom.Prop{Kind: vdom.PropPlain, Name: k, Value: v}
	}
	for k := range m.Query {
		set(k, m.Query.Get(k))
	}
	for k, v := range m.Params {
		set(k, v)
	}
	set("key", m.Key)
	props[routerKey] = vdom.Prop{Kind: vdom.PropAmbient, Name: routerKey, Value: rt}
	return props
}
