package minidom

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/minidom/internal/errors"
	"github.com/vango-dev/minidom/pkg/dom"
)

func counter(props Props) *VNode {
	count := UseState(props, 0)
	return MustHTML(`<button onclick=%v>%v</button>`, func() { count.Set(count.Get() + 1) }, count.Get())
}

func TestFacadeRoundTrip(t *testing.T) {
	doc := NewDocument()
	r := NewRenderer(doc)
	t.Cleanup(r.Close)

	btn, err := r.Render(Comp(counter, Attrs{"key": "c"}), doc.Body())
	require.NoError(t, err)
	doc.Click(btn)
	r.Loop().RunPending()
	assert.Equal(t, "1", dom.TextContent(btn))
}

func TestRender(t *testing.T) {
	doc := NewDocument()
	_, err := Render(doc, El("p", nil, "x"), doc.Body())
	require.NoError(t, err)
	out, err := dom.InnerHTML(doc.Body())
	require.NoError(t, err)
	assert.Equal(t, "<p>x</p>", out)
}

func TestErrorCategories(t *testing.T) {
	_, parseErr := HTML(`<div></span>`)
	doc := NewDocument()
	win, err := NewWindow(doc, "http://localhost/?/")
	require.NoError(t, err)
	_, routeErr := NewRouter(NewRenderer(doc), win, doc.Body(), []Route{{Pattern: "nope", Component: counter}})
	_, renderErr := Render(doc, nil, doc.Body())

	tests := []struct {
		err                   error
		parse, hook, rt, rndr bool
	}{
		{parseErr, true, false, false, false},
		{routeErr, false, false, true, false},
		{renderErr, false, false, false, true},
		{fmt.Errorf("wrapped: %w", errors.New("M201")), false, true, false, false},
		{fmt.Errorf("plain"), false, false, false, false},
		{nil, false, false, false, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.parse, IsParseError(tt.err), "%v", tt.err)
		assert.Equal(t, tt.hook, IsHookError(tt.err), "%v", tt.err)
		assert.Equal(t, tt.rt, IsRouteError(tt.err), "%v", tt.err)
		assert.Equal(t, tt.rndr, IsRenderError(tt.err), "%v", tt.err)
	}
}
