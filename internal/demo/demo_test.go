package demo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/minidom/pkg/dom"
	"github.com/vango-dev/minidom/pkg/vtest"
)

func mount(t *testing.T, url string, q QuoteFunc) *vtest.Harness {
	t.Helper()
	h := vtest.NewBuilder().WithURL(url).Build(t)
	app, err := Mount(h.Renderer, h.Window, Config{Quotes: q})
	require.NoError(t, err)
	h.Router = app.Router
	return h
}

func TestHome(t *testing.T) {
	h := mount(t, "http://localhost/?/", nil)

	assert.True(t, dom.HasClass(h.ByText("Home"), "active"))
	assert.False(t, dom.HasClass(h.ByText("Counter"), "active"))
	h.ExpectContains("<h1>minidom</h1>")
	assert.Contains(t, h.Doc.StyleSheet(), "color: #3b6ea5")
}

func TestCounter(t *testing.T) {
	h := mount(t, "http://localhost/?/counter", nil)

	h.Click("inc")
	h.Click("inc")
	h.Flush()
	assert.Equal(t, "2", dom.TextContent(h.ByID("count")))

	for i := 0; i < 3; i++ {
		h.Click("dec")
	}
	h.Flush()
	assert.Equal(t, "-1", dom.TextContent(h.ByID("count")))
	assert.True(t, dom.HasClass(h.ByID("count"), "negative"))
}

func TestTodos(t *testing.T) {
	h := mount(t, "http://localhost/?/todos", nil)
	h.ExpectContains("1 left")

	h.Input("draft", "buy milk")
	h.Flush()
	h.Click("add")
	h.Flush()
	h.ExpectContains("buy milk")
	h.ExpectContains("2 left")
	assert.Equal(t, "", h.Doc.Field(h.ByID("draft"), "value"))

	// Duplicates are ignored.
	h.Input("draft", "buy milk")
	h.Click("add")
	h.Flush()
	assert.Len(t, dom.ChildNodes(h.ByID("todos")), 2)

	h.Doc.Click(h.ByText("write tests"))
	h.Flush()
	h.ExpectContains("1 left")
	assert.True(t, dom.HasClass(dom.ChildAt(h.ByID("todos"), 0), "done"))
}

func TestTodosClearDone(t *testing.T) {
	h := mount(t, "http://localhost/?/todos", nil)
	assert.Nil(t, h.Doc.GetElementByID("clear"))

	h.Input("draft", "ship")
	h.Click("add")
	h.Flush()
	h.Doc.Click(h.ByText("write tests"))
	h.Flush()

	h.Click("clear")
	h.Flush()
	rows := dom.ChildNodes(h.ByID("todos"))
	require.Len(t, rows, 1)
	assert.Equal(t, "ship", dom.TextContent(dom.Find(rows[0], dom.ByTag("span"))))
	assert.Nil(t, h.Doc.GetElementByID("clear"))

	h.Doc.Click(dom.Find(rows[0], dom.ByTag("button")))
	h.Flush()
	assert.Equal(t, "nothing to do", dom.TextContent(h.ByID("left")))
}

func TestTodosRemoveKeepsOtherRows(t *testing.T) {
	h := mount(t, "http://localhost/?/todos", nil)
	for _, text := range []string{"a", "b"} {
		h.Input("draft", text)
		h.Click("add")
		h.Flush()
	}
	require.Len(t, dom.ChildNodes(h.ByID("todos")), 3)

	last := dom.ChildAt(h.ByID("todos"), 2)
	remove := dom.Find(dom.ChildAt(h.ByID("todos"), 2), dom.ByTag("button"))
	h.Doc.Click(remove)
	h.Flush()

	rows := dom.ChildNodes(h.ByID("todos"))
	require.Len(t, rows, 2)
	assert.Nil(t, last.Parent)
	h.ExpectNotContains(">b<")
}

func TestQuote(t *testing.T) {
	h := mount(t, "http://localhost/?/quotes/2", StaticQuotes(time.Millisecond))
	h.ExpectContains("loading")

	h.Settle()
	h.ExpectContains("<blockquote>Clear is better than clever.</blockquote>")
	h.ExpectContains(`href="?/quotes/3"`)
}

func TestQuoteErrors(t *testing.T) {
	h := mount(t, "http://localhost/?/quotes/9", StaticQuotes(0))
	h.Settle()
	h.ExpectContains("no quote 9")

	require.NoError(t, h.Router.Go("?/quotes/abc"))
	h.Settle()
	h.ExpectContains("parsing param")
	h.ExpectNotContains(">next</a>")
}

func TestQuoteDiscardsStaleLoads(t *testing.T) {
	release := make(chan struct{})
	slow := func(ctx context.Context, id int) (string, error) {
		if id == 1 {
			<-release
			return "stale", nil
		}
		return "fresh", nil
	}
	h := mount(t, "http://localhost/?/quotes/1", slow)

	require.NoError(t, h.Router.Go("?/quotes/2"))
	close(release)
	h.Settle()

	h.ExpectContains("fresh")
	h.ExpectNotContains("stale")
}

func TestNavigationByLink(t *testing.T) {
	h := mount(t, "http://localhost/?/", nil)

	h.Doc.Click(h.ByText("Counter"))
	assert.Equal(t, "/counter", h.Router.Current().Path)
	assert.True(t, dom.HasClass(h.ByText("Counter"), "active"))
	assert.False(t, dom.HasClass(h.ByText("Home"), "active"))
}
