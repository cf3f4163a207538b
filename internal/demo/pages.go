package demo

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/vango-dev/minidom/pkg/dom"
	"github.com/vango-dev/minidom/pkg/markup"
	"github.com/vango-dev/minidom/pkg/render"
	"github.com/vango-dev/minidom/pkg/router"
	"github.com/vango-dev/minidom/pkg/vdom"
)

// page wraps content with the navigation bar.
func page(props vdom.Props, title string, content ...any) *vdom.VNode {
	rt := router.From(props)
	return markup.MustTemplate(`<div .page>
  <nav>%v%v%v%v</nav>
  <h1>%v</h1>
  <main>%v</main>
</div>`,
		rt.NavLink("?/", "Home"),
		rt.NavLink("?/counter", "Counter"),
		rt.NavLink("?/todos", "Todos"),
		rt.NavLink("?/quotes/1", "Quotes"),
		title,
		content,
	)
}

// Home is the landing page.
func Home(props vdom.Props) *vdom.VNode {
	return page(props, "minidom",
		markup.MustTemplate(`<p>A tiny UI runtime rendering into a live document.</p>`))
}

// Counter shows a number with increment and decrement buttons.
func Counter(props vdom.Props) *vdom.VNode {
	count := render.UseState(props, 0)
	step := func(e *dom.Event, args ...any) {
		count.Update(func(n int) int { return n + args[0].(int) })
	}
	return page(props, "Counter", markup.MustTemplate(
		`<div>
  <button #dec onclick=%v>-</button>
  <output #count .negative=%v>%v</output>
  <button #inc onclick=%v>+</button>
</div>`,
		vdom.Handler{Fn: step, Args: []any{-1}},
		count.Get() < 0,
		count.Get(),
		vdom.Handler{Fn: step, Args: []any{1}},
	))
}

type todo struct {
	Text string
	Done bool
}

// Todos is an editable list. Rows are keyed by their text.
func Todos(props vdom.Props) *vdom.VNode {
	items := render.UseState(props, []todo{{Text: "write tests"}})
	draft := render.UseState(props, "")

	add := func() {
		text := strings.TrimSpace(draft.Get())
		if text == "" || slices.ContainsFunc(items.Get(), func(t todo) bool { return t.Text == text }) {
			return
		}
		items.Set(append(slices.Clone(items.Get()), todo{Text: text}))
		draft.Set("")
	}
	toggle := func(e *dom.Event, args ...any) {
		next := slices.Clone(items.Get())
		i := args[0].(int)
		next[i].Done = !next[i].Done
		items.Set(next)
	}
	remove := func(e *dom.Event, args ...any) {
		items.Set(slices.Delete(slices.Clone(items.Get()), args[0].(int), args[0].(int)+1))
	}
	clearDone := func() {
		items.Set(slices.DeleteFunc(slices.Clone(items.Get()), func(t todo) bool { return t.Done }))
	}

	rows := vdom.Map(items.Get(), func(t todo, i int) *vdom.VNode {
		return markup.MustTemplate(`<li key=%v .done=%v><span onclick=%v>%v</span> <button onclick=%v>x</button></li>`,
			t.Text, t.Done, vdom.Handler{Fn: toggle, Args: []any{i}}, t.Text, vdom.Handler{Fn: remove, Args: []any{i}})
	})

	left := remaining(items.Get())
	return page(props, "Todos", markup.MustTemplate(
		`<div>
  <input #draft !value=%v oninput=%v/>
  <button #add onclick=%v>add</button>
  <ul #todos>%v</ul>
  %v
  %v
</div>`,
		draft.Get(),
		func(e *dom.Event) { draft.Set(e.Value) },
		add,
		rows,
		vdom.IfElse(len(items.Get()) == 0,
			markup.MustTemplate(`<p #left>nothing to do</p>`),
			markup.MustTemplate(`<p #left>%v left</p>`, left)),
		vdom.When(left < len(items.Get()), func() *vdom.VNode {
			return markup.MustTemplate(`<button #clear onclick=%v>clear done</button>`, clearDone)
		}),
	))
}

func remaining(items []todo) int {
	n := 0
	for _, t := range items {
		if !t.Done {
			n++
		}
	}
	return n
}

// Quote loads the quote named by the id parameter. The article is the
// route's scroll container.
func Quote(load QuoteFunc) vdom.ComponentFunc {
	return func(props vdom.Props) *vdom.VNode {
		rt := router.From(props)
		s := render.ScopeOf(props)
		rt.UseRoute(props, func() *html.Node { return s.Ref("quote") })

		var p struct {
			ID int `param:"id"`
		}
		bindErr := rt.Current().Bind(&p)

		q := render.UseAsync(props, func(ctx context.Context) (string, error) {
			if bindErr != nil {
				return "", bindErr
			}
			return load(ctx, p.ID)
		}, p.ID)

		var body *vdom.VNode
		switch {
		case q.Loading:
			body = markup.MustTemplate(`<p .loading>loading…</p>`)
		case q.Err != nil:
			body = markup.MustTemplate(`<p .error>%v</p>`, q.Err.Error())
		default:
			body = markup.MustTemplate(`<blockquote>%v</blockquote>`, q.Value)
		}
		return page(props, "Quote", markup.MustTemplate(
			`<article $quote>%v<p>%v</p></article>`,
			body,
			vdom.If(bindErr == nil, router.Link(nextQuote(p.ID), "next")),
		))
	}
}

func nextQuote(id int) string {
	next := id%len(quotes) + 1
	return "?/quotes/" + strconv.Itoa(next)
}
