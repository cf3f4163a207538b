// Package demo is the sample app run by `minidom serve`: a counter, a todo
// list, an async quote loader and the routing between them.
package demo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vango-dev/minidom/pkg/dom"
	"github.com/vango-dev/minidom/pkg/markup"
	"github.com/vango-dev/minidom/pkg/render"
	"github.com/vango-dev/minidom/pkg/router"
)

// QuoteFunc loads the quote with the given id.
type QuoteFunc func(ctx context.Context, id int) (string, error)

// App is a mounted demo.
type App struct {
	Renderer *render.Renderer
	Window   *dom.Window
	Router   *router.Router
}

// Config configures Mount.
type Config struct {
	Quotes QuoteFunc
	Router []router.Option
	Logger *slog.Logger
}

var quotes = []string{
	"Simplicity is prerequisite for reliability.",
	"Clear is better than clever.",
	"A little copying is better than a little dependency.",
}

// StaticQuotes serves a fixed list after delay.
func StaticQuotes(delay time.Duration) QuoteFunc {
	return func(ctx context.Context, id int) (string, error) {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
		if id < 1 || id > len(quotes) {
			return "", fmt.Errorf("no quote %d", id)
		}
		return quotes[id-1], nil
	}
}

// Mount installs the demo style sheet and routes into the body of the
// window's document.
func Mount(r *render.Renderer, win *dom.Window, cfg Config) (*App, error) {
	if cfg.Quotes == nil {
		cfg.Quotes = StaticQuotes(50 * time.Millisecond)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	doc := win.Document()
	markup.CSS(doc, styles, "#3b6ea5")

	opts := append([]router.Option{router.WithLogger(cfg.Logger)}, cfg.Router...)
	rt, err := router.New(r, win, doc.Body(), Routes(cfg.Quotes), opts...)
	if err != nil {
		return nil, err
	}
	cfg.Logger.Info("demo mounted", "location", win.Href())
	return &App{Renderer: r, Window: win, Router: rt}, nil
}

// Routes returns the demo route table.
func Routes(q QuoteFunc) []router.Route {
	return []router.Route{
		{Pattern: "/", Component: Home},
		{Pattern: "/counter", Component: Counter},
		{Pattern: "/todos", Component: Todos},
		{Pattern: "/quotes/{id}", Component: Quote(q)},
	}
}

const styles = `
nav a { margin-right: 1em; }
nav a.active { color: %v; font-weight: bold; }
.done { text-decoration: line-through; }
`
