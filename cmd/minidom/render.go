package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/minidom/internal/watch"
	"github.com/vango-dev/minidom/pkg/dom"
	"github.com/vango-dev/minidom/pkg/markup"
	"github.com/vango-dev/minidom/pkg/render"
	"github.com/vango-dev/minidom/pkg/snapshot"
)

func renderCmd(c *cli) *cobra.Command {
	var (
		watchFile bool
		snapName  string
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Compile a markup template and print the committed HTML",
		Long: `Compile a markup template file, commit it into a fresh document and
print the resulting HTML.

The file holds literal markup; sigil attributes (.class, #id, --var)
are resolved as in compiled templates.

Examples:
  minidom render page.html
  minidom render page.html --watch
  minidom render page.html --snapshot home`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			out := cmd.OutOrStdout()

			doc := dom.NewDocument()
			r := render.New(doc, render.FromConfig(c.cfg.Render), render.WithLogger(c.logger))
			defer r.Close()

			if err := renderFile(cmd.Context(), c, r, path, snapName, out); err != nil {
				return err
			}
			if !watchFile {
				return nil
			}
			return watchAndRender(cmd.Context(), c, r, path, snapName, out)
		},
	}

	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "re-render when the file changes")
	cmd.Flags().StringVar(&snapName, "snapshot", "", "store the document under this snapshot name")

	return cmd
}

// renderFile compiles path and commits it into the body of r's document.
// Re-rendering the same renderer reconciles against the previous output.
func renderFile(ctx context.Context, c *cli, r *render.Renderer, path, snapName string, out io.Writer) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	node, err := markup.Compile([]string{string(src)})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	doc := r.Document()
	before := doc.Stats()
	n, err := r.Render(node, doc.Body())
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	html, err := dom.HTML(n)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, html)
	c.logger.Debug("rendered", "file", path, "mutations", doc.Stats().Sub(before).Total())

	if snapName == "" {
		return nil
	}
	store, err := snapshot.New(c.cfg.Snapshot)
	if err != nil {
		return err
	}
	loc, err := snapshot.Save(ctx, store, doc, snapName)
	if err != nil {
		return err
	}
	success(out, "snapshot stored at %s", loc)
	return nil
}

func watchAndRender(ctx context.Context, c *cli, r *render.Renderer, path, snapName string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(0, path)
	if err != nil {
		return err
	}
	// Changes are rendered on this goroutine through the loop.
	loop := r.Loop()
	w.OnChange(func([]string) {
		loop.Post(func() {
			if err := renderFile(ctx, c, r, path, snapName, out); err != nil {
				c.logger.Error("render failed", "file", path, "error", err)
			}
		})
	})

	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()
	c.logger.Info("watching", "file", path)

	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	if err := <-errc; err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// newMetrics registers render metrics on a fresh registry when enabled.
func newMetrics(c *cli) (*render.Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	if !c.cfg.Metrics.Enabled {
		return nil, reg
	}
	m := render.NewMetrics(
		render.WithNamespace(c.cfg.Metrics.Namespace),
		render.WithRegistry(reg),
	)
	return m, reg
}
