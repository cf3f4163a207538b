package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/minidom/internal/demo"
	"github.com/vango-dev/minidom/pkg/devtools"
	"github.com/vango-dev/minidom/pkg/dom"
	"github.com/vango-dev/minidom/pkg/render"
	"github.com/vango-dev/minidom/pkg/router"
	"github.com/vango-dev/minidom/pkg/snapshot"
)

func serveCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo app behind the devtools server",
		Long: `Run the demo app in a headless document and serve the devtools
inspector for it.

Endpoints:
  GET  /tree       current document
  GET  /metrics    prometheus metrics
  POST /snapshot   store the document (?name=...)
  GET  /ws         drive the app: {"op":"click","id":"inc"}

Examples:
  minidom serve
  minidom serve --addr=0.0.0.0:7070`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), c)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default from config)")
	_ = c.v.BindPFlag("devtools.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(ctx context.Context, c *cli) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := c.cfg
	metrics, reg := newMetrics(c)
	reg.MustRegister(collectors.NewGoCollector())

	doc := dom.NewDocument()
	win, err := dom.NewWindow(doc, startURL(cfg.Router.BaseURL, cfg.Router.DefaultPath))
	if err != nil {
		return err
	}
	r := render.New(doc,
		render.FromConfig(cfg.Render),
		render.WithLogger(c.logger),
		render.WithMetrics(metrics),
		render.WithContext(ctx),
	)
	defer r.Close()

	app, err := demo.Mount(r, win, demo.Config{
		Router: []router.Option{router.FromConfig(cfg.Router)},
		Logger: c.logger,
	})
	if err != nil {
		return err
	}
	defer app.Router.Close()

	store, err := snapshot.New(cfg.Snapshot)
	if err != nil {
		return err
	}
	tools := devtools.New(r,
		devtools.FromConfig(cfg.Devtools),
		devtools.WithRouter(app.Router),
		devtools.WithStore(store),
		devtools.WithRegistry(reg),
		devtools.WithLogger(c.logger),
	)
	defer tools.Close()

	srv := &http.Server{
		Addr:              cfg.Devtools.Addr,
		Handler:           tools,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		c.logger.Info("devtools listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	loopErr := make(chan error, 1)
	go func() { loopErr <- r.Loop().Run(ctx) }()

	select {
	case err := <-errc:
		stop()
		<-loopErr
		return err
	case <-ctx.Done():
	}

	c.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	<-loopErr
	return err
}

// startURL joins the base URL and the default route. A base that already
// carries a query is used as is.
func startURL(base, defaultPath string) string {
	if base == "" {
		base = "http://localhost/"
	}
	if strings.Contains(base, "?") {
		return base
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + strings.TrimPrefix(defaultPath, "/")
}
