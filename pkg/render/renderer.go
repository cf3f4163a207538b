package render

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"

	"github.com/vango-dev/minidom/internal/errors"
	"github.com/vango-dev/minidom/pkg/dom"
	"github.com/vango-dev/minidom/pkg/vdom"
)

const tracerName = "github.com/vango-dev/minidom/pkg/render"

// Renderer commits node descriptions into a document.
type Renderer struct {
	doc    *dom.Document
	loop   *Loop
	logger *slog.Logger

	metrics *Metrics
	tracer  trace.Tracer

	strict   bool
	denylist map[string]bool

	meta  map[*html.Node]*nodeState
	roots map[*html.Node]*Scope

	inPass bool

	ctx           context.Context
	cancel        context.CancelFunc
	stopObserving func()
}

// New creates a renderer committing into doc.
func New(doc *dom.Document, opts ...Option) *Renderer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer(tracerName)
	}
	if cfg.Loop == nil {
		cfg.Loop = NewLoop(cfg.Logger)
	}
	if cfg.Loop.metrics == nil {
		cfg.Loop.metrics = cfg.Metrics
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}

	r := &Renderer{
		doc:      doc,
		loop:     cfg.Loop,
		logger:   cfg.Logger.With("component", "render"),
		metrics:  cfg.Metrics,
		tracer:   cfg.Tracer,
		strict:   cfg.StrictHooks,
		denylist: make(map[string]bool, len(cfg.AttrDenylist)),
		meta:     make(map[*html.Node]*nodeState),
		roots:    make(map[*html.Node]*Scope),
	}
	for _, name := range cfg.AttrDenylist {
		r.denylist[name] = true
	}
	r.ctx, r.cancel = context.WithCancel(cfg.Context)
	if r.metrics != nil {
		m := r.metrics
		r.stopObserving = doc.Observe(func(mu dom.Mutation) { m.recordMutation(mu.Op) })
	}
	return r
}

// Document returns the document the renderer commits into.
func (r *Renderer) Document() *dom.Document { return r.doc }

// Loop returns the loop deferred passes run on.
func (r *Renderer) Loop() *Loop { return r.loop }

// InPass reports whether a render pass is running.
func (r *Renderer) InPass() bool { return r.inPass }

// Close cancels the contexts of in-flight async factories and detaches
// the metrics observer. The document is left as committed.
func (r *Renderer) Close() {
	r.cancel()
	if r.stopObserving != nil {
		r.stopObserving()
		r.stopObserving = nil
	}
}

// Render commits node as the only child of target and returns the live
// node produced. A nil target renders into a new detached <div>.
func (r *Renderer) Render(node *vdom.VNode, target *html.Node) (*html.Node, error) {
	return r.RenderContext(context.Background(), node, target)
}

// RenderContext is Render with a context for tracing.
//
// Called while a pass is running, it posts the render to the loop and
// returns (nil, nil).
func (r *Renderer) RenderContext(ctx context.Context, node *vdom.VNode, target *html.Node) (*html.Node, error) {
	if node == nil {
		return nil, errors.New("M401").WithDetail("nil node")
	}
	if r.inPass {
		r.loop.Post(func() {
			if _, err := r.RenderContext(ctx, node, target); err != nil {
				r.logger.Error("deferred render failed", "error", err)
			}
		})
		return nil, nil
	}
	if target == nil {
		target = r.doc.CreateElement("div")
	}

	root := r.rootScope(target)
	root.vnode = node

	var out *html.Node
	err := r.pass(ctx, "render", func() error {
		if err := r.commitChildren(target, []*vdom.VNode{node}, frame{owner: root}); err != nil {
			return err
		}
		out = target.FirstChild
		return nil
	})
	return out, err
}

func (r *Renderer) rootScope(target *html.Node) *Scope {
	s := r.roots[target]
	if s == nil {
		s = &Scope{r: r, root: true, target: target, refs: make(map[string]*html.Node)}
		r.roots[target] = s
	}
	return s
}

// RootScope returns the scope owning refs of elements rendered into target
// outside any component, or nil when nothing was rendered there.
func (r *Renderer) RootScope(target *html.Node) *Scope {
	return r.roots[target]
}

// pass runs fn as one render pass.
func (r *Renderer) pass(ctx context.Context, kind string, fn func() error) (err error) {
	_, span := r.tracer.Start(ctx, "render.pass",
		trace.WithAttributes(attribute.String("minidom.pass.kind", kind)))

	start := time.Now()
	before := r.doc.Stats()
	r.inPass = true
	defer func() {
		r.inPass = false
		elapsed := time.Since(start)
		mutations := r.doc.Stats().Sub(before).Total()
		span.SetAttributes(attribute.Int("minidom.pass.mutations", mutations))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		r.metrics.recordPass(kind, elapsed, err)
		r.logger.Debug("render pass",
			"kind", kind,
			"mutations", mutations,
			"duration", elapsed)
	}()

	return fn()
}

// rerender commits the component instance s again in place. Requests
// made during a pass are posted to the loop.
func (r *Renderer) rerender(s *Scope) error {
	if s == nil {
		return nil
	}
	if s.root {
		if s.vnode == nil {
			return nil
		}
		_, err := r.RenderContext(r.ctx, s.vnode, s.target)
		return err
	}
	if s.table != nil {
		if s.table.dead {
			return nil
		}
		s = s.table.owner
	}
	n := s.node
	if n == nil || n.Parent == nil || r.meta[n] == nil {
		r.logger.Debug("skipping re-render of unmounted component", "component", vdom.FuncName(s.vnode.Comp))
		return nil
	}
	if r.inPass {
		s.Invalidate()
		return nil
	}
	return r.pass(r.ctx, "rerender", func() error {
		_, err := r.commitNode(n.Parent, s.vnode, n, nil, s.frame)
		return err
	})
}

// hookOrder reports a hook order change.
func (r *Renderer) hookOrder(err *errors.Error) {
	r.metrics.recordHookError()
	if r.strict {
		panic(err)
	}
	r.logger.Warn("hook order changed", "error", err)
}
