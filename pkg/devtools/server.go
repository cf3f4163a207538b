package devtools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/minidom/pkg/dom"
	"github.com/vango-dev/minidom/pkg/middleware"
	"github.com/vango-dev/minidom/pkg/render"
	"github.com/vango-dev/minidom/pkg/snapshot"
)

// ErrLoopClosed is returned when the render loop no longer accepts work.
var ErrLoopClosed = errors.New("devtools: render loop closed")

// Server exposes a running app over HTTP and websockets.
type Server struct {
	doc    *dom.Document
	loop   *render.Loop
	opts   Options
	logger *slog.Logger

	upgrader websocket.Upgrader
	mux      chi.Router

	mu        sync.RWMutex
	sessions  map[string]*session
	unobserve func()
}

// New creates a server for the document and loop of r. It starts observing
// the document, so call it from the loop goroutine or before the loop runs.
func New(r *render.Renderer, opts ...Option) *Server {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	s := &Server{
		doc:      r.Document(),
		loop:     r.Loop(),
		opts:     o,
		logger:   o.Logger.With("component", "devtools"),
		sessions: make(map[string]*session),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if len(o.AllowedOrigins) > 0 {
		s.upgrader.CheckOrigin = s.checkOrigin
	}
	s.unobserve = s.doc.Observe(s.onMutation)
	s.mux = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger(s.logger), middleware.OpenTelemetry())
	if s.opts.Registerer != nil {
		r.Use(middleware.Prometheus(middleware.WithRegistry(s.opts.Registerer)))
	}
	r.Get("/tree", s.handleTree)
	r.Handle("/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	r.Post("/snapshot", s.handleSnapshot)
	r.Get("/ws", s.handleWebSocket)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// checkOrigin accepts requests without an Origin header, the server's own
// host and the configured origins.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if slices.Contains(s.opts.AllowedOrigins, origin) {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}

// do runs fn on the loop goroutine and waits for it.
func (s *Server) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if !s.loop.Post(func() {
		defer close(done)
		fn()
	}) {
		return ErrLoopClosed
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tree returns the serialized document.
func (s *Server) Tree(ctx context.Context) (string, error) {
	var (
		out string
		err error
	)
	if perr := s.do(ctx, func() { out, err = s.doc.HTML() }); perr != nil {
		return "", perr
	}
	return out, err
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	out, err := s.Tree(r.Context())
	if err != nil {
		s.logger.Error("serialize tree", "error", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

type snapshotResponse struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.opts.Store == nil {
		http.Error(w, "snapshot store not configured", http.StatusNotImplemented)
		return
	}
	name := r.URL.Query().Get("name")
	if name != "" {
		if err := snapshot.ValidateName(name); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	var (
		snap *snapshot.Snapshot
		err  error
	)
	if perr := s.do(r.Context(), func() { snap, err = snapshot.Capture(s.doc, name) }); perr != nil {
		http.Error(w, perr.Error(), http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	loc, err := s.opts.Store.Put(r.Context(), snap.Name, snap.HTML)
	if err != nil {
		s.logger.Error("store snapshot", "name", snap.Name, "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	s.logger.Info("snapshot stored", "name", snap.Name, "location", loc)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(snapshotResponse{Name: snap.Name, Location: loc})
}

// onMutation runs on the loop goroutine.
func (s *Server) onMutation(m dom.Mutation) {
	s.broadcast(Message{Type: TypeMutation, Mutation: record(m)})
}

func (s *Server) broadcast(msg Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		sess.send(msg)
	}
}

// SessionCount returns the number of connected websocket clients.
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops observing the document and disconnects every client.
func (s *Server) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	unobserve := s.unobserve
	s.unobserve = nil
	s.mu.Unlock()

	if unobserve != nil {
		// Observers belong to the document, so detach on the loop.
		if !s.loop.Post(unobserve) {
			unobserve()
		}
	}
	for _, sess := range sessions {
		sess.close()
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	sess := newSession(uuid.NewString(), conn, s.opts.SendBuffer, s.logger)
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	s.logger.Info("session opened", "session", sess.id, "remote", r.RemoteAddr)

	go sess.writePump()

	tree, err := s.Tree(r.Context())
	if err != nil {
		sess.send(Message{Type: TypeError, Session: sess.id, Error: err.Error()})
	} else {
		sess.send(Message{Type: TypeHello, Session: sess.id, Tree: tree})
	}

	s.readPump(r.Context(), sess)

	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
	sess.close()
	s.logger.Info("session closed", "session", sess.id)
}

// readPump executes commands until the client disconnects.
func (s *Server) readPump(ctx context.Context, sess *session) {
	for {
		var cmd Command
		if err := sess.conn.ReadJSON(&cmd); err != nil {
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				sess.send(Message{Type: TypeError, Error: "malformed command"})
				continue
			}
			return
		}
		cmdCtx, span := middleware.StartSpan(ctx, "devtools."+cmd.Op,
			attribute.String("minidom.session", sess.id),
			attribute.String("minidom.target", cmd.ID+cmd.Href))
		err := s.execute(cmdCtx, cmd)
		middleware.EndSpan(span, err)
		if err != nil {
			sess.send(Message{Type: TypeError, Error: err.Error()})
			continue
		}
		// Queued behind any re-render the command caused.
		tree, err := s.Tree(ctx)
		if err != nil {
			sess.send(Message{Type: TypeError, Error: err.Error()})
			continue
		}
		sess.send(Message{Type: TypeTree, Tree: tree})
	}
}

// execute applies cmd on the loop goroutine.
func (s *Server) execute(ctx context.Context, cmd Command) error {
	var err error
	perr := s.do(ctx, func() { err = s.apply(cmd) })
	if perr != nil {
		return perr
	}
	return err
}

func (s *Server) apply(cmd Command) error {
	switch cmd.Op {
	case OpTree:
		return nil
	case OpClick, OpInput:
		n := s.doc.GetElementByID(cmd.ID)
		if n == nil {
			return fmt.Errorf("no element with id %q", cmd.ID)
		}
		if cmd.Op == OpClick {
			s.doc.Click(n)
		} else {
			s.doc.Input(n, cmd.Value)
		}
		return nil
	case OpNavigate, OpBack, OpForward:
		rt := s.opts.Router
		if rt == nil {
			return fmt.Errorf("%s: no router attached", cmd.Op)
		}
		switch cmd.Op {
		case OpNavigate:
			return rt.Go(cmd.Href)
		case OpBack:
			if !rt.Back() {
				return errors.New("back: no previous entry")
			}
		case OpForward:
			if !rt.Forward() {
				return errors.New("forward: no next entry")
			}
		}
		return nil
	}
	return fmt.Errorf("unknown op %q", cmd.Op)
}
