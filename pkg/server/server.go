package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/dgrid/pkg/grid"
	"github.com/vango-dev/dgrid/pkg/middleware"
	"github.com/vango-dev/dgrid/pkg/render"
	"github.com/vango-dev/dgrid/pkg/store"
	"github.com/vango-dev/dgrid/pkg/vdom"
)

// Server serves a grid over HTTP and websocket sessions.
type Server struct {
	config   Config
	props    grid.Properties
	gridOpts []grid.Option

	mu       sync.RWMutex
	base     store.Store
	storeGen uint64
	sessions map[string]*Session
	closed   bool

	renderer *render.Renderer
	upgrader websocket.Upgrader
	router   chi.Router

	logger     *slog.Logger
	gridLogger *slog.Logger
	metrics    *middleware.Metrics
	tracer     *middleware.EventTracer
	otelOpts   []middleware.OTelOption
	gatherer   prometheus.Gatherer

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger. Default slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records request, event and session metrics.
func WithMetrics(m *middleware.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithTracing creates OpenTelemetry spans for requests and grid events.
func WithTracing(opts ...middleware.OTelOption) Option {
	return func(s *Server) {
		s.otelOpts = opts
		s.tracer = middleware.NewEventTracer(opts...)
	}
}

// WithGatherer sets the registry served on /metrics.
// Default prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

// WithGridOptions passes options to every grid the server creates.
func WithGridOptions(opts ...grid.Option) Option {
	return func(s *Server) {
		s.gridOpts = append(s.gridOpts, opts...)
	}
}

// New creates a server. props is the template for every session's grid;
// its Store is the initial base store.
func New(config Config, props grid.Properties, opts ...Option) *Server {
	config = config.withDefaults()
	s := &Server{
		config:   config,
		props:    props,
		base:     props.Store,
		sessions: make(map[string]*Session),
		renderer: render.NewRenderer(render.RendererConfig{}),
		logger:   slog.Default(),
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.gridLogger = s.logger
	s.logger = s.logger.With("component", "server")
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  config.ReadBufferSize,
		WriteBufferSize: config.WriteBufferSize,
		CheckOrigin:     config.CheckOrigin,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	if s.tracer != nil {
		r.Use(middleware.OpenTelemetry(s.otelOpts...))
	}
	if s.metrics != nil {
		r.Use(s.metrics.Handler)
	}

	r.Get("/", s.handlePage)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Store returns the current base store.
func (s *Server) Store() store.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base
}

// SetStore replaces the base store of the server and of every open session.
func (s *Server) SetStore(st store.Store) {
	s.mu.Lock()
	s.base = st
	s.storeGen++
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.SetStore(st)
	}
	s.logger.Info("store replaced", "sessions", len(sessions))
}

// SessionCount returns the number of open sessions.
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// newGrid creates a grid over the current base store with the view named
// by query applied. gen identifies the base store it was built from.
func (s *Server) newGrid(query url.Values) (g *grid.Grid, gen uint64) {
	props := s.props
	s.mu.RLock()
	props.Store, gen = s.base, s.storeGen
	s.mu.RUnlock()
	g = grid.New(props, append([]grid.Option{grid.WithLogger(s.gridLogger)}, s.gridOpts...)...)
	ApplyQuery(g, query)
	return g, gen
}

// register adds sess to the open sessions. It reports false once the server
// is closed. A store replaced since gen is handed to the session.
func (s *Server) register(sess *Session, gen uint64) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.sessions[sess.id] = sess
	stale := s.storeGen != gen
	base := s.base
	s.mu.Unlock()

	if stale {
		sess.SetStore(base)
	}
	return true
}

// ApplyQuery applies the sort, desc and page parameters to g. Unknown sort
// columns are ignored; the page text is forwarded verbatim.
func ApplyQuery(g *grid.Grid, query url.Values) {
	props := g.Properties()
	if col := query.Get("sort"); col != "" {
		for _, c := range props.Columns {
			if c.ID == col {
				g.OnSortRequest(col, isTrue(query.Get("desc")))
				break
			}
		}
	}
	if query.Has("page") && props.Pagination != nil {
		g.OnPaginationRequest(query.Get("page"))
	}
}

func isTrue(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	g, _ := s.newGrid(r.URL.Query())
	defer g.Destroy()

	tree := g.RenderContext(r.Context())
	vdom.AssignHIDs(tree, vdom.NewHIDGenerator())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.RenderPage(w, render.PageData{
		Body:  tree,
		Title: s.config.Title,
		Live:  true,
	}); err != nil {
		s.logger.Error("page render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": s.SessionCount(),
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		s.metrics.RecordWebSocketError("upgrade")
		return
	}

	g, gen := s.newGrid(r.URL.Query())
	sess := newSession(s, conn, g)
	if !s.register(sess, gen) {
		sess.Close()
		g.Destroy()
		return
	}
	s.metrics.RecordSessionOpen()
	s.logger.Info("session opened", "session_id", sess.id, "remote", r.RemoteAddr)

	go func() {
		sess.run(context.Background())
		s.removeSession(sess.id)
	}()
}

func (s *Server) removeSession(id string) {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok {
		s.metrics.RecordSessionClose()
	}
}

// Close closes every session. New websocket connections are refused.
func (s *Server) Close() {
	s.mu.Lock()
	s.closed = true
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes every session and gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.Close()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
