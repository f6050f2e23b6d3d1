package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/dgrid/internal/errors"
	"github.com/vango-dev/dgrid/pkg/grid"
	"github.com/vango-dev/dgrid/pkg/store"
	"github.com/vango-dev/dgrid/pkg/vdom"
)

// clientEvent is an event sent by the browser.
type clientEvent struct {
	HID   string `json:"hid"`
	Event string `json:"event"`
	Value string `json:"value"`
}

// serverMessage is a message sent to the browser.
type serverMessage struct {
	HTML  *string         `json:"html,omitempty"`
	Error json.RawMessage `json:"error,omitempty"`
}

// inbound is one decoded websocket message, or the reason it could not be
// decoded.
type inbound struct {
	event clientEvent
	err   error
}

// Session is one live websocket connection and the grid it drives. Only
// the session goroutine touches the grid.
type Session struct {
	id     string
	server *Server
	conn   *websocket.Conn
	grid   *grid.Grid
	logger *slog.Logger

	hids *vdom.HIDGenerator
	tree *vdom.VNode

	events  chan inbound
	actions chan func()
	done    chan struct{}

	closeOnce sync.Once
}

func newSession(s *Server, conn *websocket.Conn, g *grid.Grid) *Session {
	id := generateSessionID()
	return &Session{
		id:      id,
		server:  s,
		conn:    conn,
		grid:    g,
		logger:  s.logger.With("session_id", id),
		hids:    vdom.NewHIDGenerator(),
		events:  make(chan inbound, s.config.MaxEventQueue),
		actions: make(chan func(), 8),
		done:    make(chan struct{}),
	}
}

func generateSessionID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("s%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// SetStore hands a new base store to the session goroutine.
func (s *Session) SetStore(st store.Store) {
	s.post(func() {
		props := s.grid.Properties()
		props.Store = st
		s.grid.SetProperties(props)
	})
}

// post queues fn for the session goroutine. It is dropped once the session
// is closed.
func (s *Session) post(fn func()) {
	select {
	case s.actions <- fn:
	case <-s.done:
	}
}

// Close ends the session. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		deadline := time.Now().Add(time.Second)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"), deadline)
		s.conn.Close()
		s.logger.Info("session closed")
	})
}

// run is the session goroutine. It returns when the connection ends.
func (s *Session) run(ctx context.Context) {
	defer s.grid.Destroy()
	defer s.Close()

	cfg := s.server.config
	s.conn.SetReadLimit(cfg.MaxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	})

	go s.readLoop()

	if err := s.render(ctx); err != nil {
		s.logger.Error("initial render failed", "error", err)
		return
	}

	ping := time.NewTicker(cfg.PingInterval)
	defer ping.Stop()

	for {
		select {
		case <-s.done:
			return

		case in := <-s.events:
			if err := s.handle(ctx, in); err != nil {
				return
			}

		case fn := <-s.actions:
			fn()
			if s.grid.Dirty() {
				if err := s.render(ctx); err != nil {
					return
				}
			}

		case <-ping.C:
			deadline := time.Now().Add(cfg.WriteTimeout)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				s.logger.Debug("ping failed", "error", err)
				return
			}
		}
	}
}

// readLoop decodes client messages until the connection fails.
func (s *Session) readLoop() {
	defer s.Close()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				s.server.metrics.RecordWebSocketError("read")
			}
			return
		}

		var in inbound
		if err := json.Unmarshal(data, &in.event); err != nil {
			in.err = errors.New("E302").Wrap(err)
		} else if in.event.HID == "" || in.event.Event == "" {
			in.err = errors.New("E302").WithDetail(`Events need both "hid" and "event".`)
		}

		select {
		case s.events <- in:
		case <-s.done:
			return
		}
	}
}

// handle processes one inbound message and re-renders when the grid
// changed. A non-nil error means the connection is unusable.
func (s *Session) handle(ctx context.Context, in inbound) error {
	if in.err != nil {
		s.logger.Warn("bad event payload", "error", in.err)
		s.server.metrics.RecordWebSocketError("payload")
		return s.sendError(in.err)
	}

	ev := in.event
	start := time.Now()

	var span trace.Span
	if t := s.server.tracer; t != nil {
		ctx, span = t.Start(ctx, s.id, ev.Event, ev.HID)
	}

	var writeErr error
	err := s.dispatch(ev)
	if err != nil {
		s.logger.Warn("event rejected", "hid", ev.HID, "event", ev.Event, "error", err)
		writeErr = s.sendError(err)
	} else if s.grid.Dirty() {
		writeErr = s.render(ctx)
	}

	s.server.metrics.RecordEvent(ev.Event, time.Since(start), err)
	if span != nil {
		s.server.tracer.End(span, err)
	}
	return writeErr
}

// dispatch invokes the handler the event addresses.
func (s *Session) dispatch(ev clientEvent) error {
	node := vdom.FindByHID(s.tree, ev.HID)
	if node == nil {
		return errors.New("E301").Wrap(fmt.Errorf("hid %q", ev.HID))
	}
	handler, ok := node.Handler(ev.Event)
	if !ok || !vdom.Dispatch(handler, ev.Value) {
		return errors.New("E303").Wrap(fmt.Errorf("%s on <%s> %s", ev.Event, node.Tag, ev.HID))
	}
	return nil
}

// render rebuilds the tree, assigns fresh hydration ids and sends the HTML.
func (s *Session) render(ctx context.Context) error {
	tree := s.grid.RenderContext(ctx)
	s.hids.Reset()
	vdom.AssignHIDs(tree, s.hids)
	s.tree = tree

	html, err := s.server.renderer.RenderToString(tree)
	if err != nil {
		s.logger.Error("render failed", "error", err)
		return s.sendError(errors.Newf(errors.CategoryProtocol, "render failed: %v", err))
	}

	msg := serverMessage{HTML: &html}
	if gerr := s.grid.Err(); gerr != nil {
		msg.Error = json.RawMessage(errors.FromStoreError(gerr).FormatJSON())
	}
	if err := s.write(msg); err != nil {
		return err
	}
	s.server.metrics.RecordRender(len(html))
	return nil
}

func (s *Session) sendError(err error) error {
	ge := errors.FromError(err, "E300")
	return s.write(serverMessage{Error: json.RawMessage(ge.FormatJSON())})
}

func (s *Session) write(msg serverMessage) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.server.config.WriteTimeout))
	if err := s.conn.WriteJSON(msg); err != nil {
		s.logger.Debug("write failed", "error", err)
		s.server.metrics.RecordWebSocketError("write")
		return err
	}
	return nil
}
