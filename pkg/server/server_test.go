package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/dgrid/pkg/grid"
	"github.com/vango-dev/dgrid/pkg/middleware"
	"github.com/vango-dev/dgrid/pkg/store"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func people(n int) []store.Item {
	items := make([]store.Item, n)
	for i := range items {
		items[i] = store.Item{
			"id":   i + 1,
			"name": fmt.Sprintf("p%02d", i+1),
			"age":  20 + (i*7)%30,
		}
	}
	return items
}

func testProps(st store.Store) grid.Properties {
	return grid.Properties{
		Columns: []grid.Column{
			{ID: "id", Label: "ID", Sortable: true},
			{ID: "name", Label: "Name", Sortable: true, Editable: true},
			{ID: "age", Label: "Age", Sortable: true},
		},
		Store:      st,
		Pagination: &grid.PaginationConfig{ItemsPerPage: 5},
	}
}

func newTestServer(t *testing.T, src store.Source, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	srv := New(Config{Title: "People"}, testProps(store.New(src)), append([]Option{WithLogger(testLogger)}, opts...)...)
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return srv, ts
}

type testMessage struct {
	HTML  string `json:"html"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	if query != "" {
		u += "?" + query
	}
	conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) testMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg testMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func send(t *testing.T, conn *websocket.Conn, hid, event, value string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(clientEvent{HID: hid, Event: event, Value: value}))
}

func hidOf(t *testing.T, html, pattern string) string {
	t.Helper()
	m := regexp.MustCompile(pattern).FindStringSubmatch(html)
	require.NotNil(t, m, "no match for %s in %s", pattern, html)
	return m[1]
}

const (
	nameHeader = `data-hid="(h\d+)">Name`
	nextPage   = `aria-label="Next page"[^>]*data-hid="(h\d+)"`
	pageInput  = `name="page"[^>]*data-hid="(h\d+)"`
	nameInput  = `name="name"[^>]*data-hid="(h\d+)"`
)

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t, store.NewMemory(people(3)))

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 0, body["sessions"])
}

func TestPage(t *testing.T) {
	_, ts := newTestServer(t, store.NewMemory(people(12)))

	get := func(query string) string {
		resp, err := http.Get(ts.URL + "/?" + query)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return string(b)
	}

	t.Run("first page", func(t *testing.T) {
		html := get("")
		assert.Contains(t, html, "<title>People</title>")
		assert.Contains(t, html, "1 - 5 of 12 results")
		assert.Contains(t, html, `role="grid"`)
		assert.Contains(t, html, "new WebSocket")
		assert.Regexp(t, nextPage, html)
	})

	t.Run("sorted second page", func(t *testing.T) {
		html := get("sort=name&desc=1&page=2")
		assert.Contains(t, html, "6 - 10 of 12 results")
		assert.Contains(t, html, `aria-sort="descending"`)
		// p12..p08 on page one, p07..p03 on page two.
		assert.Contains(t, html, `value="p07"`)
		assert.NotContains(t, html, `value="p12"`)
	})

	t.Run("unknown sort column ignored", func(t *testing.T) {
		html := get("sort=salary")
		assert.NotContains(t, html, `aria-sort="ascending"`)
		assert.Contains(t, html, "1 - 5 of 12 results")
	})

	t.Run("invalid page", func(t *testing.T) {
		html := get("page=abc")
		assert.Contains(t, html, "dgrid-error")
	})
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := middleware.NewMetrics(middleware.WithRegistry(reg))
	_, ts := newTestServer(t, store.NewMemory(people(3)), WithMetrics(m), WithGatherer(reg))

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(b), `dgrid_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}

func TestSession_InitialRender(t *testing.T) {
	srv, ts := newTestServer(t, store.NewMemory(people(12)))
	conn := dial(t, ts, "")

	msg := readMessage(t, conn)
	assert.Nil(t, msg.Error)
	assert.Contains(t, msg.HTML, "1 - 5 of 12 results")
	assert.Eventually(t, func() bool { return srv.SessionCount() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestSession_QueryParameters(t *testing.T) {
	_, ts := newTestServer(t, store.NewMemory(people(12)))
	conn := dial(t, ts, url.Values{"sort": {"id"}, "page": {"3"}}.Encode())

	msg := readMessage(t, conn)
	assert.Contains(t, msg.HTML, "11 - 12 of 12 results")
	assert.Contains(t, msg.HTML, `aria-sort="ascending"`)
}

func TestSession_SortToggle(t *testing.T) {
	_, ts := newTestServer(t, store.NewMemory(people(12)))
	conn := dial(t, ts, "")
	msg := readMessage(t, conn)

	send(t, conn, hidOf(t, msg.HTML, nameHeader), "click", "")
	msg = readMessage(t, conn)
	assert.Contains(t, msg.HTML, `aria-sort="ascending"`)
	assert.Contains(t, msg.HTML, `value="p01"`)

	send(t, conn, hidOf(t, msg.HTML, nameHeader), "click", "")
	msg = readMessage(t, conn)
	assert.Contains(t, msg.HTML, `aria-sort="descending"`)
	assert.Contains(t, msg.HTML, `value="p12"`)
	assert.NotContains(t, msg.HTML, `value="p01"`)
}

func TestSession_Pagination(t *testing.T) {
	_, ts := newTestServer(t, store.NewMemory(people(12)))
	conn := dial(t, ts, "")
	msg := readMessage(t, conn)

	send(t, conn, hidOf(t, msg.HTML, nextPage), "click", "")
	msg = readMessage(t, conn)
	assert.Contains(t, msg.HTML, "6 - 10 of 12 results")

	send(t, conn, hidOf(t, msg.HTML, pageInput), "change", "3")
	msg = readMessage(t, conn)
	assert.Contains(t, msg.HTML, "11 - 12 of 12 results")
}

func TestSession_InvalidPage(t *testing.T) {
	_, ts := newTestServer(t, store.NewMemory(people(12)))
	conn := dial(t, ts, "")
	msg := readMessage(t, conn)

	send(t, conn, hidOf(t, msg.HTML, pageInput), "change", "abc")
	msg = readMessage(t, conn)
	require.NotNil(t, msg.Error)
	assert.Equal(t, "E203", msg.Error.Code)
	assert.Contains(t, msg.HTML, "dgrid-error")

	// The session stays usable.
	send(t, conn, hidOf(t, msg.HTML, pageInput), "change", "2")
	msg = readMessage(t, conn)
	assert.Nil(t, msg.Error)
	assert.Contains(t, msg.HTML, "6 - 10 of 12 results")
}

func TestSession_CellEditWritesThrough(t *testing.T) {
	mem := store.NewMemory(people(12))
	_, ts := newTestServer(t, mem)
	conn := dial(t, ts, "")
	msg := readMessage(t, conn)

	send(t, conn, hidOf(t, msg.HTML, nameInput), "change", "Zed")
	msg = readMessage(t, conn)
	assert.Contains(t, msg.HTML, `value="Zed"`)

	items, err := mem.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Zed", items[0]["name"])
}

func TestSession_ProtocolErrors(t *testing.T) {
	_, ts := newTestServer(t, store.NewMemory(people(3)))
	conn := dial(t, ts, "")
	readMessage(t, conn)

	tests := []struct {
		name    string
		payload string
		code    string
	}{
		{"not json", "not json", "E302"},
		{"missing hid", `{"event":"click"}`, "E302"},
		{"unknown hid", `{"hid":"h999","event":"click"}`, "E301"},
		{"unsupported event", `{"hid":"h1","event":"dblclick"}`, "E303"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(tt.payload)))
			msg := readMessage(t, conn)
			require.NotNil(t, msg.Error)
			assert.Equal(t, tt.code, msg.Error.Code)
			assert.Empty(t, msg.HTML)
		})
	}
}

func TestSetStore(t *testing.T) {
	srv, ts := newTestServer(t, store.NewMemory(people(12)))
	conn := dial(t, ts, "")
	readMessage(t, conn)
	require.Eventually(t, func() bool { return srv.SessionCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	srv.SetStore(store.NewMemoryStore(people(3)))
	msg := readMessage(t, conn)
	assert.Contains(t, msg.HTML, "of 3 results")

	// New pages use the new store too.
	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(b), "1 - 3 of 3 results")
}

func TestRegisterHandsOverReplacedStore(t *testing.T) {
	srv := New(DefaultConfig(), testProps(store.NewMemoryStore(people(12))), WithLogger(testLogger))

	// The store is replaced after the grid was built but before the session
	// is registered.
	g, gen := srv.newGrid(nil)
	defer g.Destroy()
	replacement := store.NewMemoryStore(people(3))
	srv.SetStore(replacement)

	sess := newSession(srv, nil, g)
	require.True(t, srv.register(sess, gen))
	assert.Equal(t, 1, srv.SessionCount())

	select {
	case fn := <-sess.actions:
		fn()
	default:
		t.Fatal("replaced store not handed to the session")
	}
	assert.Same(t, replacement, g.Properties().Store)

	snap, err := g.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Total)
}

func TestRegisterCurrentStore(t *testing.T) {
	srv := New(DefaultConfig(), testProps(store.NewMemoryStore(people(12))), WithLogger(testLogger))

	g, gen := srv.newGrid(nil)
	defer g.Destroy()
	sess := newSession(srv, nil, g)
	require.True(t, srv.register(sess, gen))
	assert.Empty(t, sess.actions)
}

func TestRegisterAfterClose(t *testing.T) {
	srv := New(DefaultConfig(), testProps(store.NewMemoryStore(people(3))), WithLogger(testLogger))

	g, gen := srv.newGrid(nil)
	defer g.Destroy()
	srv.Close()

	assert.False(t, srv.register(newSession(srv, nil, g), gen))
	assert.Equal(t, 0, srv.SessionCount())
}

func TestClose(t *testing.T) {
	srv, ts := newTestServer(t, store.NewMemory(people(3)))
	conn := dial(t, ts, "")
	readMessage(t, conn)
	require.Eventually(t, func() bool { return srv.SessionCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	srv.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.Eventually(t, func() bool { return srv.SessionCount() == 0 }, 2*time.Second, 10*time.Millisecond)

	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	assert.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	}
}

func TestApplyQuery(t *testing.T) {
	g := grid.New(testProps(store.NewMemoryStore(people(12))))
	defer g.Destroy()

	ApplyQuery(g, url.Values{"sort": {"age"}, "desc": {"true"}, "page": {"2"}})

	assert.Equal(t, &grid.SortDetails{ColumnID: "age", Descending: true}, g.SortDetails())
	assert.Equal(t, &grid.PaginationDetails{DataRangeStart: 5, DataRangeCount: 5, PageNumber: 2}, g.PaginationDetails())
}

func TestConfigDefaults(t *testing.T) {
	c := Config{ReadTimeout: 10 * time.Second, PingInterval: time.Minute}.withDefaults()
	assert.Equal(t, 9*time.Second, c.PingInterval)
	assert.Equal(t, int64(64*1024), c.MaxMessageSize)
	assert.Equal(t, "dgrid", c.Title)
}
