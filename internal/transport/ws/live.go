// Package ws serves live search over WebSocket: keystrokes in, ranked results out.
package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/folio/internal/domain/item"
	"github.com/kailas-cloud/folio/internal/domain/search/query"
	"github.com/kailas-cloud/folio/internal/domain/search/result"
	"github.com/kailas-cloud/folio/internal/metrics"
	httpapi "github.com/kailas-cloud/folio/internal/transport/chi"
	"github.com/kailas-cloud/folio/internal/usecase/search"
)

const (
	writeTimeout = 10 * time.Second
	outboxSize   = 16

	// maxMessageSize fits a maximal query and category with every rune \u-escaped.
	maxMessageSize = 6*(query.MaxLength+item.MaxCategoryLength) + 256
)

// Message types.
const (
	TypeQuery   = "query"
	TypeResults = "results"
	TypeError   = "error"
)

// Searcher runs a search against the current snapshot.
type Searcher interface {
	Search(ctx context.Context, kind item.Kind, q query.Query) (result.Outcome, error)
}

// Observer records committed queries into a session's recent log.
type Observer interface {
	Observe(session, q string) error
}

// ChangeNotifier announces snapshot rebuilds.
type ChangeNotifier interface {
	OnChange(fn func(item.Kind)) func()
}

// ClientMessage is sent by the browser on every keystroke.
type ClientMessage struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Category string `json:"category,omitempty"`
}

// ServerMessage carries results for one committed query.
type ServerMessage struct {
	Type    string                  `json:"type"`
	Seq     uint64                  `json:"seq"`
	Query   string                  `json:"query,omitempty"`
	Refresh bool                    `json:"refresh,omitempty"`
	Results *httpapi.SearchResponse `json:"results,omitempty"`
	Message string                  `json:"message,omitempty"`
}

// Handler upgrades GET /api/v1/live?kind=&session= to a live-search socket.
type Handler struct {
	search   Searcher
	recent   Observer
	changes  ChangeNotifier
	wait     time.Duration
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHandler creates a live-search handler. recent and changes may be nil.
// A non-positive wait uses search.DefaultQuiescence.
func NewHandler(s Searcher, recent Observer, changes ChangeNotifier, wait time.Duration, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		search:  s,
		recent:  recent,
		changes: changes,
		wait:    wait,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		logger: logger,
	}
}

// WithCheckOrigin overrides the upgrader's origin check.
func (h *Handler) WithCheckOrigin(fn func(r *http.Request) bool) *Handler {
	h.upgrader.CheckOrigin = fn
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var rawKind, session string
	qs := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "kind", qs, &rawKind); err != nil {
		http.Error(w, "invalid kind parameter", http.StatusBadRequest)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "session", qs, &session); err != nil {
		http.Error(w, "invalid session parameter", http.StatusBadRequest)
		return
	}
	kind := item.Project
	if rawKind != "" {
		var ok bool
		if kind, ok = item.ParseKind(rawKind); !ok {
			http.Error(w, "unknown collection "+rawKind, http.StatusNotFound)
			return
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	conn.SetReadLimit(maxMessageSize)

	metrics.LiveSessions.Inc()
	defer metrics.LiveSessions.Dec()

	ctx, cancel := context.WithCancel(r.Context())
	c := &liveConn{
		h:       h,
		conn:    conn,
		kind:    kind,
		session: session,
		deb:     search.NewDebouncer(h.wait),
		out:     make(chan ServerMessage, outboxSize),
		ctx:     ctx,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.writeLoop()
	}()

	if h.changes != nil {
		unsubscribe := h.changes.OnChange(c.refresh)
		defer unsubscribe()
	}

	c.readLoop()

	c.deb.Stop()
	cancel()
	wg.Wait()
	_ = conn.Close()
}

// liveConn is the state of one open socket.
type liveConn struct {
	h       *Handler
	conn    *websocket.Conn
	kind    item.Kind
	session string
	deb     *search.Debouncer
	out     chan ServerMessage
	ctx     context.Context

	mu      sync.Mutex
	last    query.Query
	lastSeq uint64
	hasLast bool
}

func (c *liveConn) readLoop() {
	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.h.logger.Debug("Live session closed", zap.Error(err))
			}
			return
		}
		if msg.Type != TypeQuery {
			c.send(ServerMessage{Type: TypeError, Message: "unsupported message type " + msg.Type})
			continue
		}
		q, err := query.New(msg.Text, msg.Category)
		if err != nil {
			c.send(ServerMessage{Type: TypeError, Message: err.Error()})
			continue
		}
		c.deb.Submit(func(seq uint64) { c.run(seq, q, false) })
	}
}

// run executes a committed query. Results of superseded runs are dropped here
// and again in the writer.
func (c *liveConn) run(seq uint64, q query.Query, refresh bool) {
	out, err := c.h.search.Search(c.ctx, c.kind, q)
	if !c.deb.IsCurrent(seq) {
		metrics.LiveStaleDroppedTotal.Inc()
		return
	}
	if err != nil {
		c.send(ServerMessage{Type: TypeError, Seq: seq, Message: httpapi.SafeMessage(err)})
		return
	}

	c.mu.Lock()
	c.last, c.lastSeq, c.hasLast = q, seq, true
	c.mu.Unlock()

	if !refresh && c.session != "" && c.h.recent != nil {
		if err := c.h.recent.Observe(c.session, q.Text()); err != nil {
			c.h.logger.Debug("recent search not recorded", zap.Error(err))
		}
	}

	resp := httpapi.OutcomeToResponse(out)
	c.send(ServerMessage{Type: TypeResults, Seq: seq, Query: q.Text(), Refresh: refresh, Results: &resp})
}

// refresh re-runs the last committed query after a rebuild of this
// connection's collection, unless a newer query is already pending.
func (c *liveConn) refresh(kind item.Kind) {
	if kind != c.kind {
		return
	}
	c.mu.Lock()
	q, seq, ok := c.last, c.lastSeq, c.hasLast
	c.mu.Unlock()
	if !ok || !c.deb.IsCurrent(seq) {
		return
	}
	go c.run(seq, q, true)
}

func (c *liveConn) send(m ServerMessage) {
	select {
	case c.out <- m:
	case <-c.ctx.Done():
	}
}

func (c *liveConn) writeLoop() {
	var written uint64
	for {
		select {
		case <-c.ctx.Done():
			return
		case m := <-c.out:
			if m.Type == TypeResults {
				stale := !c.deb.IsCurrent(m.Seq) || m.Seq < written || (m.Seq == written && !m.Refresh)
				if stale {
					metrics.LiveStaleDroppedTotal.Inc()
					continue
				}
				written = m.Seq
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteJSON(m); err != nil {
				c.h.logger.Debug("Live write failed", zap.Error(err))
				_ = c.conn.Close()
				return
			}
		}
	}
}
