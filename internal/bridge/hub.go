package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/capoala/mvvm/pkg/observable"
)

// Message types exchanged with websocket clients.
const (
	MessageSnapshot = "snapshot" // server -> client, on connect
	MessageProperty = "property" // server -> client, a property changed
	MessageCommand  = "command"  // server -> client, a command's enablement may have changed
	MessageError    = "error"    // server -> client, a request failed
	MessageSet      = "set"      // client -> server, write a property
	MessageExecute  = "execute"  // client -> server, run a command
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

var errHubClosed = errors.New("hub closed")

// Message is the websocket wire format
type Message struct {
	Type       string    `json:"type"`
	Object     string    `json:"object,omitempty"`
	Name       string    `json:"name,omitempty"`
	Value      any       `json:"value"`
	CanExecute *bool     `json:"canExecute,omitempty"`
	Snapshot   *Snapshot `json:"snapshot,omitempty"`
	Error      string    `json:"error,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *client) queue(b []byte) bool {
	select {
	case c.send <- b:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

type watched struct {
	target Target
	subs   []observable.Subscription
}

// Hub pushes the changes of registered objects to websocket clients and
// applies their set and execute requests on the owner.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}
	closeOnce  sync.Once
	mutex      sync.RWMutex
	upgrader   websocket.Upgrader

	invoker Invoker
	logger  *zap.Logger

	objMutex sync.RWMutex
	objects  map[string]*watched
	order    []string
}

// NewHub creates a hub whose requests run through invoker. A nil invoker
// runs them inline; a nil logger discards diagnostics.
func NewHub(invoker Invoker, logger *zap.Logger) *Hub {
	if invoker == nil {
		invoker = InlineInvoker{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		invoker:    invoker,
		logger:     logger,
		objects:    make(map[string]*watched),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				// Allow localhost only
				return strings.HasPrefix(origin, "http://localhost") ||
					strings.HasPrefix(origin, "https://localhost") ||
					strings.HasPrefix(origin, "http://127.0.0.1") ||
					strings.HasPrefix(origin, "https://127.0.0.1")
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	go h.run()

	return h
}

// Register exposes t under name, replacing any object already registered
// under it. It subscribes to t and so must be called on the owner.
func (h *Hub) Register(name string, t Target) {
	w := &watched{target: t}
	w.subs = append(w.subs, t.OnPropertyChanged(func(e observable.PropertyChange) {
		v, _ := t.PropertyValue(e.Name)
		h.publish(Message{Type: MessageProperty, Object: name, Name: e.Name, Value: v})
	}))
	for _, cmdName := range t.Commands() {
		cmd, ok := t.Command(cmdName)
		if !ok {
			continue
		}
		w.subs = append(w.subs, cmd.OnCanExecuteChanged(func() {
			can := cmd.CanExecute()
			h.publish(Message{Type: MessageCommand, Object: name, Name: cmdName, CanExecute: &can})
		}))
	}

	h.objMutex.Lock()
	old, exists := h.objects[name]
	h.objects[name] = w
	if !exists {
		h.order = append(h.order, name)
	}
	h.objMutex.Unlock()

	if exists {
		old.unsubscribe()
	}
}

// Unregister stops exposing name. Must be called on the owner.
func (h *Hub) Unregister(name string) {
	h.objMutex.Lock()
	w, ok := h.objects[name]
	if ok {
		delete(h.objects, name)
		for i, n := range h.order {
			if n == name {
				h.order = append(h.order[:i:i], h.order[i+1:]...)
				break
			}
		}
	}
	h.objMutex.Unlock()

	if ok {
		w.unsubscribe()
	}
}

func (w *watched) unsubscribe() {
	for _, s := range w.subs {
		s.Unsubscribe()
	}
}

// Lookup returns the object registered under name.
func (h *Hub) Lookup(name string) (Target, bool) {
	h.objMutex.RLock()
	defer h.objMutex.RUnlock()
	w, ok := h.objects[name]
	if !ok {
		return nil, false
	}
	return w.target, true
}

// Objects returns the registered names in registration order.
func (h *Hub) Objects() []string {
	h.objMutex.RLock()
	defer h.objMutex.RUnlock()
	return append([]string(nil), h.order...)
}

// Invoker returns the invoker requests run through.
func (h *Hub) Invoker() Invoker { return h.invoker }

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			h.logger.Debug("hub shutting down")
			return

		case c := <-h.register:
			h.mutex.Lock()
			h.clients[c] = true
			count := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("client connected", zap.Int("clients", count))

		case c := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.close()
			}
			count := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("client disconnected", zap.Int("clients", count))

		case b := <-h.broadcast:
			h.sendToAll(b)
		}
	}
}

// sendToAll queues b on every client, dropping clients that cannot keep up.
func (h *Hub) sendToAll(b []byte) {
	h.mutex.RLock()
	var slow []*client
	for c := range h.clients {
		if !c.queue(b) {
			slow = append(slow, c)
		}
	}
	h.mutex.RUnlock()

	if len(slow) > 0 {
		h.mutex.Lock()
		for _, c := range slow {
			if _, ok := h.clients[c]; ok {
				h.logger.Warn("dropping slow client")
				delete(h.clients, c)
				c.close()
			}
		}
		h.mutex.Unlock()
	}
}

func (h *Hub) publish(m Message) {
	b, err := json.Marshal(m)
	if err != nil {
		h.logger.Error("failed to marshal message", zap.String("type", m.Type), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- b:
	case <-h.done:
	}
}

// HandleWebSocket upgrades the connection, sends a snapshot of every
// registered object and then streams changes.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade connection", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer), done: make(chan struct{})}
	go h.writeMessages(c)

	// Snapshots and registration happen in one owner turn, so every change
	// raised afterwards reaches the client after its snapshot.
	err = h.invoker.Invoke(r.Context(), func() error {
		for _, name := range h.Objects() {
			t, ok := h.Lookup(name)
			if !ok {
				continue
			}
			snap := TakeSnapshot(t)
			h.reply(c, Message{Type: MessageSnapshot, Object: name, Snapshot: &snap})
		}
		select {
		case h.register <- c:
			return nil
		case <-h.done:
			return errHubClosed
		}
	})
	if err != nil {
		h.logger.Debug("client not registered", zap.Error(err))
		c.close()
		return
	}

	go h.readMessages(c)
}

func (h *Hub) reply(c *client, m Message) {
	b, err := json.Marshal(m)
	if err != nil {
		h.logger.Error("failed to marshal message", zap.String("type", m.Type), zap.Error(err))
		return
	}
	c.queue(b)
}

func (h *Hub) writeMessages(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return
		case b := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) readMessages(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
			c.close()
		}
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket error", zap.Error(err))
			}
			return
		}

		var m Message
		if err := json.Unmarshal(data, &m); err != nil {
			h.reply(c, Message{Type: MessageError, Error: fmt.Sprintf("invalid message: %v", err)})
			continue
		}
		if err := h.Apply(context.Background(), m); err != nil {
			h.reply(c, Message{Type: MessageError, Object: m.Object, Name: m.Name, Error: err.Error()})
		}
	}
}

// Apply performs a set or execute request on the owner.
func (h *Hub) Apply(ctx context.Context, m Message) error {
	t, ok := h.Lookup(m.Object)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownObject, m.Object)
	}

	switch m.Type {
	case MessageSet:
		return h.invoker.Invoke(ctx, func() error { return t.SetProperty(m.Name, m.Value) })
	case MessageExecute:
		return h.invoker.Invoke(ctx, func() error { return Execute(t, m.Name) })
	default:
		return fmt.Errorf("unsupported message type %q", m.Type)
	}
}

// ConnectionCount returns the number of active connections
func (h *Hub) ConnectionCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and stops the hub.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)

		h.mutex.Lock()
		defer h.mutex.Unlock()
		for c := range h.clients {
			c.close()
		}
		h.clients = make(map[*client]bool)
	})
}
