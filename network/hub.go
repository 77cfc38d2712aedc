package network

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/lixenwraith/siege/parameter"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// client is one stream subscriber with its own outbound queue
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans snapshot frames out to websocket subscribers
// A slow client drops frames instead of stalling the broadcast
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}

	source  Simulation
	limiter *rate.Limiter
	metrics *Metrics
	log     *log.Logger

	seq uint32
}

// NewHub creates a hub broadcasting at most every interval
func NewHub(source Simulation, interval time.Duration, metrics *Metrics, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		source:  source,
		limiter: rate.NewLimiter(rate.Every(interval), parameter.StreamBurst),
		metrics: metrics,
		log:     logger,
	}
}

// ClientCount returns the number of connected subscribers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish broadcasts the current snapshot if the limiter allows it
// Called after every tick from the clock goroutine; ticks faster than the stream cadence are skipped
func (h *Hub) Publish() {
	if h.ClientCount() == 0 || !h.limiter.Allow() {
		return
	}
	h.seq++
	f := &Frame{Type: MsgSnapshot, Seq: h.seq, Snapshot: h.source.Snapshot()}
	data, err := f.Encode()
	if err != nil {
		h.log.Error("snapshot frame", "err", err)
		return
	}
	h.broadcast(data)
}

func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Backpressure, skip this frame for c
		}
	}
	if h.metrics != nil {
		h.metrics.frameSent()
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.setClients(n)
	}
	h.log.Debug("stream client connected", "remote", c.conn.RemoteAddr(), "clients", n)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.setClients(n)
	}
	h.log.Debug("stream client disconnected", "clients", n)
}

// Close disconnects every subscriber
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// HandleWebSocket upgrades the request and streams frames until either side closes
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade", "err", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, parameter.ClientSendQueue)}
	hello, err := (&Frame{Type: MsgHello, Session: h.source.Snapshot().SessionID}).Encode()
	if err != nil {
		conn.Close()
		return
	}
	c.send <- hello
	h.register(c)

	// The request context ends when this handler returns; the stream lives until the read loop sees a close
	ctx, cancel := context.WithCancel(context.Background())
	go h.writeLoop(ctx, c)

	// Inbound frames are ignored; the read loop only detects close
	go func() {
		defer func() {
			cancel()
			h.unregister(c)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) writeLoop(ctx context.Context, c *client) {
	defer c.conn.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(parameter.StreamWriteTimeout))
			if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}
		}
	}
}
