package notify

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lxzan/gws"
	"go.uber.org/zap"
)

const (
	// EventSend входящее событие публикации уведомления.
	EventSend = "sendNotification"
	// EventNotification событие, которое получают все подключённые клиенты.
	EventNotification = "notification"

	// без входящих кадров (pong, ping, сообщение) дольше pingWait соединение закрывается
	pingWait = 40 * time.Second
	// период серверного ping, меньше pingWait
	pingPeriod = 25 * time.Second
)

// Frame кадр канала уведомлений.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Hub широковещательная шина поверх WebSocket. Каждое sendNotification
// переотправляется всем подключённым клиентам, включая отправителя.
type Hub struct {
	logger   *zap.SugaredLogger
	upgrader *gws.Upgrader

	pingPeriod time.Duration
	pingWait   time.Duration

	mu      sync.RWMutex
	clients map[*gws.Conn]*client
}

// client состояние одного подключения.
type client struct {
	id   string
	done chan struct{}
}

func NewHub(logger *zap.SugaredLogger) *Hub {
	h := &Hub{
		logger:     logger,
		pingPeriod: pingPeriod,
		pingWait:   pingWait,
		clients:    make(map[*gws.Conn]*client),
	}
	h.upgrader = gws.NewUpgrader(h, &gws.ServerOption{
		CheckUtf8Enabled:   true,
		Recovery:           gws.Recovery,
		ReadMaxPayloadSize: 64 * 1024,
	})
	return h
}

// ServeHTTP апгрейдит соединение и запускает цикл чтения.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r)
	if err != nil {
		h.logger.Warnw("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	go conn.ReadLoop()
}

// Count число подключённых клиентов.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast отправляет событие всем клиентам. Ошибки отдельных соединений игнорируются.
func (h *Hub) Broadcast(event string, data json.RawMessage) error {
	payload, err := json.Marshal(Frame{Event: event, Data: data})
	if err != nil {
		return err
	}

	b := gws.NewBroadcaster(gws.OpcodeText, payload)
	defer b.Close()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.clients {
		_ = b.Broadcast(conn)
	}
	return nil
}

func (h *Hub) OnOpen(conn *gws.Conn) {
	c := &client{id: uuid.NewString(), done: make(chan struct{})}
	h.touch(conn)

	h.mu.Lock()
	h.clients[conn] = c
	n := len(h.clients)
	h.mu.Unlock()

	go h.pingLoop(conn, c)
	h.logger.Infow("notification client connected", "client_id", c.id, "clients", n)
}

// pingLoop пингует клиента, пока соединение не закрыто.
func (h *Hub) pingLoop(conn *gws.Conn, c *client) {
	ticker := time.NewTicker(h.pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := conn.WritePing(nil); err != nil {
				h.logger.Debugw("notification ping failed", "client_id", c.id, "error", err)
				return
			}
		}
	}
}

func (h *Hub) OnClose(conn *gws.Conn, err error) {
	h.mu.Lock()
	c, ok := h.clients[conn]
	delete(h.clients, conn)
	n := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	close(c.done)
	h.logger.Infow("notification client disconnected", "client_id", c.id, "clients", n, "reason", err)
}

func (h *Hub) touch(conn *gws.Conn) {
	_ = conn.SetDeadline(time.Now().Add(h.pingWait))
}

func (h *Hub) OnPing(conn *gws.Conn, payload []byte) {
	h.touch(conn)
	_ = conn.WritePong(payload)
}

func (h *Hub) OnPong(conn *gws.Conn, payload []byte) {
	h.touch(conn)
}

func (h *Hub) OnMessage(conn *gws.Conn, message *gws.Message) {
	defer message.Close()
	h.touch(conn)

	if message.Opcode != gws.OpcodeText {
		return
	}
	var f Frame
	if err := json.Unmarshal(message.Data.Bytes(), &f); err != nil {
		h.logger.Debugw("malformed notification frame", "error", err)
		return
	}
	if f.Event != EventSend {
		return
	}
	if err := h.Broadcast(EventNotification, f.Data); err != nil {
		h.logger.Errorw("notification broadcast failed", "error", err)
	}
}
