package broadcast

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeTimeout = 10 * time.Second

// wsClient — одно подключение слушателя. Запись сериализуется мьютексом,
// так как gorilla/websocket не допускает конкурентных Write.
type wsClient struct {
	id   int64
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub — fan-out канал для websocket-клиентов. Доставка best-effort:
// ошибка записи одному клиенту не мешает остальным и не ретраится.
type Hub struct {
	logger   *logrus.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[int64]*wsClient
	nextID  int64
}

// NewHub создает пустой хаб
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Клиенты подключаются с любых origin (дашборды, мобильные приложения)
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[int64]*wsClient),
	}
}

// ServeHTTP апгрейдит соединение и держит его до закрытия клиентом
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to upgrade websocket connection")
		return
	}

	client := h.register(conn)
	log := h.logger.WithField("client_id", client.id)
	log.Infof("Websocket client connected, total clients: %d", h.ClientCount())

	welcome, _ := json.Marshal(map[string]interface{}{
		"type":      "connected",
		"client_id": client.id,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	if err := client.write(welcome); err != nil {
		log.WithError(err).Warn("Failed to send welcome message")
	}

	// Читаем входящие сообщения только ради обнаружения закрытия соединения
	go func() {
		defer h.unregister(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				log.Infof("Websocket client disconnected: %v", err)
				return
			}
		}
	}()
}

// Send рассылает событие всем открытым соединениям
func (h *Hub) Send(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.WithError(err).WithField("event_type", event.Type).
			Error("Failed to marshal broadcast event")
		return
	}

	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	sent, failed := 0, 0
	for _, client := range clients {
		if err := client.write(payload); err != nil {
			failed++
			h.logger.WithError(err).WithField("client_id", client.id).
				Warn("Failed to send event to websocket client")
			continue
		}
		sent++
	}

	h.logger.WithFields(logrus.Fields{
		"event_type": event.Type,
		"sent":       sent,
		"failed":     failed,
	}).Debug("Broadcast complete")
}

// ClientCount возвращает число подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close закрывает все соединения
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		client.conn.Close()
		delete(h.clients, id)
	}
}

func (h *Hub) register(conn *websocket.Conn) *wsClient {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	client := &wsClient{id: h.nextID, conn: conn}
	h.clients[client.id] = client
	return client
}

func (h *Hub) unregister(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.id]; ok {
		client.conn.Close()
		delete(h.clients, client.id)
	}
}
