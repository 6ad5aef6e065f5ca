package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/opptima/propel-backend/internal/logger"
)

// Hub раздаёт события жизненного цикла предложений по подключениям
// владельца. Доставка best-effort: нет подключений — событие теряется.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}

	outbound chan envelope
}

type envelope struct {
	userID  uuid.UUID
	payload []byte
}

// NewHub создаёт хаб.
func NewHub() *Hub {
	return &Hub{
		clients:  make(map[uuid.UUID]map[*Client]struct{}),
		outbound: make(chan envelope, 32),
	}
}

// Run разгребает очередь исходящих событий. Запускается одной горутиной.
func (h *Hub) Run() {
	for msg := range h.outbound {
		h.fanOut(msg.userID, msg.payload)
	}
}

// Register ставит клиента на учёт.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[client.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[client.userID] = set
	}
	set[client] = struct{}{}
}

// Unregister снимает клиента с учёта.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[client.userID]
	if !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
}

// Publish ставит событие пользователя в очередь рассылки. Формат кадра:
// "type" — имя события, "data" — полезная нагрузка.
func (h *Hub) Publish(userID uuid.UUID, event string, data interface{}) {
	raw, err := json.Marshal(map[string]interface{}{
		"type": event,
		"data": data,
	})
	if err != nil {
		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"event": event,
				"error": err.Error(),
			}).Warn("ws: событие не сериализуется")
		}
		return
	}

	h.outbound <- envelope{userID: userID, payload: raw}
}

func (h *Hub) fanOut(userID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
			// Переполненный клиент отключается, чтобы не тормозить остальных
			go func(c *Client) {
				defer func() {
					if r := recover(); r != nil {
						logPanic("client close", r)
					}
				}()
				c.Close()
			}(client)
		}
	}
}
