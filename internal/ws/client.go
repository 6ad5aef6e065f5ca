package ws

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/opptima/propel-backend/internal/logger"
)

const (
	// Дедлайн одной записи в сокет.
	writeTimeout = 10 * time.Second
	// Сколько ждём pong, прежде чем счесть клиента мёртвым.
	pongTimeout = 60 * time.Second
	// Ping уходит заметно раньше дедлайна pong.
	pingInterval = 54 * time.Second

	maxInboundSize = 64 * 1024
	sendQueueSize  = 16
)

// Client — одно браузерное подключение ленты. Лента односторонняя:
// клиент только получает события, входящие сообщения игнорируются.
type Client struct {
	conn   *websocket.Conn
	hub    *Hub
	userID uuid.UUID
	send   chan []byte
}

// NewClient оборачивает установленное соединение.
func NewClient(conn *websocket.Conn, hub *Hub, userID uuid.UUID) *Client {
	return &Client{
		conn:   conn,
		hub:    hub,
		userID: userID,
		send:   make(chan []byte, sendQueueSize),
	}
}

// Run гоняет ленту до закрытия соединения или отмены контекста.
// Возвращается, когда читающая сторона умерла.
func (c *Client) Run(ctx context.Context) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logPanic("write loop", r)
				c.Close()
			}
		}()
		c.writeLoop()
	}()

	defer func() {
		if r := recover(); r != nil {
			logPanic("read loop", r)
		}
		c.Close()
	}()
	c.readLoop(ctx)
}

// Close снимает клиента с учёта и рвёт соединение.
func (c *Client) Close() {
	c.hub.Unregister(c)
	c.conn.Close()
}

func (c *Client) readLoop(ctx context.Context) {
	c.conn.SetReadLimit(maxInboundSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for ctx.Err() == nil {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writeLoop() {
	pings := time.NewTicker(pingInterval)
	defer func() {
		pings.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, open := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !open {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-pings.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func logPanic(where string, r interface{}) {
	if logger.Log == nil {
		return
	}
	logger.Log.WithFields(logrus.Fields{
		"where": where,
		"panic": r,
		"stack": string(debug.Stack()),
	}).Error("ws: паника подавлена")
}
