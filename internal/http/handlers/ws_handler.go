package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/opptima/propel-backend/internal/service"
	"github.com/opptima/propel-backend/internal/ws"
)

// WSHandler поднимает соединения живой ленты дашборда.
// Токен передаётся в query: браузерный WebSocket не умеет заголовки.
type WSHandler struct {
	hub    *ws.Hub
	tokens *service.TokenManager
}

// NewWSHandler создаёт хэндлер.
func NewWSHandler(hub *ws.Hub, tokens *service.TokenManager) *WSHandler {
	return &WSHandler{hub: hub, tokens: tokens}
}

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Origin уже проверен CORS-слоем, дублировать проверку здесь нечем:
	// заголовок Origin у нативных клиентов отсутствует.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Handle обслуживает GET /api/ws?token=...
func (h *WSHandler) Handle(c *gin.Context) {
	userID, err := h.authenticate(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	conn, err := feedUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade сам пишет ответ при ошибке рукопожатия
		return
	}

	client := ws.NewClient(conn, h.hub, userID)
	h.hub.Register(client)
	client.Run(c.Request.Context())
}

func (h *WSHandler) authenticate(rawToken string) (uuid.UUID, error) {
	if rawToken == "" {
		return uuid.Nil, errTokenRequired
	}

	userID, err := h.tokens.ParseAccess(rawToken)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, errTokenInvalid
	}

	return userID, nil
}
