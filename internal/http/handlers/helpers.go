package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/opptima/propel-backend/internal/http/middleware"
	"github.com/opptima/propel-backend/internal/service"
)

var (
	errUserNotFound  = errors.New("пользователь не найден в контексте")
	errTokenRequired = errors.New("access токен обязателен")
	errTokenInvalid  = errors.New("невалидный access токен")
)

// currentUserID извлекает userID из контекста.
func currentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, errUserNotFound
	}

	userID, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, errUserNotFound
	}

	return userID, nil
}

// sessionMeta собирает метаданные клиента для записи сессии.
func sessionMeta(c *gin.Context) service.SessionMeta {
	return service.SessionMeta{
		UserAgent: c.Request.UserAgent(),
		IP:        c.ClientIP(),
	}
}
