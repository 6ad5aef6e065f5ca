package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/opptima/propel-backend/internal/document"
	"github.com/opptima/propel-backend/internal/export"
	"github.com/opptima/propel-backend/internal/generator"
	"github.com/opptima/propel-backend/internal/logger"
	"github.com/opptima/propel-backend/internal/repository"
)

// ErrorHandler обрабатывает ошибки централизованно.
// Маскирует внутренние ошибки и возвращает понятные сообщения клиенту.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("Request error")
		}

		statusCode, message := mapError(err.Err)
		c.JSON(statusCode, gin.H{"error": message})
	}
}

// mapError сопоставляет известные ошибки со статусами и сообщениями.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return http.StatusNotFound, "пользователь не найден"
	case errors.Is(err, repository.ErrProposalNotFound):
		return http.StatusNotFound, "предложение не найдено"
	case errors.Is(err, repository.ErrDraftNotFound):
		return http.StatusNotFound, "черновик не найден"
	case errors.Is(err, repository.ErrSessionNotFound):
		return http.StatusUnauthorized, "сессия не найдена"
	case errors.Is(err, generator.ErrInvalidForm):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, generator.ErrTimeout):
		return http.StatusGatewayTimeout, err.Error()
	case errors.Is(err, generator.ErrNetwork):
		return http.StatusBadGateway, err.Error()
	case errors.Is(err, generator.ErrResponseFormat):
		return http.StatusBadGateway, err.Error()
	case errors.Is(err, export.ErrDecode):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, export.ErrConversionUnavailable):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, export.ErrConversion):
		return http.StatusInternalServerError, err.Error()
	case errors.Is(err, document.ErrInvalidRange):
		return http.StatusBadRequest, err.Error()
	}

	// Валидация и прочие ошибки с понятным текстом отдаются как есть
	errStr := err.Error()
	if errStr != "" && !containsInternalKeywords(errStr) {
		statusCode := http.StatusBadRequest
		if strings.Contains(errStr, "не авторизован") || strings.Contains(errStr, "токен") {
			statusCode = http.StatusUnauthorized
		}
		return statusCode, errStr
	}

	return http.StatusInternalServerError, "внутренняя ошибка сервера"
}

// containsInternalKeywords проверяет, содержит ли строка ключевые слова внутренних ошибок.
func containsInternalKeywords(s string) bool {
	keywords := []string{
		"sql:",
		"database",
		"connection",
		"internal",
		"panic",
		"repository:",
	}

	lower := strings.ToLower(s)
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}

	return false
}
