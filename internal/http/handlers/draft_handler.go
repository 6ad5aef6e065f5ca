package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opptima/propel-backend/internal/repository"
	"github.com/opptima/propel-backend/internal/service"
)

// предел размера черновика: формы больше мегабайта — явно мусор
const maxDraftSize = 1 << 20

// DraftHandler обслуживает автосохранение формы предложения.
type DraftHandler struct {
	drafts *service.DraftService
}

// NewDraftHandler создаёт хэндлер.
func NewDraftHandler(drafts *service.DraftService) *DraftHandler {
	return &DraftHandler{drafts: drafts}
}

// Get обрабатывает GET /api/draft.
func (h *DraftHandler) Get(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	draft, err := h.drafts.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrDraftNotFound) {
			// Отсутствие черновика — штатный ответ, не ошибка
			c.JSON(http.StatusOK, gin.H{"draft": nil})
			return
		}
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// Save обрабатывает PUT /api/draft. Запись в базу отложенная: частые
// автосохранения одной формы склеиваются в одну запись.
func (h *DraftHandler) Save(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxDraftSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "не удалось прочитать тело запроса"})
		return
	}
	if len(payload) > maxDraftSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "черновик слишком большой"})
		return
	}
	if !json.Valid(payload) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "черновик должен быть валидным JSON"})
		return
	}

	if err := h.drafts.Save(c.Request.Context(), userID, payload); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

// Delete обрабатывает DELETE /api/draft.
func (h *DraftHandler) Delete(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	if err := h.drafts.Clear(c.Request.Context(), userID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
