package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opptima/propel-backend/internal/document"
	"github.com/opptima/propel-backend/internal/generator"
	"github.com/opptima/propel-backend/internal/models"
	"github.com/opptima/propel-backend/internal/service"
)

// GenerateHandler проксирует форму в вебхук генерации и готовит предпросмотр.
type GenerateHandler struct {
	client *generator.Client
	auth   *service.AuthService
	events service.EventPublisher
}

// NewGenerateHandler создаёт хэндлер.
func NewGenerateHandler(client *generator.Client, auth *service.AuthService, events service.EventPublisher) *GenerateHandler {
	return &GenerateHandler{
		client: client,
		auth:   auth,
		events: events,
	}
}

// Generate обрабатывает POST /api/proposals/generate: валидация формы,
// вызов вебхука, нормализация HTML. При любой ошибке предпросмотр не
// создаётся.
func (h *GenerateHandler) Generate(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var form models.ProposalMetadata
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.GetProfile(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.client.Generate(c.Request.Context(), form, generator.UserInfo{
		Name:  user.FullName,
		Email: user.Email,
		Phone: user.Phone,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	rendered, err := document.Normalize(result.HTML)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if h.events != nil {
		h.events.Publish(userID, "generation.completed", gin.H{
			"nombreServicio": form.NombreServicio,
			"nombreEmpresa":  form.NombreEmpresa,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"file64":        result.File64,
		"html":          result.HTML,
		"rendered_html": rendered,
	})
}
