package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opptima/propel-backend/internal/document"
)

// DocumentHandler выполняет нормализацию и команды редактирования HTML.
type DocumentHandler struct{}

// NewDocumentHandler создаёт хэндлер.
func NewDocumentHandler() *DocumentHandler {
	return &DocumentHandler{}
}

// Normalize обрабатывает POST /api/documents/normalize.
func (h *DocumentHandler) Normalize(c *gin.Context) {
	var req struct {
		HTML string `json:"html" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rendered, err := document.Normalize(req.HTML)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"html": rendered})
}

// Edit обрабатывает POST /api/documents/edit: применяет команду
// форматирования к выделению и возвращает новый HTML.
func (h *DocumentHandler) Edit(c *gin.Context) {
	var req struct {
		HTML    string         `json:"html" binding:"required"`
		Command string         `json:"command" binding:"required"`
		Range   document.Range `json:"range"`
		SizePx  int            `json:"size_px"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		out string
		err error
	)
	switch req.Command {
	case "bold":
		out, err = document.ApplyBold(req.HTML, req.Range)
	case "italic":
		out, err = document.ApplyItalic(req.HTML, req.Range)
	case "underline":
		out, err = document.ApplyUnderline(req.HTML, req.Range)
	case "font_size":
		out, err = document.ApplyFontSize(req.HTML, req.Range, req.SizePx)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "неизвестная команда " + req.Command})
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"html": out})
}
