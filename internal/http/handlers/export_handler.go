package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opptima/propel-backend/internal/export"
)

// ExportHandler отдаёт документы в DOCX и PDF.
type ExportHandler struct{}

// NewExportHandler создаёт хэндлер.
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

type exportRequest struct {
	// File64 — исходный DOCX генератора, отдаётся без перекодирования
	File64 string `json:"file64"`
	// HTML используется, когда исходного файла нет или документ правился
	HTML string `json:"html"`
	Name string `json:"name"`
}

// Docx обрабатывает POST /api/export/docx. Приоритет у исходного файла
// генератора: он отдаётся байт в байт. HTML конвертируется только когда
// файла нет.
func (h *ExportHandler) Docx(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		data []byte
		err  error
	)
	switch {
	case strings.TrimSpace(req.File64) != "":
		data, err = export.DecodeFile64(req.File64)
	case strings.TrimSpace(req.HTML) != "":
		data, err = export.ConvertHTMLToDocx(req.HTML)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "нужен file64 или html"})
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	writeAttachment(c, data, fileName(req.Name)+".docx", export.DocxContentType)
}

// Pdf обрабатывает POST /api/export/pdf.
func (h *ExportHandler) Pdf(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if strings.TrimSpace(req.HTML) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "нужен html"})
		return
	}

	data, err := export.ConvertHTMLToPDF(req.HTML)
	if err != nil {
		_ = c.Error(err)
		return
	}

	writeAttachment(c, data, fileName(req.Name)+".pdf", "application/pdf")
}

// fileName подставляет имя по умолчанию и отрезает опасные символы.
func fileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return export.DefaultFileName
	}

	replacer := strings.NewReplacer("/", "_", "\\", "_", "\"", "_", "\n", "_", "\r", "_")
	return replacer.Replace(name)
}

func writeAttachment(c *gin.Context, data []byte, filename, contentType string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
