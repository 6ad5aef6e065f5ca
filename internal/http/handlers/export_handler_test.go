package handlers

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/opptima/propel-backend/internal/export"
	"github.com/opptima/propel-backend/internal/http/middleware"
)

func makeDocxBody(t *testing.T) ([]byte, string) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("не удалось собрать архив: %v", err)
	}
	if _, err := f.Write([]byte("<w:document/>")); err != nil {
		t.Fatalf("не удалось записать архив: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("не удалось закрыть архив: %v", err)
	}

	data := buf.Bytes()
	return data, base64.StdEncoding.EncodeToString(data)
}

func TestExportHandler_Docx_MissingBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewExportHandler()
	r.POST("/export/docx", handler.Docx)

	req, _ := http.NewRequest("POST", "/export/docx", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportHandler_Docx_Passthrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewExportHandler()
	r.POST("/export/docx", handler.Docx)

	raw, file64 := makeDocxBody(t)
	body, _ := json.Marshal(gin.H{"file64": file64, "name": "Propuesta Acme"})
	req, _ := http.NewRequest("POST", "/export/docx", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.DocxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Propuesta Acme.docx")
	assert.Equal(t, raw, w.Body.Bytes(), "исходный файл должен отдаваться байт в байт")
}

func TestExportHandler_Docx_MalformedFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	handler := NewExportHandler()
	r.POST("/export/docx", handler.Docx)

	body := strings.NewReader(`{"file64":"это не base64!!!"}`)
	req, _ := http.NewRequest("POST", "/export/docx", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportHandler_Pdf_MissingHTML(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewExportHandler()
	r.POST("/export/pdf", handler.Pdf)

	req, _ := http.NewRequest("POST", "/export/pdf", strings.NewReader(`{"file64":"abc"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportHandler_FileName(t *testing.T) {
	assert.Equal(t, export.DefaultFileName, fileName("  "))
	assert.Equal(t, "informe_2026", fileName("informe/2026"))
}
