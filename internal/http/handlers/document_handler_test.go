package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/opptima/propel-backend/internal/http/middleware"
)

func TestDocumentHandler_Normalize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewDocumentHandler()
	r.POST("/documents/normalize", handler.Normalize)

	body := strings.NewReader(`{"html":"<h1>Propuesta</h1><p>Texto</p>"}`)
	req, _ := http.NewRequest("POST", "/documents/normalize", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "text-align: center")
	assert.Contains(t, w.Body.String(), "text-align: justify")
}

func TestDocumentHandler_Normalize_MissingHTML(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewDocumentHandler()
	r.POST("/documents/normalize", handler.Normalize)

	req, _ := http.NewRequest("POST", "/documents/normalize", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDocumentHandler_Edit_UnknownCommand(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewDocumentHandler()
	r.POST("/documents/edit", handler.Edit)

	body := strings.NewReader(`{"html":"<p>hola</p>","command":"blink"}`)
	req, _ := http.NewRequest("POST", "/documents/edit", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDocumentHandler_Edit_Bold(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewDocumentHandler()
	r.POST("/documents/edit", handler.Edit)

	body := strings.NewReader(`{"html":"<p>hola mundo</p>","command":"bold","range":{"block":0,"start":0,"end":4}}`)
	req, _ := http.NewRequest("POST", "/documents/edit", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "strong")
}

func TestDocumentHandler_Edit_OutOfRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	handler := NewDocumentHandler()
	r.POST("/documents/edit", handler.Edit)

	body := strings.NewReader(`{"html":"<p>hola</p>","command":"bold","range":{"block":7,"start":0,"end":2}}`)
	req, _ := http.NewRequest("POST", "/documents/edit", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
