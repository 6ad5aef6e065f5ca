package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/opptima/propel-backend/internal/http/middleware"
)

func TestProposalHandler_Create_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{proposals: nil}
	r.POST("/proposals", handler.Create)

	body := strings.NewReader(`{"name":"Propuesta Acme"}`)
	req, _ := http.NewRequest("POST", "/proposals", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProposalHandler_List_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{proposals: nil}
	r.GET("/proposals", handler.List)

	req, _ := http.NewRequest("GET", "/proposals", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProposalHandler_Get_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{proposals: nil}
	r.GET("/proposals/:id", func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, uuid.New())
		handler.Get(c)
	})

	req, _ := http.NewRequest("GET", "/proposals/invalid-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProposalHandler_Delete_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{proposals: nil}
	r.DELETE("/proposals/:id", handler.Delete)

	req, _ := http.NewRequest("DELETE", "/proposals/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
