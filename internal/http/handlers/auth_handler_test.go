package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/opptima/propel-backend/internal/service"
)

func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &AuthHandler{auth: nil}
	r.POST("/auth/register", handler.Register)

	body := strings.NewReader(`{"email":"no-es-un-email","password":"Password123"}`)
	req, _ := http.NewRequest("POST", "/auth/register", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login_MissingPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &AuthHandler{auth: nil}
	r.POST("/auth/login", handler.Login)

	body := strings.NewReader(`{"email":"user@example.com"}`)
	req, _ := http.NewRequest("POST", "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Refresh_MissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &AuthHandler{auth: nil}
	r.POST("/auth/refresh", handler.Refresh)

	req, _ := http.NewRequest("POST", "/auth/refresh", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Logout_MissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &AuthHandler{auth: nil}
	r.POST("/auth/logout", handler.Logout)

	req, _ := http.NewRequest("POST", "/auth/logout", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Logout_MalformedToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// Мусорный токен отклоняется парсером до обращения к хранилищу
	tokens := service.NewTokenManager("access", "refresh", time.Minute, time.Hour)
	handler := NewAuthHandler(service.NewAuthService(nil, tokens))
	r.POST("/auth/logout", handler.Logout)

	body := strings.NewReader(`{"refresh_token":"no-es-un-jwt"}`)
	req, _ := http.NewRequest("POST", "/auth/logout", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
