package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/opptima/propel-backend/internal/http/middleware"
	"github.com/opptima/propel-backend/internal/models"
	"github.com/opptima/propel-backend/internal/repository"
	"github.com/opptima/propel-backend/internal/service"
)

// draftStoreSpy фиксирует обращения к хранилищу черновиков.
type draftStoreSpy struct {
	touched bool
}

func (s *draftStoreSpy) Upsert(ctx context.Context, userID uuid.UUID, payload json.RawMessage) error {
	s.touched = true
	return nil
}

func (s *draftStoreSpy) Get(ctx context.Context, userID uuid.UUID) (*models.Draft, error) {
	s.touched = true
	return nil, repository.ErrDraftNotFound
}

func (s *draftStoreSpy) Delete(ctx context.Context, userID uuid.UUID) error {
	s.touched = true
	return nil
}

func TestDraftHandler_Get_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &DraftHandler{drafts: nil}
	r.GET("/draft", handler.Get)

	req, _ := http.NewRequest("GET", "/draft", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDraftHandler_Save_UnauthorizedDoesNotTouchStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &draftStoreSpy{}
	handler := NewDraftHandler(service.NewDraftService(store, time.Minute))

	r := gin.New()
	r.PUT("/draft", handler.Save)

	body := strings.NewReader(`{"nombreCliente":"Juan"}`)
	req, _ := http.NewRequest("PUT", "/draft", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, store.touched, "неавторизованный запрос не должен трогать хранилище")
}

func TestDraftHandler_Save_InvalidJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &draftStoreSpy{}
	handler := NewDraftHandler(service.NewDraftService(store, time.Minute))

	r := gin.New()
	r.PUT("/draft", func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, uuid.New())
		handler.Save(c)
	})

	req, _ := http.NewRequest("PUT", "/draft", strings.NewReader(`{это не json`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, store.touched)
}

func TestDraftHandler_Save_Accepted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &draftStoreSpy{}
	handler := NewDraftHandler(service.NewDraftService(store, time.Hour))

	r := gin.New()
	r.PUT("/draft", func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, uuid.New())
		handler.Save(c)
	})

	body := strings.NewReader(`{"nombreCliente":"Juan"}`)
	req, _ := http.NewRequest("PUT", "/draft", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
}
