package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/opptima/propel-backend/internal/logger"
	"github.com/opptima/propel-backend/internal/models"
	"github.com/opptima/propel-backend/internal/validation"
)

// ProposalStore описывает зависимости ProposalService от слоя хранилища.
type ProposalStore interface {
	Create(ctx context.Context, proposal *models.Proposal) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Proposal, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Proposal, error)
	Update(ctx context.Context, proposal *models.Proposal) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
}

// EventPublisher рассылает события владельцу через живой канал.
// Рассылка best-effort: ошибок не возвращает.
type EventPublisher interface {
	Publish(userID uuid.UUID, event string, payload interface{})
}

// ProposalInput содержит данные для сохранения предложения.
type ProposalInput struct {
	Name        string
	ContentHTML string
	FileDocx    string
	Metadata    models.ProposalMetadata
}

// ProposalService инкапсулирует работу с сохранёнными предложениями.
type ProposalService struct {
	store  ProposalStore
	drafts *DraftService
	cache  *CacheService
	events EventPublisher
}

// NewProposalService создаёт сервис предложений.
func NewProposalService(store ProposalStore, drafts *DraftService, cache *CacheService, events EventPublisher) *ProposalService {
	return &ProposalService{
		store:  store,
		drafts: drafts,
		cache:  cache,
		events: events,
	}
}

// Create сохраняет предложение и очищает черновик пользователя.
func (s *ProposalService) Create(ctx context.Context, userID uuid.UUID, in ProposalInput) (*models.Proposal, error) {
	if err := validation.ValidateProposalName(in.Name); err != nil {
		return nil, fmt.Errorf("proposal service: %w", err)
	}

	proposal := &models.Proposal{
		UserID:      userID,
		Name:        in.Name,
		ContentHTML: in.ContentHTML,
		FileDocx:    in.FileDocx,
		Metadata:    in.Metadata,
	}

	if err := s.store.Create(ctx, proposal); err != nil {
		return nil, err
	}

	// Успешное сохранение обнуляет автосохранённый черновик.
	if s.drafts != nil {
		if err := s.drafts.Clear(ctx, userID); err != nil {
			if logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"user_id": userID,
					"error":   err.Error(),
				}).Warn("proposal service: не удалось очистить черновик после сохранения")
			}
		}
	}

	s.afterWrite(userID, "proposal.created", proposal)

	return proposal, nil
}

// Get возвращает предложение пользователя.
func (s *ProposalService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Proposal, error) {
	return s.store.GetByID(ctx, userID, id)
}

// List возвращает предложения пользователя, новые первыми.
func (s *ProposalService) List(ctx context.Context, userID uuid.UUID) ([]models.Proposal, error) {
	return s.store.ListByUser(ctx, userID)
}

// Update перезаписывает предложение пользователя.
func (s *ProposalService) Update(ctx context.Context, userID, id uuid.UUID, in ProposalInput) (*models.Proposal, error) {
	if err := validation.ValidateProposalName(in.Name); err != nil {
		return nil, fmt.Errorf("proposal service: %w", err)
	}

	proposal, err := s.store.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	proposal.Name = in.Name
	proposal.ContentHTML = in.ContentHTML
	proposal.FileDocx = in.FileDocx
	proposal.Metadata = in.Metadata

	if err := s.store.Update(ctx, proposal); err != nil {
		return nil, err
	}

	s.afterWrite(userID, "proposal.updated", proposal)

	return proposal, nil
}

// Delete удаляет предложение пользователя.
func (s *ProposalService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.store.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.afterWrite(userID, "proposal.deleted", map[string]interface{}{"id": id})

	return nil
}

// afterWrite сбрасывает кэш сводки и оповещает живой канал.
func (s *ProposalService) afterWrite(userID uuid.UUID, event string, payload interface{}) {
	if s.cache != nil {
		s.cache.InvalidateUserCache(userID)
	}
	if s.events != nil {
		s.events.Publish(userID, event, payload)
	}
}
