package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/opptima/propel-backend/internal/models"
)

// ErrProposalNotFound возвращается, когда предложение не найдено
// или принадлежит другому пользователю.
var ErrProposalNotFound = errors.New("proposal not found")

// ProposalRepository отвечает за работу с таблицей proposals.
// Все запросы ограничены владельцем строки.
type ProposalRepository struct {
	db *sqlx.DB
}

// NewProposalRepository создаёт экземпляр репозитория.
func NewProposalRepository(db *sqlx.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// Create сохраняет новое предложение.
func (r *ProposalRepository) Create(ctx context.Context, proposal *models.Proposal) error {
	query := `
		INSERT INTO proposals (user_id, name, content_html, file_docx, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		proposal.UserID, proposal.Name, proposal.ContentHTML, proposal.FileDocx, proposal.Metadata,
	).Scan(&proposal.ID, &proposal.CreatedAt, &proposal.UpdatedAt); err != nil {
		return fmt.Errorf("proposal repository: create %w", err)
	}

	return nil
}

// GetByID возвращает предложение пользователя по идентификатору.
func (r *ProposalRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Proposal, error) {
	var proposal models.Proposal
	query := `
		SELECT id, user_id, name, content_html, file_docx, metadata, created_at, updated_at
		FROM proposals
		WHERE id = $1 AND user_id = $2
	`
	if err := r.db.GetContext(ctx, &proposal, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("proposal repository: get by id %w", err)
	}

	return &proposal, nil
}

// ListByUser возвращает предложения пользователя, новые первыми.
func (r *ProposalRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Proposal, error) {
	proposals := []models.Proposal{}
	query := `
		SELECT id, user_id, name, content_html, file_docx, metadata, created_at, updated_at
		FROM proposals
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &proposals, query, userID); err != nil {
		return nil, fmt.Errorf("proposal repository: list by user %w", err)
	}

	return proposals, nil
}

// Update перезаписывает предложение пользователя.
func (r *ProposalRepository) Update(ctx context.Context, proposal *models.Proposal) error {
	query := `
		UPDATE proposals
		SET name = $3, content_html = $4, file_docx = $5, metadata = $6, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		proposal.ID, proposal.UserID, proposal.Name, proposal.ContentHTML, proposal.FileDocx, proposal.Metadata,
	).Scan(&proposal.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProposalNotFound
		}
		return fmt.Errorf("proposal repository: update %w", err)
	}

	return nil
}

// Delete удаляет предложение пользователя без мягкого удаления.
func (r *ProposalRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM proposals WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("proposal repository: delete %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("proposal repository: delete rows affected %w", err)
	}
	if affected == 0 {
		return ErrProposalNotFound
	}

	return nil
}

// CountSince считает предложения пользователя, созданные после отметки времени.
func (r *ProposalRepository) CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM proposals WHERE user_id = $1 AND created_at >= $2`
	if err := r.db.GetContext(ctx, &count, query, userID, since); err != nil {
		return 0, fmt.Errorf("proposal repository: count since %w", err)
	}

	return count, nil
}
