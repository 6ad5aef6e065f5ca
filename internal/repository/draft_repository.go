package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/opptima/propel-backend/internal/models"
)

// ErrDraftNotFound возвращается, когда у пользователя нет черновика.
var ErrDraftNotFound = errors.New("draft not found")

// DraftRepository отвечает за работу с таблицей drafts.
// У пользователя может быть не более одного черновика.
type DraftRepository struct {
	db *sqlx.DB
}

// NewDraftRepository создаёт экземпляр репозитория.
func NewDraftRepository(db *sqlx.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

// Upsert сохраняет черновик, перезаписывая предыдущий.
func (r *DraftRepository) Upsert(ctx context.Context, userID uuid.UUID, payload json.RawMessage) error {
	query := `
		INSERT INTO drafts (user_id, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET payload = EXCLUDED.payload,
			updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, userID, []byte(payload)); err != nil {
		return fmt.Errorf("draft repository: upsert %w", err)
	}

	return nil
}

// Get возвращает черновик пользователя.
func (r *DraftRepository) Get(ctx context.Context, userID uuid.UUID) (*models.Draft, error) {
	var draft models.Draft
	query := `
		SELECT user_id, payload, updated_at
		FROM drafts
		WHERE user_id = $1
	`
	if err := r.db.GetContext(ctx, &draft, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("draft repository: get %w", err)
	}

	return &draft, nil
}

// Delete удаляет черновик пользователя. Отсутствие черновика не ошибка.
func (r *DraftRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM drafts WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("draft repository: delete %w", err)
	}

	return nil
}
