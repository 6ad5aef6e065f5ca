package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/opptima/propel-backend/internal/logger"
	"github.com/opptima/propel-backend/internal/models"
)

// DraftStore описывает хранилище черновиков: у пользователя не более одного.
type DraftStore interface {
	Upsert(ctx context.Context, userID uuid.UUID, payload json.RawMessage) error
	Get(ctx context.Context, userID uuid.UUID) (*models.Draft, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

// DraftService сохраняет черновики с подавлением дребезга: записи одного
// пользователя склеиваются в окне тишины, в базу уходит только последняя.
type DraftService struct {
	store    DraftStore
	debounce time.Duration

	mu      sync.Mutex
	pending map[uuid.UUID]*pendingDraft
	// lastErr хранит ошибку отложенной записи до следующей синхронной
	// операции пользователя.
	lastErr map[uuid.UUID]error
}

type pendingDraft struct {
	payload json.RawMessage
	timer   *time.Timer
}

// NewDraftService создаёт сервис черновиков.
func NewDraftService(store DraftStore, debounce time.Duration) *DraftService {
	return &DraftService{
		store:    store,
		debounce: debounce,
		pending:  make(map[uuid.UUID]*pendingDraft),
		lastErr:  make(map[uuid.UUID]error),
	}
}

// Save ставит черновик в очередь на запись. Запись случится после окна
// тишины; повторные вызовы перезаписывают отложенную нагрузку и сдвигают
// таймер. Ошибка предыдущей отложенной записи возвращается здесь.
func (s *DraftService) Save(ctx context.Context, userID uuid.UUID, payload json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeLastErrLocked(userID); err != nil {
		return err
	}

	if entry, ok := s.pending[userID]; ok {
		entry.payload = payload
		entry.timer.Reset(s.debounce)
		return nil
	}

	entry := &pendingDraft{payload: payload}
	entry.timer = time.AfterFunc(s.debounce, func() {
		s.flush(userID)
	})
	s.pending[userID] = entry

	return nil
}

// Get возвращает черновик пользователя. Отложенная, ещё не записанная
// нагрузка имеет приоритет над содержимым базы.
func (s *DraftService) Get(ctx context.Context, userID uuid.UUID) (*models.Draft, error) {
	s.mu.Lock()
	if err := s.takeLastErrLocked(userID); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if entry, ok := s.pending[userID]; ok {
		draft := &models.Draft{
			UserID:    userID,
			Payload:   entry.payload,
			UpdatedAt: time.Now(),
		}
		s.mu.Unlock()
		return draft, nil
	}
	s.mu.Unlock()

	return s.store.Get(ctx, userID)
}

// Clear удаляет черновик вместе с отложенной записью.
func (s *DraftService) Clear(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	if entry, ok := s.pending[userID]; ok {
		entry.timer.Stop()
		delete(s.pending, userID)
	}
	err := s.takeLastErrLocked(userID)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	return s.store.Delete(ctx, userID)
}

// Flush немедленно записывает все отложенные черновики. Используется при
// остановке сервиса.
func (s *DraftService) Flush() {
	s.mu.Lock()
	userIDs := make([]uuid.UUID, 0, len(s.pending))
	for userID, entry := range s.pending {
		entry.timer.Stop()
		userIDs = append(userIDs, userID)
	}
	s.mu.Unlock()

	for _, userID := range userIDs {
		s.flush(userID)
	}
}

// flush пишет отложенный черновик в хранилище.
func (s *DraftService) flush(userID uuid.UUID) {
	s.mu.Lock()
	entry, ok := s.pending[userID]
	if !ok {
		s.mu.Unlock()
		return
	}
	payload := entry.payload
	delete(s.pending, userID)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.store.Upsert(ctx, userID, payload); err != nil {
		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"user_id": userID,
				"error":   err.Error(),
			}).Error("draft service: отложенная запись черновика не удалась")
		}
		s.mu.Lock()
		s.lastErr[userID] = err
		s.mu.Unlock()
	}
}

// takeLastErrLocked отдаёт и сбрасывает сохранённую ошибку отложенной записи.
func (s *DraftService) takeLastErrLocked(userID uuid.UUID) error {
	if err, ok := s.lastErr[userID]; ok {
		delete(s.lastErr, userID)
		return err
	}
	return nil
}
