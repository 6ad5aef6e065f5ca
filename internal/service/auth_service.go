package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/opptima/propel-backend/internal/goroutine"
	"github.com/opptima/propel-backend/internal/logger"
	"github.com/opptima/propel-backend/internal/models"
	"github.com/opptima/propel-backend/internal/repository"
	"github.com/opptima/propel-backend/internal/validation"
)

// AuthRepository описывает зависимости AuthService от слоя хранилища.
type AuthRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdatePhone(ctx context.Context, id uuid.UUID, phone string) error
	CreateSession(ctx context.Context, session *models.Session) error
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

// AuthService инкапсулирует бизнес-логику регистрации и аутентификации.
type AuthService struct {
	repo         AuthRepository
	tokenManager *TokenManager
}

// SessionMeta описывает клиента, от имени которого открывается сессия.
type SessionMeta struct {
	UserAgent string
	IP        string
}

// RegisterInput содержит данные пользователя при регистрации.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Gender   string
	Phone    string
	Meta     SessionMeta
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Email    string
	Password string
	Meta     SessionMeta
}

// ProfileInput содержит изменяемые поля профиля.
type ProfileInput struct {
	FullName string
	Gender   string
	Phone    string
}

// AuthResult возвращает итог регистрации или авторизации.
type AuthResult struct {
	User      *models.User
	TokenPair *TokenPair
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(repo AuthRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		repo:         repo,
		tokenManager: tokenManager,
	}
}

// Register создаёт нового пользователя и открывает сессию.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	if err := validation.ValidateFullName(in.FullName); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	if err := validation.ValidatePhone(in.Phone); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	if _, err := s.repo.GetByEmail(ctx, strings.ToLower(in.Email)); err == nil {
		return nil, fmt.Errorf("auth service: email уже зарегистрирован")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось захешировать пароль: %w", err)
	}

	user := &models.User{
		Email:        strings.ToLower(in.Email),
		PasswordHash: string(passHash),
		FullName:     strings.TrimSpace(in.FullName),
		Gender:       strings.TrimSpace(in.Gender),
		Phone:        strings.TrimSpace(in.Phone),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	tokenPair, err := s.openSession(ctx, user, in.Meta)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, TokenPair: tokenPair}, nil
}

// Login проверяет учётные данные и возвращает токены.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	user, err := s.repo.GetByEmail(ctx, strings.ToLower(in.Email))
	if err != nil {
		return nil, fmt.Errorf("auth service: неверный email или пароль")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("auth service: неверный email или пароль")
	}

	tokenPair, err := s.openSession(ctx, user, in.Meta)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, TokenPair: tokenPair}, nil
}

// Refresh выпускает новую пару токенов и ротирует сессию.
func (s *AuthService) Refresh(ctx context.Context, oldToken string, meta SessionMeta) (*TokenPair, error) {
	claims, err := s.tokenManager.ParseRefresh(oldToken)
	if err != nil {
		return nil, fmt.Errorf("auth service: refresh токен невалиден: %w", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("auth service: некорректный subject: %w", err)
	}

	session, err := s.repo.GetSessionByTokenHash(ctx, hashToken(oldToken))
	if err != nil {
		return nil, fmt.Errorf("auth service: сессия не найдена: %w", err)
	}
	if session.UserID != userID {
		return nil, fmt.Errorf("auth service: сессия не найдена: %w", repository.ErrSessionNotFound)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteSession(ctx, session.ID); err != nil {
		return nil, err
	}

	return s.openSession(ctx, user, meta)
}

// Logout отзывает refresh токен, удаляя его сессию. Повторный выход по
// уже отозванному токену не считается ошибкой.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if _, err := s.tokenManager.ParseRefresh(refreshToken); err != nil {
		return fmt.Errorf("auth service: refresh токен невалиден: %w", err)
	}

	session, err := s.repo.GetSessionByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	return s.repo.DeleteSession(ctx, session.ID)
}

// GetProfile возвращает данные текущего пользователя.
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpdateProfile обновляет метаданные пользователя.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*models.User, error) {
	if err := validation.ValidateFullName(in.FullName); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	if err := validation.ValidatePhone(in.Phone); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FullName = strings.TrimSpace(in.FullName)
	user.Gender = strings.TrimSpace(in.Gender)
	user.Phone = strings.TrimSpace(in.Phone)

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// SyncPhone асинхронно переносит телефон из метаданных сессии в карточку
// пользователя, если поле ещё пустое. Ошибка только логируется.
func (s *AuthService) SyncPhone(user *models.User, phone string) {
	if phone == "" || user.Phone != "" {
		return
	}

	userID := user.ID
	goroutine.SafeGo("auth.sync_phone", func() {
		if err := s.repo.UpdatePhone(context.Background(), userID, phone); err != nil {
			if logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"user_id": userID,
					"error":   err.Error(),
				}).Warn("auth service: не удалось синхронизировать телефон")
			}
		}
	})
}

// openSession выпускает пару токенов и сохраняет сессию.
func (s *AuthService) openSession(ctx context.Context, user *models.User, meta SessionMeta) (*TokenPair, error) {
	tokenPair, refreshExp, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		UserID:           user.ID,
		RefreshTokenHash: hashToken(tokenPair.RefreshToken),
		UserAgent:        meta.UserAgent,
		IP:               meta.IP,
		ExpiresAt:        refreshExp,
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return tokenPair, nil
}

// hashToken хэширует refresh токен перед записью в базу.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
