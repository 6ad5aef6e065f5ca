package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DashboardSummary агрегирует карточки и ленту для главного экрана.
type DashboardSummary struct {
	PipelineValue  float64           `json:"pipeline_value"`
	SentThisMonth  int               `json:"sent_this_month"`
	ConversionRate float64           `json:"conversion_rate"`
	Recent         []DashboardRecent `json:"recent"`
	GeneratedAt    time.Time         `json:"generated_at"`
}

// DashboardRecent описывает строку списка недавних предложений.
type DashboardRecent struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Client    string    `json:"client"`
	CreatedAt time.Time `json:"created_at"`
}

// placeholderConversionRate — заглушка до появления статусов сделок.
const placeholderConversionRate = 24.0

const recentLimit = 5

// DashboardService собирает сводку по предложениям пользователя.
type DashboardService struct {
	proposals ProposalStore
	cache     *CacheService
	cacheTTL  time.Duration
}

// NewDashboardService создаёт сервис сводки.
func NewDashboardService(proposals ProposalStore, cache *CacheService, cacheTTL time.Duration) *DashboardService {
	return &DashboardService{
		proposals: proposals,
		cache:     cache,
		cacheTTL:  cacheTTL,
	}
}

// Summary возвращает сводку пользователя, кэшируя результат.
func (s *DashboardService) Summary(ctx context.Context, userID uuid.UUID) (*DashboardSummary, error) {
	value, err := s.cache.GetOrSet(DashboardCacheKey(userID), s.cacheTTL, func() (interface{}, error) {
		return s.build(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	summary, ok := value.(*DashboardSummary)
	if !ok {
		// Кэш повреждён, пересобираем без него.
		return s.build(ctx, userID)
	}

	return summary, nil
}

// build собирает сводку напрямую из хранилища.
func (s *DashboardService) build(ctx context.Context, userID uuid.UUID) (*DashboardSummary, error) {
	proposals, err := s.proposals.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	sentThisMonth, err := s.proposals.CountSince(ctx, userID, monthStart)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		SentThisMonth:  sentThisMonth,
		ConversionRate: placeholderConversionRate,
		Recent:         []DashboardRecent{},
		GeneratedAt:    now,
	}

	for _, proposal := range proposals {
		if price, err := strconv.ParseFloat(strings.TrimSpace(proposal.Metadata.Precio), 64); err == nil && price > 0 {
			summary.PipelineValue += price
		}

		if len(summary.Recent) < recentLimit {
			client := proposal.Metadata.NombreEmpresa
			if client == "" {
				client = proposal.Metadata.NombreCliente
			}
			summary.Recent = append(summary.Recent, DashboardRecent{
				ID:        proposal.ID,
				Name:      proposal.Name,
				Client:    client,
				CreatedAt: proposal.CreatedAt,
			})
		}
	}

	return summary, nil
}
