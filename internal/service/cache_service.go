package service

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const cacheSweepInterval = 5 * time.Minute

// CacheService — in-memory кэш с TTL и инвалидацией по префиксу ключа.
// Протухшие записи невидимы сразу, физически их убирает фоновая уборка.
type CacheService struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

func (e cacheEntry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// NewCacheService создаёт кэш и запускает уборку.
func NewCacheService() *CacheService {
	cs := &CacheService{entries: make(map[string]cacheEntry)}
	go cs.sweep()
	return cs
}

// Get возвращает живое значение по ключу.
func (cs *CacheService) Get(key string) (interface{}, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	entry, ok := cs.entries[key]
	if !ok || entry.expired(time.Now()) {
		return nil, false
	}

	return entry.value, true
}

// Set сохраняет значение с TTL.
func (cs *CacheService) Set(key string, value interface{}, ttl time.Duration) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.entries[key] = cacheEntry{value: value, expiresAt: time.Now().Add(ttl)}
}

// Delete удаляет ключ.
func (cs *CacheService) Delete(key string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	delete(cs.entries, key)
}

// InvalidateByPrefix удаляет все ключи с заданным префиксом.
func (cs *CacheService) InvalidateByPrefix(prefix string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for key := range cs.entries {
		if strings.HasPrefix(key, prefix) {
			delete(cs.entries, key)
		}
	}
}

// InvalidateUserCache сбрасывает кэшированные ответы пользователя.
func (cs *CacheService) InvalidateUserCache(userID uuid.UUID) {
	cs.InvalidateByPrefix(DashboardCacheKey(userID))
}

// GetOrSet возвращает значение из кэша, при промахе вычисляет и кэширует.
// Ошибка вычисления не кэшируется.
func (cs *CacheService) GetOrSet(key string, ttl time.Duration, fn func() (interface{}, error)) (interface{}, error) {
	if value, hit := cs.Get(key); hit {
		return value, nil
	}

	value, err := fn()
	if err != nil {
		return nil, err
	}
	cs.Set(key, value, ttl)

	return value, nil
}

// DashboardCacheKey формирует ключ сводки пользователя.
func DashboardCacheKey(userID uuid.UUID) string {
	return "dashboard:" + userID.String()
}

func (cs *CacheService) sweep() {
	ticker := time.NewTicker(cacheSweepInterval)
	defer ticker.Stop()

	for now := range ticker.C {
		cs.mu.Lock()
		for key, entry := range cs.entries {
			if entry.expired(now) {
				delete(cs.entries, key)
			}
		}
		cs.mu.Unlock()
	}
}
