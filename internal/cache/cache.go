// Package cache хранит refresh-токены: один действующий токен на субъекта,
// запись автоматически исчезает по истечении TTL.
//
// Две реализации RefreshStore:
//   - RedisStore — основная, SET key value PX ttl атомарен на стороне Redis;
//   - MemoryStore — процессная карта под мьютексом для local/dev и тестов.
package cache

//go:generate mockgen -source=cache.go -destination=../../mocks/mock_refresh_store.go -package=mocks

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound — по ключу ничего нет (не выпускался, удалён или истёк TTL).
	ErrNotFound = errors.New("refresh token not found")
	// ErrUnavailable — хранилище недоступно. Транспорт: HTTP 503.
	ErrUnavailable = errors.New("refresh store unavailable")
)

// RefreshStore — контракт хранилища refresh-токенов.
type RefreshStore interface {
	// Set сохраняет значение с TTL, перезаписывая предыдущее.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get возвращает значение или ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Delete удаляет значение; отсутствие ключа ошибкой не считается.
	Delete(ctx context.Context, key string) error
	// Ping проверяет доступность хранилища (readiness).
	Ping(ctx context.Context) error
	// Close освобождает ресурсы.
	Close() error
}
