// Package token выпускает и проверяет JWT (HS256) для account-service.
//
// Состав пакета:
//   - KeyStore — однократно выводит HMAC-ключ из base64-секрета;
//   - Encode/Decode — кодек claims <-> компактная строка JWT;
//   - Issuer — выпуск access/refresh токенов, refresh сохраняется в хранилище;
//   - Validator — проверка подписи, срока действия и субъекта.
//
// Все типы неизменяемы после создания и безопасны для конкурентного использования.
package token

import (
	"errors"
	"time"
)

var (
	// ErrConfiguration — секрет пустой, не декодируется из base64
	// или короче 256 бит. Фатально при старте сервиса.
	ErrConfiguration = errors.New("invalid signing key configuration")

	// ErrInvalidSignature — подпись токена не совпала с текущим ключом
	// или токен подписан недопустимым алгоритмом.
	ErrInvalidSignature = errors.New("token signature mismatch")

	// ErrMalformedToken — токен структурно некорректен: сегменты, base64,
	// JSON или отсутствуют обязательные claims (sub, exp).
	ErrMalformedToken = errors.New("malformed token")

	// ErrInvalidToken — токен не удалось декодировать (любая причина).
	// Транспорт: HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — подпись верна, но now >= exp.
	// Транспорт: HTTP 401 с отдельным кодом token_expired.
	ErrTokenExpired = errors.New("token expired")

	// ErrWrongKind — токен подписан верно, но другого вида: refresh-токен
	// предъявлен как access или наоборот. Всегда идёт вместе с ErrInvalidToken.
	ErrWrongKind = errors.New("unexpected token kind")
)

// RoleUser — значение claim "role", которое проставляется во все токены.
const RoleUser = "USER"

// Виды токенов. Вид хранится в claim "typ" только у refresh-токенов:
// claims access-токена ограничены role, sub, iat и exp.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Claims — декодированное содержимое токена.
type Claims struct {
	Subject   string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
	// Extra — дополнительные claims вызывающей стороны (без role/sub/iat/exp).
	Extra map[string]any
}

// Kind возвращает вид токена. Токен без claim "typ" считается access-токеном.
func (c *Claims) Kind() string {
	v, ok := c.Extra[claimKind]
	if !ok {
		return KindAccess
	}

	kind, _ := v.(string)
	return kind
}

// Option настраивает Issuer и Validator.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock подменяет источник текущего времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
