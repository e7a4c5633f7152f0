// Package service содержит бизнес-логику account-service:
// логин и сессии (access/refresh JWT), регистрацию и управление
// учётной записью, адресную книгу.
//
// Основные аспекты:
//   - Service не хранит состояние запроса; экземпляр безопасен для
//     конкурентного использования, если потокобезопасны зависимости
//     (storage.Storage, cache.RefreshStore).
//   - Ошибки возвращаются обёрнутыми ("op: err") и маппятся транспортом
//     на HTTP-статусы (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"
	"time"

	"github.com/pribylovaa/account-service/internal/cache"
	"github.com/pribylovaa/account-service/internal/config"
	"github.com/pribylovaa/account-service/internal/events"
	"github.com/pribylovaa/account-service/internal/metrics"
	"github.com/pribylovaa/account-service/internal/password"
	"github.com/pribylovaa/account-service/internal/storage"
	"github.com/pribylovaa/account-service/internal/token"
)

var (
	// ErrLoginFailed — пользователь не найден или пароль не совпал.
	// Оба случая неразличимы для клиента. Транспорт: HTTP 401.
	ErrLoginFailed = errors.New("login failed")

	// ErrWithdrawnAccount — аккаунт удалён пользователем. Транспорт: HTTP 403.
	ErrWithdrawnAccount = errors.New("account withdrawn")

	// ErrDormantAccount — аккаунт заморожен. Транспорт: HTTP 403.
	ErrDormantAccount = errors.New("account dormant")

	// ErrInvalidToken — токен не декодируется, подпись неверна или субъект
	// не совпал. Транспорт: HTTP 401.
	ErrInvalidToken = token.ErrInvalidToken

	// ErrTokenExpired — срок действия токена истёк. Транспорт: HTTP 401.
	ErrTokenExpired = token.ErrTokenExpired

	// ErrTokenRevoked — refresh-токен не совпал с сохранённым (ротация,
	// logout или вытеснение по TTL). Транспорт: HTTP 401.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrStoreUnavailable — хранилище refresh-токенов недоступно.
	// Транспорт: HTTP 503.
	ErrStoreUnavailable = errors.New("session store unavailable")

	// ErrAddressUnavailable — не удалось получить основной адрес при логине
	// (только при address_policy=strict). Транспорт: HTTP 503.
	ErrAddressUnavailable = errors.New("address store unavailable")

	// ErrEmailTaken — e-mail уже занят. Транспорт: HTTP 409.
	ErrEmailTaken = errors.New("email already taken")

	// ErrNicknameTaken — никнейм уже занят. Транспорт: HTTP 409.
	ErrNicknameTaken = errors.New("nickname already taken")

	// ErrInvalidEmail — e-mail имеет некорректный формат. Транспорт: HTTP 400.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrWeakPassword — пароль не удовлетворяет политике сложности. Транспорт: HTTP 400.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrEmptyPassword — пароль пустой. Транспорт: HTTP 400.
	ErrEmptyPassword = errors.New("password is empty")

	// ErrInvalidArgument — не заполнено обязательное поле. Транспорт: HTTP 400.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUserNotFound — пользователь не найден. Транспорт: HTTP 404.
	ErrUserNotFound = errors.New("user not found")

	// ErrAddressNotFound — адрес не найден. Транспорт: HTTP 404.
	ErrAddressNotFound = errors.New("address not found")

	// ErrDefaultAddress — основной адрес нельзя удалить. Транспорт: HTTP 412.
	ErrDefaultAddress = errors.New("default address cannot be deleted")
)

// Deps — зависимости сервиса. Events и Metrics опциональны.
type Deps struct {
	Storage   storage.Storage
	Refresh   cache.RefreshStore
	Issuer    *token.Issuer
	Validator *token.Validator
	Hasher    password.Hasher
	Events    events.Publisher
	Metrics   *metrics.Metrics
}

// Service описывает бизнес-логику account-service.
type Service struct {
	storage   storage.Storage
	refresh   cache.RefreshStore
	issuer    *token.Issuer
	validator *token.Validator
	hasher    password.Hasher
	events    events.Publisher
	metrics   *metrics.Metrics
	cfg       config.AuthConfig
	now       func() time.Time
}

// New создаёт новый экземпляр Service.
func New(d Deps, cfg config.AuthConfig) *Service {
	pub := d.Events
	if pub == nil {
		pub = events.Nop{}
	}

	return &Service{
		storage:   d.Storage,
		refresh:   d.Refresh,
		issuer:    d.Issuer,
		validator: d.Validator,
		hasher:    d.Hasher,
		events:    pub,
		metrics:   d.Metrics,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}
