// Package storage описывает контракты хранилища пользователей и адресов.
// Реализация для PostgreSQL лежит в storage/postgres.
package storage

//go:generate mockgen -source=storage.go -destination=../../mocks/mock_storage.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/account-service/internal/models"
)

var (
	// ErrNotFound — запись не найдена (пользователь/адрес).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности.
	ErrAlreadyExists = errors.New("already exists")
	// ErrDuplicateEmail — e-mail уже занят; errors.Is(err, ErrAlreadyExists) == true.
	ErrDuplicateEmail = fmt.Errorf("email: %w", ErrAlreadyExists)
	// ErrDuplicateNickname — никнейм уже занят; errors.Is(err, ErrAlreadyExists) == true.
	ErrDuplicateNickname = fmt.Errorf("nickname: %w", ErrAlreadyExists)
)

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// CreateAccount в одной транзакции сохраняет пользователя и его основной адрес.
	CreateAccount(ctx context.Context, user *models.User, addr *models.Address) error
	// UserByEmail находит пользователя по email (без учёта регистра).
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByPhone находит последнего зарегистрированного пользователя с номером.
	UserByPhone(ctx context.Context, phone string) (*models.User, error)
	// UserByNickname находит пользователя по никнейму.
	UserByNickname(ctx context.Context, nickname string) (*models.User, error)
	// UpdatePassword заменяет хэш пароля.
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string, at time.Time) error
	// UpdateProfile обновляет имя, никнейм, телефон и дату рождения.
	UpdateProfile(ctx context.Context, id uuid.UUID, upd models.ProfileUpdate, at time.Time) error
	// UpdateStatus меняет статус учётной записи.
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.UserStatus, at time.Time) error
}

// AddressStorage выполняет операции над адресами.
type AddressStorage interface {
	// SaveAddress сохраняет адрес; если addr.IsDefault, прежний основной
	// адрес пользователя снимается в той же транзакции.
	SaveAddress(ctx context.Context, addr *models.Address) error
	// AddressesByUser возвращает адреса пользователя, основной первым.
	AddressesByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	// AddressByID находит адрес пользователя по ID.
	AddressByID(ctx context.Context, userID, id uuid.UUID) (*models.Address, error)
	// UpdateAddress меняет текст и индекс адреса (признак основного не трогает).
	UpdateAddress(ctx context.Context, addr *models.Address) error
	// DeleteAddress удаляет НЕосновной адрес.
	DeleteAddress(ctx context.Context, userID, id uuid.UUID) error
	// DefaultAddress возвращает основной адрес пользователя.
	DefaultAddress(ctx context.Context, userID uuid.UUID) (*models.Address, error)
}

// Storage задаёт контракт работы с БД.
type Storage interface {
	UserStorage
	AddressStorage
	Ping(ctx context.Context) error
	Close()
}
