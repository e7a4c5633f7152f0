package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pribylovaa/account-service/internal/models"
	"github.com/pribylovaa/account-service/internal/pkg/log"
	"github.com/pribylovaa/account-service/internal/storage"
)

// AddressInput — данные адреса из запроса.
type AddressInput struct {
	LocalAddress string
	ExtraAddress string
	LocalCode    int
	IsDefault    bool
}

// Addresses возвращает адреса пользователя, основной первым.
func (s *Service) Addresses(ctx context.Context, email string) ([]models.Address, error) {
	const op = "service.address.Addresses"

	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	list, err := s.storage.AddressesByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return list, nil
}

// AddAddress добавляет адрес. Первый адрес пользователя всегда становится
// основным; IsDefault снимает признак с прежнего основного.
func (s *Service) AddAddress(ctx context.Context, email string, in AddressInput) (*models.Address, error) {
	const op = "service.address.AddAddress"

	if err := required([2]string{"local_address", in.LocalAddress}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	isDefault := in.IsDefault
	if !isDefault {
		_, err := s.storage.DefaultAddress(ctx, user.ID)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			isDefault = true
		case err != nil:
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	now := s.now()
	addr := &models.Address{
		ID:           uuid.New(),
		UserID:       user.ID,
		LocalAddress: in.LocalAddress,
		ExtraAddress: in.ExtraAddress,
		LocalCode:    in.LocalCode,
		IsDefault:    isDefault,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveAddress(ctx, addr); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Debug("address_added",
		slog.String("op", op),
		slog.String("address_id", addr.ID.String()),
		slog.Bool("default", addr.IsDefault),
	)

	return addr, nil
}

// UpdateAddress меняет текст и индекс адреса пользователя.
func (s *Service) UpdateAddress(ctx context.Context, email string, id uuid.UUID, in AddressInput) (*models.Address, error) {
	const op = "service.address.UpdateAddress"

	if err := required([2]string{"local_address", in.LocalAddress}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	addr, err := s.storage.AddressByID(ctx, user.ID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFound(err, ErrAddressNotFound))
	}

	addr.LocalAddress = in.LocalAddress
	addr.ExtraAddress = in.ExtraAddress
	addr.LocalCode = in.LocalCode
	addr.UpdatedAt = s.now()

	if err := s.storage.UpdateAddress(ctx, addr); err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFound(err, ErrAddressNotFound))
	}

	return addr, nil
}

// DeleteAddress удаляет адрес. Основной адрес удалить нельзя.
func (s *Service) DeleteAddress(ctx context.Context, email string, id uuid.UUID) error {
	const op = "service.address.DeleteAddress"

	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	addr, err := s.storage.AddressByID(ctx, user.ID, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, notFound(err, ErrAddressNotFound))
	}

	if addr.IsDefault {
		return fmt.Errorf("%s: %w", op, ErrDefaultAddress)
	}

	if err := s.storage.DeleteAddress(ctx, user.ID, id); err != nil {
		return fmt.Errorf("%s: %w", op, notFound(err, ErrAddressNotFound))
	}

	return nil
}

// DefaultAddress возвращает основной адрес пользователя.
func (s *Service) DefaultAddress(ctx context.Context, email string) (*models.Address, error) {
	const op = "service.address.DefaultAddress"

	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	addr, err := s.storage.DefaultAddress(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFound(err, ErrAddressNotFound))
	}

	return addr, nil
}
