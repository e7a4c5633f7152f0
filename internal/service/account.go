package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/account-service/internal/models"
	"github.com/pribylovaa/account-service/internal/pkg/log"
	"github.com/pribylovaa/account-service/internal/pkg/redact"
	"github.com/pribylovaa/account-service/internal/storage"
)

// RegisterInput — данные для регистрации. Address становится основным адресом.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Nickname string
	Phone    string
	Birthday time.Time
	Address  AddressInput
}

// WithdrawCheck — подтверждение перед удалением аккаунта.
type WithdrawCheck struct {
	Email    string
	Password string
	Name     string
}

// Register создаёт пользователя со статусом ACTIVE и основным адресом.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	const op = "service.account.Register"

	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := validatePassword(in.Password); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := required(
		[2]string{"name", in.Name},
		[2]string{"nickname", in.Nickname},
		[2]string{"phone", in.Phone},
		[2]string{"local_address", in.Address.LocalAddress},
	); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	taken, err := s.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}

	taken, err = s.NicknameExists(ctx, in.Nickname)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return nil, fmt.Errorf("%s: %w", op, ErrNicknameTaken)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         in.Name,
		Nickname:     in.Nickname,
		Phone:        in.Phone,
		Birthday:     in.Birthday,
		Status:       models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	addr := &models.Address{
		ID:           uuid.New(),
		UserID:       user.ID,
		LocalAddress: in.Address.LocalAddress,
		ExtraAddress: in.Address.ExtraAddress,
		LocalCode:    in.Address.LocalCode,
		IsDefault:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.CreateAccount(ctx, user, addr); err != nil {
		switch {
		case errors.Is(err, storage.ErrDuplicateEmail):
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		case errors.Is(err, storage.ErrDuplicateNickname):
			return nil, fmt.Errorf("%s: %w", op, ErrNicknameTaken)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("account_registered",
		slog.String("op", op),
		slog.String("email", redact.Email(email)),
	)

	return user, nil
}

// EmailExists сообщает, занят ли email (в том числе удалённым аккаунтом).
func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	const op = "service.account.EmailExists"

	_, err := s.storage.UserByEmail(ctx, canonicalEmail(email))
	return exists(op, err)
}

// NicknameExists сообщает, занят ли никнейм.
func (s *Service) NicknameExists(ctx context.Context, nickname string) (bool, error) {
	const op = "service.account.NicknameExists"

	_, err := s.storage.UserByNickname(ctx, nickname)
	return exists(op, err)
}

func exists(op string, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}

	return false, fmt.Errorf("%s: %w", op, err)
}

// FindEmail ищет email по телефону и имени. Несовпадение имени и удалённый
// аккаунт неотличимы от отсутствия пользователя.
func (s *Service) FindEmail(ctx context.Context, name, phone string) (string, error) {
	const op = "service.account.FindEmail"

	if err := required([2]string{"name", name}, [2]string{"phone", phone}); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.UserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if user.Name != name || user.Status == models.StatusWithdrawn {
		return "", fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}

	return user.Email, nil
}

// CheckNameEmail подтверждает, что активный аккаунт с email принадлежит name
// (шаг перед сменой забытого пароля).
func (s *Service) CheckNameEmail(ctx context.Context, name, email string) (bool, error) {
	const op = "service.account.CheckNameEmail"

	user, err := s.userByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return user.Status == models.StatusActive && user.Name == name, nil
}

// ChangePassword заменяет пароль и завершает сессию (refresh-токен удаляется).
func (s *Service) ChangePassword(ctx context.Context, email, newPassword string) error {
	const op = "service.account.ChangePassword"

	if err := validatePassword(newPassword); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.UpdatePassword(ctx, user.ID, hash, s.now()); err != nil {
		return fmt.Errorf("%s: %w", op, notFound(err, ErrUserNotFound))
	}

	s.dropSession(ctx, op, user.Email)

	log.From(ctx).Info("password_changed",
		slog.String("op", op),
		slog.String("email", redact.Email(user.Email)),
	)

	return nil
}

// CheckPassword сверяет пароль пользователя.
func (s *Service) CheckPassword(ctx context.Context, email, password string) (bool, error) {
	const op = "service.account.CheckPassword"

	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return s.hasher.Matches(user.PasswordHash, password), nil
}

// Profile возвращает данные пользователя.
func (s *Service) Profile(ctx context.Context, email string) (*models.User, error) {
	const op = "service.account.Profile"

	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// UpdateProfile обновляет имя, никнейм, телефон и дату рождения.
func (s *Service) UpdateProfile(ctx context.Context, email string, upd models.ProfileUpdate) (*models.User, error) {
	const op = "service.account.UpdateProfile"

	if err := required(
		[2]string{"name", upd.Name},
		[2]string{"nickname", upd.Nickname},
		[2]string{"phone", upd.Phone},
	); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if upd.Nickname != user.Nickname {
		other, err := s.storage.UserByNickname(ctx, upd.Nickname)
		switch {
		case err == nil && other.ID != user.ID:
			return nil, fmt.Errorf("%s: %w", op, ErrNicknameTaken)
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	now := s.now()
	if err := s.storage.UpdateProfile(ctx, user.ID, upd, now); err != nil {
		if errors.Is(err, storage.ErrDuplicateNickname) {
			return nil, fmt.Errorf("%s: %w", op, ErrNicknameTaken)
		}
		return nil, fmt.Errorf("%s: %w", op, notFound(err, ErrUserNotFound))
	}

	user.Name = upd.Name
	user.Nickname = upd.Nickname
	user.Phone = upd.Phone
	user.Birthday = upd.Birthday
	user.UpdatedAt = now

	return user, nil
}

// CheckWithdraw проверяет данные перед удалением аккаунта. Email из запроса
// должен совпасть с email сессии, иначе ErrUserNotFound.
func (s *Service) CheckWithdraw(ctx context.Context, loginEmail string, in WithdrawCheck) (bool, error) {
	const op = "service.account.CheckWithdraw"

	if canonicalEmail(loginEmail) != canonicalEmail(in.Email) {
		return false, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}

	user, err := s.userByEmail(ctx, loginEmail)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if !s.hasher.Matches(user.PasswordHash, in.Password) {
		return false, nil
	}

	return user.Name == in.Name, nil
}

// Withdraw помечает аккаунт удалённым и завершает сессию.
func (s *Service) Withdraw(ctx context.Context, email string) error {
	const op = "service.account.Withdraw"

	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.UpdateStatus(ctx, user.ID, models.StatusWithdrawn, s.now()); err != nil {
		return fmt.Errorf("%s: %w", op, notFound(err, ErrUserNotFound))
	}

	s.dropSession(ctx, op, user.Email)

	lg := log.From(ctx).With(slog.String("op", op), slog.String("email", redact.Email(user.Email)))
	if err := s.events.AccountWithdrawn(ctx, user.Email); err != nil {
		lg.Warn("event_publish_failed", slog.String("err", err.Error()))
	}
	lg.Info("account_withdrawn")

	return nil
}

// dropSession удаляет refresh-токен субъекта; ошибка только логируется.
func (s *Service) dropSession(ctx context.Context, op, subject string) {
	if err := s.refresh.Delete(ctx, subject); err != nil {
		log.From(ctx).Warn("refresh_store_delete_failed",
			slog.String("op", op),
			slog.String("subject", redact.Email(subject)),
			slog.String("err", err.Error()),
		)
	}
}

// notFound подменяет storage.ErrNotFound доменной ошибкой.
func notFound(err, target error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return target
	}
	return err
}
