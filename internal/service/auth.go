package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pribylovaa/account-service/internal/cache"
	"github.com/pribylovaa/account-service/internal/config"
	"github.com/pribylovaa/account-service/internal/metrics"
	"github.com/pribylovaa/account-service/internal/models"
	"github.com/pribylovaa/account-service/internal/pkg/log"
	"github.com/pribylovaa/account-service/internal/pkg/redact"
	"github.com/pribylovaa/account-service/internal/storage"
	"github.com/pribylovaa/account-service/internal/token"
)

// Login выполняет вход по email и паролю.
//
// Шаги (ранний выход на каждом):
//  1. поиск пользователя по email;
//  2. проверка статуса (до пароля);
//  3. сверка пароля;
//  4. основной адрес пользователя;
//  5. выпуск access (и, если включено, refresh) токена.
func (s *Service) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	const op = "service.auth.Login"

	lg := log.From(ctx).With(slog.String("op", op), slog.String("email", redact.Email(email)))

	// credential resolved
	user, err := s.storage.UserByEmail(ctx, canonicalEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.metrics.Login(metrics.LoginFailed)
			lg.Info("login_failed")
			return nil, fmt.Errorf("%s: %w", op, ErrLoginFailed)
		}

		s.metrics.Login(metrics.LoginError)
		lg.Error("user_lookup_failed", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// status checked
	if err := s.checkStatus(user); err != nil {
		switch {
		case errors.Is(err, ErrWithdrawnAccount):
			s.metrics.Login(metrics.LoginWithdrawn)
		case errors.Is(err, ErrDormantAccount):
			s.metrics.Login(metrics.LoginDormant)
		default:
			s.metrics.Login(metrics.LoginFailed)
		}
		lg.Info("login_rejected", slog.String("status", user.Status.String()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// password verified
	if !s.hasher.Matches(user.PasswordHash, password) {
		s.metrics.Login(metrics.LoginFailed)
		lg.Info("login_failed")
		return nil, fmt.Errorf("%s: %w", op, ErrLoginFailed)
	}

	res := &models.LoginResult{
		Email:           user.Email,
		Name:            user.Name,
		ProfileImageURL: user.ProfileImageURL,
	}

	// Адрес разрешается до выпуска токенов: неудачный вход не должен
	// перезаписывать refresh-токен текущей сессии.
	addr, err := s.storage.DefaultAddress(ctx, user.ID)
	switch {
	case err == nil:
		res.Address = addr.Line()
	case errors.Is(err, storage.ErrNotFound):
	case s.cfg.AddressPolicy == config.AddressPolicyStrict:
		s.metrics.Login(metrics.LoginError)
		lg.Error("default_address_failed", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrAddressUnavailable, err)
	default:
		lg.Warn("default_address_degraded", slog.String("err", err.Error()))
	}

	// token issued
	res.AccessToken, res.AccessExpiresAt, err = s.issuer.IssueAccessTokenWithExpiry(user.Email)
	if err != nil {
		s.metrics.Login(metrics.LoginError)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.TokenIssued("access")

	if s.cfg.IssueRefreshOnLogin {
		res.RefreshToken, err = s.issuer.IssueRefreshToken(ctx, user.Email)
		if err != nil {
			s.metrics.Login(metrics.LoginError)
			return nil, fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
		}
		s.metrics.TokenIssued("refresh")
	}

	// completed
	s.metrics.Login(metrics.LoginOK)
	lg.Info("login_succeeded")

	return res, nil
}

// Refresh обновляет сессию по refresh-токену: выпускает новый access-токен
// и ротирует refresh-токен. Предъявленный токен должен совпадать с
// сохранённым для субъекта.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	const op = "service.auth.Refresh"

	claims, err := s.validator.VerifyKind(refreshToken, token.KindRefresh)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			s.metrics.RefreshRejected("expired")
		} else {
			s.metrics.RefreshRejected("invalid")
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg := log.From(ctx).With(slog.String("op", op), slog.String("subject", redact.Email(claims.Subject)))

	stored, err := s.refresh.Get(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			s.metrics.RefreshRejected("revoked")
			return nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
		}

		lg.Error("refresh_store_get_failed", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(refreshToken)) != 1 {
		s.metrics.RefreshRejected("revoked")
		lg.Warn("refresh_token_mismatch")
		return nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	user, err := s.userByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.metrics.RefreshRejected("invalid")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.checkStatus(user); err != nil {
		s.metrics.RefreshRejected(user.Status.String())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pair := &models.TokenPair{}

	pair.AccessToken, pair.AccessExpiresAt, err = s.issuer.IssueAccessTokenWithExpiry(user.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.TokenIssued("access")

	pair.RefreshToken, err = s.issuer.IssueRefreshToken(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}
	s.metrics.TokenIssued("refresh")

	lg.Info("session_refreshed")

	return pair, nil
}

// Logout удаляет refresh-токен субъекта. Access-токены не отзываются
// и живут до exp.
func (s *Service) Logout(ctx context.Context, subject string) error {
	const op = "service.auth.Logout"

	lg := log.From(ctx).With(slog.String("op", op), slog.String("subject", redact.Email(subject)))

	if err := s.refresh.Delete(ctx, subject); err != nil {
		lg.Error("refresh_store_delete_failed", slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}

	if err := s.events.AccountLoggedOut(ctx, subject); err != nil {
		lg.Warn("event_publish_failed", slog.String("err", err.Error()))
	}

	lg.Info("logged_out")

	return nil
}

// Authenticate проверяет access-токен из заголовка Authorization и
// возвращает субъект. Refresh-токен здесь не принимается. Субъект должен
// существовать и быть активным.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (string, error) {
	const op = "service.auth.Authenticate"

	claims, err := s.validator.VerifyKind(accessToken, token.KindAccess)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.userByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := s.checkStatus(user); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if !s.validator.Validate(accessToken, user.Email) {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return user.Email, nil
}

// checkStatus возвращает ошибку для неактивных учётных записей.
func (s *Service) checkStatus(user *models.User) error {
	switch user.Status {
	case models.StatusActive:
		return nil
	case models.StatusWithdrawn:
		return ErrWithdrawnAccount
	case models.StatusDormant:
		return ErrDormantAccount
	default:
		return fmt.Errorf("unknown status %d: %w", int16(user.Status), ErrLoginFailed)
	}
}

// userByEmail ищет пользователя, переводя storage.ErrNotFound в ErrUserNotFound.
func (s *Service) userByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.storage.UserByEmail(ctx, canonicalEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// canonicalEmail приводит email к виду, в котором он хранится и попадает в sub.
func canonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
