// Package handlers — REST-обработчики account-service.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/pribylovaa/account-service/internal/http/middleware"
	"github.com/pribylovaa/account-service/internal/models"
	"github.com/pribylovaa/account-service/internal/service"
)

// Service — бизнес-операции, которые вызывают обработчики.
type Service interface {
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, subject string) error

	Register(ctx context.Context, in service.RegisterInput) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	NicknameExists(ctx context.Context, nickname string) (bool, error)
	FindEmail(ctx context.Context, name, phone string) (string, error)
	CheckNameEmail(ctx context.Context, name, email string) (bool, error)
	ChangePassword(ctx context.Context, email, newPassword string) error
	CheckPassword(ctx context.Context, email, password string) (bool, error)
	Profile(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, email string, upd models.ProfileUpdate) (*models.User, error)
	CheckWithdraw(ctx context.Context, loginEmail string, in service.WithdrawCheck) (bool, error)
	Withdraw(ctx context.Context, email string) error

	Addresses(ctx context.Context, email string) ([]models.Address, error)
	AddAddress(ctx context.Context, email string, in service.AddressInput) (*models.Address, error)
	UpdateAddress(ctx context.Context, email string, id uuid.UUID, in service.AddressInput) (*models.Address, error)
	DeleteAddress(ctx context.Context, email string, id uuid.UUID) error
	DefaultAddress(ctx context.Context, email string) (*models.Address, error)
}

// Handlers агрегирует зависимости обработчиков.
type Handlers struct {
	svc Service
}

func New(svc Service) *Handlers {
	return &Handlers{svc: svc}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(value); err != nil {
		return fmt.Errorf("decode body: %w: %w", service.ErrInvalidArgument, err)
	}
	return nil
}

// subject — email из контекста; маршрут обязан стоять за middleware.Authenticate.
func subject(r *http.Request) (string, error) {
	sub, ok := middleware.SubjectFrom(r.Context())
	if !ok {
		return "", service.ErrInvalidToken
	}
	return sub, nil
}
