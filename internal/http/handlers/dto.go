// Входные/выходные модели под REST.
package handlers

import (
	"fmt"
	"time"

	"github.com/pribylovaa/account-service/internal/models"
	"github.com/pribylovaa/account-service/internal/service"
)

const dateLayout = time.DateOnly

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken     string `json:"access_token"`
	RefreshToken    string `json:"refresh_token,omitempty"`
	AccessExpiresAt int64  `json:"access_expires_at"` // Unix UTC
	Email           string `json:"email"`
	Name            string `json:"name"`
	Address         string `json:"address"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

func loginFromModel(r *models.LoginResult) LoginResponse {
	return LoginResponse{
		AccessToken:     r.AccessToken,
		RefreshToken:    r.RefreshToken,
		AccessExpiresAt: r.AccessExpiresAt.Unix(),
		Email:           r.Email,
		Name:            r.Name,
		Address:         r.Address,
		ProfileImageURL: r.ProfileImageURL,
	}
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenPairResponse struct {
	AccessToken     string `json:"access_token"`
	RefreshToken    string `json:"refresh_token"`
	AccessExpiresAt int64  `json:"access_expires_at"` // Unix UTC
}

type AddressRequest struct {
	LocalAddress string `json:"local_address"`
	ExtraAddress string `json:"extra_address"`
	LocalCode    int    `json:"local_code"`
	IsDefault    bool   `json:"is_default,omitempty"`
}

func (a AddressRequest) toInput() service.AddressInput {
	return service.AddressInput{
		LocalAddress: a.LocalAddress,
		ExtraAddress: a.ExtraAddress,
		LocalCode:    a.LocalCode,
		IsDefault:    a.IsDefault,
	}
}

type AddressResponse struct {
	ID           string `json:"id"`
	LocalAddress string `json:"local_address"`
	ExtraAddress string `json:"extra_address"`
	LocalCode    int    `json:"local_code"`
	IsDefault    bool   `json:"is_default"`
}

func addressFromModel(a *models.Address) AddressResponse {
	return AddressResponse{
		ID:           a.ID.String(),
		LocalAddress: a.LocalAddress,
		ExtraAddress: a.ExtraAddress,
		LocalCode:    a.LocalCode,
		IsDefault:    a.IsDefault,
	}
}

type RegisterRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Name     string         `json:"name"`
	Nickname string         `json:"nickname"`
	Phone    string         `json:"phone"`
	Birthday string         `json:"birthday,omitempty"` // YYYY-MM-DD
	Address  AddressRequest `json:"address"`
}

func (r RegisterRequest) toInput() (service.RegisterInput, error) {
	bd, err := parseDate(r.Birthday)
	if err != nil {
		return service.RegisterInput{}, err
	}

	return service.RegisterInput{
		Email:    r.Email,
		Password: r.Password,
		Name:     r.Name,
		Nickname: r.Nickname,
		Phone:    r.Phone,
		Birthday: bd,
		Address:  r.Address.toInput(),
	}, nil
}

// UserResponse — профиль без хэша пароля.
type UserResponse struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	Nickname        string `json:"nickname"`
	Phone           string `json:"phone"`
	Birthday        string `json:"birthday,omitempty"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	CreatedAt       int64  `json:"created_at"` // Unix UTC
}

func userFromModel(u *models.User) UserResponse {
	out := UserResponse{
		ID:              u.ID.String(),
		Email:           u.Email,
		Name:            u.Name,
		Nickname:        u.Nickname,
		Phone:           u.Phone,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt.Unix(),
	}
	if !u.Birthday.IsZero() {
		out.Birthday = u.Birthday.Format(dateLayout)
	}
	return out
}

type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Phone    string `json:"phone"`
	Birthday string `json:"birthday,omitempty"`
}

func (r UpdateProfileRequest) toModel() (models.ProfileUpdate, error) {
	bd, err := parseDate(r.Birthday)
	if err != nil {
		return models.ProfileUpdate{}, err
	}

	return models.ProfileUpdate{Name: r.Name, Nickname: r.Nickname, Phone: r.Phone, Birthday: bd}, nil
}

type FindEmailRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type EmailResponse struct {
	Email string `json:"email"`
}

type CheckNameEmailRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type PasswordRequest struct {
	Password string `json:"password"`
}

type WithdrawCheckRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type ExistsResponse struct {
	Exists bool `json:"exists"`
}

type OKResponse struct {
	Ok bool `json:"ok"`
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("birthday: %w", service.ErrInvalidArgument)
	}
	return t, nil
}
