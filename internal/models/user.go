package models

import (
	"time"

	"github.com/google/uuid"
)

// UserStatus — состояние учётной записи.
type UserStatus int16

const (
	// StatusActive — обычный пользователь, вход разрешён.
	StatusActive UserStatus = 0
	// StatusWithdrawn — пользователь удалил аккаунт.
	StatusWithdrawn UserStatus = 1
	// StatusDormant — аккаунт заморожен из-за неактивности.
	StatusDormant UserStatus = 2
)

func (s UserStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusWithdrawn:
		return "withdrawn"
	case StatusDormant:
		return "dormant"
	default:
		return "unknown"
	}
}

// User — учётная запись. Email — идентификатор субъекта в токенах.
type User struct {
	ID              uuid.UUID
	Email           string
	PasswordHash    string
	Name            string
	Nickname        string
	Phone           string
	Birthday        time.Time
	Status          UserStatus
	ProfileImageURL string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ProfileUpdate — изменяемые поля профиля.
type ProfileUpdate struct {
	Name     string
	Nickname string
	Phone    string
	Birthday time.Time
}
