package models

import (
	"time"

	"github.com/google/uuid"
)

// Address — адрес доставки пользователя. У пользователя не больше одного
// адреса с IsDefault == true.
type Address struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	LocalAddress string
	ExtraAddress string
	LocalCode    int
	IsDefault    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Line возвращает адрес одной строкой: "<local> <extra>".
// Для nil возвращается пустая строка.
func (a *Address) Line() string {
	if a == nil {
		return ""
	}

	return a.LocalAddress + " " + a.ExtraAddress
}
