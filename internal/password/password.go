// Package password хэширует и сверяет пароли пользователей (bcrypt).
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher — единственный экземпляр хэшера, внедряемый в сервис.
type Hasher interface {
	Hash(plain string) (string, error)
	Matches(hash, plain string) bool
}

// Bcrypt — Hasher на golang.org/x/crypto/bcrypt.
type Bcrypt struct {
	cost int
}

// NewBcrypt создаёт хэшер. Стоимость вне [bcrypt.MinCost, bcrypt.MaxCost]
// заменяется на bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &Bcrypt{cost: cost}
}

// Hash хэширует пароль.
func (b *Bcrypt) Hash(plain string) (string, error) {
	const op = "password.Hash"

	h, err := bcrypt.GenerateFromPassword([]byte(plain), b.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(h), nil
}

// Matches сравнивает пароль с хэшем за постоянное время.
// Битый хэш считается несовпадением.
func (b *Bcrypt) Matches(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
