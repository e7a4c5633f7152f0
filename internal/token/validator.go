package token

import (
	"fmt"
	"time"
)

// Validator проверяет токены текущим ключом подписи.
type Validator struct {
	key []byte
	now func() time.Time
}

// NewValidator создаёт Validator.
func NewValidator(keys *KeyStore, o ...Option) *Validator {
	bo := buildOptions(o)

	return &Validator{key: keys.SigningKey(), now: bo.now}
}

// Validate возвращает true, только если подпись верна, sub совпадает с
// expectedSubject и now строго меньше exp. Любая ошибка декодирования даёт false.
func (v *Validator) Validate(token, expectedSubject string) bool {
	claims, err := Decode(token, v.key)
	if err != nil {
		return false
	}

	return claims.Subject == expectedSubject && v.now().Before(claims.ExpiresAt)
}

// ExtractSubject возвращает sub без проверки срока действия.
func (v *Validator) ExtractSubject(token string) (string, error) {
	const op = "token.ExtractSubject"

	claims, err := Decode(token, v.key)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}

	return claims.Subject, nil
}

// IsExpired сообщает, что now >= exp. Недекодируемый токен считается истёкшим.
func (v *Validator) IsExpired(token string) bool {
	claims, err := Decode(token, v.key)
	if err != nil {
		return true
	}

	return !v.now().Before(claims.ExpiresAt)
}

// Verify декодирует токен и проверяет срок действия, различая
// ErrTokenExpired и ErrInvalidToken.
func (v *Validator) Verify(token string) (*Claims, error) {
	const op = "token.Verify"

	claims, err := Decode(token, v.key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}

	if !v.now().Before(claims.ExpiresAt) {
		return claims, fmt.Errorf("%s: %w", op, ErrTokenExpired)
	}

	return claims, nil
}

// VerifyKind — Verify, который дополнительно требует вид токена kind.
// Чужой вид даёт ErrInvalidToken и ErrWrongKind, даже если токен уже истёк.
func (v *Validator) VerifyKind(token, kind string) (*Claims, error) {
	const op = "token.VerifyKind"

	claims, err := v.Verify(token)
	if claims != nil && claims.Kind() != kind {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, ErrWrongKind)
	}
	if err != nil {
		return nil, err
	}

	return claims, nil
}
