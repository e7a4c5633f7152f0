package token

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// MinKeySize — минимальная длина HMAC-ключа для HS256 в байтах.
const MinKeySize = 32

// KeyStore хранит ключ подписи, выведенный из конфигурации один раз.
// Ротация ключей не поддерживается.
type KeyStore struct {
	key []byte
}

// NewKeyStore декодирует base64-секрет (стандартный алфавит, с паддингом
// или без) и проверяет длину ключа.
func NewKeyStore(secret string) (*KeyStore, error) {
	const op = "token.NewKeyStore"

	s := strings.TrimSpace(secret)
	if s == "" {
		return nil, fmt.Errorf("%s: empty secret: %w", op, ErrConfiguration)
	}

	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		key, err = base64.RawStdEncoding.DecodeString(s)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: secret is not valid base64: %w", op, ErrConfiguration)
	}

	if len(key) < MinKeySize {
		return nil, fmt.Errorf("%s: key is %d bits, need at least %d: %w",
			op, len(key)*8, MinKeySize*8, ErrConfiguration)
	}

	return &KeyStore{key: key}, nil
}

// SigningKey возвращает копию ключа подписи.
func (k *KeyStore) SigningKey() []byte {
	out := make([]byte, len(k.key))
	copy(out, k.key)

	return out
}
