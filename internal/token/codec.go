package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Имена зарезервированных claims; они всегда перекрывают extra.
const (
	claimRole    = "role"
	claimSubject = "sub"
	claimIssued  = "iat"
	claimExpires = "exp"
)

// Encode собирает claims и подписывает их HS256.
// Сначала копируются extra, затем role, sub, iat и exp, поэтому
// одноимённые extra-claims перезаписываются.
func Encode(subject string, extra map[string]any, issuedAt, expiresAt time.Time, key []byte) (string, error) {
	const op = "token.Encode"

	if subject == "" {
		return "", fmt.Errorf("%s: empty subject: %w", op, ErrMalformedToken)
	}

	claims := make(jwt.MapClaims, len(extra)+4)
	for k, v := range extra {
		claims[k] = v
	}
	claims[claimRole] = RoleUser
	claims[claimSubject] = subject
	claims[claimIssued] = jwt.NewNumericDate(issuedAt)
	claims[claimExpires] = jwt.NewNumericDate(expiresAt)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// encodedTime округляет t так же, как это делает Encode при записи iat/exp.
func encodedTime(t time.Time) time.Time {
	return jwt.NewNumericDate(t).Time
}

// Decode проверяет алгоритм и подпись и возвращает claims.
// Срок действия здесь НЕ проверяется: это делает Validator.
func Decode(tokenStr string, key []byte) (*Claims, error) {
	const op = "token.Decode"

	mc := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, mc,
		func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidSignature)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrMalformedToken)
	}

	sub, err := mc.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%s: missing sub: %w", op, ErrMalformedToken)
	}

	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%s: missing exp: %w", op, ErrMalformedToken)
	}

	claims := &Claims{
		Subject:   sub,
		ExpiresAt: exp.Time,
	}

	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}

	if role, ok := mc[claimRole].(string); ok {
		claims.Role = role
	}

	for k, v := range mc {
		switch k {
		case claimRole, claimSubject, claimIssued, claimExpires:
			continue
		}
		if claims.Extra == nil {
			claims.Extra = make(map[string]any)
		}
		claims.Extra[k] = v
	}

	return claims, nil
}
