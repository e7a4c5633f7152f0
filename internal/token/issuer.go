package token

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/account-service/internal/pkg/log"
	"github.com/pribylovaa/account-service/internal/pkg/redact"
)

const (
	// claimTokenID — уникальный идентификатор refresh-токена (jti).
	// Без него два refresh-токена одного субъекта, выпущенные в одну секунду,
	// совпадали бы побайтно.
	claimTokenID = "jti"
	// claimKind — вид токена, см. KindRefresh.
	claimKind = "typ"
)

// RefreshWriter — то, что Issuer требует от хранилища refresh-токенов.
type RefreshWriter interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Options — неизменяемые параметры выпуска токенов.
type Options struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Issuer выпускает access- и refresh-токены.
type Issuer struct {
	key   []byte
	store RefreshWriter
	opts  Options
	now   func() time.Time
}

// NewIssuer создаёт Issuer. store используется только для refresh-токенов.
func NewIssuer(keys *KeyStore, store RefreshWriter, opts Options, o ...Option) *Issuer {
	bo := buildOptions(o)

	return &Issuer{
		key:   keys.SigningKey(),
		store: store,
		opts:  opts,
		now:   bo.now,
	}
}

// AccessTTL возвращает время жизни access-токена.
func (i *Issuer) AccessTTL() time.Duration { return i.opts.AccessTTL }

// IssueAccessToken выпускает access-токен для субъекта. Токен нигде не хранится.
func (i *Issuer) IssueAccessToken(principalID string) (string, error) {
	return i.IssueAccessTokenWithClaims(principalID, nil)
}

// IssueAccessTokenWithClaims выпускает access-токен с дополнительными claims.
// role, sub, iat и exp из extra игнорируются, typ отбрасывается.
func (i *Issuer) IssueAccessTokenWithClaims(principalID string, extra map[string]any) (string, error) {
	tok, _, err := i.issueAccess(principalID, extra)
	return tok, err
}

// IssueAccessTokenWithExpiry выпускает access-токен и возвращает его exp
// в том виде, в каком он записан в токен (с точностью до секунды).
func (i *Issuer) IssueAccessTokenWithExpiry(principalID string) (string, time.Time, error) {
	return i.issueAccess(principalID, nil)
}

func (i *Issuer) issueAccess(principalID string, extra map[string]any) (string, time.Time, error) {
	const op = "token.IssueAccessToken"

	if _, ok := extra[claimKind]; ok {
		extra = maps.Clone(extra)
		delete(extra, claimKind)
	}

	now := i.now()
	exp := now.Add(i.opts.AccessTTL)

	tok, err := Encode(principalID, extra, now, exp, i.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	return tok, encodedTime(exp), nil
}

// IssueRefreshToken выпускает refresh-токен и сохраняет его в хранилище под
// ключом субъекта с TTL = RefreshTTL. Предыдущий токен субъекта перезаписывается.
// Если запись в хранилище не удалась, токен не возвращается.
func (i *Issuer) IssueRefreshToken(ctx context.Context, principalID string) (string, error) {
	const op = "token.IssueRefreshToken"

	now := i.now()
	extra := map[string]any{
		claimTokenID: uuid.NewString(),
		claimKind:    KindRefresh,
	}

	tok, err := Encode(principalID, extra, now, now.Add(i.opts.RefreshTTL), i.key)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := i.store.Set(ctx, principalID, tok, i.opts.RefreshTTL); err != nil {
		log.From(ctx).Error("refresh_store_set_failed",
			slog.String("op", op),
			slog.String("subject", redact.Email(principalID)),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return tok, nil
}
