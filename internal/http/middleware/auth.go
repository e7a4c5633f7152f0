package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/pribylovaa/account-service/internal/errors"
	"github.com/pribylovaa/account-service/internal/pkg/log"
	"github.com/pribylovaa/account-service/internal/pkg/redact"
	"github.com/pribylovaa/account-service/internal/service"
)

// Authenticator проверяет access-токен и возвращает субъект.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (string, error)
}

// Authenticate требует заголовок "Authorization: Bearer <token>".
// Субъект кладётся в контекст (SubjectFrom) и в атрибуты логгера.
// Без токена или с невалидным токеном запрос завершается 401.
func Authenticate(a Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearer(r.Header.Get("Authorization"))
			if tok == "" {
				apierrors.WriteError(w, r, service.ErrInvalidToken)
				return
			}

			sub, err := a.Authenticate(r.Context(), tok)
			if err != nil {
				log.From(r.Context()).Debug("authentication_failed", slog.String("err", err.Error()))
				apierrors.WriteError(w, r, err)
				return
			}

			ctx := WithSubject(r.Context(), sub)
			ctx = log.With(ctx, slog.String("subject", redact.Email(sub)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearer(h string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}
