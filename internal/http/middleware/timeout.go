package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	apierrors "github.com/pribylovaa/account-service/internal/errors"
	"github.com/pribylovaa/account-service/internal/pkg/log"
)

// Timeout навешивает deadline на запрос, если его ещё нет.
// Значение <=0 делает мидлвар no-op.
//
// Если deadline сработал, пишется запись request_deadline_exceeded.
// Если при этом обработчик ничего не ответил, клиент получает
// 504/deadline_exceeded в общем формате ошибок.
func Timeout(d time.Duration) Middleware {
	const op = "middleware.Timeout"

	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Deadline(); ok {
				next.ServeHTTP(w, r) // уважаем существующий deadline.
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			r = r.WithContext(ctx)

			sw := newStatusWriter(w)
			start := time.Now()

			next.ServeHTTP(sw, r)

			if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return
			}

			log.From(ctx).LogAttrs(ctx, slog.LevelWarn, "request_deadline_exceeded",
				slog.String("op", op),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Duration("limit", d),
				slog.Duration("dur", time.Since(start)),
				slog.Bool("answered", sw.status != 0),
			)

			if sw.status == 0 {
				apierrors.WriteError(w, r, ctx.Err())
			}
		})
	}
}
