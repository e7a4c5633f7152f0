package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	apierrors "github.com/pribylovaa/account-service/internal/errors"
	"github.com/pribylovaa/account-service/internal/pkg/log"
)

var errPanic = errors.New("handler panicked")

// Recover перехватывает panic обработчика и отвечает 500/internal.
// Причина и стек пишутся в лог запроса, клиенту они не отдаются.
// http.ErrAbortHandler пробрасывается дальше: так net/http обрывает ответ.
func Recover() Middleware {
	const op = "middleware.Recover"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.From(r.Context()).LogAttrs(r.Context(), slog.LevelError, "panic_recovered",
					slog.String("op", op),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("reason", fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
				apierrors.WriteError(w, r, fmt.Errorf("%w: %v", errPanic, rec))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
