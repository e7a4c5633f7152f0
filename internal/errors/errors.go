// errors стандартизирует ответы об ошибках HTTP-слоя account-service.
// На вход он принимает доменную ошибку сервиса (обёрнутую "op: err"),
// а на выход даёт:
//   - корректный HTTP-статус;
//   - короткий стабильный код и безопасное message без утечки деталей.
//
// Источник истинности по ошибкам: переменные Err* пакета service.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/pribylovaa/account-service/internal/pkg/log"
	"github.com/pribylovaa/account-service/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — id запроса из контекста (см. middleware.RequestID), если есть.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

type rule struct {
	target  error
	status  int
	code    string
	message string
}

// rules проверяются по порядку, побеждает первое совпадение через errors.Is.
// ErrStoreUnavailable стоит раньше токенных ошибок: обёртка "%w: %w"
// может содержать обе.
var rules = []rule{
	{service.ErrStoreUnavailable, http.StatusServiceUnavailable, "unavailable", "service unavailable"},
	{service.ErrAddressUnavailable, http.StatusServiceUnavailable, "unavailable", "service unavailable"},

	{service.ErrLoginFailed, http.StatusUnauthorized, "login_failed", "invalid email or password"},
	{service.ErrWithdrawnAccount, http.StatusForbidden, "withdrawn_account", "account withdrawn"},
	{service.ErrDormantAccount, http.StatusForbidden, "dormant_account", "account dormant"},
	{service.ErrTokenExpired, http.StatusUnauthorized, "token_expired", "token expired"},
	{service.ErrInvalidToken, http.StatusUnauthorized, "unauthenticated", "unauthenticated"},
	{service.ErrTokenRevoked, http.StatusUnauthorized, "unauthenticated", "unauthenticated"},

	{service.ErrInvalidEmail, http.StatusBadRequest, "invalid_argument", "invalid email"},
	{service.ErrWeakPassword, http.StatusBadRequest, "invalid_argument", "password is too weak"},
	{service.ErrEmptyPassword, http.StatusBadRequest, "invalid_argument", "password is empty"},
	{service.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument", "invalid argument"},

	{service.ErrEmailTaken, http.StatusConflict, "already_exists", "email already taken"},
	{service.ErrNicknameTaken, http.StatusConflict, "already_exists", "nickname already taken"},

	{service.ErrUserNotFound, http.StatusNotFound, "not_found", "not found"},
	{service.ErrAddressNotFound, http.StatusNotFound, "not_found", "not found"},
	{service.ErrDefaultAddress, http.StatusPreconditionFailed, "failed_precondition", "default address cannot be deleted"},

	{context.Canceled, StatusClientClosedRequest, "canceled", "canceled"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"},
}

// ToHTTP конвертирует доменную ошибку в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil - это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг.
//   - неизвестная ошибка - 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	if err != nil {
		for _, r := range rules {
			if stderrors.Is(err, r.target) {
				return r.status, ErrorResponse{Error: APIError{Code: r.code, Message: r.message}}
			}
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error: APIError{
			Code:    "internal",
			Message: "internal error",
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из контекста, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := log.RequestID(r.Context()); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
