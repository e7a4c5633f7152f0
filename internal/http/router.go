package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/account-service/internal/http/handlers"
	"github.com/pribylovaa/account-service/internal/http/middleware"
)

// Service — всё, что роутеру нужно от бизнес-слоя.
type Service interface {
	handlers.Service
	middleware.Authenticator
}

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api/v1"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Recover(),            // паника попадает в лог запроса и в его статус
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout))
	}

	h := handlers.New(svc)
	auth := middleware.Authenticate(svc)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h, auth)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h, auth)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers, auth middleware.Middleware) {
	// публичные
	r.Post("/auth/login", h.Login)
	r.Post("/auth/refresh", h.Refresh)

	r.Post("/users", h.Register)
	r.Get("/users/email-exists", h.EmailExists)
	r.Get("/users/nickname-exists", h.NicknameExists)
	r.Post("/users/find-email", h.FindEmail)
	r.Post("/users/check-name-email", h.CheckNameEmail)

	// под bearer-токеном
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Post("/auth/logout", h.Logout)

		r.Put("/users/password", h.ChangePassword)
		r.Post("/users/password/check", h.CheckPassword)
		r.Get("/users/me", h.Profile)
		r.Put("/users/me", h.UpdateProfile)
		r.Delete("/users/me", h.Withdraw)
		r.Post("/users/withdraw/check", h.CheckWithdraw)

		r.Get("/users/address", h.Addresses)
		r.Post("/users/address", h.AddAddress)
		r.Get("/users/address/default", h.DefaultAddress)
		r.Put("/users/address/{id}", h.UpdateAddress)
		r.Delete("/users/address/{id}", h.DeleteAddress)
	})
}
