package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/account-service/internal/cache"
	"github.com/pribylovaa/account-service/internal/config"
	"github.com/pribylovaa/account-service/internal/events"
	accounthttp "github.com/pribylovaa/account-service/internal/http"
	"github.com/pribylovaa/account-service/internal/metrics"
	"github.com/pribylovaa/account-service/internal/password"
	"github.com/pribylovaa/account-service/internal/service"
	"github.com/pribylovaa/account-service/internal/storage/postgres"
	"github.com/pribylovaa/account-service/internal/token"
)

var errRedisRequired = errors.New("redis url is required in prod")

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting account-service", slog.String("env", cfg.Env))

	if err := run(cfg, log); err != nil {
		log.Error("service_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	log.Info("service_stopped")
}

// run поднимает зависимости и HTTP-сервер и блокируется до сигнала остановки.
// Ошибка старта возвращается наружу, чтобы отработали все defer.
func run(cfg *config.Config, log *slog.Logger) error {
	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	// Ключ подписи проверяем до подключения к внешним системам.
	keys, err := token.NewKeyStore(cfg.Auth.JWTSecret)
	if err != nil {
		log.Error("signing_key_invalid", slog.String("err", err.Error()))
		return err
	}

	if cfg.DB.Migrate {
		if err := postgres.Migrate(rootCtx, cfg.DB.DatabaseURL); err != nil {
			log.Error("migrations_failed", slog.String("err", err.Error()))
			return err
		}
		log.Info("migrations_applied")
	}

	str, err := postgres.New(rootCtx, cfg.DB.DatabaseURL)
	if err != nil {
		log.Error("storage_init_failed", slog.String("err", err.Error()))
		return err
	}
	defer str.Close()

	log.Info("storage_initialized")

	refresh, pub, err := setupSessions(rootCtx, cfg, log)
	if err != nil {
		return err
	}
	// refresh владеет redis-клиентом; публикатор событий его только заимствует.
	defer func() {
		if cerr := refresh.Close(); cerr != nil {
			log.Warn("refresh_store_close_failed", slog.String("err", cerr.Error()))
		}
	}()

	svc := service.New(service.Deps{
		Storage: str,
		Refresh: refresh,
		Issuer: token.NewIssuer(keys, refresh, token.Options{
			AccessTTL:  cfg.Auth.AccessTokenTTL,
			RefreshTTL: cfg.Auth.RefreshTokenTTL,
		}),
		Validator: token.NewValidator(keys),
		Hasher:    password.NewBcrypt(cfg.Auth.BcryptCost),
		Events:    pub,
		Metrics:   metrics.New(prometheus.DefaultRegisterer),
	}, cfg.Auth)

	apiHandler := accounthttp.NewRouter(svc, accounthttp.Options{
		Logger:   log,
		Timeout:  cfg.Timeouts.Service,
		BasePath: cfg.HTTP.BasePath,
	})

	var ready int32 // 0 — not ready; 1 — ready

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt32(&ready) != 1 {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := str.Ping(ctx); err != nil {
			http.Error(w, "storage not ready", http.StatusServiceUnavailable)
			return
		}
		if err := refresh.Ping(ctx); err != nil {
			http.Error(w, "session store not ready", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", apiHandler)

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		return err
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)
	log.Info("service_ready")

	var serveErr error
	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case serveErr = <-serveErrCh:
		if serveErr != nil {
			log.Error("http_serve_failed", slog.String("err", serveErr.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	if c, ok := pub.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			log.Warn("events_close_failed", slog.String("err", err.Error()))
		}
	}

	return serveErr
}

// setupSessions выбирает хранилище refresh-токенов и публикатор событий.
// Без REDIS_URL используется in-memory хранилище с периодической очисткой,
// а события не публикуются.
func setupSessions(ctx context.Context, cfg *config.Config, log *slog.Logger) (cache.RefreshStore, events.Publisher, error) {
	if cfg.Redis.RedisURL == "" {
		if cfg.Env == envProd {
			log.Error("redis_url_required_in_prod")
			return nil, nil, errRedisRequired
		}

		mem := cache.NewMemoryStore(time.Now)
		startRefreshJanitor(ctx, mem, log, cfg.Janitor.Period)
		log.Warn("refresh_store_in_memory")

		return mem, events.Nop{}, nil
	}

	rs, err := cache.NewRedisStore(ctx, cfg.Redis.RedisURL, cfg.Redis.Prefix)
	if err != nil {
		log.Error("redis_init_failed", slog.String("err", err.Error()))
		return nil, nil, err
	}
	log.Info("refresh_store_redis")

	if !cfg.Events.Enabled {
		return rs, events.Nop{}, nil
	}

	wpub, err := events.NewRedisStreamPublisher(rs.Client(), log)
	if err != nil {
		log.Error("events_init_failed", slog.String("err", err.Error()))
		_ = rs.Close()
		return nil, nil, err
	}
	log.Info("events_enabled", slog.String("stream", cfg.Events.Stream))

	return rs, events.NewWatermillPublisher(wpub, cfg.Events.Stream), nil
}

// startRefreshJanitor периодически удаляет истёкшие refresh-токены
// из in-memory хранилища.
func startRefreshJanitor(ctx context.Context, store *cache.MemoryStore, log *slog.Logger, period time.Duration) {
	if period <= 0 {
		return
	}

	go func() {
		t := time.NewTicker(period)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if n := store.Sweep(); n > 0 {
					log.Debug("refresh_janitor_swept", slog.Int("removed", n))
				}
			}
		}
	}()
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
