package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursemarket/config"
	"coursemarket/internal/application/usecase"
	"coursemarket/internal/infrastructure/payment"
	"coursemarket/internal/infrastructure/repository"
	"coursemarket/internal/infrastructure/security"
	"coursemarket/internal/metrics"
	"coursemarket/internal/middleware"
	handlers "coursemarket/internal/transport/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "coursemarket").Logger()

	// 1. Конфиг
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(level)
	}

	// 2. Подключение к БД и миграции
	db, err := repository.Connect(repository.PostgresConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to DB")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql db")
	}
	defer sqlDB.Close()

	log.Info().Msg("running migrations")
	if err := repository.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate DB")
	}

	// Redis нужен только лимитеру, без него сервис работает
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, rate limiting disabled until it recovers")
	}

	// 3. Инициализация слоев
	purchaseRepo := repository.NewPurchaseRepository(db)
	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	gateway := payment.NewStripeGateway(cfg.StripeSecretKey, cfg.Currency, nil)
	identities, err := security.NewIdentityVerifier(cfg.ClerkWebhookSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid clerk webhook secret")
	}
	tokens := security.NewTokenManager(cfg.JWTSecret)
	m := metrics.New(prometheus.DefaultRegisterer)

	reconciler := usecase.NewReconciler(purchaseRepo, userRepo, courseRepo, log)
	dispatcher := usecase.NewDispatcher(gateway, reconciler, log)
	purchaseUC := usecase.NewPurchaseUseCase(purchaseRepo, userRepo, courseRepo, gateway,
		usecase.RedirectConfig{FrontendURL: cfg.FrontendURL}, log)
	learnerUC := usecase.NewLearnerUseCase(userRepo, courseRepo, progressRepo, log)
	identityUC := usecase.NewIdentityUseCase(userRepo, log)

	webhookHandler := handlers.NewWebhookHandler(
		payment.NewStripeVerifier(cfg.StripeWebhookSecret, 0),
		dispatcher, identities, identityUC, m, log,
	)
	userHandler := handlers.NewUserHandler(learnerUC, purchaseUC, m)
	courseHandler := handlers.NewCourseHandler(learnerUC)

	// 4. Роутер
	router := handlers.NewRouter(
		handlers.RouterConfig{AllowedOrigins: cfg.Origins(), Metrics: prometheus.DefaultGatherer},
		webhookHandler,
		userHandler,
		courseHandler,
		middleware.NewRateLimiter(rdb, log),
		tokens,
		log,
	)
	httpServer := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 5. gRPC health-сервер
	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	lis, err := net.Listen("tcp", cfg.GRPCPort)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.GRPCPort).Msg("failed to listen")
	}

	// 6. Запуск и graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		log.Info().Str("addr", cfg.Port).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		log.Info().Str("addr", lis.Addr().String()).Msg("grpc health server started")
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("server failure")
	}

	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	grpcServer.GracefulStop()
	log.Info().Msg("stopped")
}
