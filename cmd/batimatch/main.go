package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/batimatch/batimatch/internal/config"
	"github.com/batimatch/batimatch/internal/infra/database"
	"github.com/batimatch/batimatch/internal/infra/gateway"
	"github.com/batimatch/batimatch/internal/infra/repository"
	"github.com/batimatch/batimatch/internal/interface/rest"
	"github.com/batimatch/batimatch/internal/interface/rest/middleware"
	"github.com/batimatch/batimatch/internal/token"
	"github.com/batimatch/batimatch/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.EnableTrace {
		shutdown, err := setupTracer(ctx, cfg.TraceEndpoint)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := database.MigratePostgres(db); err != nil {
		return err
	}

	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rdb.Close()

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	freelancerRepo := repository.NewFreelancerRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	tenderRepo := repository.NewTenderRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	contractRepo := repository.NewContractRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	publisher := repository.NewNotificationPublisher(rdb)
	geocoder := gateway.NewGeocodingGateway("")

	notificationUC := usecase.NewNotificationUsecase(notificationRepo, publisher)
	authUC := usecase.NewAuthUsecase(userRepo, sessionRepo, companyRepo, issuer, cfg.BcryptCost, cfg.ResetTokenTTL, cfg.RefreshTokenTTL)
	freelancerUC := usecase.NewFreelancerUsecase(freelancerRepo)
	companyUC := usecase.NewCompanyUsecase(companyRepo)
	contractUC := usecase.NewContractUsecase(contractRepo, companyRepo, freelancerRepo, notificationUC)
	tenderUC := usecase.NewTenderUsecase(tenderRepo, applicationRepo, freelancerRepo, companyRepo, contractRepo, notificationUC)
	paymentUC := usecase.NewPaymentUsecase(paymentRepo, contractRepo)
	geocodingUC := usecase.NewGeocodingUsecase(geocoder)
	adminUC := usecase.NewAdminUsecase(adminRepo, userRepo)

	authmw := middleware.NewAuthMiddleware(issuer)
	limiter := middleware.NewRateLimiter(rdb, cfg.RateLimitWindow, cfg.RateLimitMax)
	handler := rest.NewHandler(cfg, authUC, freelancerUC, companyUC, tenderUC, contractUC, notificationUC, paymentUC, geocodingUC, adminUC, authmw)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.CORSOrigin},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echomw.BodyLimit("2M"))
	if cfg.EnableTrace {
		e.Use(otelecho.Middleware("batimatch"))
	}
	e.Use(limiter.Limit)
	e.Use(authmw.Identify)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	handler.RegisterRoutes(e)

	go func() {
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && err != http.ErrServerClosed {
			slog.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func setupTracer(ctx context.Context, endpoint string) (func(), error) {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", "batimatch"),
		)),
	)
	otel.SetTracerProvider(tp)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			slog.Warn("tracer shutdown failed", "error", err)
		}
	}, nil
}
