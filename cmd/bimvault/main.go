package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/ybalashov/bimvault/internal/config"
	"github.com/ybalashov/bimvault/internal/infra/database"
	"github.com/ybalashov/bimvault/internal/infra/repository"
	"github.com/ybalashov/bimvault/internal/present/rest"
	"github.com/ybalashov/bimvault/internal/present/rest/middleware"
	"github.com/ybalashov/bimvault/internal/service"
	"github.com/ybalashov/bimvault/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if conf.Server.EnableTrace {
		cleanup, err := setupTraceProvider(conf.Server.TraceEndpoint)
		if err != nil {
			slog.Error("Failed to set up tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer cleanup()
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		slog.Error("Failed to connect database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = database.MigratePostgres(db)
	if err != nil {
		slog.Error("Failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, conf.Server.RedisPassword, conf.Server.RedisDB)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	accessRepo := repository.NewAccessRepository(db)
	fileRepo := repository.NewFileRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	collisionRepo := repository.NewCollisionRepository(db)

	tokenService := service.NewTokenService(conf.Auth)
	signalService := service.NewSignalService(rdb)

	authUC := usecase.NewAuthUsecase(userRepo, tokenService)
	accessUC := usecase.NewAccessUsecase(projectRepo, accessRepo)
	projectUC := usecase.NewProjectUsecase(projectRepo, userRepo, accessUC)
	fileUC := usecase.NewFileUsecase(fileRepo, collisionRepo, accessUC, signalService)
	commentUC := usecase.NewCommentUsecase(commentRepo, fileRepo, accessUC, signalService)

	authMiddleware := middleware.NewAuthMiddleware(tokenService)
	handler := rest.NewHandler(authUC, projectUC, accessUC, fileUC, commentUC, signalService)

	e := echo.New()
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit("512M"))
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware("bimvault"))
	}

	handler.RegisterRoutes(e, authMiddleware)

	e.Logger.Fatal(e.Start(conf.Server.Listen))
}

func setupTraceProvider(endpoint string) (func(), error) {
	ctx := context.Background()

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
			attribute.String("service.name", "bimvault"),
		)),
	)
	otel.SetTracerProvider(tp)

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shut down trace provider", slog.String("error", err.Error()))
		}
	}
	return cleanup, nil
}
