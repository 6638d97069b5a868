package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/itz-mohit-014/tts-software/config"
	"github.com/itz-mohit-014/tts-software/db"
	"github.com/itz-mohit-014/tts-software/internal/auth/handler"
	"github.com/itz-mohit-014/tts-software/internal/auth/middleware"
	repo "github.com/itz-mohit-014/tts-software/internal/auth/repository/postgres"
	"github.com/itz-mohit-014/tts-software/internal/auth/service"
	"github.com/itz-mohit-014/tts-software/internal/auth/token"
	"github.com/itz-mohit-014/tts-software/internal/mailer"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.Env)
	defer logger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(logger)

	ctx := context.Background()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()

	repository := repo.NewPostgresRepository(dbPool)
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailAddress, cfg.EmailPassword)
	blacklist := token.NewBlacklist()

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenExpiryMin)
	otpService := service.NewOTPService(repository, smtpMailer)
	userService := service.NewUserService(repository, otpService, tokenService)
	authHandler := handler.NewAuthHandler(userService, blacklist)
	guard := middleware.NewJWTGuard(tokenService, blacklist, cfg.ExemptPaths)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(guard.Handler())

	handler.RegisterRoutes(app, authHandler)

	// Frontend build, reachable through the gate's static-asset bypass.
	if _, err := os.Stat(cfg.StaticDir); err == nil {
		app.Static("/", cfg.StaticDir)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down")
		_ = app.Shutdown()
	}()

	logger.Info("server listening", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger
}
