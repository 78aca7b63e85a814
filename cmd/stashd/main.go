package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	gormlogger "gorm.io/gorm/logger"

	"squirrelstash/internal/app"
	"squirrelstash/internal/config"
	"squirrelstash/internal/domain"
	"squirrelstash/internal/ports"
	"squirrelstash/internal/ports/httpapi"
	"squirrelstash/internal/ports/memory"
	"squirrelstash/internal/ports/postgres"
)

type store interface {
	ports.PlayerRepository
	ports.OpponentPool
	ports.LeaderboardPort
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	tokens := app.NewActorTokens(cfg.TokenSecret, cfg.TokenIssuer, cfg.TokenTTL)

	// "stashd token <user>" prints an actor token for local testing.
	if len(os.Args) == 3 && os.Args[1] == "token" {
		token, err := tokens.Issue(os.Args[2])
		if err != nil {
			logger.Error("failed to issue token", "error", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	if cfg.RulesetPath != "" {
		if err := config.LoadRuleset(cfg.RulesetPath); err != nil {
			logger.Error("failed to load ruleset", "path", cfg.RulesetPath, "error", err)
			os.Exit(1)
		}
	}
	rules := config.GetRuleset()
	rng := domain.NewLockedRNG(nil)
	newPlayer := domain.NewPlayerFactory(rules, rng)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st store
	if cfg.DatabaseDSN == "" {
		logger.Warn("DATABASE_DSN not set, players are kept in memory")
		st = memory.NewStore(newPlayer, rng)
	} else {
		level := gormlogger.Warn
		if cfg.LogLevel <= slog.LevelDebug {
			level = gormlogger.Info
		}
		db, err := postgres.Open(cfg.DatabaseDSN, gormlogger.Default.LogMode(level))
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		pg := postgres.NewStore(db, newPlayer, rng)
		if err := pg.Migrate(ctx); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		st = pg
	}

	svc := app.NewService(st, st, st, rules, rng)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(httpapi.RequestIDMiddleware())
	e.Use(httpapi.LoggingMiddleware(logger))

	handler := httpapi.NewHandler(svc, logger)
	handler.Register(e, tokens)

	go func() {
		logger.Info("starting server", "addr", cfg.HTTPAddr, "option_pool", rules.OptionPool)
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
