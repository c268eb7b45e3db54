package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"donatebridge/internal/adapter/repo"
	"donatebridge/internal/donation"
	"donatebridge/internal/http/handlers"
	"donatebridge/internal/http/httpapi"
	"donatebridge/internal/infra"
	"donatebridge/internal/telegram"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	bot, err := telegram.NewClient(telegram.Options{
		BotToken: cfg.TelegramBotToken,
		BaseURL:  cfg.TelegramAPIBaseURL,
		Logger:   &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build telegram client")
	}

	ledger := repo.NewLedgerRepository(dbpool, cfg.LedgerTable, cfg.LedgerPlayerColumn, cfg.LedgerBalanceColumn)
	donations := donation.NewService(ledger, bot, cfg.TelegramAdminChatID, logger)

	app := handlers.NewApp(donations, logger)
	router := httpapi.NewRouter(app, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
