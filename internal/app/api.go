package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	postgres_adapter "realty-notify-system/internal/adapters/postgres"
	"realty-notify-system/internal/adapters/rest"
	"realty-notify-system/internal/configs"
	"realty-notify-system/internal/core/port"
	"realty-notify-system/internal/core/usecase"
	"realty-notify-system/pkg/postgres"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

// APIApp - процесс REST API для управления подписками, закладками
// и привязкой аккаунтов.
type APIApp struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

// NewAPIApp - composition root API-сервиса.
func NewAPIApp() (*APIApp, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	baseLogger, fluentClient, err := buildLogger(appConfig)
	if err != nil {
		return nil, err
	}

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"fluent_enabled": appConfig.FluentBit.Enabled,
	})

	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Database.URL})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	subscriptionRepository, err := postgres_adapter.NewPostgresSubscriptionRepository(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create subscription repository: %w", err)
	}
	favoriteRepository, err := postgres_adapter.NewPostgresFavoriteRepository(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create favorite repository: %w", err)
	}
	adRepository, err := postgres_adapter.NewPostgresAdRepository(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create ad repository: %w", err)
	}
	userRepository, err := postgres_adapter.NewPostgresUserRepository(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create user repository: %w", err)
	}
	appLogger.Info("Postgres adapters initialized.", nil)

	subscriptionsHandler := rest.NewSubscriptionsHandler(
		usecase.NewAddSubscriptionUseCase(subscriptionRepository),
		usecase.NewUpdateSubscriptionUseCase(subscriptionRepository),
		usecase.NewRemoveSubscriptionUseCase(subscriptionRepository),
		usecase.NewListSubscriptionsUseCase(subscriptionRepository),
		usecase.NewPauseSubscriptionsUseCase(subscriptionRepository),
	)
	favoritesHandler := rest.NewFavoritesHandler(
		usecase.NewAddFavoriteUseCase(favoriteRepository, adRepository),
		usecase.NewRemoveFavoriteUseCase(favoriteRepository),
		usecase.NewListFavoritesUseCase(favoriteRepository),
	)
	usersHandler := rest.NewUsersHandler(
		usecase.NewRegisterContactUseCase(userRepository),
		usecase.NewLinkAccountsUseCase(userRepository, subscriptionRepository),
	)
	appLogger.Info("All use cases initialized.", nil)

	apiServer := rest.NewServer(appConfig.Rest.PORT, subscriptionsHandler, favoritesHandler, usersHandler, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	return &APIApp{
		config:       appConfig,
		dbPool:       dbPool,
		apiServer:    apiServer,
		fluentClient: fluentClient,
		logger:       appLogger,
	}, nil
}

// Run запускает HTTP-сервер и управляет его жизненным циклом.
func (a *APIApp) Run() error {
	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}
		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, 1)

	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", err, nil)
	}

	return nil
}
