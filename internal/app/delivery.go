package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	messenger_adapter "realty-notify-system/internal/adapters/messenger"
	postgres_adapter "realty-notify-system/internal/adapters/postgres"
	rabbitmq_adapter "realty-notify-system/internal/adapters/rabbitmq"
	"realty-notify-system/internal/configs"
	"realty-notify-system/internal/constants"
	"realty-notify-system/internal/core/domain"
	"realty-notify-system/internal/core/port"
	"realty-notify-system/internal/core/usecase"
	"realty-notify-system/pkg/postgres"
	"realty-notify-system/pkg/rabbitmq/rabbitmq_common"
	"realty-notify-system/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DeliveryApp - процесс доставки уведомлений для одной платформы.
// Какую платформу обслуживать, определяет переменная окружения PLATFORM.
type DeliveryApp struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	sendTaskListener port.EventListenerPort
}

// queueForPlatform возвращает имя очереди задач платформы
func queueForPlatform(platform domain.Platform) (string, error) {
	switch platform {
	case domain.PlatformTelegram:
		return constants.QueueSendTelegram, nil
	case domain.PlatformViber:
		return constants.QueueSendViber, nil
	case domain.PlatformWhatsapp:
		return constants.QueueSendWhatsapp, nil
	}
	return "", fmt.Errorf("unknown delivery platform: %q", platform)
}

// NewDeliveryApp - composition root сервиса доставки.
func NewDeliveryApp() (*DeliveryApp, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	baseLogger, fluentClient, err := buildLogger(appConfig)
	if err != nil {
		return nil, err
	}

	platform := domain.Platform(appConfig.Messenger.Platform)
	appLogger := baseLogger.WithFields(port.Fields{
		"component": "app",
		"platform":  string(platform),
	})
	appLogger.Info("Logger system initialized", port.Fields{
		"fluent_enabled": appConfig.FluentBit.Enabled,
	})

	queueName, err := queueForPlatform(platform)
	if err != nil {
		return nil, err
	}

	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Database.URL})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	ledgerRepository, err := postgres_adapter.NewPostgresNotificationLedgerRepository(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create notification ledger repository: %w", err)
	}

	messenger, err := messenger_adapter.NewMessenger(appConfig.Messenger)
	if err != nil {
		appLogger.Error("Failed to create messenger client", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create messenger client: %w", err)
	}
	appLogger.Info("Messenger client initialized.", nil)

	deliverUseCase := usecase.NewDeliverNotificationUseCase(messenger, ledgerRepository)

	connManagerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})
	connManager, err := rabbitmq_common.GetManager(appConfig.RabbitMQ.URL, rabbitmq_adapter.NewPkgLoggerBridge(connManagerLogger))
	if err != nil {
		appLogger.Error("Failed to create connection manager", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

	consumerCfg := rabbitmq_consumer.ConsumerConfig{
		Config:                 rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		QueueName:              queueName,
		DurableQueue:           true,
		ExchangeNameForBind:    constants.AdsExchange,
		DeclareExchangeForBind: true,
		ExchangeTypeForBind:    "direct",
		DurableExchangeForBind: true,
		RoutingKeyForBind:      constants.RoutingKeySendPrefix + string(platform),
		PrefetchCount:          10,
		ConsumerTag:            "delivery-" + string(platform),
		DeclareQueue:           true,

		EnableRetryMechanism: true,
		RetryExchange:        queueName + constants.RetryExchangeSuffix,
		RetryQueue:           queueName + constants.WaitQueueSuffix,
		RetryTTL:             constants.RetryTTL,
		FinalDLXExchange:     constants.FinalDLXExchange,
		FinalDLQ:             constants.FinalDLQ,
		FinalDLQRoutingKey:   constants.FinalDLQRoutingKey,
		MaxRetries:           constants.MaxRetries,
	}
	sendTaskListener, err := rabbitmq_adapter.NewSendTaskConsumerAdapter(consumerCfg, deliverUseCase, baseLogger, connManager)
	if err != nil {
		appLogger.Error("Failed to create send task listener", err, nil)
		dbPool.Close()
		return nil, err
	}
	appLogger.Info("Send Task Listener initialized.", nil)

	return &DeliveryApp{
		config:       appConfig,
		dbPool:       dbPool,
		fluentClient: fluentClient,
		logger:       appLogger,

		sendTaskListener: sendTaskListener,
	}, nil
}

// Run запускает слушателя и управляет его жизненным циклом.
func (a *DeliveryApp) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		a.logger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()
		a.logger.Info("All background processes finished.", nil)

		if a.sendTaskListener != nil {
			if err := a.sendTaskListener.Close(); err != nil {
				a.logger.Error("Error closing send task listener", err, nil)
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

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.logger.Info("Starting send task listener...", nil)
		if err := a.sendTaskListener.Start(appCtx); err != nil {
			a.logger.Error("Listener stopped with an unexpected error", err, nil)
			errorsCh <- fmt.Errorf("send task listener error: %w", err)
		} else {
			a.logger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or listener error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", err, nil)
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	}

	cancelApp()

	return nil
}
