package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	rabbitmq_adapter "realty-notify-system/internal/adapters/rabbitmq"
	"realty-notify-system/internal/constants"

	postgres_adapter "realty-notify-system/internal/adapters/postgres"
	"realty-notify-system/internal/configs"
	"realty-notify-system/internal/core/port"
	"realty-notify-system/internal/core/usecase"
	"realty-notify-system/pkg/postgres"
	"realty-notify-system/pkg/rabbitmq/rabbitmq_common"
	"realty-notify-system/pkg/rabbitmq/rabbitmq_consumer"
	"realty-notify-system/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotifierApp - процесс, который принимает собранные объявления,
// матчит их с подписками и ставит задачи на отправку.
type NotifierApp struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	scrapedAdsListener port.EventListenerPort
	dlqListener        port.EventListenerPort
	sendTaskEnqueue    *rabbitmq_adapter.SendTaskEnqueueAdapter
}

// NewNotifierApp - composition root сервиса уведомлений.
func NewNotifierApp() (*NotifierApp, error) {
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

	adRepository, err := postgres_adapter.NewPostgresAdRepository(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create ad repository: %w", err)
	}
	subscriptionRepository, err := postgres_adapter.NewPostgresSubscriptionRepository(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create subscription repository: %w", err)
	}
	userRepository, err := postgres_adapter.NewPostgresUserRepository(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create user repository: %w", err)
	}
	ledgerRepository, err := postgres_adapter.NewPostgresNotificationLedgerRepository(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create notification ledger repository: %w", err)
	}
	appLogger.Info("Postgres adapters initialized.", nil)

	connManagerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})
	connManager, err := rabbitmq_common.GetManager(appConfig.RabbitMQ.URL, rabbitmq_adapter.NewPkgLoggerBridge(connManagerLogger))
	if err != nil {
		appLogger.Error("Failed to create connection manager", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

	producerCfg := rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		ExchangeName:             constants.AdsExchange,
		ExchangeType:             "direct",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
	}
	sendTaskEnqueue, err := rabbitmq_adapter.NewSendTaskEnqueueAdapter(producerCfg, baseLogger, connManager)
	if err != nil {
		appLogger.Error("Failed to create send task enqueue adapter", err, nil)
		dbPool.Close()
		return nil, err
	}
	appLogger.Info("Send task enqueue adapter initialized.", nil)

	ingestUseCase := usecase.NewIngestAdsUseCase(adRepository)
	matchUseCase := usecase.NewMatchAdUseCase(subscriptionRepository)
	dispatchUseCase := usecase.NewDispatchNotificationUseCase(userRepository, ledgerRepository, sendTaskEnqueue)
	notifyUseCase := usecase.NewNotifyNewAdsUseCase(ingestUseCase, matchUseCase, dispatchUseCase)
	appLogger.Info("All use cases initialized.", nil)

	consumerCfg := rabbitmq_consumer.ConsumerConfig{
		Config:                 rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		QueueName:              constants.QueueScrapedAds,
		DurableQueue:           true,
		ExchangeNameForBind:    constants.AdsExchange,
		DeclareExchangeForBind: true,
		ExchangeTypeForBind:    "direct",
		DurableExchangeForBind: true,
		RoutingKeyForBind:      constants.RoutingKeyScrapedAds,
		PrefetchCount:          constants.ScrapedAdsBatchSize,
		ConsumerTag:            "scraped-ads-notifier",
		DeclareQueue:           true,

		EnableRetryMechanism: true,
		RetryExchange:        constants.QueueScrapedAds + constants.RetryExchangeSuffix,
		RetryQueue:           constants.QueueScrapedAds + constants.WaitQueueSuffix,
		RetryTTL:             constants.RetryTTL,
		FinalDLXExchange:     constants.FinalDLXExchange,
		FinalDLQ:             constants.FinalDLQ,
		FinalDLQRoutingKey:   constants.FinalDLQRoutingKey,
		MaxRetries:           constants.MaxRetries,
	}
	scrapedAdsListener, err := rabbitmq_adapter.NewScrapedAdsConsumerAdapter(
		consumerCfg,
		notifyUseCase,
		baseLogger,
		constants.ScrapedAdsBatchSize,
		time.Duration(constants.ScrapedAdsBatchTimeoutMs)*time.Millisecond,
		connManager,
	)
	if err != nil {
		appLogger.Error("Failed to create scraped ads listener", err, nil)
		dbPool.Close()
		return nil, err
	}
	appLogger.Info("Scraped Ads Listener initialized.", nil)

	dlqCfg := rabbitmq_consumer.ConsumerConfig{
		Config:                 rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		QueueName:              constants.FinalDLQ,
		DurableQueue:           true,
		ExchangeNameForBind:    constants.FinalDLXExchange,
		DeclareExchangeForBind: true,
		ExchangeTypeForBind:    "direct",
		DurableExchangeForBind: true,
		RoutingKeyForBind:      constants.FinalDLQRoutingKey,
		PrefetchCount:          1,
		ConsumerTag:            "final-dlq-watcher",
		DeclareQueue:           true,
	}
	dlqListener, err := rabbitmq_adapter.NewDlqConsumerAdapter(dlqCfg, ledgerRepository, baseLogger, connManager)
	if err != nil {
		appLogger.Error("Failed to create DLQ listener", err, nil)
		dbPool.Close()
		return nil, err
	}
	appLogger.Info("Final DLQ Listener initialized.", nil)

	return &NotifierApp{
		config:       appConfig,
		dbPool:       dbPool,
		fluentClient: fluentClient,
		logger:       appLogger,

		scrapedAdsListener: scrapedAdsListener,
		dlqListener:        dlqListener,
		sendTaskEnqueue:    sendTaskEnqueue,
	}, nil
}

// Run запускает слушателей и управляет их жизненным циклом.
func (a *NotifierApp) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		a.logger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()
		a.logger.Info("All background processes finished.", nil)

		if a.scrapedAdsListener != nil {
			if err := a.scrapedAdsListener.Close(); err != nil {
				a.logger.Error("Error closing scraped ads listener", err, nil)
			}
		}
		if a.dlqListener != nil {
			if err := a.dlqListener.Close(); err != nil {
				a.logger.Error("Error closing DLQ listener", err, nil)
			}
		}
		if a.sendTaskEnqueue != nil {
			if err := a.sendTaskEnqueue.Close(); err != nil {
				a.logger.Error("Error closing send task enqueue adapter", err, nil)
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

	startListener := func(name string, listener port.EventListenerPort) {
		defer wg.Done()
		listenerLogger := a.logger.WithFields(port.Fields{"listener_name": name})
		listenerLogger.Info("Starting listener...", nil)

		if err := listener.Start(appCtx); err != nil {
			listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
			errorsCh <- fmt.Errorf("%s error: %w", name, err)
		} else {
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}
	}

	wg.Add(1)
	go startListener("Scraped Ads Listener", a.scrapedAdsListener)
	wg.Add(1)
	go startListener("Final DLQ Listener", a.dlqListener)

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
