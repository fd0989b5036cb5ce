package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/contracts"
	"realty-notify-system/internal/core/domain"
	"realty-notify-system/internal/core/port"
	"realty-notify-system/internal/core/port/usecases_port"
	"realty-notify-system/pkg/rabbitmq/rabbitmq_common"
	"realty-notify-system/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ScrapedAdsConsumerAdapter - входящий адаптер, который слушает очередь
// свежесобранных объявлений и вызывает мост "прием -> рассылка".
type ScrapedAdsConsumerAdapter struct {
	consumer rabbitmq_consumer.Consumer
	useCase  usecases_port.NotifyNewAdsUseCasePort
	logger   port.LoggerPort
}

// NewScrapedAdsConsumerAdapter создает новый адаптер
func NewScrapedAdsConsumerAdapter(
	cfg rabbitmq_consumer.ConsumerConfig,
	useCase usecases_port.NotifyNewAdsUseCasePort,
	logger port.LoggerPort,
	batchSize int,
	batchTimeout time.Duration,
	connManager *rabbitmq_common.ConnectionManager,
) (*ScrapedAdsConsumerAdapter, error) {
	adapter := &ScrapedAdsConsumerAdapter{
		useCase: useCase,
		logger:  logger,
	}

	pkgLogger := logger.WithFields(port.Fields{
		"component":    "rabbitmq_batch_consumer",
		"consumer_tag": cfg.ConsumerTag,
	})
	cfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewBatchConsumer(cfg, adapter.batchMessageHandler, batchSize, batchTimeout, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for scraped ads: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

// batchMessageHandler разбирает пачку сообщений и передает ее use case'у.
// Сообщение с невалидным JSON или непрошедшее схему отбрасывается с логом,
// не отправляя всю пачку на ретрай.
func (a *ScrapedAdsConsumerAdapter) batchMessageHandler(deliveries []amqp.Delivery) error {
	batchID := uuid.New().String()
	batchLogger := a.logger.WithFields(port.Fields{
		"component":  "ScrapedAdsConsumerAdapter",
		"batch_id":   batchID,
		"batch_size": len(deliveries),
	})
	batchLogger.Info("Received batch of scraped ads", nil)

	ads := make([]*domain.Ad, 0, len(deliveries))
	for _, d := range deliveries {
		ad, err := a.unmarshalAd(d)
		if err != nil {
			batchLogger.Warn("Dropping malformed scraped ad message", port.Fields{
				"delivery_tag": d.DeliveryTag,
				"reason":       err.Error(),
			})
			continue
		}
		ads = append(ads, ad)
	}

	if len(ads) == 0 {
		batchLogger.Warn("No valid ads in batch", nil)
		return nil
	}

	ctx := contextkeys.ContextWithTraceID(context.Background(), batchID)
	ctx = contextkeys.ContextWithLogger(ctx, batchLogger)

	stats, err := a.useCase.Execute(ctx, ads)
	if err != nil {
		// Отказ хранилища на всей пачке: возвращаем ошибку, пачка уйдет на ретрай
		batchLogger.Error("Use case failed for the whole batch, batch will be retried", err, nil)
		return err
	}

	batchLogger.Info("Batch processed", port.Fields{
		"succeeded": stats.Succeeded,
		"failed":    stats.Failed,
		"enqueued":  stats.Enqueued,
		"skipped":   stats.Skipped,
	})
	return nil
}

func (a *ScrapedAdsConsumerAdapter) unmarshalAd(d amqp.Delivery) (*domain.Ad, error) {
	eventType, _ := d.Headers["event-type"].(string)
	eventVersion, _ := d.Headers["event-version"].(string)
	if eventType == "" {
		eventType = "ScrapedAdsEvent"
	}
	if eventVersion == "" {
		eventVersion = "1.0.0"
	}

	if err := contracts.ValidateEvent(eventType, eventVersion, d.Body); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var dto ScrapedAdEventDTO
	if err := json.Unmarshal(d.Body, &dto); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scraped ad: %w", err)
	}

	return toDomainAd(dto), nil
}

// Start запускает потребление
func (a *ScrapedAdsConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

func (a *ScrapedAdsConsumerAdapter) Close() error { return a.consumer.Close() }
