package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"realty-notify-system/internal/constants"
	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/domain"
	"realty-notify-system/internal/core/port"
	"realty-notify-system/pkg/rabbitmq/rabbitmq_common"
	"realty-notify-system/pkg/rabbitmq/rabbitmq_producer"

	amqp "github.com/rabbitmq/amqp091-go"
)

const enqueuePublishTimeout = 10 * time.Second

// SendTaskEnqueueAdapter - исходящий адаптер, реализующий SendTaskQueuePort.
// Публикует задачи на отправку в ads_exchange с ключом notify.send.<platform>.
type SendTaskEnqueueAdapter struct {
	publisher *rabbitmq_producer.Publisher
	logger    port.LoggerPort
}

// NewSendTaskEnqueueAdapter создает новый адаптер
func NewSendTaskEnqueueAdapter(
	cfg rabbitmq_producer.PublisherConfig,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*SendTaskEnqueueAdapter, error) {
	pkgLogger := logger.WithFields(port.Fields{
		"component": "rabbitmq_publisher",
		"exchange":  cfg.ExchangeName,
	})
	cfg.Logger = NewPkgLoggerBridge(pkgLogger)

	publisher, err := rabbitmq_producer.NewPublisher(cfg, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ publisher for send tasks: %w", err)
	}

	return &SendTaskEnqueueAdapter{publisher: publisher, logger: logger}, nil
}

// EnqueueSendTask сериализует задачу и публикует ее в очередь соответствующей платформы
func (a *SendTaskEnqueueAdapter) EnqueueSendTask(ctx context.Context, task *domain.SendTask) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":       "SendTaskEnqueueAdapter",
		"notification_id": task.NotificationID,
		"platform":        string(task.Platform),
	})

	body, err := json.Marshal(task)
	if err != nil {
		logger.Error("Failed to marshal send task", err, nil)
		return fmt.Errorf("failed to marshal send task %s: %w", task.NotificationID, err)
	}

	routingKey := constants.RoutingKeySendPrefix + string(task.Platform)

	publishCtx, cancel := context.WithTimeout(ctx, enqueuePublishTimeout)
	defer cancel()

	err = a.publisher.Publish(publishCtx, routingKey, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
		Headers: amqp.Table{
			"event-type":    "AdNotificationEvent",
			"event-version": "1.0.0",
			"x-trace-id":    contextkeys.TraceIDFromContext(ctx),
		},
	})
	if err != nil {
		logger.Error("Failed to publish send task", err, port.Fields{"routing_key": routingKey})
		return fmt.Errorf("failed to publish send task %s: %w", task.NotificationID, err)
	}

	logger.Debug("Send task enqueued", port.Fields{"routing_key": routingKey})
	return nil
}

func (a *SendTaskEnqueueAdapter) Close() error { return a.publisher.Close() }
