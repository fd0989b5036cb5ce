package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

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

// SendTaskConsumerAdapter - входящий адаптер сервиса доставки.
// Слушает очередь send_<platform> и передает каждую задачу use case'у доставки.
type SendTaskConsumerAdapter struct {
	consumer rabbitmq_consumer.Consumer
	useCase  usecases_port.DeliverNotificationUseCasePort
	logger   port.LoggerPort
}

// NewSendTaskConsumerAdapter создает новый адаптер
func NewSendTaskConsumerAdapter(
	cfg rabbitmq_consumer.ConsumerConfig,
	useCase usecases_port.DeliverNotificationUseCasePort,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*SendTaskConsumerAdapter, error) {
	adapter := &SendTaskConsumerAdapter{
		useCase: useCase,
		logger:  logger,
	}

	pkgLogger := logger.WithFields(port.Fields{
		"component":    "rabbitmq_distributing_consumer",
		"consumer_tag": cfg.ConsumerTag,
	})
	cfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewDistributingConsumer(cfg, adapter.messageHandler, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for send tasks: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

// messageHandler обрабатывает одну задачу на отправку.
// Возврат nil подтверждает сообщение (ack), возврат ошибки отправляет
// его в механизм ретраев очереди.
func (a *SendTaskConsumerAdapter) messageHandler(d amqp.Delivery) error {
	traceID, _ := d.Headers["x-trace-id"].(string)
	if traceID == "" {
		traceID = uuid.New().String()
	}

	msgLogger := a.logger.WithFields(port.Fields{
		"component":    "SendTaskConsumerAdapter",
		"trace_id":     traceID,
		"delivery_tag": d.DeliveryTag,
	})

	eventType, _ := d.Headers["event-type"].(string)
	eventVersion, _ := d.Headers["event-version"].(string)
	if eventType == "" {
		eventType = "AdNotificationEvent"
	}
	if eventVersion == "" {
		eventVersion = "1.0.0"
	}

	if err := contracts.ValidateEvent(eventType, eventVersion, d.Body); err != nil {
		// Ретраи не починят невалидное сообщение: дропаем его сразу
		msgLogger.Warn("Dropping send task that failed schema validation", port.Fields{
			"reason": err.Error(),
		})
		return nil
	}

	var task domain.SendTask
	if err := json.Unmarshal(d.Body, &task); err != nil {
		msgLogger.Warn("Dropping send task with malformed JSON", port.Fields{
			"reason": err.Error(),
		})
		return nil
	}

	ctx := contextkeys.ContextWithTraceID(context.Background(), traceID)
	ctx = contextkeys.ContextWithLogger(ctx, msgLogger)

	err := a.useCase.Execute(ctx, &task)
	if err != nil {
		if errors.Is(err, domain.ErrPermanentDelivery) {
			// Пользователь заблокировал бота, чат не найден и т.п. -
			// повторная отправка бессмысленна, подтверждаем сообщение
			msgLogger.Warn("Permanent delivery failure, task will not be retried", port.Fields{
				"notification_id": task.NotificationID,
				"reason":          err.Error(),
			})
			return nil
		}
		msgLogger.Error("Transient delivery failure, task will be retried", err, port.Fields{
			"notification_id": task.NotificationID,
		})
		return err
	}

	return nil
}

// Start запускает потребление
func (a *SendTaskConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

func (a *SendTaskConsumerAdapter) Close() error { return a.consumer.Close() }
