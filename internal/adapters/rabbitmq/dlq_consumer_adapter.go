package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/domain"
	"realty-notify-system/internal/core/port"
	"realty-notify-system/pkg/rabbitmq/rabbitmq_common"
	"realty-notify-system/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DlqConsumerAdapter слушает финальную DLQ, куда попадают задачи,
// исчерпавшие ретраи. Помечает запись журнала как failed и логирует
// сообщение для разбора.
type DlqConsumerAdapter struct {
	consumer rabbitmq_consumer.Consumer
	ledger   port.NotificationLedgerPort
	logger   port.LoggerPort
}

// NewDlqConsumerAdapter создает новый адаптер
func NewDlqConsumerAdapter(
	cfg rabbitmq_consumer.ConsumerConfig,
	ledger port.NotificationLedgerPort,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*DlqConsumerAdapter, error) {
	adapter := &DlqConsumerAdapter{
		ledger: ledger,
		logger: logger,
	}

	pkgLogger := logger.WithFields(port.Fields{
		"component":    "rabbitmq_dlq_consumer",
		"consumer_tag": cfg.ConsumerTag,
	})
	cfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewDistributingConsumer(cfg, adapter.messageHandler, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for final DLQ: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

// messageHandler всегда возвращает nil: из DLQ сообщения не ретраятся
func (a *DlqConsumerAdapter) messageHandler(d amqp.Delivery) error {
	traceID, _ := d.Headers["x-trace-id"].(string)
	if traceID == "" {
		traceID = uuid.New().String()
	}

	msgLogger := a.logger.WithFields(port.Fields{
		"component": "DlqConsumerAdapter",
		"trace_id":  traceID,
	})

	fields := port.Fields{
		"routing_key": d.RoutingKey,
		"body":        string(d.Body),
	}
	if deaths, ok := d.Headers["x-death"].([]interface{}); ok {
		fields["x_death"] = deaths
	}
	msgLogger.Error("Send task abandoned after exhausting retries", nil, fields)

	var task domain.SendTask
	if err := json.Unmarshal(d.Body, &task); err != nil {
		// Тело нечитаемо, журнал обновить не можем
		msgLogger.Warn("Failed to parse abandoned task body", port.Fields{
			"reason": err.Error(),
		})
		return nil
	}

	ctx := contextkeys.ContextWithTraceID(context.Background(), traceID)
	ctx = contextkeys.ContextWithLogger(ctx, msgLogger)

	if err := a.ledger.MarkFailed(ctx, task.NotificationID); err != nil {
		msgLogger.Error("Failed to mark abandoned notification as failed", err, port.Fields{
			"notification_id": task.NotificationID,
		})
	}

	return nil
}

// Start запускает потребление
func (a *DlqConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

func (a *DlqConsumerAdapter) Close() error { return a.consumer.Close() }
