package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/domain"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifyUseCase struct {
	err      error
	received []*domain.Ad
}

func (f *fakeNotifyUseCase) Execute(ctx context.Context, ads []*domain.Ad) (domain.BatchStats, error) {
	f.received = ads
	if f.err != nil {
		return domain.BatchStats{}, f.err
	}
	return domain.BatchStats{Succeeded: len(ads)}, nil
}

func scrapedAdDelivery(t *testing.T, dto ScrapedAdEventDTO) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(dto)
	require.NoError(t, err)
	return amqp.Delivery{
		Body: body,
		Headers: amqp.Table{
			"event-type":    "ScrapedAdsEvent",
			"event-version": "1.0.0",
		},
	}
}

func TestBatchMessageHandler_ValidBatch(t *testing.T) {
	useCase := &fakeNotifyUseCase{}
	adapter := &ScrapedAdsConsumerAdapter{
		useCase: useCase,
		logger:  contextkeys.LoggerFromContext(context.Background()),
	}

	deliveries := []amqp.Delivery{
		scrapedAdDelivery(t, ScrapedAdEventDTO{ExternalID: "ext-1", ResourceURL: "https://example.com/1", Price: 10000}),
		scrapedAdDelivery(t, ScrapedAdEventDTO{ExternalID: "ext-2", ResourceURL: "https://example.com/2", Price: 20000}),
	}

	err := adapter.batchMessageHandler(deliveries)

	require.NoError(t, err)
	require.Len(t, useCase.received, 2)
	assert.Equal(t, "ext-1", useCase.received[0].ExternalID)
	assert.Equal(t, "ext-2", useCase.received[1].ExternalID)
}

func TestBatchMessageHandler_DropsMalformedMessages(t *testing.T) {
	useCase := &fakeNotifyUseCase{}
	adapter := &ScrapedAdsConsumerAdapter{
		useCase: useCase,
		logger:  contextkeys.LoggerFromContext(context.Background()),
	}

	deliveries := []amqp.Delivery{
		{Body: []byte("{not json")},
		scrapedAdDelivery(t, ScrapedAdEventDTO{ExternalID: "ext-1", ResourceURL: "https://example.com/1", Price: 10000}),
		// Без обязательного external_id схема не пройдет
		scrapedAdDelivery(t, ScrapedAdEventDTO{ResourceURL: "https://example.com/2", Price: 20000}),
	}

	err := adapter.batchMessageHandler(deliveries)

	require.NoError(t, err)
	require.Len(t, useCase.received, 1)
	assert.Equal(t, "ext-1", useCase.received[0].ExternalID)
}

func TestBatchMessageHandler_AllMalformedIsNotAnError(t *testing.T) {
	useCase := &fakeNotifyUseCase{}
	adapter := &ScrapedAdsConsumerAdapter{
		useCase: useCase,
		logger:  contextkeys.LoggerFromContext(context.Background()),
	}

	err := adapter.batchMessageHandler([]amqp.Delivery{{Body: []byte("garbage")}})

	require.NoError(t, err)
	assert.Nil(t, useCase.received)
}

func TestBatchMessageHandler_PropagatesUseCaseError(t *testing.T) {
	useCase := &fakeNotifyUseCase{err: fmt.Errorf("storage is down")}
	adapter := &ScrapedAdsConsumerAdapter{
		useCase: useCase,
		logger:  contextkeys.LoggerFromContext(context.Background()),
	}

	err := adapter.batchMessageHandler([]amqp.Delivery{
		scrapedAdDelivery(t, ScrapedAdEventDTO{ExternalID: "ext-1", ResourceURL: "https://example.com/1", Price: 10000}),
	})

	assert.Error(t, err)
}

type fakeDeliverUseCase struct {
	err      error
	received *domain.SendTask
}

func (f *fakeDeliverUseCase) Execute(ctx context.Context, task *domain.SendTask) error {
	f.received = task
	return f.err
}

func sendTaskDelivery(t *testing.T, task domain.SendTask) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(task)
	require.NoError(t, err)
	return amqp.Delivery{
		Body: body,
		Headers: amqp.Table{
			"event-type":    "AdNotificationEvent",
			"event-version": "1.0.0",
			"x-trace-id":    "11111111-2222-3333-4444-555555555555",
		},
	}
}

func validSendTask() domain.SendTask {
	return domain.SendTask{
		NotificationID: "9a1b0c2d-0000-0000-0000-000000000001",
		UserID:         7,
		AdID:           12,
		Platform:       domain.PlatformTelegram,
		MessengerID:    "100500",
		Text:           "💰 Ціна: 15000 грн.\n",
	}
}

func TestSendTaskHandler_Success(t *testing.T) {
	useCase := &fakeDeliverUseCase{}
	adapter := &SendTaskConsumerAdapter{
		useCase: useCase,
		logger:  contextkeys.LoggerFromContext(context.Background()),
	}

	err := adapter.messageHandler(sendTaskDelivery(t, validSendTask()))

	require.NoError(t, err)
	require.NotNil(t, useCase.received)
	assert.Equal(t, int64(7), useCase.received.UserID)
	assert.Equal(t, domain.PlatformTelegram, useCase.received.Platform)
}

func TestSendTaskHandler_DropsInvalidJSON(t *testing.T) {
	useCase := &fakeDeliverUseCase{}
	adapter := &SendTaskConsumerAdapter{
		useCase: useCase,
		logger:  contextkeys.LoggerFromContext(context.Background()),
	}

	err := adapter.messageHandler(amqp.Delivery{Body: []byte("{broken")})

	require.NoError(t, err)
	assert.Nil(t, useCase.received)
}

func TestSendTaskHandler_PermanentFailureIsAcked(t *testing.T) {
	useCase := &fakeDeliverUseCase{
		err: fmt.Errorf("%w: bot was blocked by the user", domain.ErrPermanentDelivery),
	}
	adapter := &SendTaskConsumerAdapter{
		useCase: useCase,
		logger:  contextkeys.LoggerFromContext(context.Background()),
	}

	err := adapter.messageHandler(sendTaskDelivery(t, validSendTask()))

	assert.NoError(t, err)
}

func TestSendTaskHandler_TransientFailureIsRetried(t *testing.T) {
	transient := errors.New("telegram send failed: timeout")
	useCase := &fakeDeliverUseCase{err: transient}
	adapter := &SendTaskConsumerAdapter{
		useCase: useCase,
		logger:  contextkeys.LoggerFromContext(context.Background()),
	}

	err := adapter.messageHandler(sendTaskDelivery(t, validSendTask()))

	assert.ErrorIs(t, err, transient)
}
