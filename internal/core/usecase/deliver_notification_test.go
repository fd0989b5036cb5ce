package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"realty-notify-system/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sendTask() *domain.SendTask {
	url := "https://example.com/ads/42"
	return &domain.SendTask{
		NotificationID: "n-1",
		UserID:         7,
		AdID:           42,
		Platform:       domain.PlatformTelegram,
		MessengerID:    "tg-100",
		Text:           "Нова квартира",
		ResourceURL:    &url,
	}
}

func TestDeliver_TextSuccessMarksSent(t *testing.T) {
	messenger := &fakeMessenger{}
	ledger := &fakeLedger{}
	uc := NewDeliverNotificationUseCase(messenger, ledger)

	err := uc.Execute(context.Background(), sendTask())
	require.NoError(t, err)
	assert.Equal(t, []string{"tg-100"}, messenger.textSends)
	assert.Equal(t, []string{"n-1"}, ledger.sent)
	assert.Empty(t, ledger.failed)
}

func TestDeliver_LeadImageUsedWhenAvailable(t *testing.T) {
	messenger := &fakeMessenger{}
	ledger := &fakeLedger{}
	uc := NewDeliverNotificationUseCase(messenger, ledger)

	task := sendTask()
	task.ImageURLs = []string{"https://example.com/img/1.jpg", "https://example.com/img/2.jpg"}

	err := uc.Execute(context.Background(), task)
	require.NoError(t, err)
	assert.Empty(t, messenger.textSends)
	assert.Equal(t, []string{"tg-100"}, messenger.imageSends)
}

func TestDeliver_PermanentFailureMarkedAndNotRetryable(t *testing.T) {
	permErr := fmt.Errorf("bot was blocked by the user: %w", domain.ErrPermanentDelivery)
	messenger := &fakeMessenger{sendErr: permErr}
	ledger := &fakeLedger{}
	uc := NewDeliverNotificationUseCase(messenger, ledger)

	err := uc.Execute(context.Background(), sendTask())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPermanentDelivery)
	assert.Equal(t, []string{"n-1"}, ledger.failed)
	assert.Empty(t, ledger.sent)
}

func TestDeliver_TransientFailureLeavesLedgerUntouched(t *testing.T) {
	transient := errors.New("429 too many requests")
	messenger := &fakeMessenger{sendErr: transient}
	ledger := &fakeLedger{}
	uc := NewDeliverNotificationUseCase(messenger, ledger)

	err := uc.Execute(context.Background(), sendTask())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrPermanentDelivery)
	assert.Empty(t, ledger.sent)
	assert.Empty(t, ledger.failed)
}
