package usecase

import (
	"context"
	"testing"

	"realty-notify-system/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dispatchFixture(users map[int64]*domain.User) (*DispatchNotificationUseCase, *fakeLedger, *fakeQueue) {
	ledger := &fakeLedger{}
	queue := &fakeQueue{}
	uc := NewDispatchNotificationUseCase(&fakeUserStore{users: users}, ledger, queue)
	return uc, ledger, queue
}

func TestDispatch_EnqueuesOnPreferredPlatform(t *testing.T) {
	tg := "tg-100"
	vb := "vb-100"
	uc, ledger, queue := dispatchFixture(map[int64]*domain.User{
		7: {ID: 7, TelegramID: &tg, ViberID: &vb},
	})

	enqueued, err := uc.Execute(context.Background(), 7, matchableAd())
	require.NoError(t, err)
	assert.True(t, enqueued)

	require.Len(t, queue.tasks, 1)
	task := queue.tasks[0]
	assert.Equal(t, domain.PlatformTelegram, task.Platform)
	assert.Equal(t, "tg-100", task.MessengerID)
	assert.Equal(t, int64(42), task.AdID)
	assert.Contains(t, task.Text, "Ціна: 12000 грн.")
	require.NotNil(t, task.ResourceURL)
	assert.Equal(t, "https://example.com/ads/42", *task.ResourceURL)

	require.Len(t, ledger.inserted, 1)
	assert.Equal(t, domain.NotificationEnqueued, ledger.inserted[0].Status)
}

func TestDispatch_SkipsWhenAlreadyNotified(t *testing.T) {
	tg := "tg-100"
	uc, ledger, queue := dispatchFixture(map[int64]*domain.User{
		7: {ID: 7, TelegramID: &tg},
	})
	ledger.existing = map[string]bool{ledgerKey(7, 42, domain.PlatformTelegram): true}

	enqueued, err := uc.Execute(context.Background(), 7, matchableAd())
	require.NoError(t, err)
	assert.False(t, enqueued)
	assert.Empty(t, queue.tasks)
}

func TestDispatch_SkipsUserWithoutPlatform(t *testing.T) {
	uc, _, queue := dispatchFixture(map[int64]*domain.User{
		7: {ID: 7},
	})

	enqueued, err := uc.Execute(context.Background(), 7, matchableAd())
	require.NoError(t, err)
	assert.False(t, enqueued)
	assert.Empty(t, queue.tasks)
}

func TestDispatch_MissingUserFails(t *testing.T) {
	uc, _, _ := dispatchFixture(nil)

	_, err := uc.Execute(context.Background(), 99, matchableAd())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
