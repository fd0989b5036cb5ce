package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"realty-notify-system/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingSubscriptionStore падает на заданном по счету вызове FindActiveFilters
type failingSubscriptionStore struct {
	fakeSubscriptionStore
	calls    int
	failCall int
}

func (f *failingSubscriptionStore) FindActiveFilters(ctx context.Context, now time.Time) ([]*domain.UserFilter, error) {
	f.calls++
	if f.calls == f.failCall {
		return nil, errors.New("query failed")
	}
	return f.fakeSubscriptionStore.FindActiveFilters(ctx, now)
}

func notifyFixture(subs *failingSubscriptionStore, users map[int64]*domain.User) (*NotifyNewAdsUseCase, *fakeQueue) {
	queue := &fakeQueue{}
	ledger := &fakeLedger{}
	ingest := NewIngestAdsUseCase(&fakeAdStore{})
	matcher := NewMatchAdUseCase(subs)
	dispatch := NewDispatchNotificationUseCase(&fakeUserStore{users: users}, ledger, queue)
	return NewNotifyNewAdsUseCase(ingest, matcher, dispatch), queue
}

func batchOf(n int) []*domain.Ad {
	ads := make([]*domain.Ad, 0, n)
	for i := 1; i <= n; i++ {
		ads = append(ads, &domain.Ad{
			ID:          int64(i),
			ExternalID:  "src-" + string(rune('0'+i)),
			Price:       10000,
			ResourceURL: "https://example.com/ads",
		})
	}
	return ads
}

func TestNotifyNewAds_BatchFaultIsolation(t *testing.T) {
	// Матчинг объявления №2 падает; №1 и №3 все равно обрабатываются
	tg := "tg-1"
	subs := &failingSubscriptionStore{
		fakeSubscriptionStore: fakeSubscriptionStore{
			filters: []*domain.UserFilter{{ID: 1, UserID: 7}},
		},
		failCall: 2,
	}
	uc, queue := notifyFixture(subs, map[int64]*domain.User{7: {ID: 7, TelegramID: &tg}})

	stats, err := uc.Execute(context.Background(), batchOf(3))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Succeeded)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 2, stats.Enqueued)
	assert.Len(t, queue.tasks, 2)
}

func TestNotifyNewAds_IngestFailureAbortsBatch(t *testing.T) {
	storeErr := errors.New("db down")
	queue := &fakeQueue{}
	ingest := NewIngestAdsUseCase(&fakeAdStore{upsertErr: storeErr})
	matcher := NewMatchAdUseCase(&fakeSubscriptionStore{})
	dispatch := NewDispatchNotificationUseCase(&fakeUserStore{}, &fakeLedger{}, queue)
	uc := NewNotifyNewAdsUseCase(ingest, matcher, dispatch)

	_, err := uc.Execute(context.Background(), batchOf(2))
	assert.ErrorIs(t, err, storeErr)
	assert.Empty(t, queue.tasks)
}

func TestNotifyNewAds_SkipsAlreadyNotified(t *testing.T) {
	tg := "tg-1"
	subs := &failingSubscriptionStore{
		fakeSubscriptionStore: fakeSubscriptionStore{
			filters: []*domain.UserFilter{{ID: 1, UserID: 7}},
		},
	}
	queue := &fakeQueue{}
	ledger := &fakeLedger{existing: map[string]bool{
		ledgerKey(7, 1, domain.PlatformTelegram): true,
	}}
	ingest := NewIngestAdsUseCase(&fakeAdStore{})
	matcher := NewMatchAdUseCase(subs)
	dispatch := NewDispatchNotificationUseCase(&fakeUserStore{users: map[int64]*domain.User{7: {ID: 7, TelegramID: &tg}}}, ledger, queue)
	uc := NewNotifyNewAdsUseCase(ingest, matcher, dispatch)

	stats, err := uc.Execute(context.Background(), batchOf(1))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Enqueued)
	assert.Empty(t, queue.tasks)
}
