package usecase

import (
	"context"
	"errors"
	"testing"

	"realty-notify-system/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func matchableAd() *domain.Ad {
	return &domain.Ad{
		ID:           42,
		ExternalID:   "src-42",
		PropertyType: strPtr("apartment"),
		City:         strPtr("Київ"),
		Price:        12000,
		RoomsCount:   intPtr(2),
		ResourceURL:  "https://example.com/ads/42",
	}
}

func TestMatchAd_DedupsUserAcrossSubscriptions(t *testing.T) {
	// У пользователя 7 две подписки, обе совпадают с объявлением
	store := &fakeSubscriptionStore{
		filters: []*domain.UserFilter{
			{ID: 1, UserID: 7, City: strPtr("Київ")},
			{ID: 2, UserID: 7, PriceMax: floatPtr(20000)},
			{ID: 3, UserID: 8},
		},
	}

	uc := NewMatchAdUseCase(store)
	userIDs, err := uc.Execute(context.Background(), matchableAd())
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{7, 8}, userIDs)
}

func TestMatchAd_SecondSubscriptionStillChecked(t *testing.T) {
	// Первая подписка пользователя не совпадает, вторая совпадает
	store := &fakeSubscriptionStore{
		filters: []*domain.UserFilter{
			{ID: 1, UserID: 7, City: strPtr("Львів")},
			{ID: 2, UserID: 7, City: strPtr("Київ")},
		},
	}

	uc := NewMatchAdUseCase(store)
	userIDs, err := uc.Execute(context.Background(), matchableAd())
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, userIDs)
}

func TestMatchAd_PausedExcluded(t *testing.T) {
	store := &fakeSubscriptionStore{
		filters: []*domain.UserFilter{
			{ID: 1, UserID: 7, IsPaused: true},
		},
	}

	uc := NewMatchAdUseCase(store)
	userIDs, err := uc.Execute(context.Background(), matchableAd())
	require.NoError(t, err)
	assert.Empty(t, userIDs)
}

func TestMatchAd_StoreErrorPropagates(t *testing.T) {
	// Пустой результат неотличим от "нет совпадений": ошибка обязана всплыть
	storeErr := errors.New("connection refused")
	store := &fakeSubscriptionStore{findErr: storeErr}

	uc := NewMatchAdUseCase(store)
	userIDs, err := uc.Execute(context.Background(), matchableAd())
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.Nil(t, userIDs)
}
