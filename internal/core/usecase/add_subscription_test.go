package usecase

import (
	"context"
	"testing"

	"realty-notify-system/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSubscription_Success(t *testing.T) {
	store := &fakeSubscriptionStore{}
	uc := NewAddSubscriptionUseCase(store)

	err := uc.Execute(context.Background(), &domain.UserFilter{UserID: 7, City: strPtr("Київ")})
	require.NoError(t, err)
	assert.Len(t, store.created, 1)
}

func TestAddSubscription_CapRejected(t *testing.T) {
	store := &fakeSubscriptionStore{createErr: domain.ErrSubscriptionLimitReached}
	uc := NewAddSubscriptionUseCase(store)

	err := uc.Execute(context.Background(), &domain.UserFilter{UserID: 7})
	assert.ErrorIs(t, err, domain.ErrSubscriptionLimitReached)
	assert.Empty(t, store.created)
}

func TestAddFavorite_CapRejected(t *testing.T) {
	favorites := &fakeFavoriteStore{addErr: domain.ErrFavoritesLimitReached}
	adStore := &fakeAdStore{ads: map[int64]*domain.Ad{42: matchableAd()}}
	uc := NewAddFavoriteUseCase(favorites, adStore)

	err := uc.Execute(context.Background(), 7, 42)
	assert.ErrorIs(t, err, domain.ErrFavoritesLimitReached)
}

func TestAddFavorite_UnknownAdRejected(t *testing.T) {
	uc := NewAddFavoriteUseCase(&fakeFavoriteStore{}, &fakeAdStore{})

	err := uc.Execute(context.Background(), 7, 404)
	assert.ErrorIs(t, err, domain.ErrAdNotFound)
}
