package usecase

import (
	"context"
	"testing"

	"realty-notify-system/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterContact_CreatesUserWithTrial(t *testing.T) {
	store := &fakeUserStore{}
	uc := NewRegisterContactUseCase(store)

	user, err := uc.Execute(context.Background(), domain.PlatformViber, "vb-500")
	require.NoError(t, err)
	require.NotNil(t, user.FreeUntil)
	require.NotNil(t, user.ViberID)
	assert.Equal(t, "vb-500", *user.ViberID)

	// Повторный контакт возвращает того же пользователя
	again, err := uc.Execute(context.Background(), domain.PlatformViber, "vb-500")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
}

func TestLinkAccounts_MergesAndTransfersSubscriptions(t *testing.T) {
	vb := "vb-9"
	users := &fakeUserStore{users: map[int64]*domain.User{
		1: {ID: 1},
		2: {ID: 2, ViberID: &vb},
	}}
	subs := &fakeSubscriptionStore{}
	uc := NewLinkAccountsUseCase(users, subs)

	err := uc.Execute(context.Background(), 1, domain.PlatformViber, "vb-9")
	require.NoError(t, err)

	require.Len(t, subs.transferred, 1)
	assert.Equal(t, [2]int64{2, 1}, subs.transferred[0])
	assert.Equal(t, []int64{2}, users.deleted)
	assert.Len(t, users.linked, 1)
}

func TestLinkAccounts_FreshIdentityJustLinks(t *testing.T) {
	users := &fakeUserStore{users: map[int64]*domain.User{1: {ID: 1}}}
	subs := &fakeSubscriptionStore{}
	uc := NewLinkAccountsUseCase(users, subs)

	err := uc.Execute(context.Background(), 1, domain.PlatformWhatsapp, "wa-1")
	require.NoError(t, err)
	assert.Empty(t, subs.transferred)
	assert.Empty(t, users.deleted)
	assert.Len(t, users.linked, 1)
}
