package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_IsActive_StrictBoundary(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	exactly := now
	u := &User{FreeUntil: &exactly}
	assert.False(t, u.IsActive(now), "free_until exactly now is not active")

	oneSec := now.Add(time.Second)
	u = &User{FreeUntil: &oneSec}
	assert.True(t, u.IsActive(now))

	paid := now.Add(time.Hour)
	u = &User{SubscriptionUntil: &paid}
	assert.True(t, u.IsActive(now))

	u = &User{}
	assert.False(t, u.IsActive(now))
}

func TestUser_PreferredPlatform_Order(t *testing.T) {
	tg := "tg-1"
	vb := "vb-1"
	wa := "wa-1"

	u := &User{TelegramID: &tg, ViberID: &vb, WhatsappID: &wa}
	p, id, err := u.PreferredPlatform()
	require.NoError(t, err)
	assert.Equal(t, PlatformTelegram, p)
	assert.Equal(t, "tg-1", id)

	u = &User{ViberID: &vb, WhatsappID: &wa}
	p, id, err = u.PreferredPlatform()
	require.NoError(t, err)
	assert.Equal(t, PlatformViber, p)
	assert.Equal(t, "vb-1", id)

	u = &User{WhatsappID: &wa}
	p, _, err = u.PreferredPlatform()
	require.NoError(t, err)
	assert.Equal(t, PlatformWhatsapp, p)

	empty := ""
	u = &User{TelegramID: &empty}
	_, _, err = u.PreferredPlatform()
	assert.ErrorIs(t, err, ErrNoLinkedPlatform)
}
