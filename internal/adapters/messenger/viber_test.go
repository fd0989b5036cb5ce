package messenger_adapter

import (
	"errors"
	"testing"

	"realty-notify-system/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyViberStatus_Success(t *testing.T) {
	assert.NoError(t, classifyViberStatus(0, "ok"))
}

func TestClassifyViberStatus_PermanentCodes(t *testing.T) {
	for status := range viberPermanentStatuses {
		err := classifyViberStatus(status, "some message")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrPermanentDelivery), "status %d should be permanent", status)
	}
}

func TestClassifyViberStatus_TransientCode(t *testing.T) {
	err := classifyViberStatus(1, "invalid url")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrPermanentDelivery))
}

func TestNewViberMessenger_RequiresToken(t *testing.T) {
	_, err := NewViberMessenger("", "bot")
	assert.Error(t, err)
}
