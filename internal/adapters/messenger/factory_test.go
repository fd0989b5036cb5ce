package messenger_adapter

import (
	"testing"

	"realty-notify-system/internal/configs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessenger_UnknownPlatform(t *testing.T) {
	_, err := NewMessenger(configs.MessengerConfig{Platform: "icq"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown messenger platform")
}

func TestNewMessenger_ViberMissingToken(t *testing.T) {
	_, err := NewMessenger(configs.MessengerConfig{Platform: "viber"})
	assert.Error(t, err)
}

func TestNewMessenger_WhatsappNormalizesSender(t *testing.T) {
	m, err := NewWhatsappMessenger("ACxxx", "token", "+14155238886")
	require.NoError(t, err)
	assert.Equal(t, "whatsapp:+14155238886", m.from)
}
