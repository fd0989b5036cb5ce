package messenger_adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"realty-notify-system/internal/core/domain"
)

// Коды ошибок Twilio, означающие, что получатель недостижим навсегда
// (https://www.twilio.com/docs/api/errors)
var twilioPermanentCodes = map[int]string{
	21211: "invalid 'To' phone number",
	21408: "permission to send to this region is not enabled",
	21610: "recipient has opted out",
	21614: "'To' number is not a valid mobile number",
	63003: "channel could not find the recipient",
	63016: "failed to send freeform message outside the allowed window",
}

// WhatsappMessenger реализация MessengerPort поверх Twilio Messaging API
type WhatsappMessenger struct {
	accountSID string
	authToken  string
	from       string // whatsapp:+14155238886
	httpClient *http.Client
}

// NewWhatsappMessenger создает клиента Twilio для WhatsApp
func NewWhatsappMessenger(accountSID, authToken, from string) (*WhatsappMessenger, error) {
	if accountSID == "" || authToken == "" {
		return nil, fmt.Errorf("twilio account SID and auth token are required")
	}
	if from == "" {
		return nil, fmt.Errorf("twilio whatsapp sender number is required")
	}
	if !strings.HasPrefix(from, "whatsapp:") {
		from = "whatsapp:" + from
	}
	return &WhatsappMessenger{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type twilioMessageResponse struct {
	Sid     string `json:"sid"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (m *WhatsappMessenger) SendText(ctx context.Context, recipientID, text string) error {
	form := url.Values{}
	form.Set("From", m.from)
	form.Set("To", m.normalizeRecipient(recipientID))
	form.Set("Body", text)
	return m.send(ctx, form)
}

func (m *WhatsappMessenger) SendImage(ctx context.Context, recipientID, imageURL, caption string) error {
	form := url.Values{}
	form.Set("From", m.from)
	form.Set("To", m.normalizeRecipient(recipientID))
	form.Set("Body", caption)
	form.Set("MediaUrl", imageURL)
	return m.send(ctx, form)
}

func (m *WhatsappMessenger) normalizeRecipient(recipientID string) string {
	if strings.HasPrefix(recipientID, "whatsapp:") {
		return recipientID
	}
	return "whatsapp:" + recipientID
}

func (m *WhatsappMessenger) send(ctx context.Context, form url.Values) error {
	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", m.accountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build twilio request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(m.accountSID, m.authToken)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Errorf("failed to read twilio response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var tResp twilioMessageResponse
	if err := json.Unmarshal(respBody, &tResp); err != nil {
		return fmt.Errorf("twilio returned HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	if reason, ok := twilioPermanentCodes[tResp.Code]; ok {
		return fmt.Errorf("%w: twilio code %d (%s): %s", domain.ErrPermanentDelivery, tResp.Code, reason, tResp.Message)
	}

	// 429 и 5xx - временные сбои на стороне Twilio
	return fmt.Errorf("twilio send failed with HTTP %d, code %d: %s", resp.StatusCode, tResp.Code, tResp.Message)
}
