package messenger_adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"realty-notify-system/internal/core/domain"
)

const viberSendMessageURL = "https://chatapi.viber.com/pa/send_message"

// Коды ошибок Viber API, при которых сообщение не дойдет никогда
// (https://developers.viber.com/docs/api/rest-bot-api/#error-codes)
var viberPermanentStatuses = map[int]string{
	5:  "receiver not registered",
	6:  "receiver not subscribed",
	7:  "public account blocked",
	8:  "public account not found",
	9:  "public account suspended",
	11: "receiver not capable",
}

// ViberMessenger реализация MessengerPort поверх Viber REST API
type ViberMessenger struct {
	authToken  string
	senderName string
	httpClient *http.Client
}

// NewViberMessenger создает клиента Viber
func NewViberMessenger(authToken, senderName string) (*ViberMessenger, error) {
	if authToken == "" {
		return nil, fmt.Errorf("viber auth token is required")
	}
	return &ViberMessenger{
		authToken:  authToken,
		senderName: senderName,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type viberMessageRequest struct {
	Receiver string      `json:"receiver"`
	Type     string      `json:"type"`
	Sender   viberSender `json:"sender"`
	Text     string      `json:"text,omitempty"`
	Media    string      `json:"media,omitempty"`
}

type viberSender struct {
	Name string `json:"name"`
}

type viberMessageResponse struct {
	Status        int    `json:"status"`
	StatusMessage string `json:"status_message"`
}

func (m *ViberMessenger) SendText(ctx context.Context, recipientID, text string) error {
	return m.send(ctx, viberMessageRequest{
		Receiver: recipientID,
		Type:     "text",
		Sender:   viberSender{Name: m.senderName},
		Text:     text,
	})
}

func (m *ViberMessenger) SendImage(ctx context.Context, recipientID, imageURL, caption string) error {
	// У picture-сообщений Viber текст идет в том же поле text
	return m.send(ctx, viberMessageRequest{
		Receiver: recipientID,
		Type:     "picture",
		Sender:   viberSender{Name: m.senderName},
		Text:     caption,
		Media:    imageURL,
	})
}

func (m *ViberMessenger) send(ctx context.Context, reqBody viberMessageRequest) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal viber request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, viberSendMessageURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build viber request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Viber-Auth-Token", m.authToken)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("viber request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Errorf("failed to read viber response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("viber returned HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var vResp viberMessageResponse
	if err := json.Unmarshal(respBody, &vResp); err != nil {
		return fmt.Errorf("failed to parse viber response: %w", err)
	}

	return classifyViberStatus(vResp.Status, vResp.StatusMessage)
}

// classifyViberStatus превращает статус ответа Viber в ошибку.
// 0 - успех, коды из viberPermanentStatuses - постоянный отказ,
// остальное считаем временным сбоем.
func classifyViberStatus(status int, statusMessage string) error {
	if status == 0 {
		return nil
	}
	if reason, ok := viberPermanentStatuses[status]; ok {
		return fmt.Errorf("%w: viber status %d (%s): %s", domain.ErrPermanentDelivery, status, reason, statusMessage)
	}
	return fmt.Errorf("viber send failed with status %d: %s", status, statusMessage)
}
