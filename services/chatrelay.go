package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"todochat/apperr"
	"todochat/config"
	"todochat/dto"
)

// WebhookSecretHeader carries the shared secret on calls to the automation.
const WebhookSecretHeader = "x-webhook-secret"

var errChatNotConfigured = errors.New("chat webhook URL is not configured")

// ChatRelay forwards chat messages to the chat automation and returns its
// reply. Failures of the automation call are returned unchanged.
type ChatRelay struct {
	cfg    config.WebhookConfig
	client *http.Client
}

func NewChatRelay(cfg config.WebhookConfig, client *http.Client) *ChatRelay {
	if client == nil {
		client = http.DefaultClient
	}
	return &ChatRelay{cfg: cfg, client: client}
}

// Send posts the message and returns the raw response body, whatever the
// response status.
func (r *ChatRelay) Send(ctx context.Context, email, message string) (string, error) {
	if email == "" || message == "" {
		return "", apperr.Validation("Email and message required")
	}
	if r.cfg.URL == "" {
		return "", errChatNotConfigured
	}

	body, err := json.Marshal(dto.ChatWebhookPayload{UserEmail: email, Message: message})
	if err != nil {
		return "", fmt.Errorf("encode chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.Secret != "" {
		req.Header.Set(WebhookSecretHeader, r.cfg.Secret)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	reply, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat reply: %w", err)
	}
	return string(reply), nil
}
