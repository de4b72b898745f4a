package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"todochat/config"
	"todochat/dto"
	"todochat/model"
)

// maxLoggedBody caps how much of a failed webhook response is logged.
const maxLoggedBody = 4 << 10

// EnhancementNotifier tells the enhancement automation about new tasks.
// Each notification is sent on its own goroutine; failures are logged and
// never reach the caller. There is no retry.
type EnhancementNotifier struct {
	cfg     config.WebhookConfig
	client  *http.Client
	timeout time.Duration
	logger  *log.Logger

	wg sync.WaitGroup
}

func NewEnhancementNotifier(cfg config.WebhookConfig, client *http.Client, timeout time.Duration, logger *log.Logger) *EnhancementNotifier {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = config.DefaultWebhookTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	return &EnhancementNotifier{
		cfg:     cfg,
		client:  client,
		timeout: timeout,
		logger:  logger.WithPrefix("enhance"),
	}
}

// TaskCreated dispatches the notification and returns immediately.
func (n *EnhancementNotifier) TaskCreated(task model.Task) {
	if !n.cfg.Configured() {
		n.logger.Info("enhancement webhook URL not configured or is placeholder, skipping", "task", task.ID)
		return
	}

	payload := dto.EnhanceWebhookPayload{
		TaskID:    task.ID,
		Title:     task.Title,
		UserEmail: task.UserEmail,
	}

	n.logger.Info("calling enhancement webhook", "task", task.ID)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				n.logger.Error("enhancement webhook panicked", "task", task.ID, "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.send(ctx, payload); err != nil {
			n.logger.Error("failed to call enhancement webhook", "task", task.ID, "err", err)
		}
	}()
}

// Wait blocks until every dispatched notification has finished.
func (n *EnhancementNotifier) Wait() {
	n.wg.Wait()
}

func (n *EnhancementNotifier) send(ctx context.Context, payload dto.EnhanceWebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.cfg.Secret != "" {
		req.Header.Set(WebhookSecretHeader, n.cfg.Secret)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	n.logger.Info("enhancement webhook responded", "task", payload.TaskID, "status", resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxLoggedBody))
		n.logger.Error("enhancement webhook error", "task", payload.TaskID, "status", resp.StatusCode, "body", string(text))
		return nil
	}
	n.logger.Info("enhancement webhook called successfully", "task", payload.TaskID)
	return nil
}
