// Package client calls the todochat HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"todochat/dto"
	"todochat/model"
)

// DefaultTimeout bounds every API call, chat included.
const DefaultTimeout = 60 * time.Second

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %s", http.StatusText(e.StatusCode))
	}
	return e.Message
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the API at baseURL. httpClient may be nil.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) ListTasks(ctx context.Context, email string) ([]model.Task, error) {
	var tasks []model.Task
	path := "/tasks?email=" + url.QueryEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, title, email string, name *string) (model.Task, error) {
	var task model.Task
	req := dto.CreateTaskRequest{Title: title, UserEmail: email, UserName: name}
	if err := c.do(ctx, http.MethodPost, "/tasks", req, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, update dto.UpdateTaskRequest) (model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id), update, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	var resp dto.DeleteTaskResponse
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, &resp)
}

func (c *Client) Chat(ctx context.Context, email, message string) (string, error) {
	var resp dto.ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", dto.ChatRequest{Email: email, Message: message}, &resp); err != nil {
		return "", err
	}
	return resp.Reply, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &errBody) == nil {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
