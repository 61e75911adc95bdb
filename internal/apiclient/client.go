// Package apiclient is a small REST client for the project CRM API.
package apiclient

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

	"project-crm-api/internal/models"
)

// APIError is a non-2xx response. Message is the server's "error" field.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// Client talks to the API with an optional bearer token
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the session token sent on every request
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New returns a client for the API rooted at baseURL, e.g. http://localhost:8008
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current session token
func (c *Client) Token() string {
	return c.token
}

// TaskInput is the body of a task create
type TaskInput struct {
	ProjectID   *string           `json:"project_id,omitempty"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Status      models.TaskStatus `json:"status,omitempty"`
	Priority    models.Priority   `json:"priority,omitempty"`
	DueDate     *string           `json:"due_date,omitempty"`
}

// Login exchanges credentials for a token and keeps it on the client
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &resp); err != nil {
		return "", err
	}
	c.token = resp.Token
	return resp.Token, nil
}

// Kanban fetches the board, optionally scoped to one project
func (c *Client) Kanban(ctx context.Context, projectID string) (map[models.TaskStatus][]models.Task, error) {
	q := url.Values{}
	if projectID != "" {
		q.Set("project_id", projectID)
	}
	board := map[models.TaskStatus][]models.Task{}
	if err := c.do(ctx, http.MethodGet, "/api/tasks/kanban", q, nil, &board); err != nil {
		return nil, err
	}
	return board, nil
}

// Tasks lists tasks; empty arguments do not filter
func (c *Client) Tasks(ctx context.Context, projectID, status string) ([]models.Task, error) {
	q := url.Values{}
	if projectID != "" {
		q.Set("project_id", projectID)
	}
	if status != "" {
		q.Set("status", status)
	}
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks", q, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a task at the end of its column
func (c *Client) CreateTask(ctx context.Context, in TaskInput) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", nil, in, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// MoveTask sets a task's status and position through the drag-and-drop endpoint
func (c *Client) MoveTask(ctx context.Context, id string, status models.TaskStatus, position int) (*models.Task, error) {
	body := map[string]any{"status": status, "position": position}
	var task models.Task
	if err := c.do(ctx, http.MethodPatch, "/api/tasks/"+url.PathEscape(id)+"/status", nil, body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask removes a task
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, &payload) != nil || payload.Error == "" {
			payload.Error = strings.TrimSpace(string(raw))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
