// Package client is a Go client for the task list HTTP API. It keeps the
// bearer token in a TokenStore and forgets it as soon as the server rejects
// it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yukikurage/task-list-api/internal/dto"
	apierrors "github.com/yukikurage/task-list-api/internal/errors"
)

var (
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrSessionExpired = errors.New("session expired, log in again")
)

// Error is a non-2xx response from the API.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Client talks to the task list API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
}

// New returns a Client for the server at baseURL (without the /api suffix).
func New(baseURL string, tokens TokenStore) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
	}
}

// WithHTTPClient replaces the underlying http.Client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, email, password string) error {
	body := dto.CredentialsRequest{Email: email, Password: password}
	return c.do(ctx, http.MethodPost, "/api/auth/register", false, body, nil)
}

// Login authenticates and stores the issued token.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp dto.TokenResponse
	body := dto.CredentialsRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", false, body, &resp); err != nil {
		return err
	}
	return c.tokens.Save(resp.Token)
}

// Logout forgets the stored token. Tokens are stateless so the server is
// not contacted.
func (c *Client) Logout() error {
	return c.tokens.Clear()
}

func (c *Client) Profile(ctx context.Context) (*dto.UserDTO, error) {
	var user dto.UserDTO
	if err := c.do(ctx, http.MethodGet, "/api/user/profile", true, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListTasks returns the user's tasks, newest first. Empty arguments mean no
// filter.
func (c *Client) ListTasks(ctx context.Context, search, status string) ([]dto.TaskDTO, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	if status != "" {
		query.Set("status", status)
	}
	path := "/api/tasks"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	tasks := []dto.TaskDTO{}
	if err := c.do(ctx, http.MethodGet, path, true, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, title string) (*dto.TaskDTO, error) {
	var task dto.TaskDTO
	if err := c.do(ctx, http.MethodPost, "/api/tasks", true, dto.CreateTaskRequest{Title: title}, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask sends a partial update; nil fields are left unchanged.
func (c *Client) UpdateTask(ctx context.Context, id string, patch dto.UpdateTaskRequest) (*dto.TaskDTO, error) {
	var task dto.TaskDTO
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), true, patch, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ToggleTask flips the completion state of task.
func (c *Client) ToggleTask(ctx context.Context, task dto.TaskDTO) (*dto.TaskDTO, error) {
	completed := !task.Completed
	return c.UpdateTask(ctx, task.ID, dto.UpdateTaskRequest{Completed: &completed})
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), true, nil, nil)
}

// SuggestTasks asks the server for task titles extracted from text.
func (c *Client) SuggestTasks(ctx context.Context, text string) ([]string, error) {
	var resp dto.SuggestTasksResponse
	if err := c.do(ctx, http.MethodPost, "/api/tasks/suggest", true, dto.SuggestTasksRequest{Text: text}, &resp); err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}

func (c *Client) do(ctx context.Context, method, path string, auth bool, in, out any) error {
	var token string
	if auth {
		var err error
		token, err = c.tokens.Load()
		if err != nil {
			return err
		}
		if token == "" {
			return ErrNotLoggedIn
		}
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if auth && resp.StatusCode == http.StatusUnauthorized {
		if err := c.tokens.Clear(); err != nil {
			return err
		}
		return ErrSessionExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}
	var body apierrors.APIError
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	}
	return apiErr
}
