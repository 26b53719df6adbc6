package client

import (
	"context"
	"errors"
	"fmt"
	"memory-backend/pkg/api"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// StatusError is returned for any non 2xx response.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Detail)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

type Client struct {
	client *resty.Client
	token  string
}

func New(baseURL string) *Client {
	return &Client{
		client: resty.New().SetBaseURL(baseURL).SetTimeout(2 * time.Minute),
	}
}

// WithToken returns a client that sends token as bearer authorization.
func (c *Client) WithToken(token string) *Client {
	return &Client{client: c.client, token: token}
}

func (c *Client) request() *resty.Request {
	req := c.client.R()
	if c.token != "" {
		req.SetAuthToken(c.token)
	}
	return req
}

func do[T any](ctx context.Context, req *resty.Request, method, path string) (T, error) {
	var result T
	var failure api.ErrorResponse

	res, err := req.
		SetContext(ctx).
		SetResult(&result).
		SetError(&failure).
		Execute(method, path)
	if err != nil {
		return result, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if !res.IsSuccess() {
		detail := failure.Detail
		if detail == "" {
			detail = res.String()
		}
		return result, &StatusError{StatusCode: res.StatusCode(), Detail: detail}
	}

	return result, nil
}

func memoryPath(route string, id uint) string {
	return route + "/" + strconv.FormatUint(uint64(id), 10)
}

func (c *Client) ListMemories(ctx context.Context, params api.ListMemoriesParams) ([]api.Memory, error) {
	req := c.request()
	if params.Limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		req.SetQueryParam("offset", strconv.Itoa(params.Offset))
	}
	if params.Published != nil {
		req.SetQueryParam("published", strconv.FormatBool(*params.Published))
	}

	res, err := do[api.MemoriesResponse](ctx, req, resty.MethodGet, "/history")
	return res.Data, err
}

func (c *Client) CreateMemory(ctx context.Context, memory api.CreateMemoryRequest) (api.Memory, error) {
	return do[api.Memory](ctx, c.request().SetBody(memory), resty.MethodPost, "/conversation")
}

func (c *Client) GetMemory(ctx context.Context, id uint) (api.Memory, error) {
	return do[api.Memory](ctx, c.request(), resty.MethodGet, memoryPath("/conversation_by_id", id))
}

func (c *Client) UpdateMemory(ctx context.Context, id uint, memory api.UpdateMemoryRequest) (api.Memory, error) {
	return do[api.Memory](ctx, c.request().SetBody(memory), resty.MethodPut, memoryPath("/update-conversation", id))
}

func (c *Client) DeleteMemory(ctx context.Context, id uint) error {
	_, err := do[struct{}](ctx, c.request(), resty.MethodDelete, memoryPath("/delete-conversation", id))
	return err
}

func (c *Client) SessionHistory(ctx context.Context, sessionId string) (api.SessionHistoryResponse, error) {
	return do[api.SessionHistoryResponse](ctx, c.request(), resty.MethodGet, "/sessions/"+sessionId+"/history")
}

func (c *Client) Register(ctx context.Context, email, password string) (api.User, error) {
	body := api.UserCredentials{Email: email, Password: password}
	return do[api.User](ctx, c.request().SetBody(body), resty.MethodPost, "/users")
}

func (c *Client) Login(ctx context.Context, email, password string) (api.Token, error) {
	body := api.UserCredentials{Email: email, Password: password}
	return do[api.Token](ctx, c.request().SetBody(body), resty.MethodPost, "/login")
}

func (c *Client) CurrentUser(ctx context.Context) (api.User, error) {
	return do[api.User](ctx, c.request(), resty.MethodGet, "/users/me")
}
