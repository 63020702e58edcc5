package api

// Remote catalog and order collaborator.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront/internal/checkout"
	"storefront/internal/menu"

	"go.uber.org/zap"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// StatusError is a non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status: %d %s", e.Method, e.Path, e.Code, e.Body)
}

func NewClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, expected int) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != expected {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Debug("Unexpected API response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) GetMenuItems(ctx context.Context) ([]menu.Item, error) {
	var items []menu.Item
	if err := c.do(ctx, http.MethodGet, "/api/menu-items", nil, &items, http.StatusOK); err != nil {
		return nil, fmt.Errorf("api.GetMenuItems: %w", err)
	}
	return items, nil
}

func (c *Client) GetToppings(ctx context.Context) ([]menu.Topping, error) {
	var toppings []menu.Topping
	if err := c.do(ctx, http.MethodGet, "/api/toppings", nil, &toppings, http.StatusOK); err != nil {
		return nil, fmt.Errorf("api.GetToppings: %w", err)
	}
	return toppings, nil
}

func (c *Client) GetSauces(ctx context.Context) ([]menu.Sauce, error) {
	var sauces []menu.Sauce
	if err := c.do(ctx, http.MethodGet, "/api/sauces", nil, &sauces, http.StatusOK); err != nil {
		return nil, fmt.Errorf("api.GetSauces: %w", err)
	}
	return sauces, nil
}

func (c *Client) GetCategories(ctx context.Context) ([]menu.Category, error) {
	var categories []menu.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &categories, http.StatusOK); err != nil {
		return nil, fmt.Errorf("api.GetCategories: %w", err)
	}
	return categories, nil
}

func (c *Client) SaveOrder(ctx context.Context, order checkout.Order) (checkout.Order, error) {
	var created checkout.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", order, &created, http.StatusCreated); err != nil {
		return checkout.Order{}, fmt.Errorf("api.SaveOrder: %w", err)
	}
	return created, nil
}

func (c *Client) GetOrderByID(ctx context.Context, id int64) (checkout.Order, error) {
	var order checkout.Order
	err := c.do(ctx, http.MethodGet, "/api/orders/"+strconv.FormatInt(id, 10), nil, &order, http.StatusOK)
	if err != nil {
		return checkout.Order{}, notFound(err, id)
	}
	return order, nil
}

func (c *Client) ListOrders(ctx context.Context, limit int) ([]checkout.Order, error) {
	path := "/api/orders"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}
	var orders []checkout.Order
	if err := c.do(ctx, http.MethodGet, path, nil, &orders, http.StatusOK); err != nil {
		return nil, fmt.Errorf("api.ListOrders: %w", err)
	}
	return orders, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status checkout.Status) error {
	body := map[string]checkout.Status{"status": status}
	err := c.do(ctx, http.MethodPatch, "/api/orders/"+strconv.FormatInt(id, 10)+"/status", body, nil, http.StatusOK)
	if err != nil {
		return notFound(err, id)
	}
	return nil
}

func (c *Client) GetOrderStatistics(ctx context.Context) (checkout.Statistics, error) {
	var stats checkout.Statistics
	if err := c.do(ctx, http.MethodGet, "/api/orders/stats", nil, &stats, http.StatusOK); err != nil {
		return checkout.Statistics{}, fmt.Errorf("api.GetOrderStatistics: %w", err)
	}
	return stats, nil
}

func notFound(err error, id int64) error {
	if se, ok := err.(*StatusError); ok && se.Code == http.StatusNotFound {
		return fmt.Errorf("order %d: %w", id, checkout.ErrOrderNotFound)
	}
	return fmt.Errorf("api: order %d: %w", id, err)
}
