package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/teryaq/coldtrack/pkg/log"
	"github.com/teryaq/coldtrack/pkg/types"
)

// DefaultTimeout bounds every backend call; a timeout is treated like
// any other transport failure by the callers.
const DefaultTimeout = 7 * time.Second

// Config holds backend connection settings
type Config struct {
	BaseURL string
	// Token is sent as a bearer token on authenticated endpoints.
	Token   string
	Timeout time.Duration
}

// Client talks to the delivery backend's REST API
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  zerolog.Logger
}

// StatusError is returned for non-2xx backend responses
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Body)
}

// New creates a backend client
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend base URL is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
		logger:  log.WithComponent("client"),
	}, nil
}

// getJSON performs an authenticated GET and decodes the response body
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("path", path).Msg("backend request failed")
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// liveResponse mirrors GET /iot/live/{orderId}. Any field may be
// absent; absent fields decode to nil and must not clear the caller's
// cached values.
type liveResponse struct {
	GPS *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"gps"`
	Temperature *struct {
		Value float64 `json:"value"`
	} `json:"temperature"`
	AllowedRange *struct {
		MinTemp float64 `json:"min_temp"`
		MaxTemp float64 `json:"max_temp"`
	} `json:"allowed_range"`
}

// LiveTelemetry fetches the live GPS/temperature snapshot for an order.
// Only the fields present in the payload are set on the result.
func (c *Client) LiveTelemetry(ctx context.Context, orderID string) (*types.TelemetrySnapshot, error) {
	var payload liveResponse
	if err := c.getJSON(ctx, "/iot/live/"+url.PathEscape(orderID), &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch live telemetry: %w", err)
	}

	snapshot := &types.TelemetrySnapshot{FetchedAt: time.Now()}
	if payload.GPS != nil {
		snapshot.DriverPosition = &types.GeoPoint{Lat: payload.GPS.Lat, Lon: payload.GPS.Lon}
	}
	if payload.Temperature != nil {
		v := payload.Temperature.Value
		snapshot.TemperatureC = &v
	}
	if payload.AllowedRange != nil {
		snapshot.AllowedRange = &types.TemperatureRange{
			MinC: payload.AllowedRange.MinTemp,
			MaxC: payload.AllowedRange.MaxTemp,
		}
	}
	return snapshot, nil
}

type stabilityResponse struct {
	MaxTimeExertionSeconds *int64   `json:"max_time_exertion_seconds"`
	MaxExcursionTemp       *float64 `json:"max_excursion_temp"`
}

// StabilityConfig fetches the cold-chain budget for an order. An
// error (including a missing budget field) means the remaining
// stability must be reported as unavailable, not zero.
func (c *Client) StabilityConfig(ctx context.Context, orderID string) (*types.StabilityConfig, error) {
	var payload stabilityResponse
	if err := c.getJSON(ctx, "/stability/config/"+url.PathEscape(orderID), &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch stability config: %w", err)
	}
	if payload.MaxTimeExertionSeconds == nil {
		return nil, fmt.Errorf("stability config has no budget for order %s", orderID)
	}

	return &types.StabilityConfig{
		MaxExcursionSeconds: *payload.MaxTimeExertionSeconds,
		MaxExcursionTempC:   payload.MaxExcursionTemp,
	}, nil
}

// notificationResponse tolerates the backend's three historical field
// names for the body text.
type notificationResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Message     string `json:"message"`
	Text        string `json:"text"`
	Level       string `json:"level"`
}

// Notifications fetches the order-scoped alert list for a patient.
func (c *Client) Notifications(ctx context.Context, nationalID, orderID string) ([]types.NotificationItem, error) {
	path := fmt.Sprintf("/patient/%s/notifications?order_id=%s",
		url.PathEscape(nationalID), url.QueryEscape(orderID))

	var payload []notificationResponse
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	items := make([]types.NotificationItem, 0, len(payload))
	for _, n := range payload {
		text := n.Description
		if text == "" {
			text = n.Message
		}
		if text == "" {
			text = n.Text
		}
		items = append(items, types.NotificationItem{
			Title: n.Title,
			Text:  text,
			Level: notificationLevel(n.Level),
		})
	}
	return items, nil
}

func notificationLevel(level string) types.NotificationLevel {
	switch types.NotificationLevel(level) {
	case types.NotificationLevelSuccess, types.NotificationLevelWarning, types.NotificationLevelDanger:
		return types.NotificationLevel(level)
	default:
		return types.NotificationLevelWarning
	}
}
