package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/setorcuan/backend/internal/infrastructure/config"
)

const (
	// DefaultFonnteBaseURL is the public Fonnte API
	DefaultFonnteBaseURL = "https://api.fonnte.com"

	maxFonnteResponseSize = 64 << 10
)

// FonnteClient calls the Fonnte WhatsApp gateway
type FonnteClient struct {
	baseURL    string
	token      string
	deviceID   string
	httpClient *http.Client
}

// FonnteOption configures a FonnteClient
type FonnteOption func(*FonnteClient)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(c *http.Client) FonnteOption {
	return func(f *FonnteClient) {
		f.httpClient = c
	}
}

// NewFonnteClient creates a client from notification config
func NewFonnteClient(cfg config.NotificationConfig, opts ...FonnteOption) *FonnteClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultFonnteBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &FonnteClient{
		baseURL:    baseURL,
		token:      cfg.Token,
		deviceID:   cfg.DeviceID,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type fonnteRequest struct {
	Target   string `json:"target"`
	Message  string `json:"message"`
	DeviceID string `json:"device_id,omitempty"`
}

type fonnteResponse struct {
	Status bool   `json:"status"`
	Reason string `json:"reason,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Send posts the message to /send. A response of {"status": true} means the
// gateway queued it. Any other answer returns false with ErrGatewayRejected.
func (c *FonnteClient) Send(ctx context.Context, destination, message string) (bool, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return false, fmt.Errorf("fonnte: empty destination")
	}

	body, err := json.Marshal(fonnteRequest{Target: destination, Message: message, DeviceID: c.deviceID})
	if err != nil {
		return false, fmt.Errorf("fonnte: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send", bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("fonnte: build request: %w", err)
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("fonnte: send: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxFonnteResponseSize))
	if err != nil {
		return false, fmt.Errorf("fonnte: read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return false, fmt.Errorf("%w: HTTP %d", ErrGatewayRejected, resp.StatusCode)
	}

	var out fonnteResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return false, fmt.Errorf("fonnte: decode response: %w", err)
	}
	if !out.Status {
		reason := out.Reason
		if reason == "" {
			reason = out.Detail
		}
		return false, fmt.Errorf("%w: %s", ErrGatewayRejected, reason)
	}
	return true, nil
}
