// Package sms provides an HTTP client for the external SMS gateway.
// SMS is used sparingly: only HOT tier leads trigger a text alert.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"roofline_backend/platform/config"
	"roofline_backend/platform/logger"
	"roofline_backend/platform/phone"
)

// Client talks to the SMS gateway. A nil *Client is a valid disabled
// client: every send is a silent no-op.
type Client struct {
	baseURL string
	apiKey  string
	region  string
	http    *http.Client
	log     *logger.Logger
}

type gatewayRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// NewClient builds a gateway client, or nil when no gateway is configured.
func NewClient(cfg config.SMSConfig, log *logger.Logger) *Client {
	if cfg.GetSMSGatewayURL() == "" {
		return nil
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.GetSMSGatewayURL(), "/"),
		apiKey:  cfg.GetSMSAPIKey(),
		region:  cfg.GetDefaultPhoneRegion(),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// SendMessage delivers a text message through the gateway.
func (c *Client) SendMessage(ctx context.Context, phoneNumber string, message string) error {
	if c == nil {
		return nil
	}

	normalized := phone.NormalizeE164(phoneNumber, c.region)

	payload := gatewayRequest{
		Phone:   normalized,
		Message: message,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sms payload: %w", err)
	}

	url := fmt.Sprintf("%s/send/sms", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sms request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	c.log.Info("sms sent", "phone", normalized)
	return nil
}
