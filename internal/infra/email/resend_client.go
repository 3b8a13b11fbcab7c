// internal/infra/email/resend_client.go
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	domainEmail "compliance_notification_service/internal/domain/email"

	"github.com/sirupsen/logrus"
)

const defaultAPIBaseURL = "https://api.resend.com"

// ResendClient dispatches email through the Resend HTTP API. It implements
// the domain email.Client interface and classifies provider failures at this
// boundary: HTTP 429 becomes *email.RateLimitError, everything else a plain
// error.
type ResendClient struct {
	apiKey     string
	from       string
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewResendClient(apiKey, from string, logger *logrus.Logger) *ResendClient {
	return &ResendClient{
		apiKey:  apiKey,
		from:    from,
		baseURL: defaultAPIBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (c *ResendClient) WithBaseURL(baseURL string) *ResendClient {
	c.baseURL = baseURL
	return c
}

type sendRequest struct {
	From    string            `json:"from"`
	To      []string          `json:"to"`
	Subject string            `json:"subject"`
	HTML    string            `json:"html"`
	Text    string            `json:"text,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

type sendResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

func (c *ResendClient) Send(ctx context.Context, msg domainEmail.Message) (*domainEmail.SendResult, error) {
	payload, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
		Headers: msg.Headers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("email provider request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &domainEmail.RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("email provider returned %d: %s", resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("email provider returned %d", resp.StatusCode)
	}

	var ok sendResponse
	if err := json.Unmarshal(body, &ok); err != nil {
		return nil, fmt.Errorf("failed to decode email provider response: %w", err)
	}
	c.logger.Debugf("Email dispatched to %s (provider ID: %s)", msg.To, ok.ID)
	return &domainEmail.SendResult{ID: ok.ID}, nil
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
