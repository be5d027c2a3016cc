package resend

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
)

const maxResponseSizeBytes = 1 << 20

type Config struct {
	APIKey      string        `split_words:"true" required:"true"`
	BaseURL     string        `split_words:"true" default:"https://api.resend.com"`
	FromEmail   string        `split_words:"true" default:"AutoStream Agent <onboarding@resend.dev>"`
	AdminEmails string        `split_words:"true" required:"true"`
	Timeout     time.Duration `split_words:"true" default:"10s"`
}

// AdminEmailList splits the comma-separated recipient list.
func (c Config) AdminEmailList() []string {
	parts := strings.Split(c.AdminEmails, ",")
	emails := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			emails = append(emails, trimmed)
		}
	}
	return emails
}

// Client is a minimal Resend REST client covering the send-email endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("resend api key is required")
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.resend.com"
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Send posts one email. A non-2xx status is returned as an error with the
// response body attached.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.From) == "" {
		return errors.New("message sender is required")
	}
	if len(msg.To) == 0 {
		return errors.New("message has no recipients")
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute email request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return fmt.Errorf("read email response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var parsed sendResponse
		if json.Unmarshal(raw, &parsed) == nil && parsed.Message != "" {
			return fmt.Errorf("resend http status=%d: %s", resp.StatusCode, parsed.Message)
		}
		return fmt.Errorf("resend http status=%d body=%s", resp.StatusCode, string(raw))
	}

	return nil
}
