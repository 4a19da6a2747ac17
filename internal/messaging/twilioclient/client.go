// Package twilioclient is a minimal client for the Twilio Messages REST
// API, covering only what the booking notifier needs.
package twilioclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "https://api.twilio.com/2010-04-01"
	defaultUserAgent = "cartercar-booking-notifier/0.1"
)

// Config controls how the Twilio client behaves.
type Config struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	UserAgent  string
}

// Client wraps the Twilio Messages endpoint.
type Client struct {
	accountSID string
	authToken  string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.AccountSID) == "" || strings.TrimSpace(cfg.AuthToken) == "" {
		return nil, errors.New("twilioclient: account SID and auth token are required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
		userAgent:  userAgent,
	}, nil
}

// Message is the subset of the Twilio message resource the notifier
// cares about.
type Message struct {
	Sid    string `json:"sid"`
	Status string `json:"status"`
	To     string `json:"to"`
	From   string `json:"from"`
}

// SendMessage submits one outbound SMS. Gateway rejections (any status
// >= 300) come back as an *APIError carrying the status code and
// response body.
func (c *Client) SendMessage(ctx context.Context, from, to, body string) (*Message, error) {
	if strings.TrimSpace(to) == "" {
		return nil, errors.New("twilioclient: destination number required")
	}
	if strings.TrimSpace(body) == "" {
		return nil, errors.New("twilioclient: message body required")
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("twilioclient: build request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("twilioclient: http error: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("twilioclient: read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		c.logger.Warn("twilio send rejected", "status", resp.StatusCode, "to", to)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("twilioclient: decode response: %w", err)
	}
	return &msg, nil
}

// APIError is a non-2xx response from the Twilio API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twilioclient: http status %d - %s", e.StatusCode, e.Body)
}
