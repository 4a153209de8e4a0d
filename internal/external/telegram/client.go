package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/wonny/quantum-leap/backend/pkg/logger"
	"github.com/wonny/quantum-leap/backend/pkg/ratelimit"
)

// Client sends alert messages through the Telegram Bot API
// ⭐ SSOT: 텔레그램 발송은 이 클라이언트에서만
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger
	gate       *ratelimit.Gate
	baseURL    string
	botToken   string
	chatID     string
}

// ErrNotConfigured means bot token or chat id is missing — callers
// treat sends as no-ops in that case.
var ErrNotConfigured = errors.New("telegram: not configured")

const defaultBaseURL = "https://api.telegram.org"

// Option configures the client
type Option func(*Client)

// WithBaseURL overrides the API host (tests)
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a new Telegram client. Sends are paced through the
// gate so consecutive alerts do not trip the Bot API flood limit.
func NewClient(log *logger.Logger, botToken, chatID string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		logger:     log,
		gate:       ratelimit.NewGate("telegram", ratelimit.TelegramInterval),
		baseURL:    defaultBaseURL,
		botToken:   botToken,
		chatID:     chatID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether both credentials are present
func (c *Client) Configured() bool {
	return c.botToken != "" && c.chatID != ""
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send posts one HTML-formatted message to the configured chat
func (c *Client) Send(ctx context.Context, text string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	if err := c.gate.Wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:                c.chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("telegram: marshal failed: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("telegram: request build failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: send failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var apiResp sendMessageResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("telegram: malformed response (status %d): %w", resp.StatusCode, err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram: api error (status %d): %s", resp.StatusCode, apiResp.Description)
	}

	c.logger.WithField("chars", len(text)).Debug("Telegram message sent")
	return nil
}
