package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
)

const defaultBaseURL = "https://api.telegram.org"

// Responses larger than this are malformed; a getUpdates batch stays well
// under it.
const maxResponseSize = 8 * 1024 * 1024

// Client is a minimal Bot API client covering the calls the bot makes:
// sendMessage for outbound delivery and getUpdates for the long-poll
// transport. Every call is single-shot; the bot never retries a failed
// delivery.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a Client for the given bot token.
func NewClient(token string) *Client {
	return NewClientWith(nil, defaultBaseURL, token)
}

// NewClientWith creates a Client with an explicit HTTP client and base URL.
// It is used by tests to point the client at a local server. A nil
// httpClient gets a default with a timeout that outlasts a long poll.
func NewClientWith(httpClient *http.Client, baseURL, token string) *Client {
	if token == "" {
		panic("telegram.NewClientWith: token is empty")
	}
	if baseURL == "" {
		panic("telegram.NewClientWith: base URL is empty")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 90 * time.Second}
	}
	return &Client{httpClient: httpClient, baseURL: baseURL, token: token}
}

// APIError is a Bot API level failure (ok=false in the response envelope).
// Description carries the human-readable cause, e.g. "Forbidden: bot is not
// a member of the channel chat".
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram: %s: %s (code %d)", e.Method, e.Description, e.Code)
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
	ErrorCode   int             `json:"error_code"`
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type getUpdatesRequest struct {
	Offset         int64    `json:"offset,omitempty"`
	Timeout        int      `json:"timeout,omitempty"`
	AllowedUpdates []string `json:"allowed_updates,omitempty"`
}

// SendMessage pushes text to a chat. chatID may be a numeric ID or an
// "@channelname" reference.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) error {
	return c.call(ctx, "sendMessage", sendMessageRequest{ChatID: chatID, Text: text}, nil)
}

// GetUpdates long-polls the Bot API for inbound updates starting at offset.
// The call blocks server-side up to timeout when no updates are pending.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	req := getUpdatesRequest{
		Offset:         offset,
		Timeout:        int(timeout / time.Second),
		AllowedUpdates: []string{"message"},
	}
	var updates []Update
	if err := c.call(ctx, "getUpdates", req, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func (c *Client) call(ctx context.Context, method string, payload, result any) error {
	body, err := sonic.ConfigStd.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: %s: encode request: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/bot"+c.token+"/"+method, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: %s: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("telegram: %s: read response: %w", method, err)
	}
	var api apiResponse
	if err := sonic.ConfigStd.Unmarshal(data, &api); err != nil {
		return fmt.Errorf("telegram: %s: decode response: %w", method, err)
	}
	if !api.OK {
		return &APIError{Method: method, Code: api.ErrorCode, Description: api.Description}
	}
	if result != nil && len(api.Result) > 0 {
		if err := sonic.ConfigStd.Unmarshal(api.Result, result); err != nil {
			return fmt.Errorf("telegram: %s: decode result: %w", method, err)
		}
	}
	return nil
}
