package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	types "refund-relay/internal/common/type"
)

const DefaultBaseURL = "https://api.telegram.org"

// maxResponseBytes caps how much of a Bot API reply is read.
const maxResponseBytes = 1 << 20

type Config struct {
	BaseURL   string
	ParseMode string
}

// Client talks to the Telegram Bot API. It is stateless apart from the
// shared http.Client; credentials travel with each call.
type Client struct {
	http      *http.Client
	baseURL   string
	parseMode string
}

func NewClient(httpClient *http.Client, cfg *Config) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if cfg == nil {
		cfg = &Config{}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:      httpClient,
		baseURL:   baseURL,
		parseMode: cfg.ParseMode,
	}
}

// SendMessage posts a text message ("send-text" shape).
func (c *Client) SendMessage(ctx context.Context, token, chatID, text string) (*Result, error) {
	form := url.Values{}
	form.Set("chat_id", chatID)
	form.Set("text", text)
	if c.parseMode != "" {
		form.Set("parse_mode", c.parseMode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(token, "sendMessage"), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

// SendPhoto uploads photo with caption as multipart ("send-media" shape).
func (c *Client) SendPhoto(ctx context.Context, token, chatID, caption string, photo *types.BufferedFile) (*Result, error) {
	if !photo.HasContent() {
		return nil, fmt.Errorf("sendPhoto: empty photo")
	}

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	fields := [][2]string{
		{"chat_id", chatID},
		{"caption", caption},
	}
	if c.parseMode != "" {
		fields = append(fields, [2]string{"parse_mode", c.parseMode})
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("write field %s: %w", f[0], err)
		}
	}

	name := photo.OriginalName
	if name == "" {
		name = "photo"
	}
	part, err := mw.CreateFormFile("photo", name)
	if err != nil {
		return nil, fmt.Errorf("create photo part: %w", err)
	}
	if _, err := part.Write(photo.Buffer); err != nil {
		return nil, fmt.Errorf("write photo part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(token, "sendPhoto"), body)
	if err != nil {
		return nil, fmt.Errorf("build sendPhoto request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.do(req)
}

func (c *Client) endpoint(token, method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, token, method)
}

// do executes req and decodes the Bot API envelope. A decoded reply with
// ok=false becomes an *APIError; anything that prevents reading a reply is
// returned as is so callers can tell transport faults from rejections.
func (c *Client) do(req *http.Request) (*Result, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, scrubToken(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var out Result
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode response (HTTP %d): %w", resp.StatusCode, err)
	}

	if !out.OK {
		return &out, &APIError{
			StatusCode:  resp.StatusCode,
			ErrorCode:   out.ErrorCode,
			Description: out.Description,
		}
	}

	return &out, nil
}

// scrubToken strips the request URL from *url.Error so bot tokens never end
// up in logs or API responses.
func scrubToken(err error) error {
	if uerr, ok := err.(*url.Error); ok {
		return fmt.Errorf("%s: %w", strings.ToLower(uerr.Op), uerr.Err)
	}
	return err
}
