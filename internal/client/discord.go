package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DiscordClient posts rich notification messages to a Discord webhook.
// Messages can later be edited or deleted through the same webhook URL.
type DiscordClient interface {
	CreateMessage(ctx context.Context, content string, embed *Embed) (messageID string, err error)
	EditMessage(ctx context.Context, messageID, content string, embed *Embed) error
	DeleteMessage(ctx context.Context, messageID string) error
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedImage struct {
	URL string `json:"url"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Image       *EmbedImage  `json:"image,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

type webhookPayload struct {
	Content string  `json:"content"`
	Embeds  []Embed `json:"embeds"`
}

type discordClientImpl struct {
	httpClient *http.Client
	webhookURL string
}

// NewDiscordClient builds a client for one webhook URL. An empty URL yields
// a disabled client whose calls are no-ops, so callers never need to branch
// on configuration.
func NewDiscordClient(webhookURL string) DiscordClient {
	if webhookURL == "" {
		return noopDiscordClient{}
	}
	return &discordClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		webhookURL: webhookURL,
	}
}

func (c *discordClientImpl) CreateMessage(ctx context.Context, content string, embed *Embed) (string, error) {
	payload := webhookPayload{Content: content}
	if embed != nil {
		payload.Embeds = []Embed{*embed}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal webhook payload: %w", err)
	}

	// wait=true makes Discord return the created message so we get its ID.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL+"?wait=true", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("discord create message: status %d: %s", resp.StatusCode, text)
	}

	var res struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("decode webhook response: %w", err)
	}
	return res.ID, nil
}

func (c *discordClientImpl) EditMessage(ctx context.Context, messageID, content string, embed *Embed) error {
	payload := webhookPayload{Content: content}
	if embed != nil {
		payload.Embeds = []Embed{*embed}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.webhookURL+"/messages/"+messageID, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("discord edit message %s: status %d: %s", messageID, resp.StatusCode, text)
	}
	return nil
}

func (c *discordClientImpl) DeleteMessage(ctx context.Context, messageID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.webhookURL+"/messages/"+messageID, nil)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("discord delete message %s: status %d: %s", messageID, resp.StatusCode, text)
	}
	return nil
}

type noopDiscordClient struct{}

func (noopDiscordClient) CreateMessage(ctx context.Context, content string, embed *Embed) (string, error) {
	return "", nil
}

func (noopDiscordClient) EditMessage(ctx context.Context, messageID, content string, embed *Embed) error {
	return nil
}

func (noopDiscordClient) DeleteMessage(ctx context.Context, messageID string) error {
	return nil
}
