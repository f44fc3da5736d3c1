package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// allowedUpdates is every update type the bot handles.
var allowedUpdates = []string{"message", "callback_query"}

const (
	requestTimeout = 90 * time.Second
	// pollGrace is how long a getUpdates request may outlive its long-poll timeout.
	pollGrace = 15 * time.Second
)

// Bot is the Telegram Bot API client.
type Bot struct {
	token      string
	apiURL     string
	httpClient *http.Client
}

// NewBot creates a new Telegram Bot client with the given token.
func NewBot(token string) *Bot {
	return &Bot{
		token:      token,
		apiURL:     fmt.Sprintf("https://api.telegram.org/bot%s", token),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// SetAPIURL overrides the default Telegram API URL for testing purposes.
func (b *Bot) SetAPIURL(url string) {
	b.apiURL = url
}

// SetWebhook registers the webhook URL with Telegram. A non-empty secret is echoed
// back by Telegram in SecretTokenHeader.
func (b *Bot) SetWebhook(ctx context.Context, webhookURL, secretToken string) error {
	return b.call(ctx, "setWebhook", SetWebhookRequest{
		URL:            webhookURL,
		SecretToken:    secretToken,
		AllowedUpdates: allowedUpdates,
	}, nil)
}

// DeleteWebhook switches the bot back to getUpdates delivery.
func (b *Bot) DeleteWebhook(ctx context.Context) error {
	return b.call(ctx, "deleteWebhook", map[string]bool{"drop_pending_updates": false}, nil)
}

// SendMessage sends a plain text message to a Telegram chat.
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) error {
	return b.SendMessageWithMode(ctx, chatID, text, "")
}

// SendMessageWithMode sends a message with optional parse mode (e.g. "Markdown").
func (b *Bot) SendMessageWithMode(ctx context.Context, chatID int64, text string, parseMode string) error {
	_, err := b.Send(ctx, SendMessageRequest{ChatID: chatID, Text: text, ParseMode: parseMode})
	return err
}

// Send delivers a fully specified message and returns it as stored by Telegram.
func (b *Bot) Send(ctx context.Context, req SendMessageRequest) (Message, error) {
	var msg Message
	if err := b.call(ctx, "sendMessage", req, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

// EditMessageText replaces the text (and inline keyboard) of a sent message.
func (b *Bot) EditMessageText(ctx context.Context, req EditMessageTextRequest) error {
	return b.call(ctx, "editMessageText", req, nil)
}

// AnswerCallbackQuery stops the button spinner on the client.
func (b *Bot) AnswerCallbackQuery(ctx context.Context, callbackQueryID, text string) error {
	return b.call(ctx, "answerCallbackQuery", AnswerCallbackQueryRequest{
		CallbackQueryID: callbackQueryID,
		Text:            text,
	}, nil)
}

// GetUpdates long-polls for updates with id >= offset, waiting up to timeout.
func (b *Bot) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	var updates []Update
	err := b.callWith(ctx, b.pollClient(timeout), "getUpdates", GetUpdatesRequest{
		Offset:         offset,
		Timeout:        int(timeout / time.Second),
		AllowedUpdates: allowedUpdates,
	}, &updates)
	if err != nil {
		return nil, err
	}
	return updates, nil
}

// pollClient returns a client whose timeout outlasts a long poll of the given length.
func (b *Bot) pollClient(timeout time.Duration) *http.Client {
	limit := timeout + pollGrace
	if b.httpClient.Timeout == 0 || b.httpClient.Timeout >= limit {
		return b.httpClient
	}
	c := *b.httpClient
	c.Timeout = limit
	return &c
}

// call posts payload to method and decodes the result into out when out is non-nil.
func (b *Bot) call(ctx context.Context, method string, payload any, out any) error {
	return b.callWith(ctx, b.httpClient, method, payload, out)
}

func (b *Bot) callWith(ctx context.Context, client *http.Client, method string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/%s", b.apiURL, method), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return fmt.Errorf("telegram %s API error %d: %s", method, resp.StatusCode, string(raw))
	}
	if !apiResp.OK {
		return &APIError{Method: method, Code: apiResp.ErrorCode, Description: apiResp.Description}
	}

	if out != nil && len(apiResp.Result) > 0 {
		if err := json.Unmarshal(apiResp.Result, out); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}
	return nil
}
