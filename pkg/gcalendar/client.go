package gcalendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Client wraps the Google Calendar API service.
type Client struct {
	service *calendar.Service
}

// NewClientFromCredentialsFile creates a Calendar client from a credentials JSON file.
// tokenPath is only read for OAuth desktop credentials.
func NewClientFromCredentialsFile(ctx context.Context, credentialsPath, tokenPath string) (*Client, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return NewClientFromCredentialsJSON(ctx, data, tokenPath)
}

// NewClientFromCredentialsJSON accepts either a Service Account key or OAuth desktop app
// credentials; the latter need the token saved by OAuthConfig + SaveToken at tokenPath.
func NewClientFromCredentialsJSON(ctx context.Context, credentialsJSON []byte, tokenPath string) (*Client, error) {
	jwtConfig, err := google.JWTConfigFromJSON(credentialsJSON, calendar.CalendarEventsScope)
	if err == nil {
		return newClient(ctx, option.WithTokenSource(jwtConfig.TokenSource(ctx)))
	}

	oauthConfig, oauthErr := OAuthConfig(credentialsJSON)
	if oauthErr != nil {
		return nil, fmt.Errorf("unsupported credentials format: %w", err)
	}

	tok, err := LoadToken(tokenPath)
	if err != nil {
		return nil, err
	}
	return newClient(ctx, option.WithTokenSource(oauthConfig.TokenSource(ctx, tok)))
}

// NewClientFromHTTP creates a Calendar client from a pre-configured HTTP client.
func NewClientFromHTTP(ctx context.Context, httpClient *http.Client) (*Client, error) {
	return newClient(ctx, option.WithHTTPClient(httpClient))
}

func newClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &Client{service: svc}, nil
}

// OAuthConfig parses OAuth desktop app credentials.
func OAuthConfig(credentialsJSON []byte) (*oauth2.Config, error) {
	cfg, err := google.ConfigFromJSON(credentialsJSON, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse oauth credentials: %w", err)
	}
	return cfg, nil
}

// LoadToken reads a token written by SaveToken.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoToken, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("failed to parse token %s: %w", path, err)
	}
	return &tok, nil
}

// SaveToken writes tok to path, readable by the owner only.
func SaveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}

// PutEvent writes the event and returns it as stored. Without an EventID a new event is
// inserted. With one, the event is replaced, or created under that ID when it does not exist,
// so repeated calls for the same ID leave a single event.
func (c *Client) PutEvent(ctx context.Context, req EventRequest) (*Event, error) {
	calendarID := calendarOrDefault(req.CalendarID)
	event := &calendar.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Start: &calendar.EventDateTime{
			DateTime: req.StartTime.Format(time.RFC3339),
			TimeZone: req.Timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: req.EndTime.Format(time.RFC3339),
			TimeZone: req.Timezone,
		},
	}

	var (
		stored *calendar.Event
		err    error
	)
	if req.EventID == "" {
		stored, err = c.service.Events.Insert(calendarID, event).Context(ctx).Do()
	} else {
		// A deleted event keeps its ID as a cancelled event; updating it brings it back.
		event.Status = "confirmed"
		stored, err = c.service.Events.Update(calendarID, req.EventID, event).Context(ctx).Do()
		if isMissing(err) {
			event.Id = req.EventID
			stored, err = c.service.Events.Insert(calendarID, event).Context(ctx).Do()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write calendar event: %w", err)
	}

	return &Event{
		ID:        stored.Id,
		Summary:   stored.Summary,
		HTMLLink:  stored.HtmlLink,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}, nil
}

// DeleteEvent removes the event. An event that is already gone is not an error.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	err := c.service.Events.Delete(calendarOrDefault(calendarID), eventID).Context(ctx).Do()
	if err != nil && !isMissing(err) {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}
	return nil
}

func calendarOrDefault(id string) string {
	if id == "" {
		return DefaultCalendarID
	}
	return id
}

func isMissing(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone)
}
