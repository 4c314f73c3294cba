// Package metacapi reports leads to the Meta Conversions API. Personal fields
// are hashed before they leave the process.
package metacapi

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/qqenglishbr/lp-qqenglish/internal/leads"
)

const (
	defaultGraphAPIBase = "https://graph.facebook.com/v21.0"
	defaultHTTPTimeout  = 10 * time.Second

	// EventName is the standard event reported for every captured lead.
	EventName    = "Lead"
	actionSource = "website"
)

// Config holds the pixel credentials and event constants.
type Config struct {
	PixelID         string
	AccessToken     string
	GraphAPIBase    string
	TestEventCode   string
	ContentName     string
	ContentCategory string
}

// Client sends conversion events for one pixel.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a Conversions API client.
func NewClient(cfg Config) *Client {
	cfg.PixelID = strings.TrimSpace(cfg.PixelID)
	cfg.AccessToken = strings.TrimSpace(cfg.AccessToken)
	if cfg.GraphAPIBase == "" {
		cfg.GraphAPIBase = defaultGraphAPIBase
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// SetGraphAPIBase overrides the Graph API base URL (useful for testing).
func (c *Client) SetGraphAPIBase(base string) {
	c.cfg.GraphAPIBase = base
}

func (c *Client) Name() string { return "meta_capi" }

// Enabled reports whether both the pixel id and access token are configured.
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.PixelID != "" && c.cfg.AccessToken != ""
}

// Send reports payload as a Lead event.
func (c *Client) Send(ctx context.Context, payload *leads.Payload) error {
	_, err := c.SendEvents(ctx, []Event{c.BuildEvent(payload)})
	return err
}

// BuildEvent maps a payload to a Lead event with hashed identity fields.
func (c *Client) BuildEvent(payload *leads.Payload) Event {
	eventTime := payload.OccurredAt
	if eventTime.IsZero() {
		eventTime = time.Now()
	}

	return Event{
		EventName:      EventName,
		EventTime:      eventTime.Unix(),
		EventID:        payload.LeadID,
		EventSourceURL: payload.LandingPageURL,
		ActionSource:   actionSource,
		UserData: UserData{
			Emails:          hashedList(payload.Email),
			Phones:          hashedList(payload.PhoneFull),
			FirstNames:      hashedList(payload.FirstName),
			LastNames:       hashedList(payload.Surname),
			Countries:       hashedList(leads.CountryRegion(payload.CountryCode)),
			ClientIPAddress: payload.IPAddress,
			ClientUserAgent: payload.UserAgent,
			FBP:             payload.FBP,
			FBC:             payload.FBC,
		},
		CustomData: CustomData{
			ContentName:     c.cfg.ContentName,
			ContentCategory: c.cfg.ContentCategory,
			UTMSource:       payload.UTMSource,
			UTMMedium:       payload.UTMMedium,
			UTMCampaign:     payload.UTMCampaign,
			UTMContent:      payload.UTMContent,
			UTMTerm:         payload.UTMTerm,
		},
	}
}

// SendEvents posts events to the pixel's events endpoint.
func (c *Client) SendEvents(ctx context.Context, events []Event) (*EventsResponse, error) {
	body, err := json.Marshal(EventsRequest{
		Data:          events,
		AccessToken:   c.cfg.AccessToken,
		TestEventCode: c.cfg.TestEventCode,
	})
	if err != nil {
		return nil, fmt.Errorf("metacapi: marshal events: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/events", strings.TrimRight(c.cfg.GraphAPIBase, "/"), url.PathEscape(c.cfg.PixelID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("metacapi: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metacapi: send events: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("metacapi: read response: %w", err)
	}

	var eventsResp EventsResponse
	if err := json.Unmarshal(respBody, &eventsResp); err != nil {
		return nil, fmt.Errorf("metacapi: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	if eventsResp.Error != nil {
		return &eventsResp, fmt.Errorf("metacapi: API error %d: %s", eventsResp.Error.Code, eventsResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return &eventsResp, fmt.Errorf("metacapi: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	return &eventsResp, nil
}

// HashValue lower-cases and trims value, then returns its SHA-256 hex digest,
// the normalization Meta requires for customer information parameters.
func HashValue(value string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(value))))
	return hex.EncodeToString(sum[:])
}

func hashedList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return []string{HashValue(value)}
}
