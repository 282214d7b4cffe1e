// Package foursquare records visits through the Foursquare v2 API and runs
// the OAuth code flow that yields an access token.
package foursquare

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/triplog/internal/domain/model"
	"github.com/okian/triplog/pkg/logger"
)

const (
	defaultAPIBase    = "https://api.foursquare.com"
	defaultAuthBase   = "https://foursquare.com"
	defaultAPIVersion = "20240101"
	defaultTimeout    = 15 * time.Second
	maxErrorBody      = 4 << 10
	maxResponseBody   = 1 << 20
)

// Client talks to Foursquare.
type Client struct {
	httpClient   *http.Client
	apiBase      string
	authBase     string
	clientID     string
	clientSecret string
	redirectURI  string
	token        string
	version      string
	logger       logger.Logger
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		apiBase:    defaultAPIBase,
		authBase:   defaultAuthBase,
		version:    defaultAPIVersion,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("foursquare")
	}
	return c
}

type meta struct {
	Code        int    `json:"code"`
	ErrorType   string `json:"errorType"`
	ErrorDetail string `json:"errorDetail"`
}

type envelope struct {
	Meta meta `json:"meta"`
}

// RecordVisit checks in at venueID. Any failure comes back as a
// *model.CapabilityError.
func (c *Client) RecordVisit(ctx context.Context, venueID string) error {
	if c.token == "" {
		return &model.CapabilityError{VenueID: venueID, Err: ErrNoToken}
	}

	form := url.Values{}
	form.Set("venueId", venueID)
	form.Set("oauth_token", c.token)
	form.Set("v", c.version)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/v2/checkins/add", strings.NewReader(form.Encode()))
	if err != nil {
		return &model.CapabilityError{VenueID: venueID, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &model.CapabilityError{VenueID: venueID, Err: fmt.Errorf("post checkin: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			return &model.CapabilityError{VenueID: venueID, Err: fmt.Errorf("read response: %w", err)}
		}
		var env envelope
		_ = json.Unmarshal(body, &env)
		detail := env.Meta.ErrorDetail
		if detail == "" {
			detail = strings.TrimSpace(string(body))
		}
		return rejected(venueID, resp.StatusCode, env.Meta, detail)
	}

	// A 2xx is only a success once the envelope's meta agrees. An empty body
	// carries no meta and is taken as accepted.
	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		return &model.CapabilityError{VenueID: venueID, Err: fmt.Errorf("decode response: %w", err)}
	}
	if env.Meta.Code != 0 && env.Meta.Code != http.StatusOK {
		return rejected(venueID, resp.StatusCode, env.Meta, env.Meta.ErrorDetail)
	}

	c.logger.Debug(ctx, "checkin accepted", logger.String("venue_id", venueID))
	return nil
}

func rejected(venueID string, status int, m meta, detail string) error {
	return &model.CapabilityError{
		VenueID: venueID,
		Err:     fmt.Errorf("%w: status %d %s: %s", ErrRejected, status, m.ErrorType, detail),
	}
}

// AuthURL returns the page the user visits to grant access.
func (c *Client) AuthURL() (string, error) {
	if c.clientID == "" || c.redirectURI == "" {
		return "", ErrNoCredentials
	}
	q := url.Values{}
	q.Set("client_id", c.clientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", c.redirectURI)
	return c.authBase + "/oauth2/authenticate?" + q.Encode(), nil
}

// ExchangeCode trades an authorization code for an access token and keeps
// the token for later RecordVisit calls.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	if c.clientID == "" || c.clientSecret == "" || c.redirectURI == "" {
		return "", ErrNoCredentials
	}

	q := url.Values{}
	q.Set("client_id", c.clientID)
	q.Set("client_secret", c.clientSecret)
	q.Set("grant_type", "authorization_code")
	q.Set("redirect_uri", c.redirectURI)
	q.Set("code", strings.TrimSpace(code))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.authBase+"/oauth2/access_token?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		AccessToken string `json:"access_token"`
		Error       string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&out); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || out.AccessToken == "" {
		return "", fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, out.Error)
	}

	c.token = out.AccessToken
	c.logger.Info(ctx, "access token obtained")
	return out.AccessToken, nil
}

// HasToken reports whether the client can record visits.
func (c *Client) HasToken() bool { return c.token != "" }
