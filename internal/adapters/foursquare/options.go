package foursquare

import (
	"net/http"
	"strings"
	"time"

	"github.com/okian/triplog/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithCredentials sets the OAuth application credentials.
func WithCredentials(clientID, clientSecret, redirectURI string) Option {
	return func(c *Client) {
		c.clientID = clientID
		c.clientSecret = clientSecret
		c.redirectURI = redirectURI
	}
}

// WithToken sets the access token used for check-ins.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithAPIBase overrides the API host, e.g. for tests.
func WithAPIBase(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.apiBase = strings.TrimRight(base, "/")
		}
	}
}

// WithAuthBase overrides the OAuth host.
func WithAuthBase(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.authBase = strings.TrimRight(base, "/")
		}
	}
}

// WithVersion sets the v= API version date.
func WithVersion(v string) Option {
	return func(c *Client) {
		if v != "" {
			c.version = v
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
