// Package greencheck asks whether a website is hosted on green energy.
//
// The check is an outside collaborator of the footprint engine: callers get a
// Result with StatusUnknown when the lookup fails, never an error.
package greencheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the Green Web Foundation API.
const DefaultBaseURL = "https://api.thegreenwebfoundation.org"

// DefaultTimeout bounds one lookup including reading the body.
const DefaultTimeout = 10 * time.Second

// maxBodyBytes caps the response size read from the API.
const maxBodyBytes = 1 << 20

// Status is the outcome of a green hosting check.
type Status string

const (
	StatusGreen    Status = "green"
	StatusNotGreen Status = "not_green"
	StatusUnknown  Status = "unknown"
)

// HostedByUnknown is reported when the provider is not known.
const HostedByUnknown = "unknown"

// Result is the outcome for one host.
type Result struct {
	Host     string `json:"host"`
	Status   Status `json:"status"`
	HostedBy string `json:"hosted_by"`

	// Err describes why Status is unknown.
	Err string `json:"error,omitempty"`
}

// Checker looks up the green hosting status of a host.
type Checker interface {
	Check(ctx context.Context, host string) Result
}

// ErrEmptyHost is returned by NormalizeHost for blank input.
var ErrEmptyHost = errors.New("empty host")

// NormalizeHost reduces a URL or host name to a lowercase host without scheme, port or path.
func NormalizeHost(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyHost
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid host: %w", err)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", ErrEmptyHost
	}
	return host, nil
}

// apiResponse is the subset of the greencheck payload we use.
type apiResponse struct {
	URL      string `json:"url"`
	Green    bool   `json:"green"`
	HostedBy string `json:"hosted_by"`
}

// Client queries the Green Web Foundation greencheck API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another server, e.g. an httptest server.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout. The HTTP client is copied first,
// so a client passed to WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// NewClient creates a greencheck client.
func NewClient(logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger.With().Str("component", "greencheck").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check looks up host. Any failure yields StatusUnknown with Err set.
func (c *Client) Check(ctx context.Context, host string) Result {
	normalized, err := NormalizeHost(host)
	if err != nil {
		return unknown(host, err)
	}

	resp, err := c.fetch(ctx, normalized)
	if err != nil {
		c.logger.Warn().Err(err).Str("host", normalized).Msg("green hosting check failed")
		return unknown(normalized, err)
	}

	res := Result{Host: normalized, Status: StatusNotGreen, HostedBy: resp.HostedBy}
	if resp.Green {
		res.Status = StatusGreen
	}
	if res.HostedBy == "" {
		res.HostedBy = HostedByUnknown
	}
	c.logger.Debug().Str("host", normalized).Str("status", string(res.Status)).Str("hosted_by", res.HostedBy).Msg("green hosting check")
	return res
}

func (c *Client) fetch(ctx context.Context, host string) (apiResponse, error) {
	endpoint := fmt.Sprintf("%s/api/v3/greencheck/%s", c.baseURL, url.PathEscape(host))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apiResponse{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apiResponse{}, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return apiResponse{}, fmt.Errorf("bad status: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return apiResponse{}, err
	}

	var out apiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return apiResponse{}, fmt.Errorf("failed to decode greencheck response: %w", err)
	}
	return out, nil
}

func unknown(host string, err error) Result {
	return Result{Host: host, Status: StatusUnknown, HostedBy: HostedByUnknown, Err: err.Error()}
}

// Static answers from a fixed table keyed by normalized host. Missing hosts are unknown.
type Static map[string]Result

// Check implements Checker.
func (s Static) Check(_ context.Context, host string) Result {
	normalized, err := NormalizeHost(host)
	if err != nil {
		return unknown(host, err)
	}
	if r, ok := s[normalized]; ok {
		r.Host = normalized
		return r
	}
	return Result{Host: normalized, Status: StatusUnknown, HostedBy: HostedByUnknown}
}
