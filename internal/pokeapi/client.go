package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"pokedex-list-backend/config"
)

// Doer is the part of *http.Client the list source needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches pages of named resources from the upstream list API.
type Client struct {
	baseURL      string
	userAgent    string
	maxBodyBytes int64
	doer         Doer
}

// NewClient creates a list client that sends requests through doer.
func NewClient(baseURL string, doer Doer) *Client {
	return &Client{
		baseURL:      baseURL,
		userAgent:    "pokedex-list-backend",
		maxBodyBytes: 4 << 20,
		doer:         doer,
	}
}

// NewHTTPClient builds the *http.Client for the upstream API, honouring the
// configured proxy and timeout.
func NewHTTPClient(cfg *config.SourceConfig, logger *zap.Logger) *http.Client {
	transport := &http.Transport{}
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			logger.Warn("invalid proxy URL, list source will not use a proxy",
				zap.String("proxy", cfg.HTTPProxy), zap.Error(err))
		} else {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}
	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}
}

// NewFromConfig wires a Client from the source configuration.
func NewFromConfig(cfg *config.SourceConfig, logger *zap.Logger) *Client {
	c := NewClient(cfg.BaseURL, NewHTTPClient(cfg, logger))
	if cfg.UserAgent != "" {
		c.userAgent = cfg.UserAgent
	}
	if cfg.MaxBodyBytes > 0 {
		c.maxBodyBytes = cfg.MaxBodyBytes
	}
	return c
}

// ListURL builds {base}/pokemon?limit={limit}.
func (c *Client) ListURL(limit int) (string, error) {
	if limit <= 0 {
		return "", fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidRequest, limit)
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("%w: base URL %q is not absolute", ErrInvalidRequest, c.baseURL)
	}

	u := base.JoinPath("pokemon")
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchList performs one GET of the list endpoint and decodes the page.
func (c *Client) FetchList(ctx context.Context, limit int) (*ListPage, error) {
	target, err := c.ListURL(limit)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &ServerError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	if int64(len(body)) > c.maxBodyBytes {
		return nil, &DecodeError{Err: fmt.Errorf("response body exceeds %d bytes", c.maxBodyBytes)}
	}

	return Decode(body)
}

// Decode parses a list response body. A missing "results" key is an error;
// an empty array is not.
func Decode(body []byte) (*ListPage, error) {
	var env listEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("failed to unmarshal list response: %w", err)}
	}
	if env.Results == nil {
		return nil, &DecodeError{Err: errors.New(`missing "results" array`)}
	}
	return &ListPage{Results: *env.Results}, nil
}
