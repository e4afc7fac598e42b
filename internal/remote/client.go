package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/tengjizhang/drawer/internal/model"
)

const (
	authCookieName = "auth_token"
	maxPayloadSize = 8 << 20
	maxIconSize    = 1 << 20
)

type Config struct {
	BaseURL     string
	HTTPTimeout time.Duration
	UserAgent   string
}

// Client talks to the reader API rooted at Config.BaseURL.
type Client struct {
	base   *url.URL
	cfg    Config
	client *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("server url %q must be http or https", cfg.BaseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
	}

	return &Client{
		base: base,
		cfg:  cfg,
		client: &http.Client{
			Timeout:   cfg.HTTPTimeout,
			Transport: transport,
			Jar:       jar,
		},
	}, nil
}

func (c *Client) BaseURL() string {
	return c.base.String()
}

// Subscriptions fetches the subscription tree of the session.
func (c *Client) Subscriptions(ctx context.Context, token string) (*model.Payload, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/subscription", token, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var p model.Payload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPayloadSize)).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode subscriptions: %w", err)
	}
	return &p, nil
}

// Login authenticates with username and password and returns the session
// token the server sets as the auth_token cookie.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set("remember", "true")

	req, err := c.newRequest(ctx, http.MethodPost, "/user/login", "", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return "", err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPayloadSize))

	for _, cookie := range resp.Cookies() {
		if cookie.Name == authCookieName && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	for _, cookie := range c.client.Jar.Cookies(req.URL) {
		if cookie.Name == authCookieName && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	return "", fmt.Errorf("%w: server did not return a session", ErrUnauthorized)
}

// Favicon downloads the image at path, returning its bytes and content type.
func (c *Client) Favicon(ctx context.Context, path, token string) ([]byte, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "image/*")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, "", err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxIconSize))
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	// path arrives escaped, so it is joined to the escaped base rather than to
	// base.Path
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: authCookieName, Value: token})
	}
	return req, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	err := &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(snippet))}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return err
}
