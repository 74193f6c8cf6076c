package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// DefaultTimeout is the default per-request HTTP timeout.
const DefaultTimeout = 30 * time.Second

// Client provides access to the Jira REST API. The configuration, including
// credentials and the resolved API version, is immutable after construction,
// so a single Client is safe for concurrent use. The client imposes no
// concurrency limit of its own; bounding parallelism is the caller's job.
type Client struct {
	cfg        *Config
	httpClient *http.Client
	baseURL    string
	apiVersion APIVersion
	log        zerolog.Logger

	tokenSource oauth2.TokenSource

	// Resource services.
	Issues   *IssuesService
	Projects *ProjectsService
	Users    *UsersService
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client, replacing the one the client
// would otherwise build from Config.HTTP.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger enables request logging. Without it the client is silent.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// WithTokenSource supplies an oauth2 token source for oauth auth, for
// callers that manage token refresh themselves. It stands in for a static
// Config.Auth.Token.
func WithTokenSource(ts oauth2.TokenSource) ClientOption {
	return func(c *Client) {
		c.tokenSource = ts
	}
}

// NewClient creates a new Jira client from the given configuration.
func NewClient(cfg *Config, opts ...ClientOption) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	c := &Client{
		cfg:     cfg,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		log:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if validateErr := cfg.validate(c.tokenSource != nil); validateErr != nil {
		return nil, validateErr
	}

	c.apiVersion = cfg.GetAPIVersion()

	if c.httpClient == nil {
		c.httpClient = c.buildHTTPClient()
	}

	c.Issues = &IssuesService{client: c}
	c.Projects = &ProjectsService{client: c}
	c.Users = &UsersService{client: c}

	return c, nil
}

// buildHTTPClient constructs the transport from Config.HTTP. For oauth auth
// the token source is woven into the transport so every request carries a
// fresh bearer token.
func (c *Client) buildHTTPClient() *http.Client {
	timeout := c.cfg.HTTP.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	base := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:    c.cfg.HTTP.MaxIdleConns,
			IdleConnTimeout: c.cfg.HTTP.IdleConnTimeout,
		},
	}

	if c.cfg.Auth.Type == AuthOAuth {
		ts := c.tokenSource
		if ts == nil {
			ts = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.cfg.Auth.Token})
		}
		octx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		oc := oauth2.NewClient(octx, ts)
		oc.Timeout = timeout
		return oc
	}

	return base
}

// APIVersionInUse returns the API version the client builds paths with.
func (c *Client) APIVersionInUse() APIVersion {
	return c.apiVersion
}

// apiPath returns the full API path for the given endpoint.
func (c *Client) apiPath(endpoint string) string {
	return fmt.Sprintf("/rest/api/%s%s", c.apiVersion, endpoint)
}

// addOptions encodes opts into the query string of path. A nil opts (or nil
// pointer) leaves the path unchanged.
func addOptions(path string, opts any) (string, error) {
	if opts == nil {
		return path, nil
	}
	v := reflect.ValueOf(opts)
	if v.Kind() == reflect.Ptr && v.IsNil() {
		return path, nil
	}

	u, parseErr := url.Parse(path)
	if parseErr != nil {
		return path, parseErr
	}

	qs, encodeErr := query.Values(opts)
	if encodeErr != nil {
		return path, encodeErr
	}

	existing := u.Query()
	for k, vs := range qs {
		for _, val := range vs {
			existing.Add(k, val)
		}
	}
	u.RawQuery = existing.Encode()

	return u.String(), nil
}

// get performs a GET request with optional query options and decodes the
// response into out.
func (c *Client) get(ctx context.Context, path string, opts, out any) error {
	withQuery, err := addOptions(path, opts)
	if err != nil {
		return newTransportError(err, path)
	}
	return c.do(ctx, http.MethodGet, withQuery, nil, out)
}

// post performs a POST request with a JSON body and decodes the response
// into out.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// put performs a PUT request with a JSON body and decodes the response
// into out.
func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// delete performs a DELETE request.
func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do issues one request and funnels every failure path through the error
// normalizer. No raw transport error ever reaches the caller.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	start := time.Now()

	req, reqErr := c.newRequest(ctx, method, path, body)
	if reqErr != nil {
		return newTransportError(reqErr, path)
	}

	resp, respErr := c.httpClient.Do(req)
	if respErr != nil {
		return newTransportError(respErr, path)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("jira api call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp, path)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if decodeErr := json.NewDecoder(resp.Body).Decode(out); decodeErr != nil {
		return newTransportError(fmt.Errorf("decode response: %w", decodeErr), path)
	}

	return nil
}

// newRequest builds an authenticated JSON request.
func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, marshalErr := json.Marshal(body)
		if marshalErr != nil {
			return nil, fmt.Errorf("marshal body: %w", marshalErr)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, reqErr := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if reqErr != nil {
		return nil, fmt.Errorf("create request: %w", reqErr)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if authErr := c.setAuth(req); authErr != nil {
		return nil, authErr
	}

	return req, nil
}

// setAuth sets the Authorization header for the resolved auth mode. OAuth is
// absent here on purpose: its transport injects the header itself.
func (c *Client) setAuth(req *http.Request) error {
	switch c.cfg.Auth.Type {
	case AuthAPIToken:
		credentials := c.cfg.Auth.Email + ":" + c.cfg.Auth.Token
		encoded := base64.StdEncoding.EncodeToString([]byte(credentials))
		req.Header.Set("Authorization", "Basic "+encoded)

	case AuthPAT:
		req.Header.Set("Authorization", "Bearer "+c.cfg.Auth.Token)

	case AuthConnect:
		token, signErr := c.connectJWT(req)
		if signErr != nil {
			return fmt.Errorf("sign connect jwt: %w", signErr)
		}
		req.Header.Set("Authorization", "JWT "+token)
	}

	return nil
}
