package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/corepath-impact/storefront-client/pkg/config"
	pkgerrors "github.com/corepath-impact/storefront-client/pkg/errors"
	"github.com/corepath-impact/storefront-client/pkg/logger"
	"github.com/corepath-impact/storefront-client/pkg/metrics"
	"github.com/corepath-impact/storefront-client/pkg/types"
)

// TokenSource owns the token pair the client attaches and rotates. The
// session store satisfies it.
type TokenSource interface {
	AccessToken() string
	RefreshToken() string
	SetTokens(ctx context.Context, accessToken, refreshToken string)
	Clear(ctx context.Context)
}

// SessionExpiredHandler runs after a failed refresh has cleared the tokens.
// Navigation to a login surface is the embedder's policy, not the client's.
type SessionExpiredHandler func(ctx context.Context)

type Params struct {
	BaseURL          string
	Timeout          time.Duration
	Tokens           TokenSource
	Logger           *logger.Logger
	Metrics          *metrics.ClientMetrics
	OnSessionExpired SessionExpiredHandler
}

// Client is the authenticated JSON client for the storefront backend. Every
// request gets the stored bearer token; a 401 triggers at most one refresh
// and replay per logical request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        *logger.Logger
	metrics    *metrics.ClientMetrics
	onExpired  SessionExpiredHandler

	// Serializes concurrent refresh attempts so a burst of 401s spends a
	// single refresh token.
	refreshMu sync.Mutex
}

func NewClient(params Params) (*Client, error) {
	if params.BaseURL == "" {
		return nil, errors.New("api: base url is required")
	}
	if params.Tokens == nil {
		return nil, errors.New("api: token source is required")
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    params.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     params.Tokens,
		log:        params.Logger,
		metrics:    params.Metrics,
		onExpired:  params.OnSessionExpired,
	}, nil
}

// FromConfig builds a client from the loaded configuration.
func FromConfig(cfg config.APIConfig, tokens TokenSource, log *logger.Logger, m *metrics.ClientMetrics, onExpired SessionExpiredHandler) (*Client, error) {
	return NewClient(Params{
		BaseURL:          cfg.BaseURL,
		Timeout:          cfg.Timeout,
		Tokens:           tokens,
		Logger:           log,
		Metrics:          m,
		OnSessionExpired: onExpired,
	})
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	started := time.Now()
	err := c.dispatch(ctx, method, path, query, body, out)
	if c.metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = string(pkgerrors.CodeInternal)
			if typed := pkgerrors.As(err); typed != nil {
				outcome = string(typed.Code())
			}
		}
		c.metrics.ObserveRequest(path, outcome, time.Since(started))
	}
	return err
}

func (c *Client) dispatch(ctx context.Context, method, path string, query url.Values, body, out any) error {
	requestID := uuid.NewString()
	if c.log != nil {
		ctx = c.log.WithRequestID(ctx, requestID)
	}

	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding request body")
		}
		payload = encoded
	}

	// Refresh a token that is about to lapse before spending the request.
	if c.tokens.AccessToken() != "" && c.tokens.RefreshToken() != "" &&
		tokenNearExpiry(c.tokens.AccessToken(), time.Now()) {
		if err := c.refresh(ctx); err != nil {
			return c.sessionExpired(ctx, err)
		}
	}

	retried := false
	for {
		resp, err := c.send(ctx, method, path, query, payload, requestID)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusUnauthorized && !retried && c.tokens.RefreshToken() != "" {
			drain(resp)
			retried = true
			if err := c.refresh(ctx); err != nil {
				return c.sessionExpired(ctx, err)
			}
			continue
		}
		return c.decode(ctx, resp, path, out)
	}
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, requestID string) (*http.Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token := c.tokens.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, err,
			pkgerrors.MetadataFor(pkgerrors.CodeNetwork).PublicMessage)
	}
	return resp, nil
}

func (c *Client) decode(ctx context.Context, resp *http.Response, path string, out any) error {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err,
			pkgerrors.MetadataFor(pkgerrors.CodeNetwork).PublicMessage)
	}

	if resp.StatusCode >= 400 {
		code := pkgerrors.FromHTTPStatus(resp.StatusCode)
		message := pkgerrors.MetadataFor(code).PublicMessage
		var body types.APIErrorBody
		if json.Unmarshal(raw, &body) == nil {
			if best := body.BestMessage(); best != "" {
				message = best
			}
		}
		if c.log != nil {
			c.log.Debug(c.log.WithFields(ctx, map[string]any{
				"path":   path,
				"status": resp.StatusCode,
			}), "request failed")
		}
		return pkgerrors.New(code, message)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err,
			fmt.Sprintf("decoding response from %s", path))
	}
	return nil
}

// refresh exchanges the stored refresh token for a new pair using a bare
// request that bypasses the 401 handling above.
func (c *Client) refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	refreshToken := c.tokens.RefreshToken()
	if refreshToken == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized,
			pkgerrors.MetadataFor(pkgerrors.CodeUnauthorized).PublicMessage)
	}

	payload, err := json.Marshal(types.RefreshTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding refresh request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+EndpointAuthRefresh, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building refresh request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observeRefresh("network_error")
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err,
			pkgerrors.MetadataFor(pkgerrors.CodeNetwork).PublicMessage)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		c.observeRefresh("rejected")
		return pkgerrors.New(pkgerrors.CodeUnauthorized,
			pkgerrors.MetadataFor(pkgerrors.CodeUnauthorized).PublicMessage)
	}

	var tokens types.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		c.observeRefresh("decode_error")
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding refresh response")
	}
	if tokens.AccessToken == "" {
		c.observeRefresh("rejected")
		return pkgerrors.New(pkgerrors.CodeUnauthorized,
			pkgerrors.MetadataFor(pkgerrors.CodeUnauthorized).PublicMessage)
	}

	c.tokens.SetTokens(ctx, tokens.AccessToken, tokens.RefreshToken)
	c.observeRefresh("success")
	if c.log != nil {
		c.log.Debug(ctx, "access token refreshed")
	}
	return nil
}

// sessionExpired clears the stored session and notifies the embedder, then
// surfaces the refresh failure.
func (c *Client) sessionExpired(ctx context.Context, cause error) error {
	c.tokens.Clear(ctx)
	if c.onExpired != nil {
		c.onExpired(ctx)
	}
	if pkgerrors.IsCode(cause, pkgerrors.CodeNetwork) {
		return cause
	}
	return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, cause,
		pkgerrors.MetadataFor(pkgerrors.CodeUnauthorized).PublicMessage)
}

func (c *Client) observeRefresh(outcome string) {
	if c.metrics != nil {
		c.metrics.IncTokenRefresh(outcome)
	}
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
