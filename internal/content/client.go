package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/corepath-impact/storefront-client/pkg/config"
	pkgerrors "github.com/corepath-impact/storefront-client/pkg/errors"
	"github.com/corepath-impact/storefront-client/pkg/logger"
	"github.com/corepath-impact/storefront-client/pkg/types"
)

// Readers never see content platform internals. Every failure surfaces this
// one message; the cause stays on the wrapped error for logs.
const msgContentUnavailable = "Failed to fetch blog content"

// PostListOptions narrows a post listing.
type PostListOptions struct {
	Page       int
	PerPage    int
	Search     string
	CategoryID int64
	TagID      int64
}

func (o PostListOptions) values() url.Values {
	query := url.Values{}
	query.Set("_embed", "1")
	if o.Page > 0 {
		query.Set("page", strconv.Itoa(o.Page))
	}
	if o.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(o.PerPage))
	}
	if o.Search != "" {
		query.Set("search", o.Search)
	}
	if o.CategoryID > 0 {
		query.Set("categories", strconv.FormatInt(o.CategoryID, 10))
	}
	if o.TagID > 0 {
		query.Set("tags", strconv.FormatInt(o.TagID, 10))
	}
	return query
}

// Client reads published posts from the content platform. The platform is
// unauthenticated and read-only from the storefront's point of view.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

type Params struct {
	BaseURL string
	Timeout time.Duration
	Logger  *logger.Logger
}

func NewClient(params Params) (*Client, error) {
	if params.BaseURL == "" {
		return nil, fmt.Errorf("content: base url is required")
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    params.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        params.Logger,
	}, nil
}

// FromConfig builds a client from the loaded configuration.
func FromConfig(cfg config.ContentAPIConfig, log *logger.Logger) (*Client, error) {
	return NewClient(Params{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout, Logger: log})
}

// Posts lists published posts with their embedded media and authors.
func (c *Client) Posts(ctx context.Context, opts PostListOptions) ([]types.BlogPost, error) {
	var posts []types.BlogPost
	if err := c.get(ctx, "/posts", opts.values(), &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Post resolves a single post by slug.
func (c *Client) Post(ctx context.Context, slug string) (*types.BlogPost, error) {
	query := url.Values{}
	query.Set("slug", slug)
	query.Set("_embed", "1")

	var posts []types.BlogPost
	if err := c.get(ctx, "/posts", query, &posts); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgContentUnavailable)
	}
	return &posts[0], nil
}

// Categories lists non-empty post categories.
func (c *Client) Categories(ctx context.Context) ([]types.BlogCategory, error) {
	query := url.Values{}
	query.Set("per_page", "100")
	query.Set("hide_empty", "true")

	var categories []types.BlogCategory
	if err := c.get(ctx, "/categories", query, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Tags lists non-empty post tags.
func (c *Client) Tags(ctx context.Context) ([]types.BlogTag, error) {
	query := url.Values{}
	query.Set("per_page", "100")
	query.Set("hide_empty", "true")

	var tags []types.BlogTag
	if err := c.get(ctx, "/tags", query, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return c.unavailable(ctx, path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.unavailable(ctx, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.unavailable(ctx, path, err)
	}
	if resp.StatusCode >= 400 {
		return c.unavailable(ctx, path, fmt.Errorf("content platform returned %d", resp.StatusCode))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return c.unavailable(ctx, path, err)
	}
	return nil
}

func (c *Client) unavailable(ctx context.Context, path string, cause error) error {
	if c.log != nil {
		c.log.WarnErr(c.log.WithFields(ctx, map[string]any{"path": path}),
			"content platform request failed", cause)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, cause, msgContentUnavailable)
}
