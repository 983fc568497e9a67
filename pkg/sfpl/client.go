package sfpl

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	sfplerrors "sfpl/pkg/errors"
	"sfpl/pkg/logger"
)

const (
	// DefaultBaseURL is the bibliocommons catalog of the San Francisco Public Library
	DefaultBaseURL = "https://sfpl.bibliocommons.com"

	// DefaultHoursURL hosts the branch location pages
	DefaultHoursURL = "https://sfpl.org"
)

// Options configures a Client
type Options struct {
	BaseURL  string
	HoursURL string
	Era      Era
	Logger   logger.Logger
}

// Client talks to the catalog through a Fetcher. It owns the fetcher's
// cookie session and is meant for a single caller at a time.
type Client struct {
	fetcher  Fetcher
	rules    *RuleSet
	baseURL  string
	hoursURL string
	logger   logger.Logger
}

// NewClient creates a catalog client
func NewClient(fetcher Fetcher, opts Options) (*Client, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("sfpl: fetcher is required")
	}
	if opts.Logger == nil {
		opts.Logger = logger.GetLogger()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.HoursURL == "" {
		opts.HoursURL = DefaultHoursURL
	}
	if opts.Era == "" {
		opts.Era = EraAjax
	}

	rules, err := RulesFor(opts.Era)
	if err != nil {
		return nil, err
	}

	return &Client{
		fetcher:  fetcher,
		rules:    rules,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		hoursURL: strings.TrimRight(opts.HoursURL, "/"),
		logger:   opts.Logger.WithField("era", string(opts.Era)),
	}, nil
}

// Rules returns the extraction rule set the client was built with
func (c *Client) Rules() *RuleSet {
	return c.rules
}

// url joins a site path onto the base URL. Absolute URLs pass through.
func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if strings.HasPrefix(path, "//") {
		return "https:" + path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// do sends a request and rejects error statuses. The fetcher logs the exchange.
func (c *Client) do(ctx context.Context, req *Request) (*Response, error) {
	resp, err := c.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
	}

	if resp.Status >= http.StatusBadRequest {
		return nil, sfplerrors.HTTPStatus(resp.Status, req.URL)
	}
	return resp, nil
}

func (c *Client) get(ctx context.Context, rawURL string, headers map[string]string) (*Response, error) {
	return c.do(ctx, &Request{Method: http.MethodGet, URL: rawURL, Headers: headers})
}

func (c *Client) post(ctx context.Context, rawURL string, form url.Values, headers map[string]string) (*Response, error) {
	return c.do(ctx, &Request{Method: http.MethodPost, URL: rawURL, Form: form, Headers: headers})
}

// getDocument fetches a page and parses it
func (c *Client) getDocument(ctx context.Context, rawURL string) (*goquery.Document, *Response, error) {
	resp, err := c.get(ctx, rawURL, nil)
	if err != nil {
		return nil, nil, err
	}
	doc, err := parseHTML(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return doc, resp, nil
}

// getAuthedDocument is getDocument for pages that redirect anonymous sessions away
func (c *Client) getAuthedDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	doc, resp, err := c.getDocument(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if resp.Redirected() {
		return nil, sfplerrors.NotLoggedIn()
	}
	return doc, nil
}

func parseHTML(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}
