package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/publicsuffix"
	sfplerrors "sfpl/pkg/errors"
	"sfpl/pkg/logger"
	"sfpl/pkg/sfpl"
)

const (
	// DefaultUserAgent mimics a desktop browser; the catalog serves a
	// reduced page to unknown agents
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

	DefaultTimeout      = 30 * time.Second
	DefaultMaxRedirects = 10
)

// Options configures a Client
type Options struct {
	UserAgent    string
	Timeout      time.Duration
	MaxRedirects int
	Logger       logger.Logger
}

// Client is a cookie-keeping HTTP session implementing sfpl.Fetcher
type Client struct {
	http   *resty.Client
	jar    http.CookieJar
	logger logger.Logger
}

var _ sfpl.Fetcher = (*Client)(nil)

type historyKey struct{}

// history collects the URLs that answered a request with a redirect
type history struct {
	mu   sync.Mutex
	urls []string
}

func (h *history) add(u string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.urls = append(h.urls, u)
}

func (h *history) list() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.urls...)
}

// New creates a session with an empty cookie jar
func New(opts Options) (*Client, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = DefaultMaxRedirects
	}
	if opts.Logger == nil {
		opts.Logger = logger.GetLogger()
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	client := resty.New()
	client.SetCookieJar(jar)
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetTimeout(opts.Timeout)
	client.SetRedirectPolicy(resty.RedirectPolicyFunc(func(req *http.Request, via []*http.Request) error {
		if len(via) >= opts.MaxRedirects {
			return fmt.Errorf("stopped after %d redirects", opts.MaxRedirects)
		}
		if h, ok := req.Context().Value(historyKey{}).(*history); ok {
			h.add(via[len(via)-1].URL.String())
		}
		return nil
	}))

	return &Client{
		http:   client,
		jar:    jar,
		logger: opts.Logger.WithField("component", "transport"),
	}, nil
}

// Fetch performs one request, following redirects
func (c *Client) Fetch(ctx context.Context, req *sfpl.Request) (*sfpl.Response, error) {
	h := &history{}
	r := c.http.R().SetContext(context.WithValue(ctx, historyKey{}, h))
	if len(req.Headers) > 0 {
		r.SetHeaders(req.Headers)
	}
	if req.Form != nil {
		r.SetFormDataFromValues(req.Form)
	}

	start := time.Now()
	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		c.logger.WithError(err).WarnWithFields("request failed", map[string]interface{}{
			"method": req.Method,
			"url":    req.URL,
		})
		return nil, sfplerrors.Network(err)
	}
	logger.LogRequest(c.logger, req.Method, req.URL, resp.StatusCode(), time.Since(start))

	final := req.URL
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		final = raw.Request.URL.String()
	}

	return &sfpl.Response{
		Status:  resp.StatusCode(),
		URL:     final,
		History: h.list(),
		Body:    resp.Body(),
	}, nil
}

// Cookies returns the session cookies that would be sent to rawURL
func (c *Client) Cookies(rawURL string) ([]*http.Cookie, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	return c.jar.Cookies(u), nil
}
