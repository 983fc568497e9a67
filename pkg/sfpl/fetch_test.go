package sfpl

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"sfpl/pkg/logger"
)

const testBase = "https://catalog.test"

// fakeFetcher serves canned responses keyed by "METHOD URL" and records
// every request it sees
type fakeFetcher struct {
	responses map[string]*Response
	requests  []*Request
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{responses: make(map[string]*Response)}
}

func (f *fakeFetcher) Fetch(_ context.Context, req *Request) (*Response, error) {
	f.requests = append(f.requests, req)
	key := req.Method + " " + req.URL
	resp, ok := f.responses[key]
	if !ok {
		return &Response{Status: http.StatusNotFound, URL: req.URL}, nil
	}
	if resp.URL == "" {
		copied := *resp
		copied.URL = req.URL
		resp = &copied
	}
	return resp, nil
}

// on registers a 200 response with body for method and path
func (f *fakeFetcher) on(method, path, body string) *Response {
	resp := &Response{Status: http.StatusOK, Body: []byte(body)}
	f.responses[method+" "+testBase+path] = resp
	return resp
}

// redirect registers a response that was reached through a redirect
func (f *fakeFetcher) redirect(method, path, finalURL, body string) {
	f.responses[method+" "+testBase+path] = &Response{
		Status:  http.StatusOK,
		URL:     finalURL,
		History: []string{testBase + path},
		Body:    []byte(body),
	}
}

func (f *fakeFetcher) sent(method, path string) *Request {
	for _, req := range f.requests {
		if req.Method == method && req.URL == testBase+path {
			return req
		}
	}
	return nil
}

func (f *fakeFetcher) methods() []string {
	var seen []string
	for _, req := range f.requests {
		seen = append(seen, req.Method)
	}
	return seen
}

func newTestClient(t *testing.T, era Era) (*Client, *fakeFetcher) {
	t.Helper()
	fetcher := newFakeFetcher()
	client, err := NewClient(fetcher, Options{
		BaseURL:  testBase,
		HoursURL: testBase,
		Era:      era,
		Logger:   logger.NewTestLogger(),
	})
	require.NoError(t, err)
	return client, fetcher
}

func testAccount(c *Client) *Account {
	return &Account{User: User{Name: "reader", ID: "42"}, client: c}
}

func mustDoc(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func page(body string) string {
	return fmt.Sprintf("<html><body>%s</body></html>", body)
}

func formOf(req *Request) url.Values {
	if req == nil {
		return nil
	}
	return req.Form
}
