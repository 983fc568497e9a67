package sfpl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Request is a single HTTP exchange the core asks its transport to perform
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Form    url.Values
}

// Response is what the transport hands back.
// URL is the final URL after redirects and History lists every URL that
// answered with a redirect on the way there.
type Response struct {
	Status  int
	URL     string
	History []string
	Body    []byte
}

// Redirected reports whether any redirect was followed
func (r *Response) Redirected() bool {
	return len(r.History) > 0
}

// JSON decodes the body into v
func (r *Response) JSON(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding JSON from %s: %w", r.URL, err)
	}
	return nil
}

// Fetcher performs HTTP requests against a persistent cookie session.
// Implementations must follow redirects and report them in Response.History.
type Fetcher interface {
	Fetch(ctx context.Context, req *Request) (*Response, error)
}

// ajaxHeaders are sent with every replayed XHR call
func ajaxHeaders(extra map[string]string) map[string]string {
	h := map[string]string{
		"X-Requested-With": "XMLHttpRequest",
		"Accept":           "application/json",
	}
	for k, v := range extra {
		h[k] = v
	}
	return h
}

// actionReply is the JSON envelope returned by the site's AJAX endpoints
type actionReply struct {
	LoggedIn bool   `json:"logged_in"`
	Success  bool   `json:"success"`
	HTML     string `json:"html"`
	Messages []struct {
		Key string `json:"key"`
	} `json:"messages"`
}

func (a *actionReply) messageKey() string {
	if len(a.Messages) == 0 {
		return ""
	}
	return a.Messages[0].Key
}
