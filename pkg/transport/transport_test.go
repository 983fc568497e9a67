package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sfplerrors "sfpl/pkg/errors"
	"sfpl/pkg/logger"
	"sfpl/pkg/sfpl"
)

func newTestTransport(t *testing.T, opts Options) (*Client, *logger.TestLogger) {
	t.Helper()
	log := logger.NewTestLogger()
	opts.Logger = log
	client, err := New(opts)
	require.NoError(t, err)
	return client, log
}

func TestFetchFollowsRedirectsAndRecordsHistory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/checkedout", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/user/login?destination=checkedout", http.StatusFound)
	})
	mux.HandleFunc("/user/login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<form class=\"loginForm\"></form>")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, _ := newTestTransport(t, Options{})
	resp, err := client.Fetch(context.Background(), &sfpl.Request{Method: http.MethodGet, URL: server.URL + "/checkedout"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.True(t, resp.Redirected())
	assert.Equal(t, []string{server.URL + "/checkedout"}, resp.History)
	assert.Equal(t, server.URL+"/user/login?destination=checkedout", resp.URL)
	assert.Contains(t, string(resp.Body), "loginForm")
}

func TestFetchWithoutRedirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))
	defer server.Close()

	client, log := newTestTransport(t, Options{})
	resp, err := client.Fetch(context.Background(), &sfpl.Request{Method: http.MethodGet, URL: server.URL + "/user_dashboard"})
	require.NoError(t, err)

	assert.False(t, resp.Redirected())
	assert.Empty(t, resp.History)
	assert.Equal(t, server.URL+"/user_dashboard", resp.URL)
	assert.True(t, log.HasMessage("HTTP request completed"))
}

func TestFetchSendsFormHeadersAndUserAgent(t *testing.T) {
	var got *http.Request
	var form url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got, form = r, r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"logged_in":true}`)
	}))
	defer server.Close()

	client, _ := newTestTransport(t, Options{UserAgent: "sfpl-test/1.0"})
	resp, err := client.Fetch(context.Background(), &sfpl.Request{
		Method:  http.MethodPost,
		URL:     server.URL + "/user/login",
		Form:    url.Values{"name": {"2122"}, "user_pin": {"1234"}},
		Headers: map[string]string{"X-Requested-With": "XMLHttpRequest"},
	})
	require.NoError(t, err)

	var reply struct {
		LoggedIn bool `json:"logged_in"`
	}
	require.NoError(t, resp.JSON(&reply))
	assert.True(t, reply.LoggedIn)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "sfpl-test/1.0", got.UserAgent())
	assert.Equal(t, "XMLHttpRequest", got.Header.Get("X-Requested-With"))
	assert.Equal(t, "2122", form.Get("name"))
	assert.Equal(t, "1234", form.Get("user_pin"))
}

func TestFetchKeepsCookies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session_id", Value: "abc", Path: "/"})
		_, _ = io.WriteString(w, `{"logged_in":true}`)
	})
	mux.HandleFunc("/user_dashboard", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session_id"); err != nil || c.Value != "abc" {
			http.Redirect(w, r, "/user/login", http.StatusFound)
			return
		}
		_, _ = io.WriteString(w, "dashboard")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, _ := newTestTransport(t, Options{})
	ctx := context.Background()

	_, err := client.Fetch(ctx, &sfpl.Request{Method: http.MethodPost, URL: server.URL + "/user/login"})
	require.NoError(t, err)

	resp, err := client.Fetch(ctx, &sfpl.Request{Method: http.MethodGet, URL: server.URL + "/user_dashboard"})
	require.NoError(t, err)
	assert.False(t, resp.Redirected())
	assert.Equal(t, "dashboard", string(resp.Body))

	cookies, err := client.Cookies(server.URL)
	require.NoError(t, err)
	require.Len(t, cookies, 1)
	assert.Equal(t, "session_id", cookies[0].Name)
}

func TestFetchReportsErrorStatusWithoutFailing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, log := newTestTransport(t, Options{})
	resp, err := client.Fetch(context.Background(), &sfpl.Request{Method: http.MethodGet, URL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
	assert.True(t, log.HasMessage("HTTP request server error"))
}

func TestFetchNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	client, log := newTestTransport(t, Options{Timeout: time.Second})
	_, err := client.Fetch(context.Background(), &sfpl.Request{Method: http.MethodGet, URL: addr})
	require.Error(t, err)
	assert.True(t, errors.Is(err, sfplerrors.ErrNetwork))
	assert.Equal(t, sfplerrors.FamilyTransport, sfplerrors.FamilyOf(err))
	assert.True(t, log.HasMessage("request failed"))
}

func TestFetchStopsRedirectLoops(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.URL.Path, http.StatusFound)
	}))
	defer server.Close()

	client, _ := newTestTransport(t, Options{MaxRedirects: 3})
	_, err := client.Fetch(context.Background(), &sfpl.Request{Method: http.MethodGet, URL: server.URL + "/loop"})
	assert.True(t, errors.Is(err, sfplerrors.ErrNetwork))
}

func TestFetchHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "late")
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client, _ := newTestTransport(t, Options{})
	_, err := client.Fetch(ctx, &sfpl.Request{Method: http.MethodGet, URL: server.URL})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
