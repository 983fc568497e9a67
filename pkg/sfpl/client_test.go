package sfpl

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sfplerrors "sfpl/pkg/errors"
	"sfpl/pkg/logger"
)

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient(newFakeFetcher(), Options{Logger: logger.NewNopLogger()})
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, DefaultHoursURL, client.hoursURL)
	assert.Equal(t, EraAjax, client.Rules().Era)
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(nil, Options{})
	assert.Error(t, err)

	_, err = NewClient(newFakeFetcher(), Options{Era: "future", Logger: logger.NewNopLogger()})
	assert.Error(t, err)
}

func TestClientURL(t *testing.T) {
	client, _ := newTestClient(t, EraAjax)

	assert.Equal(t, testBase+"/checkedout", client.url("/checkedout"))
	assert.Equal(t, testBase+"/checkedout", client.url("checkedout"))
	assert.Equal(t, "https://images.test/a.png", client.url("//images.test/a.png"))
	assert.Equal(t, "http://elsewhere.test/x", client.url("http://elsewhere.test/x"))
}

func TestClientRejectsErrorStatus(t *testing.T) {
	client, fetcher := newTestClient(t, EraAjax)
	fetcher.on(http.MethodGet, "/item/show/1", "").Status = http.StatusInternalServerError

	_, err := client.Description(context.Background(), "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sfplerrors.ErrHTTPStatus))

	var e *sfplerrors.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, http.StatusInternalServerError, e.Code)
}

func TestClientLeavesRequestLoggingToFetcher(t *testing.T) {
	fetcher := newFakeFetcher()
	log := logger.NewTestLogger()
	client, err := NewClient(fetcher, Options{BaseURL: testBase, Logger: log})
	require.NoError(t, err)

	fetcher.on(http.MethodGet, "/item/show/1", page(`<div class="bib_description">x</div>`))
	_, err = client.Description(context.Background(), "1")
	require.NoError(t, err)

	assert.Empty(t, log.GetMessagesByLevel("DEBUG"))
}
