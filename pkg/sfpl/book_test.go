package sfpl

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sfplerrors "sfpl/pkg/errors"
)

func TestDescription(t *testing.T) {
	client, fetcher := newTestClient(t, EraAjax)
	fetcher.on(http.MethodGet, "/item/show/111093", page(itemPageFixture))

	desc, err := client.Description(context.Background(), "111093")
	require.NoError(t, err)
	assert.Equal(t, "A young wizard learns the true names of things.", desc)
}

func TestDescriptionMissing(t *testing.T) {
	client, fetcher := newTestClient(t, EraAjax)
	fetcher.on(http.MethodGet, "/item/show/1", page(""))

	_, err := client.Description(context.Background(), "1")
	assert.True(t, errors.Is(err, sfplerrors.ErrMalformedPage))
}

func TestDetails(t *testing.T) {
	client, fetcher := newTestClient(t, EraAjax)
	fetcher.on(http.MethodGet, "/item/show/111093", page(`
<div class="dataPair"><span class="label">Publisher:</span><span class="value">  Houghton
   Mifflin  </span></div>
<div class="dataPair"><span class="label">ISBN:</span><span class="value">9780547773742 0547773749</span></div>
<div class="dataPair"><span class="label">Additional Contributors:</span><span class="value">
  Vess, Charles
  Le Guin, Ursula K.
</span></div>`))

	details, err := client.Details(context.Background(), "111093")
	require.NoError(t, err)
	assert.Equal(t, []Detail{
		{Label: "Publisher", Values: []string{"Houghton Mifflin"}},
		{Label: "ISBN", Values: []string{"9780547773742", "0547773749"}},
		{Label: "Additional Contributors", Values: []string{"Vess, Charles", "Le Guin, Ursula K."}},
	}, details)
}

func TestKeywords(t *testing.T) {
	client, fetcher := newTestClient(t, EraAjax)
	fetcher.on(http.MethodGet, "/item/show/111093?active_tab=bib_info", page(`
<div class="dataPair clearfix contents"><span class="value">The Shadow<br>Tombs of Atuan<br><em>The Farthest Shore</em></span></div>`))
	fetcher.on(http.MethodGet, "/item/show/2?active_tab=bib_info", page(""))

	keywords, err := client.Keywords(context.Background(), "111093")
	require.NoError(t, err)
	assert.Equal(t, []string{"The Shadow", "Tombs of Atuan", "The Farthest Shore"}, keywords)

	keywords, err = client.Keywords(context.Background(), "2")
	require.NoError(t, err)
	assert.NotNil(t, keywords)
	assert.Empty(t, keywords)
}

func TestJacket(t *testing.T) {
	client, fetcher := newTestClient(t, EraAjax)
	fetcher.on(http.MethodGet, "/item/show/111093", page(itemPageFixture))
	fetcher.responses[http.MethodGet+" https://images.test/jackets/111.jpg"] = &Response{Status: http.StatusOK, Body: []byte("JPEGDATA")}

	jacket, err := client.Jacket(context.Background(), "111093")
	require.NoError(t, err)
	assert.Equal(t, "https://images.test/jackets/111.jpg", jacket.URL)
	assert.Equal(t, []byte("JPEGDATA"), jacket.Data)
	assert.Equal(t, ".jpg", jacket.Ext())

	assert.Equal(t, ".png", (&Jacket{URL: "https://images.test/cover?id=1"}).Ext())
}
