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

func TestResolveBranch(t *testing.T) {
	for _, name := range []string{"west portal", "WEST PORTAL", "  West Portal "} {
		b, err := ResolveBranch(name)
		require.NoError(t, err, name)
		assert.Equal(t, "WEST PORTAL BRANCH", b.Name)
		assert.Equal(t, "44563149", b.ID)
		assert.Equal(t, "0100002001", b.LocationCode)
	}
}

func TestResolveBranchFirstMatchWins(t *testing.T) {
	b, err := ResolveBranch("mission")
	require.NoError(t, err)
	assert.Equal(t, "MISSION", b.Name)

	b, err = ResolveBranch("children")
	require.NoError(t, err)
	assert.Equal(t, "CHINATOWN CHILDREN'S", b.Name)

	b, err = ResolveBranch("west")
	require.NoError(t, err)
	assert.Equal(t, "WESTERN ADDITION BRANCH", b.Name)
}

func TestResolveBranchNoMatch(t *testing.T) {
	_, err := ResolveBranch("eighhegiohi;eg")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sfplerrors.ErrNoBranchFound))
	assert.Equal(t, sfplerrors.FamilyNotFound, sfplerrors.FamilyOf(err))
	assert.NotContains(t, err.Error(), "did you mean")

	for _, blank := range []string{"", "   "} {
		_, err = ResolveBranch(blank)
		assert.True(t, errors.Is(err, sfplerrors.ErrNoBranchFound), "%q", blank)
	}
}

func TestResolveBranchSuggestsCloseName(t *testing.T) {
	_, err := ResolveBranch("presidoi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean PRESIDIO BRANCH?")
}

func TestBranchSlug(t *testing.T) {
	tests := map[string]string{
		"MAIN":                  "main-library",
		"WEST PORTAL BRANCH":    "west-portal",
		"CHINATOWN CHILDREN'S":  "chinatown-childrens",
		"NOE VALLEY":            "noe-valley",
		"BERNAL HEIGHTS BRANCH": "bernal-heights",
	}
	for name, want := range tests {
		assert.Equal(t, want, Branch{Name: name}.Slug(), name)
	}
}

func TestBranchTable(t *testing.T) {
	assert.Len(t, Branches, 31)
	seen := map[string]bool{}
	for _, b := range Branches {
		assert.False(t, seen[b.ID], "duplicate id %s", b.ID)
		seen[b.ID] = true
		assert.Len(t, b.LocationCode, 10)
	}
}

const officeHoursFixture = `
<ul class="office-hours">
  <li class="office-hours__item"><span class="office-hours__item-label">Sunday</span><span class="office-hours__item-slots">1 pm -
    5 pm</span></li>
  <li class="office-hours__item"><span class="office-hours__item-label">Monday</span><span class="office-hours__item-slots">10 am - 6 pm</span></li>
  <li class="office-hours__item"><span class="office-hours__item-label">Tuesday</span><span class="office-hours__item-slots">10 am - 8 pm</span></li>
  <li class="office-hours__item"><span class="office-hours__item-label">Wednesday</span><span class="office-hours__item-slots">10 am - 8 pm</span></li>
  <li class="office-hours__item"><span class="office-hours__item-label">Thursday</span><span class="office-hours__item-slots">10 am - 8 pm</span></li>
  <li class="office-hours__item"><span class="office-hours__item-label">Friday</span><span class="office-hours__item-slots">1 pm - 6 pm</span></li>
  <li class="office-hours__item"><span class="office-hours__item-label">Saturday</span><span class="office-hours__item-slots">Closed</span></li>
</ul>`

func TestHoursAjax(t *testing.T) {
	client, fetcher := newTestClient(t, EraAjax)
	fetcher.on(http.MethodGet, "/locations/west-portal", page(officeHoursFixture))

	b, err := ResolveBranch("west portal")
	require.NoError(t, err)

	hours, err := client.Hours(context.Background(), b)
	require.NoError(t, err)
	assert.Len(t, hours, 7)
	assert.Equal(t, "1 pm - 5 pm", hours["Sun"])
	assert.Equal(t, "Closed", hours["Sat"])
}

func TestHoursLegacy(t *testing.T) {
	client, fetcher := newTestClient(t, EraLegacy)
	fetcher.on(http.MethodGet, "/index.php?pg=0100000101", page(`
<dl>
  <dt><abbr>Sun</abbr></dt><dd>12-5</dd>
  <dt><abbr>Mon</abbr></dt><dd>10-6</dd>
  <dt><abbr>Tue</abbr></dt><dd>9-8</dd>
  <dt><abbr>Wed</abbr></dt><dd>9-8</dd>
  <dt><abbr>Thu</abbr></dt><dd>9-8</dd>
  <dt><abbr>Fri</abbr></dt><dd>12-6</dd>
  <dt><abbr>Sat</abbr></dt><dd>10-6</dd>
</dl>
<dl><dd>Phone: 555-0100</dd></dl>`))

	b, err := ResolveBranch("main")
	require.NoError(t, err)

	hours, err := client.Hours(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, Hours{
		"Sun": "12-5", "Mon": "10-6", "Tue": "9-8", "Wed": "9-8",
		"Thu": "9-8", "Fri": "12-6", "Sat": "10-6",
	}, hours)
}

func TestHoursRequiresAllWeekdays(t *testing.T) {
	client, fetcher := newTestClient(t, EraAjax)
	fetcher.on(http.MethodGet, "/locations/anza", page(`
<li class="office-hours__item"><span class="office-hours__item-label">Monday</span><span class="office-hours__item-slots">10 am - 6 pm</span></li>`))

	b, err := ResolveBranch("anza")
	require.NoError(t, err)

	_, err = client.Hours(context.Background(), b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sfplerrors.ErrMalformedPage))
	assert.Contains(t, err.Error(), "Sun")
}
