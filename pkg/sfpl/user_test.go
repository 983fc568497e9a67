package sfpl

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sfplerrors "sfpl/pkg/errors"
)

func TestLookupUser(t *testing.T) {
	client, fetcher := newTestClient(t, EraAjax)
	fetcher.redirect(http.MethodGet, "/search?t=user&search_category=user&q=book+worm",
		testBase+"/user_profile/555", page(""))

	u, err := client.LookupUser(context.Background(), "book worm")
	require.NoError(t, err)
	assert.Equal(t, User{Name: "book worm", ID: "555"}, u)
}

func TestLookupUserNoMatch(t *testing.T) {
	client, fetcher := newTestClient(t, EraAjax)
	fetcher.on(http.MethodGet, "/search?t=user&search_category=user&q=nobody", page(`<p>No users found</p>`))

	_, err := client.LookupUser(context.Background(), "nobody")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sfplerrors.ErrNoUserFound))
	assert.Contains(t, err.Error(), "nobody")
}

func TestFollowingAndFollowers(t *testing.T) {
	client, fetcher := newTestClient(t, EraAjax)
	cards := page(`
<div class="col-xs-12 col-md-4"><a href="/user_profile/1">alice</a></div>
<div class="col-xs-12 col-md-4"><a href="https://catalog.test/user_profile/2">bob</a></div>`)
	fetcher.on(http.MethodGet, "/user_profile/555/following", cards)
	fetcher.on(http.MethodGet, "/user_profile/555/followers", page(""))

	u := User{Name: "bookworm", ID: "555"}
	following, err := client.Following(context.Background(), u)
	require.NoError(t, err)
	if diff := cmp.Diff([]User{{Name: "alice", ID: "1"}, {Name: "bob", ID: "2"}}, following); diff != "" {
		t.Errorf("following mismatch (-want +got):\n%s", diff)
	}

	followers, err := client.Followers(context.Background(), u)
	require.NoError(t, err)
	assert.Empty(t, followers)
}

func TestUserLists(t *testing.T) {
	client, fetcher := newTestClient(t, EraAjax)
	fetcher.on(http.MethodGet, "/lists/show/555", page(`
<table><tbody>
  <tr><td><a href="/list/share/555_bookworm/9001">Space Opera</a></td><td> Topic </td><td> Jan 02, 2020 </td><td>14</td></tr>
  <tr><td><a href="/list/share/555_bookworm/9003">Cozy</a></td><td>Guide</td><td>Mar 01, 2022</td><td> 2 </td></tr>
</tbody></table>`))

	u := User{Name: "bookworm", ID: "555"}
	lists, err := client.Lists(context.Background(), u)
	require.NoError(t, err)
	require.Len(t, lists, 2)

	assert.Equal(t, List{
		ID:        "9001",
		Type:      "Topic",
		Title:     "Space Opera",
		Owner:     Owner{Name: "bookworm", User: &u},
		CreatedOn: "Jan 02, 2020",
		ItemCount: 14,
	}, lists[0])
	assert.Equal(t, 2, lists[1].ItemCount)
}

func TestUserListsMalformedRow(t *testing.T) {
	client, fetcher := newTestClient(t, EraAjax)
	fetcher.on(http.MethodGet, "/lists/show/555", page(`<table><tbody><tr><td><a href="/list/share/555_x/1">x</a></td></tr></tbody></table>`))

	_, err := client.Lists(context.Background(), User{ID: "555"})
	assert.True(t, errors.Is(err, sfplerrors.ErrMalformedPage))
}

func TestUserShelf(t *testing.T) {
	client, fetcher := newTestClient(t, EraAjax)
	fetcher.on(http.MethodGet, "/collection/555/my/library/in_progress", page(`
<div class="listItem clearfix"><a testid="bib_link" href="/v2/record/S93C42">Dune</a></div>`))

	books, err := client.Shelf(context.Background(), User{ID: "555"}, ShelfInProgress)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "42093", books[0].ID)

	_, err = client.Shelf(context.Background(), User{ID: "555"}, Shelf("read_someday"))
	assert.Error(t, err)
}

func TestParseShelfName(t *testing.T) {
	s, err := ParseShelf("completed")
	require.NoError(t, err)
	assert.Equal(t, ShelfCompleted, s)

	_, err = ParseShelf("done")
	assert.Error(t, err)
}

func TestListBooks(t *testing.T) {
	client, fetcher := newTestClient(t, EraAjax)
	fetcher.on(http.MethodGet, "/list/share/555_bookworm/9001", page(`
<div class="listItem bg_white col-xs-12">
  <a href="/item/show/6223776093"><span class="list_item_title"> The Left Hand of Darkness </span></a>
  <a testid="author_search">Le Guin, Ursula K.</a>
</div>
<div class="listItem bg_white col-xs-12">
  <a href="/item/show/42093"><span class="list_item_title">Dune</span></a>
  <span class="list_item_subtitle"> Deluxe Edition </span>
</div>`))

	owner := &User{Name: "bookworm", ID: "555"}
	books, err := client.ListBooks(context.Background(), List{ID: "9001", Owner: Owner{Name: owner.Name, User: owner}})
	require.NoError(t, err)

	want := []Book{
		{ID: "6223776093", Title: "The Left Hand of Darkness", Author: strPtr("Le Guin, Ursula K.")},
		{ID: "42093", Title: "Dune", Subtitle: strPtr("Deluxe Edition")},
	}
	if diff := cmp.Diff(want, books, allFields); diff != "" {
		t.Errorf("list books mismatch (-want +got):\n%s", diff)
	}
}

func TestListBooksPrivateOwner(t *testing.T) {
	client, fetcher := newTestClient(t, EraAjax)

	_, err := client.ListBooks(context.Background(), List{ID: "9002", Owner: Owner{Name: "hidden reader"}})
	assert.True(t, errors.Is(err, sfplerrors.ErrNoUserFound))
	assert.Empty(t, fetcher.requests)
}
