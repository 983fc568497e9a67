package sfpl

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	sfplerrors "sfpl/pkg/errors"
)

// LookupUser finds a user by exact name. The site's user search redirects
// straight to the profile when the name matches.
func (c *Client) LookupUser(ctx context.Context, name string) (User, error) {
	resp, err := c.get(ctx, c.url("/search?t=user&search_category=user&q="+url.QueryEscape(name)), nil)
	if err != nil {
		return User{}, err
	}

	profile := regexp.MustCompile("^" + regexp.QuoteMeta(c.baseURL) + `/.+/(\d+)`)
	m := profile.FindStringSubmatch(resp.URL)
	if m == nil {
		return User{}, sfplerrors.NoUserFound(name)
	}
	return User{Name: name, ID: m[1]}, nil
}

// Following lists the users u follows
func (c *Client) Following(ctx context.Context, u User) ([]User, error) {
	return c.userCards(ctx, fmt.Sprintf("/user_profile/%s/following", u.ID))
}

// Followers lists the users following u
func (c *Client) Followers(ctx context.Context, u User) ([]User, error) {
	return c.userCards(ctx, fmt.Sprintf("/user_profile/%s/followers", u.ID))
}

func (c *Client) userCards(ctx context.Context, path string) ([]User, error) {
	doc, _, err := c.getDocument(ctx, c.url(path))
	if err != nil {
		return nil, err
	}

	var users []User
	doc.Find(".col-xs-12.col-md-4").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		link := card.Find("a").First()
		href, _ := link.Attr("href")
		id := userIDFromHref(href)
		if id == "" {
			err = sfplerrors.MalformedPage("user card link %q has no user id", href)
			return false
		}
		users = append(users, User{Name: strings.TrimSpace(link.Text()), ID: id})
		return true
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Lists returns the lists u has created
func (c *Client) Lists(ctx context.Context, u User) ([]List, error) {
	doc, _, err := c.getDocument(ctx, c.url("/lists/show/"+u.ID))
	if err != nil {
		return nil, err
	}

	owner := Owner{Name: u.Name, User: &User{Name: u.Name, ID: u.ID}}
	var lists []List
	doc.Find("tbody tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		link := row.Find("a").First()
		href, ok := link.Attr("href")
		if cells.Length() < 4 || !ok {
			err = sfplerrors.MalformedPage("list row %d has %d cells", i, cells.Length())
			return false
		}

		count, convErr := strconv.Atoi(strings.TrimSpace(cells.Eq(3).Text()))
		if convErr != nil {
			err = sfplerrors.MalformedPage("list row %d item count: %v", i, convErr)
			return false
		}

		lists = append(lists, List{
			ID:        lastSegment(href),
			Type:      strings.TrimSpace(cells.Eq(1).Text()),
			Title:     strings.TrimSpace(link.Text()),
			Owner:     owner,
			CreatedOn: strings.TrimSpace(cells.Eq(2).Text()),
			ItemCount: count,
		})
		return true
	})
	if err != nil {
		return nil, err
	}
	return lists, nil
}

// Shelf lists one of u's shelves. Shelves are public for public profiles.
func (c *Client) Shelf(ctx context.Context, u User, shelf Shelf) ([]Book, error) {
	path, ok := c.rules.ShelfPaths[shelf]
	if !ok {
		return nil, fmt.Errorf("sfpl: unknown shelf %q", shelf)
	}
	doc, _, err := c.getDocument(ctx, c.url(fmt.Sprintf(path, u.ID)))
	if err != nil {
		return nil, err
	}
	return c.rules.ParseListing(doc, ListingShelf)
}

// ListBooks returns the items on a list. Lists whose owner profile is
// private cannot be addressed and fail with NoUserFound.
func (c *Client) ListBooks(ctx context.Context, l List) ([]Book, error) {
	if l.Owner.User == nil {
		return nil, sfplerrors.NoUserFound(l.Owner.Name)
	}
	owner := l.Owner.User

	path := fmt.Sprintf("/list/share/%s_%s/%s", owner.ID, url.PathEscape(owner.Name), l.ID)
	doc, _, err := c.getDocument(ctx, c.url(path))
	if err != nil {
		return nil, err
	}

	var books []Book
	doc.Find(".listItem.bg_white.col-xs-12").EachWithBreak(func(i int, item *goquery.Selection) bool {
		href, _ := item.Find("a").First().Attr("href")
		id := digitsOnly(href)
		if id == "" {
			err = sfplerrors.MalformedPage("list item %d has no item link", i)
			return false
		}

		book := Book{ID: id, Title: strings.TrimSpace(item.Find(".list_item_title").First().Text())}
		if author := item.Find(`[testid="author_search"]`).First(); author.Length() > 0 {
			book.Author = strPtr(strings.TrimSpace(author.Text()))
		}
		if subtitle := item.Find(".list_item_subtitle").First(); subtitle.Length() > 0 {
			book.Subtitle = strPtr(strings.TrimSpace(subtitle.Text()))
		}
		books = append(books, book)
		return true
	})
	if err != nil {
		return nil, err
	}
	return books, nil
}
