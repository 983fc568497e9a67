package sfpl

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	sfplerrors "sfpl/pkg/errors"
)

// Account is a logged-in patron. It embeds the patron's public profile
// and carries the client whose cookie session holds the login.
type Account struct {
	User
	client *Client
}

// Login authenticates with a library card barcode and PIN and resolves
// the account's identity from the dashboard.
func (c *Client) Login(ctx context.Context, barcode, pin string) (*Account, error) {
	form := url.Values{"name": {barcode}, "user_pin": {pin}}
	log := c.logger.WithField("operation", "login")

	switch c.rules.Login {
	case LoginJSON:
		resp, err := c.post(ctx, c.url(c.rules.LoginPath), form, ajaxHeaders(nil))
		if err != nil {
			return nil, err
		}
		var reply actionReply
		if err := resp.JSON(&reply); err != nil {
			return nil, sfplerrors.MalformedPage("login reply: %v", err)
		}
		if !reply.LoggedIn {
			log.WarnWithFields("login rejected", map[string]interface{}{"key": reply.messageKey()})
			return nil, sfplerrors.Login(reply.messageKey())
		}
	case LoginRedirect:
		resp, err := c.post(ctx, c.url(c.rules.LoginPath), form, nil)
		if err != nil {
			return nil, err
		}
		// a successful form login redirects away from the login page
		if !resp.Redirected() || strings.Contains(resp.URL, c.rules.LoginPath) {
			log.Warn("login form was not accepted")
			return nil, sfplerrors.Login("")
		}
	default:
		return nil, fmt.Errorf("sfpl: unsupported login style %d", c.rules.Login)
	}

	account, err := c.Identity(ctx)
	if err != nil {
		return nil, err
	}
	log.InfoWithFields("logged in", map[string]interface{}{"user_id": account.ID})
	return account, nil
}

// Identity resolves the account bound to the client's current session.
// It fails with NotLoggedIn when the session is anonymous.
func (c *Client) Identity(ctx context.Context) (*Account, error) {
	doc, err := c.getAuthedDocument(ctx, c.url(c.rules.DashboardPath))
	if err != nil {
		return nil, err
	}

	card := doc.Find(".cp_user_card").First()
	name, hasName := card.Attr("data-name")
	id, hasID := card.Attr("data-id")
	if !hasName || !hasID {
		return nil, sfplerrors.MalformedPage("dashboard has no user card")
	}
	return &Account{User: User{Name: name, ID: id}, client: c}, nil
}

// IsLoggedIn reports whether the session still reaches the dashboard
// without being redirected
func (a *Account) IsLoggedIn(ctx context.Context) (bool, error) {
	resp, err := a.client.get(ctx, a.client.url(a.client.rules.DashboardPath), nil)
	if err != nil {
		return false, err
	}
	return !resp.Redirected(), nil
}

// Logout ends the session. The site's reply carries no outcome.
func (a *Account) Logout(ctx context.Context) error {
	_, err := a.client.get(ctx, a.client.url("/user/logout"), nil)
	return err
}

// Checkouts lists the items currently checked out, with their due dates
func (a *Account) Checkouts(ctx context.Context) ([]Book, error) {
	return a.listing(ctx, a.client.rules.CheckoutsPath, ListingCheckouts)
}

// Holds lists the items on hold, with their queue position or pickup state
func (a *Account) Holds(ctx context.Context) ([]Book, error) {
	return a.listing(ctx, a.client.rules.HoldsPath, ListingHolds)
}

// Shelf lists one of the account's own shelves
func (a *Account) Shelf(ctx context.Context, shelf Shelf) ([]Book, error) {
	return a.client.Shelf(ctx, a.User, shelf)
}

func (a *Account) listing(ctx context.Context, path string, kind ListingKind) ([]Book, error) {
	doc, err := a.client.getAuthedDocument(ctx, a.client.url(path))
	if err != nil {
		return nil, err
	}
	return a.client.rules.ParseListing(doc, kind)
}
