package sfpl

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	sfplerrors "sfpl/pkg/errors"
)

// Hold places a hold on a book for pickup at branch
func (a *Account) Hold(ctx context.Context, book Book, branch Branch) error {
	c := a.client
	doc, _, err := c.getDocument(ctx, c.url("/item/show/"+book.ID))
	if err != nil {
		return err
	}
	token, err := inputValue(doc.Selection, "authenticity_token")
	if err != nil {
		return err
	}

	resp, err := c.post(ctx, c.url("/holds/place_single_click_hold/"+book.ID), url.Values{
		"authenticity_token": {token},
		"bib":                {book.ID},
		"branch":             {branch.ID},
	}, ajaxHeaders(nil))
	if err != nil {
		return err
	}

	if err := a.checkReply(resp, true, sfplerrors.Hold); err != nil {
		return err
	}
	c.logger.InfoWithFields("hold placed", map[string]interface{}{"book": book.ID, "branch": branch.Name})
	return nil
}

// CancelHold cancels the hold whose title matches book.Title exactly.
// Nothing is sent when the book is not among the account's holds.
func (a *Account) CancelHold(ctx context.Context, book Book) error {
	c := a.client
	doc, err := c.getAuthedDocument(ctx, c.url(c.rules.HoldsPath))
	if err != nil {
		return err
	}

	item := findItem(doc, c.rules.Listings[ListingHolds].Item, `[testid="bib_link"]`, book.Title)
	if item == nil {
		return sfplerrors.NotOnHold(book.Title)
	}

	action, ok := item.Find(".single_circ_action").First().Attr("href")
	if !ok {
		return sfplerrors.MalformedPage("hold %q has no cancel action", book.Title)
	}
	token, err := inputValue(doc.Selection, "authenticity_token")
	if err != nil {
		return err
	}

	resp, err := c.post(ctx, c.url("/holds/delete.json"), url.Values{
		"authenticity_token":  {token},
		"confirm_hold_delete": {"True"},
		"items[]":             {segment(action, 3)},
		"bib_status":          {"future"},
		"is_private":          {"True"},
	}, map[string]string{"X-Requested-With": "XMLHttpRequest"})
	if err != nil {
		return err
	}

	if err := a.checkReply(resp, false, nil); err != nil {
		return err
	}
	c.logger.InfoWithFields("hold cancelled", map[string]interface{}{"title": book.Title})
	return nil
}

// Renew renews the checkout whose title matches book.Title exactly.
// Nothing is sent when the book is not checked out.
func (a *Account) Renew(ctx context.Context, book Book) error {
	c := a.client
	checkoutsURL := c.url(c.rules.CheckoutsPath)
	doc, err := c.getAuthedDocument(ctx, checkoutsURL)
	if err != nil {
		return err
	}

	item := findItem(doc, c.rules.Listings[ListingCheckouts].Item, ".title.title_extended", book.Title)
	if item == nil {
		return sfplerrors.NotCheckedOut(book.Title)
	}

	action, ok := item.Find(".single_circ_action").First().Attr("href")
	if !ok {
		return sfplerrors.MalformedPage("checkout %q has no renew action", book.Title)
	}
	pageToken, err := inputValue(doc.Selection, "authenticity_token")
	if err != nil {
		return err
	}

	// the renew action first returns a confirmation form carrying the real token
	confirmResp, err := c.get(ctx, c.url(action), map[string]string{"X-CSRF-Token": pageToken})
	if err != nil {
		return err
	}
	var confirmation actionReply
	if err := confirmResp.JSON(&confirmation); err != nil {
		return sfplerrors.MalformedPage("renew confirmation: %v", err)
	}
	if !confirmation.LoggedIn {
		return sfplerrors.NotLoggedIn()
	}

	form, err := goquery.NewDocumentFromReader(strings.NewReader(confirmation.HTML))
	if err != nil {
		return fmt.Errorf("parsing renew confirmation: %w", err)
	}
	token, err := inputValue(form.Selection, "authenticity_token")
	if err != nil {
		return err
	}
	itemID, ok := form.Find("input#items_").First().Attr("value")
	if !ok {
		return sfplerrors.MalformedPage("renew confirmation has no item id")
	}

	resp, err := c.post(ctx, c.url("/checkedout/renew"), url.Values{
		"authenticity_token": {token},
		"items[]":            {itemID},
	}, ajaxHeaders(map[string]string{"Referer": checkoutsURL}))
	if err != nil {
		return err
	}

	if err := a.checkReply(resp, true, sfplerrors.Renew); err != nil {
		return err
	}
	c.logger.InfoWithFields("checkout renewed", map[string]interface{}{"title": book.Title})
	return nil
}

// Follow follows another user
func (a *Account) Follow(ctx context.Context, other User) error {
	return a.setFollow(ctx, other, "follow")
}

// Unfollow stops following another user
func (a *Account) Unfollow(ctx context.Context, other User) error {
	return a.setFollow(ctx, other, "unfollow")
}

func (a *Account) setFollow(ctx context.Context, other User, action string) error {
	c := a.client
	doc, _, err := c.getDocument(ctx, c.url("/user_profile/"+other.ID))
	if err != nil {
		return err
	}
	token, ok := doc.Find(`meta[name="csrf-token"]`).First().Attr("content")
	if !ok {
		return sfplerrors.MalformedPage("profile of %s has no csrf token", other.Name)
	}

	target := c.url(fmt.Sprintf("/user_profile/%s?type=%s&value=%s", a.ID, action, url.QueryEscape(other.ID)))
	resp, err := c.do(ctx, &Request{
		Method: http.MethodPut,
		URL:    target,
		Headers: map[string]string{
			"X-Requested-With": "XMLHttpRequest",
			"X-CSRF-Token":     token,
		},
	})
	if err != nil {
		return err
	}

	if err := a.checkReply(resp, false, nil); err != nil {
		return err
	}
	c.logger.InfoWithFields("profile "+action+"ed", map[string]interface{}{"user": other.ID})
	return nil
}

// checkReply interprets an action's JSON reply. A logged-out reply always
// fails with NotLoggedIn; when checkSuccess is set an unsuccessful reply
// fails with denied(key).
func (a *Account) checkReply(resp *Response, checkSuccess bool, denied func(string) *sfplerrors.Error) error {
	var reply actionReply
	if err := resp.JSON(&reply); err != nil {
		return sfplerrors.MalformedPage("action reply: %v", err)
	}
	if !reply.LoggedIn {
		return sfplerrors.NotLoggedIn()
	}
	if checkSuccess && !reply.Success {
		a.client.logger.WarnWithFields("action denied", map[string]interface{}{"url": resp.URL, "key": reply.messageKey()})
		return denied(reply.messageKey())
	}
	return nil
}

// findItem returns the first listing item whose title node text equals title
func findItem(doc *goquery.Document, itemSelector, titleSelector, title string) *goquery.Selection {
	want := strings.TrimSpace(title)
	var found *goquery.Selection
	doc.Find(itemSelector).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if strings.TrimSpace(item.Find(titleSelector).First().Text()) == want {
			found = item
			return false
		}
		return true
	})
	return found
}

// inputValue reads the value of the first input with the given name
func inputValue(sel *goquery.Selection, name string) (string, error) {
	value, ok := sel.Find(fmt.Sprintf(`input[name="%s"]`, name)).First().Attr("value")
	if !ok {
		return "", sfplerrors.MalformedPage("page has no %s field", name)
	}
	return value, nil
}
