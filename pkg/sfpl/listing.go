package sfpl

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	sfplerrors "sfpl/pkg/errors"
)

// ParseListing extracts the books of a checkouts, holds or shelf page.
// Items are returned in page order.
func (rs *RuleSet) ParseListing(doc *goquery.Document, kind ListingKind) ([]Book, error) {
	rules, ok := rs.Listings[kind]
	if !ok {
		return nil, fmt.Errorf("sfpl: no %s listing rules for era %s", kind, rs.Era)
	}

	var (
		books []Book
		err   error
	)
	doc.Find(rules.Item).EachWithBreak(func(i int, item *goquery.Selection) bool {
		var book Book
		if book, err = rules.parseItem(item, rs.Markers); err != nil {
			err = fmt.Errorf("%s item %d: %w", kind, i, err)
			return false
		}
		books = append(books, book)
		return true
	})
	if err != nil {
		return nil, err
	}
	return books, nil
}

func (l ListingRules) parseItem(item *goquery.Selection, markers StatusMarkers) (Book, error) {
	var book Book
	for _, rule := range l.fields {
		value, ok, err := rule.extract(item)
		if err != nil {
			return Book{}, err
		}
		if ok {
			rule.apply(&book, value)
		}
	}

	if l.status != nil {
		status, err := l.status(item, markers)
		if err != nil {
			return Book{}, err
		}
		book.Status = status
	}
	return book, nil
}

// checkoutStatus prefers the second of two "out" markers as the due date,
// then an overdue marker, then a coming-due marker
func checkoutStatus(item *goquery.Selection, m StatusMarkers) (*string, error) {
	if out := item.Find(m.CheckoutOut); out.Length() == 2 {
		due := strings.TrimSpace(strings.ReplaceAll(out.Eq(1).Text(), "\u00a0", ""))
		return strPtr("Due " + due), nil
	}
	for _, selector := range []string{m.CheckoutOverdue, m.CheckoutComingDue} {
		if sel := item.Find(selector).First(); sel.Length() > 0 {
			return strPtr(strings.TrimSpace(sel.Text())), nil
		}
	}
	return nil, sfplerrors.MalformedPage("checkout has no recognizable status marker")
}

// holdStatus requires exactly one of the in-transit, pickup-date and
// queue-position markers
func holdStatus(item *goquery.Selection, m StatusMarkers) (*string, error) {
	inTransit := item.Find(m.HoldInTransit)
	pickup := item.Find(m.HoldPickupDate)
	position := item.Find(m.HoldPosition)

	matched := 0
	for _, sel := range []*goquery.Selection{inTransit, pickup, position} {
		if sel.Length() > 0 {
			matched++
		}
	}
	if matched != 1 {
		return nil, sfplerrors.MalformedPage("hold matched %d status markers, want exactly 1", matched)
	}

	switch {
	case inTransit.Length() > 0:
		location := item.Find(m.HoldLocation).First()
		if location.Length() == 0 {
			return nil, sfplerrors.MalformedPage("in-transit hold has no pickup location")
		}
		// drop the "Pickup location:" label without touching the document
		location = location.Clone()
		location.Find("span").First().Remove()
		return strPtr("In Transit to " + strings.TrimSpace(location.Text())), nil
	case pickup.Length() > 0:
		return strPtr(strings.TrimSpace(pickup.First().Text())), nil
	default:
		return strPtr(strings.TrimSpace(position.First().Text())), nil
	}
}
