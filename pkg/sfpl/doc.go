// Package sfpl scrapes the San Francisco Public Library's bibliocommons catalog.
//
// This package includes:
//   - Login and identity resolution for a patron session
//   - Listing extraction for checkouts, holds and shelves
//   - A lazy paginator over book, list and advanced searches
//   - Branch resolution and opening hours
//   - Hold, cancel, renew, follow and unfollow actions
//
// The package never talks HTTP itself. Every request goes through a
// Fetcher, which owns the cookie session (see package transport).
// Markup differences between generations of the site live in a RuleSet
// picked by Era.
//
// Example usage:
//
//	client, err := sfpl.NewClient(transport.New(transport.Options{}), sfpl.Options{})
//	if err != nil {
//	    return err
//	}
//
//	account, err := client.Login(ctx, barcode, pin)
//	if err != nil {
//	    if errors.Is(err, sfplerrors.ErrLogin) {
//	        // Handle rejected credentials
//	    }
//	    return err
//	}
//
//	search, _ := sfpl.NewSearch("earthsea", "title")
//	pages := client.Search(search, 2)
//	for pages.Next(ctx) {
//	    for _, book := range pages.Page().Books {
//	        fmt.Println(book)
//	    }
//	}
//	if err := pages.Err(); err != nil {
//	    return err
//	}
package sfpl
