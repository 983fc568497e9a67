// Package transport is the HTTP session behind the catalog client.
//
// It implements sfpl.Fetcher on top of resty with a public-suffix aware
// cookie jar, follows redirects while recording every URL that redirected,
// and wraps connection failures as network errors. Status codes are
// reported, not judged; the catalog client decides what a 4xx means.
package transport
