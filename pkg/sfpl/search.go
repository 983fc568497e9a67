package sfpl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	sfplerrors "sfpl/pkg/errors"
)

// SearchType is the catalog field a simple search runs against
type SearchType string

const (
	SearchKeyword SearchType = "keyword"
	SearchTitle   SearchType = "title"
	SearchAuthor  SearchType = "author"
	SearchSubject SearchType = "subject"
	SearchTag     SearchType = "tag"
	// SearchList searches user-created lists instead of books
	SearchList SearchType = "list"
	// SearchAdvanced runs a compiled boolean query, see AdvancedSearch
	SearchAdvanced SearchType = "bl"
)

// SearchTypes are the types accepted by NewSearch
var SearchTypes = []SearchType{SearchKeyword, SearchTitle, SearchAuthor, SearchSubject, SearchTag, SearchList}

const (
	bookPageSize = 10
	listPageSize = 25
)

var (
	bookTotalPattern = regexp.MustCompile(`[\d,]+ to [\d,]+ of ([\d,]+) results`)
	listTotalPattern = regexp.MustCompile(`[\d,]+ - [\d,]+ of ([\d,]+) items`)
)

// Search is a validated query
type Search struct {
	Term string     `json:"term"`
	Type SearchType `json:"type"`
}

// NewSearch validates the search type. Types are case-insensitive.
func NewSearch(term, searchType string) (*Search, error) {
	t := SearchType(strings.ToLower(strings.TrimSpace(searchType)))
	if t == "" {
		t = SearchKeyword
	}
	for _, valid := range SearchTypes {
		if t == valid {
			return &Search{Term: term, Type: t}, nil
		}
	}

	names := make([]string, len(SearchTypes))
	for i, valid := range SearchTypes {
		names[i] = string(valid)
	}
	return nil, sfplerrors.InvalidSearchType(string(t), names)
}

// NewAdvancedSearch compiles filters into a boolean query, see AdvancedSearch
func NewAdvancedSearch(exclusive bool, filters ...Filter) (*Search, error) {
	query, err := AdvancedSearch(exclusive, filters...)
	if err != nil {
		return nil, err
	}
	return &Search{Term: query, Type: SearchAdvanced}, nil
}

func (s *Search) String() string {
	return fmt.Sprintf("%s search for %q", s.Type, s.Term)
}

// IsList reports whether the search yields lists rather than books
func (s *Search) IsList() bool {
	return s.Type == SearchList
}

func (s *Search) pageSize() int {
	if s.IsList() {
		return listPageSize
	}
	return bookPageSize
}

func (s *Search) pagePath(page int) string {
	if s.IsList() {
		return fmt.Sprintf("/search?page=%d&q=%s&search_category=userlist&t=userlist", page, url.QueryEscape(s.Term))
	}
	return fmt.Sprintf("/v2/search?pagination_page=%d&query=%s&searchType=%s", page, url.QueryEscape(s.Term), s.Type)
}

// Page is one page of search results. Only one of Books and Lists is set.
type Page struct {
	Number int `json:"number"`
	// Pages is the page count implied by Total
	Pages int    `json:"pages"`
	Total int    `json:"total"`
	Books []Book `json:"books,omitempty"`
	Lists []List `json:"lists,omitempty"`
}

// Len returns the number of results on the page
func (p Page) Len() int {
	return len(p.Books) + len(p.Lists)
}

// Paginator walks the pages of a search one request at a time:
//
//	p := client.Search(search, 0)
//	for p.Next(ctx) {
//		page := p.Page()
//	}
//	if err := p.Err(); err != nil { ... }
//
// A Paginator cannot be restarted; calling Search again starts from page 1.
type Paginator struct {
	client   *Client
	search   *Search
	maxPages int

	page    int
	current Page
	err     error
	done    bool
}

// Search returns a paginator over the results of s. maxPages caps the
// number of pages fetched; 0 fetches until the results run out.
func (c *Client) Search(s *Search, maxPages int) *Paginator {
	return &Paginator{client: c, search: s, maxPages: maxPages}
}

// Next fetches the next page. It returns false when the results are
// exhausted, the page cap is reached, or a fetch failed.
func (p *Paginator) Next(ctx context.Context) bool {
	if p.done {
		return false
	}
	if p.maxPages > 0 && p.page >= p.maxPages {
		p.done = true
		return false
	}
	// the last page already told us how many there are
	if p.page > 0 && p.page >= p.current.Pages {
		p.done = true
		return false
	}

	p.page++
	page, ok, err := p.client.searchPage(ctx, p.search, p.page)
	if err != nil {
		p.err = err
		p.done = true
		return false
	}
	if !ok {
		p.done = true
		return false
	}
	p.current = page
	return true
}

// Page returns the page fetched by the last successful Next
func (p *Paginator) Page() Page {
	return p.current
}

// Err returns the error that stopped iteration, if any
func (p *Paginator) Err() error {
	return p.err
}

// All drains the paginator
func (p *Paginator) All(ctx context.Context) ([]Page, error) {
	var pages []Page
	for p.Next(ctx) {
		pages = append(pages, p.Page())
	}
	return pages, p.Err()
}

// searchPage fetches and parses one page. ok is false past the last page.
//
// A page past the last one is recognised by its "N results" marker: a total
// of zero, or a page number beyond ceil(total / page size). A page with no
// marker and no items is the empty result set. A page with items but no
// marker, or a page inside the counted range with no items, does not match
// the known layout and is an error.
func (c *Client) searchPage(ctx context.Context, s *Search, number int) (Page, bool, error) {
	doc, _, err := c.getDocument(ctx, c.url(s.pagePath(number)))
	if err != nil {
		return Page{}, false, err
	}

	page := Page{Number: number}
	pattern := bookTotalPattern
	if s.IsList() {
		pattern = listTotalPattern
		page.Lists, err = parseListCards(doc)
	} else {
		page.Books, err = parseSearchBooks(doc)
	}
	if err != nil {
		return Page{}, false, fmt.Errorf("search page %d: %w", number, err)
	}

	total, found := resultTotal(doc, pattern)
	if !found {
		if page.Len() == 0 {
			return Page{}, false, nil
		}
		return Page{}, false, sfplerrors.MalformedPage("search page %d has %d results but no result count", number, page.Len())
	}

	size := s.pageSize()
	pages := (total + size - 1) / size
	if total == 0 || number > pages {
		return Page{}, false, nil
	}
	if page.Len() == 0 {
		return Page{}, false, sfplerrors.MalformedPage("search page %d of %d has no results to read", number, pages)
	}
	page.Total = total
	page.Pages = pages
	return page, true, nil
}

// resultTotal finds the "of N results" count anywhere in the page text
func resultTotal(doc *goquery.Document, pattern *regexp.Regexp) (int, bool) {
	text := strings.Join(strings.Fields(doc.Text()), " ")
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	total, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0, false
	}
	return total, true
}

type bibEntry struct {
	BriefInfo struct {
		Title    string   `json:"title"`
		Subtitle *string  `json:"subtitle"`
		Authors  []string `json:"authors"`
	} `json:"briefInfo"`
}

// parseSearchBooks reads the bibs embedded in the page's JSON state.
// Result order follows the key order of the payload.
func parseSearchBooks(doc *goquery.Document) ([]Book, error) {
	var books []Book
	var err error
	doc.Find(`script[type="application/json"]`).EachWithBreak(func(_ int, script *goquery.Selection) bool {
		var state struct {
			Entities struct {
				Bibs json.RawMessage `json:"bibs"`
			} `json:"entities"`
		}
		if json.Unmarshal([]byte(script.Text()), &state) != nil || len(state.Entities.Bibs) == 0 {
			return true
		}
		books, err = decodeBibs(state.Entities.Bibs)
		return false
	})
	return books, err
}

func decodeBibs(raw json.RawMessage) ([]Book, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, sfplerrors.MalformedPage("reading bibs: %v", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		// null or an empty array
		return nil, nil
	}

	var books []Book
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, sfplerrors.MalformedPage("reading bib key: %v", err)
		}
		key, _ := tok.(string)

		var entry bibEntry
		if err := dec.Decode(&entry); err != nil {
			return nil, sfplerrors.MalformedPage("decoding bib %s: %v", key, err)
		}

		id, err := MetaDataIDToID(key)
		if err != nil {
			return nil, err
		}
		book := Book{ID: id, Title: entry.BriefInfo.Title}
		if s := entry.BriefInfo.Subtitle; s != nil && *s != "" {
			book.Subtitle = s
		}
		if len(entry.BriefInfo.Authors) > 0 {
			book.Author = strPtr(entry.BriefInfo.Authors[0])
		}
		books = append(books, book)
	}
	return books, nil
}

// parseListCards reads the list result cards of a list search page
func parseListCards(doc *goquery.Document) ([]List, error) {
	var lists []List
	var err error
	doc.Find(".cp_user_list_item").EachWithBreak(func(i int, card *goquery.Selection) bool {
		var l List
		if l, err = parseListCard(card); err != nil {
			err = fmt.Errorf("list card %d: %w", i, err)
			return false
		}
		lists = append(lists, l)
		return true
	})
	return lists, err
}

func parseListCard(card *goquery.Selection) (List, error) {
	link := card.Find(".title a").First()
	href, ok := link.Attr("href")
	if !ok {
		return List{}, sfplerrors.MalformedPage("list card has no title link")
	}

	count, err := strconv.Atoi(strings.TrimSpace(strings.ReplaceAll(card.Find(".list_item_count").First().Text(), "items", "")))
	if err != nil {
		return List{}, sfplerrors.MalformedPage("list card item count: %v", err)
	}

	owner, err := parseOwner(card)
	if err != nil {
		return List{}, err
	}

	l := List{
		ID:        lastSegment(href),
		Type:      strings.TrimSpace(card.Find(".list_type.small").First().Text()),
		Title:     strings.TrimSpace(card.Find(".title").First().Text()),
		Owner:     owner,
		CreatedOn: strings.TrimSpace(card.Find(".list_created_date .value").First().Text()),
		ItemCount: count,
	}
	if desc := card.Find(".description").First(); desc.Length() > 0 {
		l.Description = strPtr(strings.TrimSpace(strings.ReplaceAll(desc.Text(), "\n", "")))
	}
	return l, nil
}

// parseOwner reads a list's owner. Private profiles render as a muted
// name with no link.
func parseOwner(card *goquery.Selection) (Owner, error) {
	if muted := card.Find(".username.muted").First(); muted.Length() > 0 {
		return Owner{Name: strings.TrimSpace(muted.Text())}, nil
	}

	username := card.Find(".username").First()
	href, _ := username.Attr("href")
	id := userIDFromHref(href)
	if id == "" {
		return Owner{}, sfplerrors.MalformedPage("list owner link %q has no user id", href)
	}
	name := strings.TrimSpace(username.Text())
	return Owner{Name: name, User: &User{Name: name, ID: id}}, nil
}
