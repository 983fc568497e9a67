package sfpl

import (
	"context"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	sfplerrors "sfpl/pkg/errors"
)

// Detail is one label/value pair of an item's details section.
// Most labels carry a single value; ISBN and Additional Contributors
// carry one value per token or line.
type Detail struct {
	Label  string   `json:"label"`
	Values []string `json:"values"`
}

// Jacket is a downloaded cover image
type Jacket struct {
	URL  string
	Data []byte
}

// Ext returns the image's file extension, defaulting to .png
func (j *Jacket) Ext() string {
	if ext := path.Ext(lastSegment(j.URL)); ext != "" && len(ext) <= 5 {
		return strings.ToLower(ext)
	}
	return ".png"
}

func (c *Client) itemPage(ctx context.Context, id, query string) (*goquery.Document, error) {
	doc, _, err := c.getDocument(ctx, c.url("/item/show/"+id+query))
	return doc, err
}

// Description returns an item's summary text
func (c *Client) Description(ctx context.Context, id string) (string, error) {
	doc, err := c.itemPage(ctx, id, "")
	if err != nil {
		return "", err
	}
	desc := doc.Find(".bib_description").First()
	if desc.Length() == 0 {
		return "", sfplerrors.MalformedPage("item %s has no description", id)
	}
	return strings.TrimSpace(desc.Text()), nil
}

// Details returns an item's label/value details in page order
func (c *Client) Details(ctx context.Context, id string) ([]Detail, error) {
	doc, err := c.itemPage(ctx, id, "")
	if err != nil {
		return nil, err
	}

	labels := doc.Find(".label")
	values := doc.Find(".value")
	if labels.Length() != values.Length() {
		return nil, sfplerrors.MalformedPage("item %s has %d detail labels but %d values", id, labels.Length(), values.Length())
	}

	details := make([]Detail, 0, labels.Length())
	labels.Each(func(i int, label *goquery.Selection) {
		raw := strings.TrimSpace(label.Text())
		text := values.Eq(i).Text()

		var vals []string
		switch raw {
		case "ISBN:":
			vals = strings.Fields(text)
		case "Additional Contributors:":
			vals = nonEmptyLines(text)
		default:
			vals = []string{strings.Join(strings.Fields(text), " ")}
		}
		details = append(details, Detail{Label: strings.ReplaceAll(raw, ":", ""), Values: vals})
	})
	return details, nil
}

// Keywords returns the contents listing of an item, one entry per line.
// Items without one return an empty slice.
func (c *Client) Keywords(ctx context.Context, id string) ([]string, error) {
	doc, err := c.itemPage(ctx, id, "?active_tab=bib_info")
	if err != nil {
		return nil, err
	}

	value := doc.Find(".dataPair.clearfix.contents .value").First()
	keywords := []string{}
	for _, text := range textNodes(value) {
		keywords = append(keywords, nonEmptyLines(text)...)
	}
	return keywords, nil
}

// JacketURL returns the cover image location of an item
func (c *Client) JacketURL(ctx context.Context, id string) (string, error) {
	doc, err := c.itemPage(ctx, id, "")
	if err != nil {
		return "", err
	}
	src, ok := doc.Find(".jacketCover.bib_detail").First().Attr("src")
	if !ok {
		return "", sfplerrors.MalformedPage("item %s has no jacket image", id)
	}
	if strings.HasPrefix(src, "//") {
		src = "https:" + src
	}
	return src, nil
}

// Jacket downloads the cover image of an item
func (c *Client) Jacket(ctx context.Context, id string) (*Jacket, error) {
	src, err := c.JacketURL(ctx, id)
	if err != nil {
		return nil, err
	}
	resp, err := c.get(ctx, c.url(src), nil)
	if err != nil {
		return nil, err
	}
	return &Jacket{URL: src, Data: resp.Body}, nil
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// textNodes returns the text of every descendant text node, in document order
func textNodes(sel *goquery.Selection) []string {
	var texts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			texts = append(texts, n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return texts
}
