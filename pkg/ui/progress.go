package ui

import (
	"fmt"
	"strings"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
)

// PageTracker reports progress while search pages are streamed to the terminal
type PageTracker struct {
	Pages   int
	Fetched int
	Results int
	Total   int
}

// Add records one fetched page
func (pt *PageTracker) Add(pages, results, total int) {
	pt.Fetched++
	pt.Pages = pages
	pt.Results += results
	pt.Total = total
}

// Bar renders the share of pages fetched as a fixed-width bar
func (pt *PageTracker) Bar(width int) string {
	filled := 0
	switch {
	case pt.Pages > 0 && pt.Fetched < pt.Pages:
		filled = pt.Fetched * width / pt.Pages
	case pt.Fetched > 0:
		filled = width
	}
	return strings.Repeat(ProgressBar, filled) + strings.Repeat(ProgressEmpty, width-filled)
}

func (pt *PageTracker) String() string {
	return fmt.Sprintf("[%s] page %d/%d, %d of %d results",
		pt.Bar(20), pt.Fetched, pt.Pages, pt.Results, pt.Total)
}

// Print writes the tracker line to Output
func (pt *PageTracker) Print() {
	fmt.Fprintf(Output, "%s %s\n", Magenta("[SEARCH]"), Dim(pt.String()))
}
