package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"sfpl/pkg/sfpl"
)

// PageSource yields result pages one at a time. *sfpl.Paginator implements it.
type PageSource interface {
	Next(ctx context.Context) bool
	Page() sfpl.Page
	Err() error
}

// Row is one rendered search result
type Row struct {
	ID     string
	Title  string
	Detail string
}

// Model is a search result browser that fetches the next page only when
// the reader asks for more
type Model struct {
	ctx    context.Context
	source PageSource
	query  string

	spinner  spinner.Model
	progress progress.Model

	rows       []Row
	cursor     int
	pages      int
	totalPages int
	total      int

	loading    bool
	done       bool
	err        error
	showDetail bool
	showHelp   bool

	width  int
	height int
}

// NewModel creates a browser over source. query is only used as a heading.
func NewModel(ctx context.Context, source PageSource, query string) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accent)

	p := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	p.Width = 30

	return &Model{
		ctx:      ctx,
		source:   source,
		query:    query,
		spinner:  s,
		progress: p,
	}
}

// Init starts loading the first page
func (m *Model) Init() tea.Cmd {
	return m.loadMore()
}

// Rows returns the results loaded so far
func (m *Model) Rows() []Row {
	return m.rows
}

// Selected returns the row under the cursor
func (m *Model) Selected() (Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return Row{}, false
	}
	return m.rows[m.cursor], true
}

// Err returns the error that ended pagination, if any
func (m *Model) Err() error {
	return m.err
}

func (m *Model) addPage(page sfpl.Page) {
	m.pages++
	m.totalPages = page.Pages
	m.total = page.Total
	for _, b := range page.Books {
		m.rows = append(m.rows, bookRow(b))
	}
	for _, l := range page.Lists {
		m.rows = append(m.rows, listRow(l))
	}
}

// loadMore fetches the next page unless one is in flight or the source is exhausted
func (m *Model) loadMore() tea.Cmd {
	if m.loading || m.done {
		return nil
	}
	m.loading = true
	return tea.Batch(m.spinner.Tick, fetchPage(m.ctx, m.source))
}

// fetchRatio is the share of known result pages already loaded
func (m *Model) fetchRatio() float64 {
	if m.done || m.totalPages == 0 {
		return 1
	}
	ratio := float64(m.pages) / float64(m.totalPages)
	if ratio > 1 {
		return 1
	}
	return ratio
}

func bookRow(b sfpl.Book) Row {
	title := b.Title
	if b.Subtitle != nil {
		title += ": " + *b.Subtitle
	}
	var detail string
	if b.Author != nil {
		detail = *b.Author
	}
	return Row{ID: b.ID, Title: title, Detail: detail}
}

func listRow(l sfpl.List) Row {
	detail := fmt.Sprintf("%s, %d items, by %s", l.Type, l.ItemCount, l.Owner.Name)
	return Row{ID: l.ID, Title: l.Title, Detail: detail}
}
