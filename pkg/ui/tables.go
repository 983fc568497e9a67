package ui

import (
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"sfpl/pkg/auth"
	"sfpl/pkg/sfpl"
)

func newTable(w io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(header)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	if colorEnabled {
		t.Style().Color.Header = text.Colors{text.Bold, text.FgCyan}
	}
	return t
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// BookTable prints books. Medium and year columns appear only when some
// book carries them.
func BookTable(w io.Writer, books []sfpl.Book) {
	withFormat := false
	for _, b := range books {
		if b.Medium != nil || b.Year != nil {
			withFormat = true
			break
		}
	}

	header := table.Row{"#", "ID", "Title", "Author", "Status"}
	if withFormat {
		header = append(header, "Medium", "Year")
	}
	t := newTable(w, header)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Title", WidthMax: 50},
		{Name: "Author", WidthMax: 30},
	})

	for i, b := range books {
		title := b.Title
		if b.Subtitle != nil {
			title += ": " + *b.Subtitle
		}
		row := table.Row{i + 1, b.ID, title, deref(b.Author), deref(b.Status)}
		if withFormat {
			year := ""
			if b.Year != nil {
				year = strconv.Itoa(*b.Year)
			}
			row = append(row, deref(b.Medium), year)
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{"", "", pluralize(len(books), "item")})
	t.Render()
}

// ListTable prints user lists
func ListTable(w io.Writer, lists []sfpl.List) {
	t := newTable(w, table.Row{"ID", "Title", "Type", "Owner", "Created", "Items"})
	t.SetColumnConfigs([]table.ColumnConfig{{Name: "Title", WidthMax: 50}})
	for _, l := range lists {
		t.AppendRow(table.Row{l.ID, l.Title, l.Type, l.Owner.Name, l.CreatedOn, l.ItemCount})
	}
	t.AppendFooter(table.Row{"", pluralize(len(lists), "list")})
	t.Render()
}

// UserTable prints patron profiles
func UserTable(w io.Writer, users []sfpl.User) {
	t := newTable(w, table.Row{"Name", "ID"})
	for _, u := range users {
		t.AppendRow(table.Row{u.Name, u.ID})
	}
	t.AppendFooter(table.Row{pluralize(len(users), "user")})
	t.Render()
}

// BranchTable prints branches
func BranchTable(w io.Writer, branches []sfpl.Branch) {
	t := newTable(w, table.Row{"Name", "ID", "Location", "Slug"})
	for _, b := range branches {
		t.AppendRow(table.Row{b.Name, b.ID, b.LocationCode, b.Slug()})
	}
	t.Render()
}

// HoursTable prints a branch's week, Sunday first
func HoursTable(w io.Writer, b sfpl.Branch, hours sfpl.Hours) {
	t := newTable(w, table.Row{"Day", "Hours"})
	t.SetTitle(b.Name)
	for _, day := range sfpl.Weekdays {
		t.AppendRow(table.Row{day, hours[day]})
	}
	t.Render()
}

// DetailTable prints an item's label/value details
func DetailTable(w io.Writer, details []sfpl.Detail) {
	t := newTable(w, table.Row{"Label", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{{Name: "Value", WidthMax: 60}})
	for _, d := range details {
		t.AppendRow(table.Row{d.Label, strings.Join(d.Values, "\n")})
	}
	t.Render()
}

// AccountTable prints saved cards with the barcode masked
func AccountTable(w io.Writer, accounts []*auth.Account) {
	t := newTable(w, table.Row{"Card", "Name", "User ID", "Saved"})
	for _, a := range accounts {
		safe := auth.SanitizeAccount(a)
		saved := ""
		if !a.LastModified.IsZero() {
			saved = a.LastModified.Format("2006-01-02 15:04")
		}
		t.AppendRow(table.Row{safe.Barcode, a.Name, a.UserID, saved})
	}
	t.Render()
}
