package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"sfpl/pkg/auth"
	"sfpl/pkg/sfpl"
)

func withoutColor(t *testing.T) *bytes.Buffer {
	t.Helper()
	prevOut, prevColor := Output, colorEnabled
	t.Cleanup(func() {
		Output = prevOut
		colorEnabled = prevColor
	})
	var buf bytes.Buffer
	Output = &buf
	SetColor(false)
	return &buf
}

func str(s string) *string { return &s }

func TestColorToggle(t *testing.T) {
	withoutColor(t)
	assert.Equal(t, "plain", Red("plain"))
	assert.False(t, ColorEnabled())

	SetColor(true)
	assert.Equal(t, "\033[31mred\033[0m", Red("red"))
}

func TestPrintHelpers(t *testing.T) {
	buf := withoutColor(t)

	PrintInfo("Branch", "MAIN")
	PrintError("hold failed", "not logged in")
	PrintWarning("careful")
	PrintSuccess("done")

	assert.Equal(t, "Branch: MAIN\nhold failed: not logged in\ncareful\ndone\n", buf.String())
}

func TestBookTable(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer

	BookTable(&buf, []sfpl.Book{
		{ID: "3046371093", Title: "Dune", Subtitle: str("Deluxe Edition"), Author: str("Herbert, Frank"), Status: str("Due Jun 1, 2024")},
		{ID: "1", Title: "Untitled"},
	})

	out := buf.String()
	assert.Contains(t, out, "Dune: Deluxe Edition")
	assert.Contains(t, out, "Herbert, Frank")
	assert.Contains(t, out, "Due Jun 1, 2024")
	assert.Contains(t, out, "2 items")
	assert.NotContains(t, out, "MEDIUM")
}

func TestBookTableWithFormat(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer
	year := 1965

	BookTable(&buf, []sfpl.Book{{ID: "1", Title: "Dune", Medium: str("Book"), Year: &year}})

	out := buf.String()
	assert.Contains(t, out, "MEDIUM")
	assert.Contains(t, out, "1965")
	assert.Contains(t, out, "1 item")
}

func TestHoursTable(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer

	branch, err := sfpl.ResolveBranch("main")
	assert.NoError(t, err)
	HoursTable(&buf, branch, sfpl.Hours{"Sun": "12-5", "Mon": "10-8"})

	out := buf.String()
	assert.Contains(t, out, branch.Name)
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Sun")), bytes.Index(buf.Bytes(), []byte("Mon")))
	assert.Contains(t, out, "12-5")
}

func TestAccountTableMasksBarcode(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer

	AccountTable(&buf, []*auth.Account{{
		Barcode:      "21223012345678",
		PIN:          "1234",
		Name:         "reader",
		LastModified: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}})

	out := buf.String()
	assert.Contains(t, out, "**********5678")
	assert.NotContains(t, out, "21223012345678")
	assert.NotContains(t, out, "1234 ")
	assert.Contains(t, out, "2024-05-01 09:30")
}

func TestListAndDetailTables(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer

	ListTable(&buf, []sfpl.List{{ID: "99", Title: "Summer Reads", Type: "Personal Recommendation", Owner: sfpl.Owner{Name: "reader"}, ItemCount: 4}})
	DetailTable(&buf, []sfpl.Detail{{Label: "ISBN", Values: []string{"9780441013593", "0441013597"}}})
	UserTable(&buf, []sfpl.User{{Name: "reader", ID: "42"}})

	out := buf.String()
	assert.Contains(t, out, "Summer Reads")
	assert.Contains(t, out, "1 list")
	assert.Contains(t, out, "9780441013593")
	assert.Contains(t, out, "0441013597")
	assert.Contains(t, out, "1 user")
}

func TestPageTracker(t *testing.T) {
	var pt PageTracker
	assert.Equal(t, "░░░░", pt.Bar(4))

	pt.Add(4, 10, 35)
	assert.Equal(t, "██░░░░░░", pt.Bar(8))
	assert.Equal(t, "[█████░░░░░░░░░░░░░░░] page 1/4, 10 of 35 results", pt.String())

	pt.Add(4, 10, 35)
	pt.Add(4, 10, 35)
	pt.Add(4, 5, 35)
	assert.Equal(t, "████", pt.Bar(4))
}
