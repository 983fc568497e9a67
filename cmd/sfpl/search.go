package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"sfpl/pkg/sfpl"
	"sfpl/pkg/ui"
	"sfpl/pkg/ui/tui"
)

var (
	searchType  string
	searchPages int
	searchTUI   bool
	searchJSON  bool

	advancedInclude []string
	advancedExclude []string
	advancedAny     bool
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search the catalog",
	Long: `Search the catalog for books or user lists.

Pages are fetched one at a time and printed as they arrive. With --tui the
results open in an interactive browser that loads more pages on demand.`,
	Example: `  sfpl search dune
  sfpl search --type author "octavia butler" --pages 2
  sfpl search --type list "staff picks" --tui`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		search, err := sfpl.NewSearch(strings.Join(args, " "), searchType)
		if err != nil {
			return err
		}
		return runSearch(cmd, search)
	},
}

var advancedCmd = &cobra.Command{
	Use:   "advanced",
	Short: "Run an advanced boolean search",
	Long: fmt.Sprintf(`Compile field filters into a boolean catalog query and search with it.

Each --include and --exclude takes field=value, where field is one of:
  %s

Include clauses are joined with AND, or with OR when --any is given.`, strings.Join(sfpl.FilterFields(), ", ")),
	Example: `  sfpl advanced --include author="J. K. Rowling" --exclude keyword="Harry Potter"
  sfpl advanced --any --include subject=cats --include subject=dogs`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		include, err := parseFilters("include", advancedInclude)
		if err != nil {
			return err
		}
		exclude, err := parseFilters("exclude", advancedExclude)
		if err != nil {
			return err
		}
		search, err := sfpl.NewAdvancedSearch(!advancedAny, append(include, exclude...)...)
		if err != nil {
			return err
		}
		ui.PrintInfo("Query", search.Term)
		return runSearch(cmd, search)
	},
}

func init() {
	types := make([]string, len(sfpl.SearchTypes))
	for i, t := range sfpl.SearchTypes {
		types[i] = string(t)
	}

	for _, c := range []*cobra.Command{searchCmd, advancedCmd} {
		c.Flags().IntVarP(&searchPages, "pages", "p", 1, "maximum number of pages to fetch (0 for all)")
		c.Flags().BoolVar(&searchTUI, "tui", false, "browse results interactively")
		c.Flags().BoolVar(&searchJSON, "json", false, "print results as JSON lines, one page per line")
		rootCmd.AddCommand(c)
	}
	searchCmd.Flags().StringVarP(&searchType, "type", "t", string(sfpl.SearchKeyword), "search type ("+strings.Join(types, ", ")+")")

	advancedCmd.Flags().StringArrayVarP(&advancedInclude, "include", "i", nil, "field=value that results must match")
	advancedCmd.Flags().StringArrayVarP(&advancedExclude, "exclude", "x", nil, "field=value that results must not match")
	advancedCmd.Flags().BoolVar(&advancedAny, "any", false, "match any include clause instead of all")
}

// parseFilters turns field=value specs into filters of the given mode
func parseFilters(mode string, specs []string) ([]sfpl.Filter, error) {
	filters := make([]sfpl.Filter, 0, len(specs))
	for _, spec := range specs {
		field, value, ok := strings.Cut(spec, "=")
		field = strings.ToLower(strings.TrimSpace(field))
		value = strings.TrimSpace(value)
		if !ok || field == "" || value == "" {
			return nil, fmt.Errorf("invalid --%s %q: want field=value", mode, spec)
		}
		filters = append(filters, sfpl.Filter{Name: mode + field, Value: value})
	}
	return filters, nil
}

func runSearch(cmd *cobra.Command, search *sfpl.Search) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	client, err := newClient()
	if err != nil {
		return err
	}

	if searchTUI {
		row, ok, err := tui.Browse(ctx, client.Search(search, 0), search.String())
		if err != nil {
			return err
		}
		if ok {
			ui.PrintInfo("Selected", fmt.Sprintf("%s (%s)", row.Title, row.ID))
		}
		return nil
	}

	pages := client.Search(search, searchPages)
	tracker := &ui.PageTracker{}
	out := cmd.OutOrStdout()
	for pages.Next(ctx) {
		page := pages.Page()
		if searchJSON {
			if err := json.NewEncoder(out).Encode(page); err != nil {
				return err
			}
			continue
		}

		tracker.Add(page.Pages, page.Len(), page.Total)
		if search.IsList() {
			ui.ListTable(out, page.Lists)
		} else {
			ui.BookTable(out, page.Books)
		}
		tracker.Print()
	}
	if err := pages.Err(); err != nil {
		return err
	}

	if tracker.Fetched == 0 && !searchJSON {
		ui.PrintWarning("No results for " + search.String())
	}
	return nil
}
