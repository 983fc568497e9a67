package sfpl

import (
	"fmt"
	"strings"

	sfplerrors "sfpl/pkg/errors"
)

// Filter is one term of an advanced search. Name combines a mode
// ("include" or "exclude") with a field, e.g. "includeauthor" or
// "excludekeyword2". A numeric suffix allows repeating a field.
type Filter struct {
	Name  string
	Value string
}

// filterFields maps filter field names to catalog query fields
var filterFields = []struct{ name, field string }{
	{"keyword", "anywhere"},
	{"author", "contributor"},
	{"title", "title"},
	{"subject", "subject"},
	{"series", "series"},
	{"award", "award"},
	{"identifier", "identifier"},
	{"region", "region"},
	{"genre", "genre"},
	{"publisher", "publisher"},
	{"callnumber", "callnumber"},
}

// FilterFields returns the accepted filter field names
func FilterFields() []string {
	names := make([]string, len(filterFields))
	for i, f := range filterFields {
		names[i] = f.name
	}
	return names
}

// AdvancedSearch compiles filters into a catalog boolean query. Include
// clauses are joined with AND when exclusive is set and OR otherwise;
// each exclude clause follows with a leading "-":
//
//	(contributor:(J. K. Rowling)) -anywhere:(Harry Potter)
//
// At least one include filter is required; a query made only of exclusions
// fails with MissingFilterTerm.
func AdvancedSearch(exclusive bool, filters ...Filter) (string, error) {
	var include, exclude []string
	for _, f := range filters {
		clause, excluded, err := compileFilter(f)
		if err != nil {
			return "", err
		}
		if excluded {
			exclude = append(exclude, clause)
		} else {
			include = append(include, clause)
		}
	}
	if len(include) == 0 {
		return "", sfplerrors.MissingFilterTerm("include")
	}

	op := " OR "
	if exclusive {
		op = " AND "
	}

	var b strings.Builder
	b.WriteString("(" + strings.Join(include, op) + ")")
	for _, clause := range exclude {
		b.WriteString(" -" + clause)
	}
	return b.String(), nil
}

func compileFilter(f Filter) (clause string, excluded bool, err error) {
	name := strings.ToLower(f.Name)

	includes, excludes := strings.Count(name, "include"), strings.Count(name, "exclude")
	if includes+excludes != 1 {
		return "", false, sfplerrors.MissingFilterTerm(f.Name)
	}

	var field string
	for _, candidate := range filterFields {
		if strings.Contains(name, candidate.name) {
			if field != "" {
				return "", false, sfplerrors.MissingFilterTerm(f.Name)
			}
			field = candidate.field
		}
	}
	if field == "" {
		return "", false, sfplerrors.MissingFilterTerm(f.Name)
	}

	return fmt.Sprintf("%s:(%s)", field, f.Value), excludes == 1, nil
}
