package sfpl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sfplerrors "sfpl/pkg/errors"
)

func TestAdvancedSearch(t *testing.T) {
	tests := []struct {
		name      string
		exclusive bool
		filters   []Filter
		want      string
	}{
		{
			name:      "include and exclude",
			exclusive: true,
			filters: []Filter{
				{Name: "includeauthor", Value: "J. K. Rowling"},
				{Name: "excludekeyword", Value: "Harry Potter"},
			},
			want: "(contributor:(J. K. Rowling)) -anywhere:(Harry Potter)",
		},
		{
			name:      "exclusive joins with AND",
			exclusive: true,
			filters: []Filter{
				{Name: "includekeyword1", Value: "Chamber"},
				{Name: "includekeyword2", Value: "Secrets"},
			},
			want: "(anywhere:(Chamber) AND anywhere:(Secrets))",
		},
		{
			name:      "inclusive joins with OR",
			exclusive: false,
			filters: []Filter{
				{Name: "IncludeTitle", Value: "Dune"},
				{Name: "includesubject", Value: "Deserts"},
			},
			want: "(title:(Dune) OR subject:(Deserts))",
		},
		{
			name:      "every exclude gets its own clause",
			exclusive: true,
			filters: []Filter{
				{Name: "includegenre", Value: "Fantasy"},
				{Name: "excludeseries", Value: "Discworld"},
				{Name: "excludepublisher", Value: "Tor"},
			},
			want: "(genre:(Fantasy)) -series:(Discworld) -publisher:(Tor)",
		},
		{
			name:      "remaining fields",
			exclusive: true,
			filters: []Filter{
				{Name: "includeaward", Value: "Hugo"},
				{Name: "includeidentifier", Value: "9780441013593"},
				{Name: "includeregion", Value: "Arrakis"},
				{Name: "includecallnumber", Value: "SF HERBERT"},
			},
			want: "(award:(Hugo) AND identifier:(9780441013593) AND region:(Arrakis) AND callnumber:(SF HERBERT))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AdvancedSearch(tt.exclusive, tt.filters...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdvancedSearchRejectsBadFilters(t *testing.T) {
	tests := map[string][]Filter{
		"no direction":   {{Name: "soemthingkeyword", Value: "Harry Potter"}},
		"no field":       {{Name: "includesomething", Value: "Harry Potter"}},
		"both fields":    {{Name: "includeauthortitle", Value: "Harry Potter"}},
		"both modes":     {{Name: "includeexcludekeyword", Value: "Harry Potter"}},
		"only excludes":  {{Name: "excludekeyword", Value: "Harry Potter"}},
		"nothing at all": nil,
	}

	for name, filters := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := AdvancedSearch(true, filters...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, sfplerrors.ErrMissingFilterTerm))
		})
	}
}

func TestNewAdvancedSearchFailsBeforeNetwork(t *testing.T) {
	_, fetcher := newTestClient(t, EraAjax)

	_, err := NewAdvancedSearch(true, Filter{Name: "soemthingkeyword", Value: "Harry Potter"})
	assert.True(t, errors.Is(err, sfplerrors.ErrMissingFilterTerm))
	assert.Empty(t, fetcher.requests)
}

func TestFilterFields(t *testing.T) {
	assert.Len(t, FilterFields(), 11)
	assert.Contains(t, FilterFields(), "callnumber")
}
