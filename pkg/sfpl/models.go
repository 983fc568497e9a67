package sfpl

import "fmt"

// Book is a catalog item as it appears in a listing or a search result.
// Optional fields are nil when the markup legitimately omits them.
type Book struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Subtitle *string `json:"subtitle,omitempty"`
	Author   *string `json:"author,omitempty"`
	// Status is the due date, hold position or transit location. Only set in listings.
	Status *string `json:"status,omitempty"`
	// Medium and Year are only extracted by the legacy rule set
	Medium *string `json:"medium,omitempty"`
	Year   *int    `json:"year,omitempty"`
}

// Equal reports whether two books share a canonical id
func (b Book) Equal(other Book) bool {
	return b.ID == other.ID
}

func (b Book) String() string {
	if b.Author != nil {
		return fmt.Sprintf("%s by %s", b.Title, *b.Author)
	}
	return b.Title
}

// User is a catalog patron profile
type User struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Equal reports whether two users share an id
func (u User) Equal(other User) bool {
	return u.ID == other.ID
}

func (u User) String() string {
	return u.Name
}

// Owner is the owner of a list. Private profiles only expose a display
// name, in which case User is nil.
type Owner struct {
	Name string `json:"name"`
	User *User  `json:"user,omitempty"`
}

func (o Owner) String() string {
	return o.Name
}

// List is a user-curated list of catalog items
type List struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Owner       Owner   `json:"owner"`
	CreatedOn   string  `json:"created_on"`
	ItemCount   int     `json:"item_count"`
	Description *string `json:"description,omitempty"`
}

// Equal reports whether two lists share an id
func (l List) Equal(other List) bool {
	return l.ID == other.ID
}

func (l List) String() string {
	return l.Title
}

// Shelf is one of the per-user collection buckets
type Shelf string

const (
	ShelfForLater   Shelf = "for_later"
	ShelfInProgress Shelf = "in_progress"
	ShelfCompleted  Shelf = "completed"
)

// Shelves lists the valid shelves in display order
var Shelves = []Shelf{ShelfForLater, ShelfInProgress, ShelfCompleted}

// ParseShelf validates a shelf name
func ParseShelf(s string) (Shelf, error) {
	for _, shelf := range Shelves {
		if string(shelf) == s {
			return shelf, nil
		}
	}
	return "", fmt.Errorf("unknown shelf %q (want one of %v)", s, Shelves)
}

func strPtr(s string) *string {
	return &s
}
