package category

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrUnknownSubcategory = errors.New("unknown subcategory")

const (
	GeneralName       = "General"
	UncategorizedName = "Uncategorized"
)

type Category struct {
	ID            uuid.UUID
	Name          string
	Subcategories []*Subcategory
}

type Subcategory struct {
	ID                uuid.UUID
	CategoryID        uuid.UUID
	CategoryName      string
	Name              string
	IsReimbursable    bool
	ExcludeFromBudget bool
}

// Path is the "Category/Subcategory" form rules use to reference a subcategory.
func (s *Subcategory) Path() string {
	return s.CategoryName + "/" + s.Name
}

// Taxonomy is the read-only two-level category tree, loaded once at startup.
type Taxonomy struct {
	categories    []*Category
	byID          map[uuid.UUID]*Subcategory
	byPath        map[string]*Subcategory
	uncategorized *Subcategory
}

func NewTaxonomy(categories []*Category) (*Taxonomy, error) {
	t := &Taxonomy{
		categories: categories,
		byID:       make(map[uuid.UUID]*Subcategory),
		byPath:     make(map[string]*Subcategory),
	}

	for _, c := range categories {
		for _, s := range c.Subcategories {
			s.CategoryID = c.ID
			s.CategoryName = c.Name
			t.byID[s.ID] = s
			t.byPath[pathKey(s.Path())] = s
		}
	}

	t.uncategorized = t.byPath[pathKey(GeneralName+"/"+UncategorizedName)]
	if t.uncategorized == nil {
		return nil, fmt.Errorf("taxonomy has no %s/%s subcategory", GeneralName, UncategorizedName)
	}

	return t, nil
}

func (t *Taxonomy) Categories() []*Category {
	return t.categories
}

func (t *Taxonomy) Subcategory(id uuid.UUID) (*Subcategory, bool) {
	s, ok := t.byID[id]
	return s, ok
}

// Lookup resolves a "Category/Subcategory" path, ignoring case and surrounding space.
func (t *Taxonomy) Lookup(path string) (*Subcategory, error) {
	s, ok := t.byPath[pathKey(path)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSubcategory, path)
	}

	return s, nil
}

// Uncategorized is the default subcategory of a transaction nobody has categorized.
func (t *Taxonomy) Uncategorized() *Subcategory {
	return t.uncategorized
}

// Meaningful reports whether id names a real category choice: it exists and is not Uncategorized.
func (t *Taxonomy) Meaningful(id uuid.UUID) bool {
	s, ok := t.byID[id]
	return ok && s.ID != t.uncategorized.ID
}

func pathKey(path string) string {
	cat, sub, _ := strings.Cut(path, "/")
	return strings.ToLower(strings.TrimSpace(cat)) + "/" + strings.ToLower(strings.TrimSpace(sub))
}
