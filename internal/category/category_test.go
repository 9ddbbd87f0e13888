package category_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/paisa/internal/category"
)

func TestNewTaxonomy_Defaults(t *testing.T) {
	tax, err := category.NewTaxonomy(category.Defaults())
	require.NoError(t, err)

	unc := tax.Uncategorized()
	assert.Equal(t, "General/Uncategorized", unc.Path())
	assert.Equal(t, category.SubcategoryID("General", "Uncategorized"), unc.ID)
}

func TestNewTaxonomy_RequiresUncategorized(t *testing.T) {
	_, err := category.NewTaxonomy([]*category.Category{
		{ID: uuid.New(), Name: "Food & Drinks", Subcategories: []*category.Subcategory{{ID: uuid.New(), Name: "Snacks"}}},
	})
	assert.Error(t, err)
}

func TestTaxonomy_Lookup(t *testing.T) {
	tax, err := category.NewTaxonomy(category.Defaults())
	require.NoError(t, err)

	type testCase struct {
		name    string
		path    string
		want    string
		wantErr bool
	}

	tests := []testCase{
		{name: "Exact", path: "Credit Bill/Credit card", want: "Credit Bill/Credit card"},
		{name: "CaseAndSpace", path: " credit bill / CREDIT CARD ", want: "Credit Bill/Credit card"},
		{name: "Unknown", path: "Credit Bill/Platinum", wantErr: true},
		{name: "NoSeparator", path: "Groceries", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tax.Lookup(tt.path)

			if tt.wantErr {
				assert.ErrorIs(t, err, category.ErrUnknownSubcategory)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Path())
		})
	}
}

func TestTaxonomy_Meaningful(t *testing.T) {
	tax, err := category.NewTaxonomy(category.Defaults())
	require.NoError(t, err)

	snacks, err := tax.Lookup("Food & Drinks/Snacks")
	require.NoError(t, err)

	assert.True(t, tax.Meaningful(snacks.ID))
	assert.False(t, tax.Meaningful(tax.Uncategorized().ID))
	assert.False(t, tax.Meaningful(uuid.New()))
}

func TestDefaults_StableIDs(t *testing.T) {
	a := category.Defaults()
	b := category.Defaults()

	require.Equal(t, len(a), len(b))

	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
	}
}
