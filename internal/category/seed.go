package category

import "github.com/google/uuid"

// namespace derives stable ids from names, so every deployment agrees on the id of
// General/Uncategorized without storing magic constants.
var namespace = uuid.MustParse("6f2b7c4e-3d1a-5e8f-9b0c-1a2d3e4f5a6b")

func CategoryID(name string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(name))
}

func SubcategoryID(categoryName, name string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(categoryName+"/"+name))
}

type seedSub struct {
	name              string
	reimbursable      bool
	excludeFromBudget bool
}

type seedCategory struct {
	name string
	subs []seedSub
}

func subs(names ...string) []seedSub {
	out := make([]seedSub, len(names))
	for i, n := range names {
		out[i] = seedSub{name: n}
	}

	return out
}

var defaults = []seedCategory{
	{name: GeneralName, subs: subs(UncategorizedName)},
	{name: "Food & Drinks", subs: subs("Eating out", "Take Away", "Tea & Coffee", "Fast Food", "Snacks")},
	{name: "Groceries", subs: subs("Staples", "Vegetables", "Fruits", "Meat", "Eggs")},
	{name: "Transport", subs: subs("Uber", "Rapido", "Auto", "Cab", "Train", "Fuel")},
	{name: "Shopping", subs: subs("Clothes", "Footwear", "Electronics", "Festival")},
	{name: "Bill", subs: subs("Phone", "Rent", "Water", "Electricity", "Gas", "Internet")},
	{name: "Subscription", subs: subs("Software", "News", "Netflix", "Prime", "YouTube")},
	{name: "EMI", subs: subs("Electronics", "House", "Vehicle", "Education", "Others")},
	{name: "Credit Bill", subs: []seedSub{
		{name: "Credit card", excludeFromBudget: true},
		{name: "Simpl", excludeFromBudget: true},
		{name: "Slice", excludeFromBudget: true},
		{name: "Lazypay", excludeFromBudget: true},
		{name: "Amazon Pay", excludeFromBudget: true},
	}},
	{name: "Investment", subs: []seedSub{
		{name: "Mutual Funds", excludeFromBudget: true},
		{name: "Stocks", excludeFromBudget: true},
		{name: "Gold", excludeFromBudget: true},
	}},
	{name: "Medical", subs: subs("Medicines", "Consultation", "Tests")},
	{name: "Travel", subs: []seedSub{
		{name: "Flights"},
		{name: "Hotels"},
		{name: "Work Trip", reimbursable: true},
	}},
	{name: "Entertainment", subs: subs("Movies", "Events", "Games")},
	{name: "Lent", subs: []seedSub{{name: "Friends", reimbursable: true, excludeFromBudget: true}}},
	{name: "Cash Withdrawal", subs: []seedSub{{name: "ATM", excludeFromBudget: true}}},
	{name: "Misc.", subs: subs("Others")},
}

// Defaults returns the seed taxonomy with deterministic ids.
func Defaults() []*Category {
	out := make([]*Category, 0, len(defaults))

	for _, sc := range defaults {
		c := &Category{ID: CategoryID(sc.name), Name: sc.name}

		for _, s := range sc.subs {
			c.Subcategories = append(c.Subcategories, &Subcategory{
				ID:                SubcategoryID(sc.name, s.name),
				CategoryID:        c.ID,
				CategoryName:      sc.name,
				Name:              s.name,
				IsReimbursable:    s.reimbursable,
				ExcludeFromBudget: s.excludeFromBudget,
			})
		}

		out = append(out, c)
	}

	return out
}
