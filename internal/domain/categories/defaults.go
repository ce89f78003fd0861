package categories

var defaultCategories = []Category{
	{ID: "1", Name: "Cleaning", Icon: "🧹"},
	{ID: "2", Name: "Shopping", Icon: "🛒"},
	{ID: "3", Name: "Cooking", Icon: "👩‍🍳"},
	{ID: "4", Name: "Laundry", Icon: "🧺"},
	{ID: "5", Name: "Maintenance", Icon: "🔧"},
}

// Defaults returns the seed set written on first start. It is also served
// when the global collection is empty or cannot be read.
func Defaults() []Category {
	return append([]Category(nil), defaultCategories...)
}
