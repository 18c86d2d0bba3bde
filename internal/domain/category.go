package domain

import "strings"

// Category is the closed classification set the analysis step selects from.
type Category string

const (
	CategoryUS         Category = "US"
	CategoryWorld      Category = "World"
	CategoryBusiness   Category = "Business"
	CategoryTechnology Category = "Technology"
	CategoryScience    Category = "Science"
	CategoryHealth     Category = "Health"
	CategorySports     Category = "Sports"
	CategoryLifestyle  Category = "Lifestyle"

	// CategoryGeneral is the fallback when the AI output does not resolve
	// to a known category.
	CategoryGeneral Category = "General"
)

// CategoryInfo owns the presentation attributes of a category: its display
// rank and color token. Kept in one table so views cannot drift apart.
type CategoryInfo struct {
	Name  Category `json:"name"`
	Order int      `json:"order"`
	Color string   `json:"color"`
}

// Categories lists the closed set in display-priority order.
var Categories = []CategoryInfo{
	{Name: CategoryUS, Order: 1, Color: "blue"},
	{Name: CategoryWorld, Order: 2, Color: "emerald"},
	{Name: CategoryBusiness, Order: 3, Color: "purple"},
	{Name: CategoryTechnology, Order: 4, Color: "cyan"},
	{Name: CategoryScience, Order: 5, Color: "indigo"},
	{Name: CategoryHealth, Order: 6, Color: "rose"},
	{Name: CategorySports, Order: 7, Color: "orange"},
	{Name: CategoryLifestyle, Order: 8, Color: "amber"},
}

var categoryIndex = func() map[Category]CategoryInfo {
	idx := make(map[Category]CategoryInfo, len(Categories))
	for _, c := range Categories {
		idx[c.Name] = c
	}
	return idx
}()

// Known reports whether c belongs to the closed category set.
func (c Category) Known() bool {
	_, ok := categoryIndex[c]
	return ok
}

// Color returns the color token for a category, slate for unknown ones.
func (c Category) Color() string {
	if info, ok := categoryIndex[c]; ok {
		return info.Color
	}
	return "slate"
}

// NormalizeCategory maps free-form AI output onto the closed set: trim, take
// the first word, capitalize. "US" keeps both letters upper. Anything still
// unrecognized becomes CategoryGeneral.
func NormalizeCategory(raw string) Category {
	word := strings.TrimSpace(raw)
	if fields := strings.Fields(word); len(fields) > 0 {
		word = fields[0]
	}
	if word == "" {
		return CategoryGeneral
	}

	if strings.EqualFold(word, string(CategoryUS)) {
		return CategoryUS
	}

	word = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	if c := Category(word); c.Known() {
		return c
	}
	return CategoryGeneral
}
