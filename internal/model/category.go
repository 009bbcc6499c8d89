package model

// Category classifies an expense. The set of codes is fixed.
type Category string

const (
	CategoryFood          Category = "FOOD"
	CategoryTravel        Category = "TRAVEL"
	CategoryUtilities     Category = "UTILITIES"
	CategoryEntertainment Category = "ENTERTAINMENT"
	CategoryShopping      Category = "SHOPPING"
	CategoryHealthcare    Category = "HEALTHCARE"
	CategoryEducation     Category = "EDUCATION"
	CategoryTransport     Category = "TRANSPORT"
	CategoryRent          Category = "RENT"
	CategoryInsurance     Category = "INSURANCE"
	CategoryOther         Category = "OTHER"
)

// Categories lists every valid category code.
var Categories = []Category{
	CategoryFood,
	CategoryTravel,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryShopping,
	CategoryHealthcare,
	CategoryEducation,
	CategoryTransport,
	CategoryRent,
	CategoryInsurance,
	CategoryOther,
}

// categoryLabels maps codes to their display labels.
var categoryLabels = map[Category]string{
	CategoryFood:          "Food",
	CategoryTravel:        "Travel",
	CategoryUtilities:     "Utilities",
	CategoryEntertainment: "Entertainment",
	CategoryShopping:      "Shopping",
	CategoryHealthcare:    "Healthcare",
	CategoryEducation:     "Education",
	CategoryTransport:     "Transport",
	CategoryRent:          "Rent",
	CategoryInsurance:     "Insurance",
	CategoryOther:         "Other",
}

// Valid reports whether c is one of the fixed category codes.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the human-readable name for the category.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}
