package entity

// Category is one of the fixed lesson levels offered on the category screen.
type Category string

const (
	CategoryBeginner      Category = "beginner"
	CategoryIntermediate  Category = "intermediate"
	CategoryExpert        Category = "expert"
	CategoryCertification Category = "certification"
)

// DefaultCategory is used when a search arrives without a category.
const DefaultCategory = CategoryBeginner

var categoryLabels = map[Category]string{
	CategoryBeginner:      "초보자",
	CategoryIntermediate:  "중급자",
	CategoryExpert:        "전문가",
	CategoryCertification: "자격증",
}

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{CategoryBeginner, CategoryIntermediate, CategoryExpert, CategoryCertification}
}

// String returns the string representation of the Category.
func (c Category) String() string {
	return string(c)
}

// IsValid checks if the Category is a valid value.
func (c Category) IsValid() bool {
	_, ok := categoryLabels[c]

	return ok
}

// Label is the display label, also the first word of the places keyword.
func (c Category) Label() string {
	return categoryLabels[c]
}
