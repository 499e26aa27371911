package models

// FAQ mirrors one settings FAQ entry as a standalone backend row.
type FAQ struct {
	ID       string `gorm:"column:id;primaryKey"`
	Question string `gorm:"column:question;not null"`
	Answer   string `gorm:"column:answer;not null"`
	Enabled  bool   `gorm:"column:enabled;not null;default:true"`
}

func (FAQ) TableName() string { return "faq" }

// TestimonialRow mirrors one settings testimonial as a standalone backend row.
type TestimonialRow struct {
	ID      string  `gorm:"column:id;primaryKey"`
	Name    string  `gorm:"column:name;not null"`
	Content string  `gorm:"column:content;not null"`
	Image   *string `gorm:"column:image"`
	Rating  int     `gorm:"column:rating;not null;default:5"`
	Enabled bool    `gorm:"column:enabled;not null;default:true"`
}

func (TestimonialRow) TableName() string { return "testimonials" }

// Category is one entry of the controlled category vocabulary, keyed by name.
type Category struct {
	Name string `gorm:"column:name;primaryKey"`
}

func (Category) TableName() string { return "categories" }

// Collection is one entry of the controlled tag vocabulary, keyed by name.
// The original backend called the tag table "collections".
type Collection struct {
	Name string `gorm:"column:name;primaryKey"`
}

func (Collection) TableName() string { return "collections" }
