package categories

type Category struct {
	ID      string  `json:"id" gorm:"type:text;primaryKey"`
	Name    string  `json:"name" gorm:"not null"`
	Icon    string  `json:"icon" gorm:"not null;default:''"`
	OwnerID *string `json:"ownerId,omitempty" gorm:"column:user_id;index"`
}

func (Category) TableName() string {
	return "categories"
}

// Shared reports whether the category belongs to every user.
func (c Category) Shared() bool {
	return c.OwnerID == nil || *c.OwnerID == ""
}

type CreateCategoryInput struct {
	Name string
	Icon string
}

type UpdateCategoryInput struct {
	Name *string
	Icon *string
}

func (in UpdateCategoryInput) Empty() bool {
	return in.Name == nil && in.Icon == nil
}
