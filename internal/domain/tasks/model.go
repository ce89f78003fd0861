package tasks

import "time"

type Task struct {
	ID          string     `json:"id" gorm:"type:text;primaryKey"`
	Title       string     `json:"title" gorm:"not null"`
	Description *string    `json:"description,omitempty"`
	Status      Status     `json:"status" gorm:"type:varchar(16);not null;default:pending"`
	CategoryID  *string    `json:"categoryId,omitempty" gorm:"index"`
	AssignedTo  *string    `json:"assignedTo,omitempty" gorm:"index"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	UserID      *string    `json:"userId,omitempty" gorm:"index"`
	CreatedAt   time.Time  `json:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time  `json:"updatedAt" gorm:"autoUpdateTime:false"`
}

func (Task) TableName() string {
	return "tasks"
}

func (t Task) OwnedBy(userID string) bool {
	return t.UserID != nil && *t.UserID == userID
}

type CreateTaskInput struct {
	Title       string
	Description *string
	Status      Status
	CategoryID  *string
	AssignedTo  *string
	Deadline    *time.Time
}

// UpdateTaskInput merges over an existing task. A nil pointer keeps the
// current value; the Clear flags remove an optional field.
type UpdateTaskInput struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Status           *Status
	CategoryID       *string
	ClearCategory    bool
	AssignedTo       *string
	ClearAssignee    bool
	Deadline         *time.Time
	ClearDeadline    bool
}

func (in UpdateTaskInput) Empty() bool {
	return in.Title == nil &&
		in.Description == nil && !in.ClearDescription &&
		in.Status == nil &&
		in.CategoryID == nil && !in.ClearCategory &&
		in.AssignedTo == nil && !in.ClearAssignee &&
		in.Deadline == nil && !in.ClearDeadline
}
