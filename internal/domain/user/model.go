package user

import "time"

type Profile struct {
	UserID    string    `json:"userId" gorm:"type:text;primaryKey"`
	Email     *string   `json:"email,omitempty" gorm:"type:text"`
	Name      *string   `json:"name,omitempty" gorm:"type:text"`
	AvatarURL *string   `json:"avatarUrl,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (Profile) TableName() string {
	return "user_profiles"
}
