package entities

import "time"

// Profile is the one-to-one public metadata record for an Identity.
// ID always equals the owning Identity's ID and never changes.
type Profile struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	FullName  *string   `gorm:"size:255" json:"full_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Recipe is a user-authored content record owned by exactly one Identity.
// UserID is set from the acting identity on create and is immutable after.
type Recipe struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	UserID       string    `gorm:"index;size:36;not null" json:"user_id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  *string   `gorm:"type:text" json:"description,omitempty"`
	Ingredients  string    `gorm:"type:text;not null" json:"ingredients"`
	Instructions string    `gorm:"type:text;not null" json:"instructions"`
	CookingTime  *int      `json:"cooking_time,omitempty"` // minutes
	Difficulty   *string   `gorm:"size:50" json:"difficulty,omitempty"`
	Category     string    `gorm:"index;size:100;not null" json:"category"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (Recipe) TableName() string {
	return "recipes"
}
