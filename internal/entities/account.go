package entities

import "time"

// Account is the credential record held by the embedded identity provider.
// Hosted deployments never see this table; the external provider owns the
// equivalent state.
type Account struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}
