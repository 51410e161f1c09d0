package entities

import "time"

type AuthEventType string

const (
	AuthEventSignIn        AuthEventType = "sign_in"
	AuthEventSignUp        AuthEventType = "sign_up"
	AuthEventSignOut       AuthEventType = "sign_out"
	AuthEventRefreshFailed AuthEventType = "refresh_failed"
	AuthEventWriteDenied   AuthEventType = "write_denied"
)

type AuthEventStatus string

const (
	AuthEventStatusSuccess AuthEventStatus = "success"
	AuthEventStatusFailed  AuthEventStatus = "failed"
)

// AuthEvent is one entry in the authentication audit trail.
type AuthEvent struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	IdentityID string          `gorm:"index;size:36" json:"identity_id,omitempty"`
	EventType  AuthEventType   `gorm:"index;size:50" json:"event_type"`
	Email      string          `gorm:"size:255" json:"email,omitempty"`
	EntityType string          `gorm:"size:50" json:"entity_type,omitempty"` // "profile" or "recipe" for denied writes
	EntityID   string          `gorm:"size:36" json:"entity_id,omitempty"`
	IPAddress  string          `gorm:"size:45" json:"ip_address,omitempty"`
	Status     AuthEventStatus `gorm:"size:20" json:"status"`
	ErrorMsg   string          `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt  time.Time       `gorm:"index" json:"created_at"`
}

func (AuthEvent) TableName() string {
	return "auth_events"
}
