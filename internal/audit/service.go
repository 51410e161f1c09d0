// Package audit records the authentication audit trail: sign-ins, sign-ups,
// sign-outs, failed refreshes, and denied writes.
package audit

import (
	"log"

	"github.com/recipeshare/server/internal/database/audit"
	"github.com/recipeshare/server/internal/entities"
)

// Service provides high-level audit logging.
type Service struct {
	repo *audit.Repository
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic auth event.
func (s *Service) Log(event *entities.AuthEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an auth event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuthEvent) {
	go func() {
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log auth event: %v", err)
		}
	}()
}

// RecordSignIn records a sign-in attempt.
func (s *Service) RecordSignIn(identityID, email, ip string, err error) {
	s.record(entities.AuthEventSignIn, identityID, email, ip, err)
}

// RecordSignUp records a registration attempt.
func (s *Service) RecordSignUp(identityID, email, ip string, err error) {
	s.record(entities.AuthEventSignUp, identityID, email, ip, err)
}

// RecordSignOut records a sign-out. A failed remote call is still recorded
// as a sign-out, with the error attached.
func (s *Service) RecordSignOut(identityID, ip string, err error) {
	s.record(entities.AuthEventSignOut, identityID, "", ip, err)
}

// RecordRefreshFailure records an irrecoverable session refresh.
func (s *Service) RecordRefreshFailure(ip string, err error) {
	s.record(entities.AuthEventRefreshFailed, "", "", ip, err)
}

// RecordWriteDenied records an ownership or authentication rejection on a
// write path.
func (s *Service) RecordWriteDenied(identityID, entityType, entityID, ip string) {
	event := &entities.AuthEvent{
		IdentityID: identityID,
		EventType:  entities.AuthEventWriteDenied,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  ip,
		Status:     entities.AuthEventStatusFailed,
	}
	s.LogAsync(event)
}

func (s *Service) record(eventType entities.AuthEventType, identityID, email, ip string, err error) {
	event := &entities.AuthEvent{
		IdentityID: identityID,
		EventType:  eventType,
		Email:      email,
		IPAddress:  ip,
		Status:     entities.AuthEventStatusSuccess,
	}
	if err != nil {
		event.Status = entities.AuthEventStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}
	s.LogAsync(event)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
