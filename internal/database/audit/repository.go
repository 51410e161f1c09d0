package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/recipeshare/server/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an auth event to the database.
func (r *Repository) LogEvent(event *entities.AuthEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Create(event).Error
}

// GetEvents retrieves paginated auth events for an identity, most recent
// first. An empty identityID returns events for all identities.
func (r *Repository) GetEvents(identityID string, limit, offset int) ([]entities.AuthEvent, int64, error) {
	var events []entities.AuthEvent
	var total int64

	query := r.db.Model(&entities.AuthEvent{})
	if identityID != "" {
		query = query.Where("identity_id = ?", identityID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

// DeleteOldEvents removes events older than the retention period. Returns
// the number of rows deleted.
func (r *Repository) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := r.db.Where("created_at < ?", cutoff).Delete(&entities.AuthEvent{})
	return result.RowsAffected, result.Error
}
