package repositories

import (
	"context"

	"campus-visitpass/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// entryEventRepository implements EntryEventRepository interface
type entryEventRepository struct {
	db *gorm.DB
}

// NewEntryEventRepository creates a new entry event repository
func NewEntryEventRepository(db *gorm.DB) EntryEventRepository {
	return &entryEventRepository{db: db}
}

// Create appends an entry event
func (r *entryEventRepository) Create(ctx context.Context, event *models.EntryEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// ListByRequest lists entry events for a request, newest first
func (r *entryEventRepository) ListByRequest(ctx context.Context, requestID uint) ([]*models.EntryEvent, error) {
	var events []*models.EntryEvent
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at DESC").
		Find(&events).Error
	return events, err
}
