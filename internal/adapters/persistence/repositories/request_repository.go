package repositories

import (
	"context"

	"campus-visitpass/internal/adapters/persistence/models"
	"campus-visitpass/internal/core/domain"

	"gorm.io/gorm"
)

// visitorRequestRepository implements VisitorRequestRepository interface
type visitorRequestRepository struct {
	db *gorm.DB
}

// NewVisitorRequestRepository creates a new visitor request repository
func NewVisitorRequestRepository(db *gorm.DB) VisitorRequestRepository {
	return &visitorRequestRepository{db: db}
}

// Create creates a new visitor request
func (r *visitorRequestRepository) Create(ctx context.Context, req *models.VisitorRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// GetByID gets a visitor request by ID with its owner
func (r *visitorRequestRepository) GetByID(ctx context.Context, id uint) (*models.VisitorRequest, error) {
	var req models.VisitorRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByOwner lists a student's own requests, newest first
func (r *visitorRequestRepository) ListByOwner(ctx context.Context, userID uint) ([]*models.VisitorRequest, error) {
	var requests []*models.VisitorRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// List lists all requests with an optional status filter and pagination
func (r *visitorRequestRepository) List(ctx context.Context, status string, offset, limit int) ([]*models.VisitorRequest, int64, error) {
	var requests []*models.VisitorRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&models.VisitorRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error

	return requests, total, err
}

// TransitionFrom performs a status-guarded conditional update. Concurrent
// approve/reject calls against the same request get a single winner: the
// guard row-matches on the expected current status, so the loser sees zero
// rows affected and must treat the transition as invalid.
func (r *visitorRequestRepository) TransitionFrom(ctx context.Context, id uint, from domain.RequestStatus, updates map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.VisitorRequest{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
