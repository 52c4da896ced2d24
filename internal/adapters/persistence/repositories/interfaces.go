package repositories

import (
	"context"

	"campus-visitpass/internal/adapters/persistence/models"
	"campus-visitpass/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmailAndRole(ctx context.Context, email string, role domain.Role) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, role string, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
	CountRequests(ctx context.Context, userID uint) (int64, error)
}

// VisitorRequestRepository defines visitor request repository interface
type VisitorRequestRepository interface {
	Create(ctx context.Context, req *models.VisitorRequest) error
	GetByID(ctx context.Context, id uint) (*models.VisitorRequest, error)
	ListByOwner(ctx context.Context, userID uint) ([]*models.VisitorRequest, error)
	List(ctx context.Context, status string, offset, limit int) ([]*models.VisitorRequest, int64, error)
	// TransitionFrom applies updates only while the request still holds the
	// expected status. Returns false when another transition won the race.
	TransitionFrom(ctx context.Context, id uint, from domain.RequestStatus, updates map[string]interface{}) (bool, error)
}

// EntryEventRepository defines entry event repository interface
type EntryEventRepository interface {
	Create(ctx context.Context, event *models.EntryEvent) error
	ListByRequest(ctx context.Context, requestID uint) ([]*models.EntryEvent, error)
}
