package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"campus-visitpass/internal/adapters/persistence/models"
	"campus-visitpass/internal/adapters/persistence/repositories"
	"campus-visitpass/internal/core/domain"
	"campus-visitpass/internal/pkg/qr"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Indian mobile numbers: 10 digits starting 6-9
var mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("in_mobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})
	return v
}

// RequestService handles the visitor request lifecycle
type RequestService struct {
	requestRepo   repositories.VisitorRequestRepository
	userRepo      repositories.UserRepository
	notifyService *NotificationService
}

// NewRequestService creates a new request service
func NewRequestService(
	requestRepo repositories.VisitorRequestRepository,
	userRepo repositories.UserRepository,
	notifyService *NotificationService,
) *RequestService {
	return &RequestService{
		requestRepo:   requestRepo,
		userRepo:      userRepo,
		notifyService: notifyService,
	}
}

// SubmitInput represents visitor request submission input
type SubmitInput struct {
	VisitorName             string `json:"visitor_name" validate:"required,min=2,max=100"`
	Relationship            string `json:"relationship" validate:"required,max=50"`
	Mobile                  string `json:"mobile" validate:"required,in_mobile"`
	VehicleType             string `json:"vehicle_type" validate:"omitempty,max=30"`
	VehicleNo               string `json:"vehicle_no" validate:"omitempty,max=20"`
	AdditionalVisitors      string `json:"additional_visitors" validate:"omitempty,oneof=0 1 2 3 4 5+"`
	VisitDate               string `json:"visit_date" validate:"required,datetime=2006-01-02"`
	VisitTime               string `json:"visit_time" validate:"required,max=20"`
	Purpose                 string `json:"purpose" validate:"required,max=1000"`
	GuestHouse              bool   `json:"guest_house"`
	GuestHouseApprovalEmail string `json:"guest_house_approval_email" validate:"omitempty,email"`
}

// additionalVisitorCount maps the submitted band to a stored count.
// "5+" is stored as 4 extra visitors on top of the named one.
func additionalVisitorCount(band string) int {
	switch band {
	case "", "0":
		return 0
	case "5+":
		return 4
	default:
		return int(band[0] - '0')
	}
}

// Submit creates a new visitor request in the review queue
func (s *RequestService) Submit(ctx context.Context, userID uint, input *SubmitInput) (*models.VisitorRequest, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, validationMessage(err))
	}

	visitDate, err := time.ParseInLocation("2006-01-02", input.VisitDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: visit_date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}

	today := startOfDay(time.Now())
	if visitDate.Before(today) {
		return nil, fmt.Errorf("%w: visit_date cannot be in the past", domain.ErrInvalidInput)
	}

	if input.GuestHouse && strings.TrimSpace(input.GuestHouseApprovalEmail) == "" {
		return nil, fmt.Errorf("%w: guest_house_approval_email is required for guest house stays", domain.ErrInvalidInput)
	}

	exists, err := s.userRepo.ExistsByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrInvalidOwner
	}

	req := &models.VisitorRequest{
		UserID:             userID,
		VisitorName:        strings.TrimSpace(input.VisitorName),
		Relationship:       strings.TrimSpace(input.Relationship),
		Mobile:             input.Mobile,
		VehicleType:        strings.TrimSpace(input.VehicleType),
		AdditionalVisitors: additionalVisitorCount(input.AdditionalVisitors),
		VisitDate:          visitDate,
		VisitTime:          input.VisitTime,
		Purpose:            strings.TrimSpace(input.Purpose),
		GuestHouse:         input.GuestHouse,
		Status:             string(domain.StatusPendingReview),
	}

	if v := strings.TrimSpace(input.VehicleNo); v != "" {
		req.VehicleNo = &v
	}
	if e := strings.TrimSpace(input.GuestHouseApprovalEmail); e != "" {
		req.GuestHouseApprovalEmail = &e
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	return req, nil
}

// GetByID gets a request by ID
func (s *RequestService) GetByID(ctx context.Context, id uint) (*models.VisitorRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

// ListByOwner lists the requester's own submissions, newest first
func (s *RequestService) ListByOwner(ctx context.Context, userID uint) ([]*models.VisitorRequest, error) {
	return s.requestRepo.ListByOwner(ctx, userID)
}

// List lists requests for review, optionally filtered by status
func (s *RequestService) List(ctx context.Context, status string, offset, limit int) ([]*models.VisitorRequest, int64, error) {
	if status != "" && !domain.RequestStatus(status).Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	return s.requestRepo.List(ctx, status, offset, limit)
}

// Approve transitions a pending request to APPROVED, minting its entry
// pass. Exactly one caller wins a concurrent race on the same request;
// the rest get ErrInvalidTransition.
func (s *RequestService) Approve(ctx context.Context, id uint, approver *domain.Identity) (*models.VisitorRequest, error) {
	req, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if domain.RequestStatus(req.Status) != domain.StatusPendingReview {
		return nil, domain.ErrInvalidTransition
	}

	now := time.Now()
	token, err := qr.Mint(req.ID, req.VisitorName, req.VisitDate, approver.Name, now)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":      string(domain.StatusApproved),
		"qr_code":     token.Payload,
		"approved_by": approver.UserID,
		"approved_at": now,
	}

	won, err := s.requestRepo.TransitionFrom(ctx, id, domain.StatusPendingReview, updates)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, domain.ErrInvalidTransition
	}

	// Re-read so the response carries the stored state, not our local copy
	req, err = s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.notifyService != nil && req.User != nil {
		s.notifyService.NotifyApproved(req, token.Image, req.User.Email, req.User.Name)
	}

	return req, nil
}

// Reject transitions a pending request to REJECTED with an optional reason
func (s *RequestService) Reject(ctx context.Context, id uint, approver *domain.Identity, reason string) (*models.VisitorRequest, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) > 500 {
		return nil, fmt.Errorf("%w: reason must be at most 500 characters", domain.ErrInvalidInput)
	}

	req, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if domain.RequestStatus(req.Status) != domain.StatusPendingReview {
		return nil, domain.ErrInvalidTransition
	}

	updates := map[string]interface{}{
		"status":      string(domain.StatusRejected),
		"approved_by": approver.UserID,
		"approved_at": time.Now(),
	}
	if reason != "" {
		updates["reject_reason"] = reason
	}

	won, err := s.requestRepo.TransitionFrom(ctx, id, domain.StatusPendingReview, updates)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, domain.ErrInvalidTransition
	}

	req, err = s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.notifyService != nil && req.User != nil {
		s.notifyService.NotifyRejected(req, req.User.Email, req.User.Name)
	}

	return req, nil
}

// startOfDay truncates to local midnight
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// validationMessage flattens the first validator error into a short
// field-level message
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("%s is required", fieldName(fe))
		case "in_mobile":
			return "mobile must be a 10-digit Indian number starting 6-9"
		case "datetime":
			return fmt.Sprintf("%s must be YYYY-MM-DD", fieldName(fe))
		case "email":
			return fmt.Sprintf("%s must be a valid email", fieldName(fe))
		default:
			return fmt.Sprintf("%s is invalid", fieldName(fe))
		}
	}
	return "invalid input"
}

func fieldName(fe validator.FieldError) string {
	return strings.ToLower(fe.Field())
}
