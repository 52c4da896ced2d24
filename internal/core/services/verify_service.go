package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus-visitpass/internal/adapters/persistence/models"
	"campus-visitpass/internal/adapters/persistence/repositories"
	"campus-visitpass/internal/config"
	"campus-visitpass/internal/core/domain"
	"campus-visitpass/internal/pkg/qr"

	"gorm.io/gorm"
)

// Verification failure reasons, returned to the scanning client
const (
	ReasonMalformed     = "malformed"
	ReasonNotAuthorized = "not_authorized"
	ReasonExpired       = "expired"
	ReasonOutsideHours  = "outside_hours"
)

// PartyMember is a placeholder entry for an additional visitor. Only the
// count is known; names are collected at the gate.
type PartyMember struct {
	Label string `json:"label"`
}

// VerificationResult is the outcome of checking a presented pass
type VerificationResult struct {
	Valid   bool                           `json:"valid"`
	Reason  string                         `json:"reason,omitempty"`
	Request *models.VisitorRequestResponse `json:"request,omitempty"`
	Party   []PartyMember                  `json:"party,omitempty"`
}

// VerifyService checks presented entry passes against live request state.
// The stored request is always authoritative: a decodable pass whose
// request was never approved, or whose stored token differs, is refused.
type VerifyService struct {
	requestRepo repositories.VisitorRequestRepository
	eventRepo   repositories.EntryEventRepository
	visit       config.VisitConfig
	now         func() time.Time
}

// VerifyOption configures a VerifyService
type VerifyOption func(*VerifyService)

// WithClock overrides the wall clock behind the gate-window check
func WithClock(now func() time.Time) VerifyOption {
	return func(s *VerifyService) { s.now = now }
}

// NewVerifyService creates a new verify service
func NewVerifyService(
	requestRepo repositories.VisitorRequestRepository,
	eventRepo repositories.EntryEventRepository,
	visit config.VisitConfig,
	opts ...VerifyOption,
) *VerifyService {
	svc := &VerifyService{
		requestRepo: requestRepo,
		eventRepo:   eventRepo,
		visit:       visit,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Verify validates a presented pass payload. Never returns an error for
// business failures; those come back as an invalid result with a reason.
func (s *VerifyService) Verify(ctx context.Context, payload string) (*VerificationResult, error) {
	claims, err := qr.Decode(payload)
	if err != nil {
		return &VerificationResult{Valid: false, Reason: ReasonMalformed}, nil
	}

	req, err := s.requestRepo.GetByID(ctx, claims.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &VerificationResult{Valid: false, Reason: ReasonNotAuthorized}, nil
		}
		return nil, err
	}

	// The pass is only as good as the stored state behind it
	if !req.IsApproved() || req.QRCode == nil || *req.QRCode != payload {
		return &VerificationResult{Valid: false, Reason: ReasonNotAuthorized}, nil
	}

	now := s.now()
	today := startOfDay(now)
	visitDay := startOfDay(req.VisitDate)

	if visitDay.Before(today) {
		return &VerificationResult{Valid: false, Reason: ReasonExpired}, nil
	}

	// Same-day passes only work during gate hours. Future-dated passes
	// verify at any time of day so admins can pre-check them.
	if visitDay.Equal(today) && !s.withinWindow(now) {
		return &VerificationResult{Valid: false, Reason: ReasonOutsideHours}, nil
	}

	return &VerificationResult{
		Valid:   true,
		Request: req.ToResponse(),
		Party:   partyPlaceholders(req.AdditionalVisitors),
	}, nil
}

// withinWindow checks the inclusive gate window in minutes of the local day
func (s *VerifyService) withinWindow(t time.Time) bool {
	minutes := t.Hour()*60 + t.Minute()
	return minutes >= s.visit.WindowStartHour*60 && minutes <= s.visit.WindowEndHour*60
}

func partyPlaceholders(count int) []PartyMember {
	if count <= 0 {
		return nil
	}
	party := make([]PartyMember, count)
	for i := range party {
		party[i] = PartyMember{Label: fmt.Sprintf("Additional visitor %d", i+1)}
	}
	return party
}

// RecordEventInput represents a gate check-in/out submission
type RecordEventInput struct {
	RequestID uint   `json:"request_id" validate:"required"`
	Kind      string `json:"kind" validate:"required,oneof=checkin checkout"`
}

// RecordEvent appends a gate event for an approved request
func (s *VerifyService) RecordEvent(ctx context.Context, input *RecordEventInput, recordedBy uint) (*models.EntryEvent, error) {
	kind := domain.EntryEventKind(input.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown event kind %q", domain.ErrInvalidInput, input.Kind)
	}

	req, err := s.requestRepo.GetByID(ctx, input.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	if !req.IsApproved() {
		return nil, domain.ErrInvalidTransition
	}

	event := &models.EntryEvent{
		RequestID:  req.ID,
		Kind:       string(kind),
		RecordedBy: &recordedBy,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// ListEvents lists recorded gate events for a request
func (s *VerifyService) ListEvents(ctx context.Context, requestID uint) ([]*models.EntryEvent, error) {
	return s.eventRepo.ListByRequest(ctx, requestID)
}
