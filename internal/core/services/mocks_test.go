package services_test

import (
	"context"
	"sync"
	"time"

	"campus-visitpass/internal/adapters/persistence/models"
	"campus-visitpass/internal/core/domain"

	"gorm.io/gorm"
)

// In-memory repository fakes for service tests.

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmailAndRole(ctx context.Context, email string, role domain.Role) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email && user.Role == string(role) {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, role string, offset, limit int) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []*models.User
	for _, user := range r.users {
		if role == "" || user.Role == role {
			users = append(users, user)
		}
	}
	return users, int64(len(users)), nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByID(ctx context.Context, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[id]
	return ok, nil
}

func (r *fakeUserRepo) CountRequests(ctx context.Context, userID uint) (int64, error) {
	return 0, nil
}

type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[uint]*models.VisitorRequest
	users    *fakeUserRepo
	nextID   uint
}

func newFakeRequestRepo(users *fakeUserRepo) *fakeRequestRepo {
	return &fakeRequestRepo{
		requests: make(map[uint]*models.VisitorRequest),
		users:    users,
		nextID:   1,
	}
}

func (r *fakeRequestRepo) Create(ctx context.Context, req *models.VisitorRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.ID = r.nextID
	r.nextID++
	copied := *req
	r.requests[req.ID] = &copied
	return nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id uint) (*models.VisitorRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *req
	if r.users != nil {
		if owner, err := r.users.GetByID(ctx, req.UserID); err == nil {
			copied.User = owner
		}
	}
	return &copied, nil
}

func (r *fakeRequestRepo) ListByOwner(ctx context.Context, userID uint) ([]*models.VisitorRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.VisitorRequest
	for _, req := range r.requests {
		if req.UserID == userID {
			copied := *req
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) List(ctx context.Context, status string, offset, limit int) ([]*models.VisitorRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.VisitorRequest
	for _, req := range r.requests {
		if status == "" || req.Status == status {
			copied := *req
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

// TransitionFrom mirrors the status-guarded conditional update: the write
// applies only when the stored status still matches.
func (r *fakeRequestRepo) TransitionFrom(ctx context.Context, id uint, from domain.RequestStatus, updates map[string]interface{}) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok || req.Status != string(from) {
		return false, nil
	}
	for col, val := range updates {
		switch col {
		case "status":
			req.Status = val.(string)
		case "qr_code":
			s := val.(string)
			req.QRCode = &s
		case "approved_by":
			id := val.(uint)
			req.ApprovedBy = &id
		case "approved_at":
			t := val.(time.Time)
			req.ApprovedAt = &t
		case "reject_reason":
			s := val.(string)
			req.RejectReason = &s
		}
	}
	return true, nil
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events []*models.EntryEvent
	nextID uint
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{nextID: 1}
}

func (r *fakeEventRepo) Create(ctx context.Context, event *models.EntryEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.ID = r.nextID
	r.nextID++
	r.events = append(r.events, event)
	return nil
}

func (r *fakeEventRepo) ListByRequest(ctx context.Context, requestID uint) ([]*models.EntryEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.EntryEvent
	for _, event := range r.events {
		if event.RequestID == requestID {
			out = append(out, event)
		}
	}
	return out, nil
}

// capturedMail is one message handed to the fake mailer.
type capturedMail struct {
	ToEmail, ToName, Subject, Text, HTML string
}

// fakeMailer implements mailer.Service and hands each message to a channel
// so tests can wait out the fire-and-forget send goroutine.
type fakeMailer struct {
	sent chan capturedMail
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan capturedMail, 8)}
}

func (m *fakeMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	m.sent <- capturedMail{ToEmail: toEmail, ToName: toName, Subject: subject, Text: text, HTML: html}
	return "fake-message-id", nil
}
