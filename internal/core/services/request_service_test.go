package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"campus-visitpass/internal/adapters/persistence/models"
	"campus-visitpass/internal/core/domain"
	"campus-visitpass/internal/core/services"
)

func seedStudent(t *testing.T, users *fakeUserRepo) *models.User {
	t.Helper()
	user := &models.User{
		Name:     "John Doe",
		Email:    "cs21b1001@iith.ac.in",
		Password: "hashed",
		Role:     string(domain.RoleStudent),
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func validSubmitInput() *services.SubmitInput {
	return &services.SubmitInput{
		VisitorName:        "Jane Visitor",
		Relationship:       "Parent",
		Mobile:             "9876543210",
		VisitDate:          time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		VisitTime:          "10:30",
		Purpose:            "Family visit",
		AdditionalVisitors: "2",
	}
}

func TestSubmitCreatesPendingRequest(t *testing.T) {
	users := newFakeUserRepo()
	requests := newFakeRequestRepo(users)
	svc := services.NewRequestService(requests, users, nil)
	student := seedStudent(t, users)

	req, err := svc.Submit(context.Background(), student.ID, validSubmitInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if req.Status != string(domain.StatusPendingReview) {
		t.Errorf("status = %q, want %q", req.Status, domain.StatusPendingReview)
	}
	if req.QRCode != nil {
		t.Error("new request must not carry a QR code")
	}
	if req.AdditionalVisitors != 2 {
		t.Errorf("additional visitors = %d, want 2", req.AdditionalVisitors)
	}
}

func TestSubmitMapsFivePlusBand(t *testing.T) {
	users := newFakeUserRepo()
	requests := newFakeRequestRepo(users)
	svc := services.NewRequestService(requests, users, nil)
	student := seedStudent(t, users)

	input := validSubmitInput()
	input.AdditionalVisitors = "5+"

	req, err := svc.Submit(context.Background(), student.ID, input)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if req.AdditionalVisitors != 4 {
		t.Errorf("additional visitors = %d, want 4 for the 5+ band", req.AdditionalVisitors)
	}
}

func TestSubmitRejectsBadMobile(t *testing.T) {
	users := newFakeUserRepo()
	requests := newFakeRequestRepo(users)
	svc := services.NewRequestService(requests, users, nil)
	student := seedStudent(t, users)

	for _, mobile := range []string{"5123456789", "987654321", "98765432100", "abcdefghij"} {
		input := validSubmitInput()
		input.Mobile = mobile

		_, err := svc.Submit(context.Background(), student.ID, input)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("mobile %q: err = %v, want ErrInvalidInput", mobile, err)
		}
	}
}

func TestSubmitRejectsPastVisitDate(t *testing.T) {
	users := newFakeUserRepo()
	requests := newFakeRequestRepo(users)
	svc := services.NewRequestService(requests, users, nil)
	student := seedStudent(t, users)

	input := validSubmitInput()
	input.VisitDate = time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	if _, err := svc.Submit(context.Background(), student.ID, input); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSubmitAllowsToday(t *testing.T) {
	users := newFakeUserRepo()
	requests := newFakeRequestRepo(users)
	svc := services.NewRequestService(requests, users, nil)
	student := seedStudent(t, users)

	input := validSubmitInput()
	input.VisitDate = time.Now().Format("2006-01-02")

	if _, err := svc.Submit(context.Background(), student.ID, input); err != nil {
		t.Errorf("same-day submission failed: %v", err)
	}
}

func TestSubmitRequiresGuestHouseEmail(t *testing.T) {
	users := newFakeUserRepo()
	requests := newFakeRequestRepo(users)
	svc := services.NewRequestService(requests, users, nil)
	student := seedStudent(t, users)

	input := validSubmitInput()
	input.GuestHouse = true

	if _, err := svc.Submit(context.Background(), student.ID, input); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}

	input.GuestHouseApprovalEmail = "warden@iith.ac.in"
	if _, err := svc.Submit(context.Background(), student.ID, input); err != nil {
		t.Errorf("guest house with approval email failed: %v", err)
	}
}

func TestSubmitRejectsUnknownOwner(t *testing.T) {
	users := newFakeUserRepo()
	requests := newFakeRequestRepo(users)
	svc := services.NewRequestService(requests, users, nil)

	if _, err := svc.Submit(context.Background(), 999, validSubmitInput()); !errors.Is(err, domain.ErrInvalidOwner) {
		t.Errorf("err = %v, want ErrInvalidOwner", err)
	}
}

func TestApproveMintsPassOnce(t *testing.T) {
	users := newFakeUserRepo()
	requests := newFakeRequestRepo(users)
	svc := services.NewRequestService(requests, users, nil)
	student := seedStudent(t, users)
	admin := &domain.Identity{UserID: 42, Name: "Admin User", Role: domain.RoleAdmin}

	submitted, err := svc.Submit(context.Background(), student.ID, validSubmitInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	approved, err := svc.Approve(context.Background(), submitted.ID, admin)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != string(domain.StatusApproved) {
		t.Errorf("status = %q, want APPROVED", approved.Status)
	}
	if approved.QRCode == nil || *approved.QRCode == "" {
		t.Fatal("approved request must carry a QR payload")
	}
	if approved.ApprovedBy == nil || *approved.ApprovedBy != admin.UserID {
		t.Error("approved_by not recorded")
	}

	// Second decision must lose without re-minting
	if _, err := svc.Approve(context.Background(), submitted.ID, admin); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("second approve err = %v, want ErrInvalidTransition", err)
	}

	after, _ := svc.GetByID(context.Background(), submitted.ID)
	if *after.QRCode != *approved.QRCode {
		t.Error("second approve attempt changed the stored QR payload")
	}
}

func TestApproveEmailEmbedsPassImage(t *testing.T) {
	users := newFakeUserRepo()
	requests := newFakeRequestRepo(users)
	mail := newFakeMailer()
	svc := services.NewRequestService(requests, users, services.NewNotificationService(mail))
	student := seedStudent(t, users)
	admin := &domain.Identity{UserID: 42, Name: "Admin User", Role: domain.RoleAdmin}

	submitted, err := svc.Submit(context.Background(), student.ID, validSubmitInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := svc.Approve(context.Background(), submitted.ID, admin); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	select {
	case msg := <-mail.sent:
		if msg.ToEmail != student.Email {
			t.Errorf("mail to %q, want %q", msg.ToEmail, student.Email)
		}
		// The inline image must be a scannable rendering, not the opaque
		// base64 claims payload stored on the request.
		if !strings.Contains(msg.HTML, `src="data:image/png;base64,`) {
			t.Errorf("approval mail does not embed a PNG data URL:\n%s", msg.HTML)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("approval mail was never sent")
	}
}

func TestRejectAfterApproveLeavesApproved(t *testing.T) {
	users := newFakeUserRepo()
	requests := newFakeRequestRepo(users)
	svc := services.NewRequestService(requests, users, nil)
	student := seedStudent(t, users)
	admin := &domain.Identity{UserID: 42, Name: "Admin User", Role: domain.RoleAdmin}

	submitted, err := svc.Submit(context.Background(), student.ID, validSubmitInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := svc.Approve(context.Background(), submitted.ID, admin); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	if _, err := svc.Reject(context.Background(), submitted.ID, admin, "too late"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("reject-after-approve err = %v, want ErrInvalidTransition", err)
	}

	after, _ := svc.GetByID(context.Background(), submitted.ID)
	if after.Status != string(domain.StatusApproved) {
		t.Errorf("status = %q, want APPROVED to survive the losing reject", after.Status)
	}
}

func TestRejectStoresReason(t *testing.T) {
	users := newFakeUserRepo()
	requests := newFakeRequestRepo(users)
	svc := services.NewRequestService(requests, users, nil)
	student := seedStudent(t, users)
	admin := &domain.Identity{UserID: 42, Name: "Admin User", Role: domain.RoleAdmin}

	submitted, err := svc.Submit(context.Background(), student.ID, validSubmitInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	rejected, err := svc.Reject(context.Background(), submitted.ID, admin, "Visit conflicts with exams")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.Status != string(domain.StatusRejected) {
		t.Errorf("status = %q, want REJECTED", rejected.Status)
	}
	if rejected.QRCode != nil {
		t.Error("rejected request must not carry a QR code")
	}
	if rejected.RejectReason == nil || *rejected.RejectReason != "Visit conflicts with exams" {
		t.Error("reject reason not stored")
	}
}

func TestRejectReasonTooLong(t *testing.T) {
	users := newFakeUserRepo()
	requests := newFakeRequestRepo(users)
	svc := services.NewRequestService(requests, users, nil)
	student := seedStudent(t, users)
	admin := &domain.Identity{UserID: 42, Name: "Admin User", Role: domain.RoleAdmin}

	submitted, err := svc.Submit(context.Background(), student.ID, validSubmitInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	long := make([]byte, 501)
	for i := range long {
		long[i] = 'x'
	}
	if _, err := svc.Reject(context.Background(), submitted.ID, admin, string(long)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput for a 501-char reason", err)
	}
}
