package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"campus-visitpass/internal/adapters/http/handlers"
	"campus-visitpass/internal/adapters/persistence/models"
	"campus-visitpass/internal/config"
	"campus-visitpass/internal/core/domain"
	"campus-visitpass/internal/core/services"
	"campus-visitpass/internal/pkg/qr"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// stubRequestRepo serves a single stored request by ID.
type stubRequestRepo struct {
	req *models.VisitorRequest
}

func (r *stubRequestRepo) Create(ctx context.Context, req *models.VisitorRequest) error { return nil }

func (r *stubRequestRepo) GetByID(ctx context.Context, id uint) (*models.VisitorRequest, error) {
	if r.req != nil && r.req.ID == id {
		copied := *r.req
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRequestRepo) ListByOwner(ctx context.Context, userID uint) ([]*models.VisitorRequest, error) {
	return nil, nil
}

func (r *stubRequestRepo) List(ctx context.Context, status string, offset, limit int) ([]*models.VisitorRequest, int64, error) {
	return nil, 0, nil
}

func (r *stubRequestRepo) TransitionFrom(ctx context.Context, id uint, from domain.RequestStatus, updates map[string]interface{}) (bool, error) {
	return false, nil
}

type stubEventRepo struct{}

func (r *stubEventRepo) Create(ctx context.Context, event *models.EntryEvent) error { return nil }

func (r *stubEventRepo) ListByRequest(ctx context.Context, requestID uint) ([]*models.EntryEvent, error) {
	return nil, nil
}

func verifyApp(t *testing.T, requests *stubRequestRepo) *fiber.App {
	t.Helper()

	noon := func() time.Time {
		n := time.Now()
		return time.Date(n.Year(), n.Month(), n.Day(), 12, 0, 0, 0, time.Local)
	}
	svc := services.NewVerifyService(requests, &stubEventRepo{},
		config.VisitConfig{WindowStartHour: 9, WindowEndHour: 18},
		services.WithClock(noon))

	app := fiber.New()
	app.Get("/verify-qr", handlers.NewVerifyHandler(svc).Verify)
	return app
}

func scanEnvelope(t *testing.T, app *fiber.App, payload string) (int, map[string]interface{}) {
	t.Helper()

	target := "/verify-qr"
	if payload != "" {
		target += "?qr=" + url.QueryEscape(payload)
	}
	req, _ := http.NewRequest(http.MethodGet, target, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("unmarshal %q: %v", raw, err)
	}
	return resp.StatusCode, body
}

func TestVerifyEndpointMalformedRidesOn200(t *testing.T) {
	app := verifyApp(t, &stubRequestRepo{})

	for _, payload := range []string{"", "not-a-pass"} {
		status, body := scanEnvelope(t, app, payload)
		if status != http.StatusOK {
			t.Errorf("payload %q: status = %d, want 200", payload, status)
		}
		if valid, _ := body["valid"].(bool); valid {
			t.Errorf("payload %q: valid = true, want false", payload)
		}
		if body["error"] != services.ReasonMalformed {
			t.Errorf("payload %q: error = %v, want malformed", payload, body["error"])
		}
	}
}

func TestVerifyEndpointValidPassEnvelope(t *testing.T) {
	token, err := qr.Mint(7, "Jane Visitor", time.Now(), "Admin User", time.Now())
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	payload := token.Payload
	app := verifyApp(t, &stubRequestRepo{req: &models.VisitorRequest{
		ID:          7,
		UserID:      1,
		VisitorName: "Jane Visitor",
		VisitDate:   time.Now(),
		Status:      string(domain.StatusApproved),
		QRCode:      &payload,
	}})

	status, body := scanEnvelope(t, app, payload)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if valid, _ := body["valid"].(bool); !valid {
		t.Fatalf("valid = false, body = %v", body)
	}
	request, ok := body["request"].(map[string]interface{})
	if !ok {
		t.Fatalf("request missing from envelope: %v", body)
	}
	if _, ok := request["request"]; !ok {
		t.Error("envelope lacks visit details")
	}
}
