package services

import (
	"fmt"
	"log"

	"campus-visitpass/internal/adapters/mailer"
	"campus-visitpass/internal/adapters/persistence/models"
)

// NotificationService sends email notifications to requesters and admins.
// Sends are fire-and-forget: a mail failure is logged and never fails the
// business operation that triggered it.
type NotificationService struct {
	mail mailer.Service
}

// NewNotificationService creates a new notification service
func NewNotificationService(mail mailer.Service) *NotificationService {
	return &NotificationService{mail: mail}
}

func (s *NotificationService) send(toEmail, toName, subject, text, html string) {
	go func() {
		if _, err := s.mail.Send(toEmail, toName, subject, text, html); err != nil {
			log.Printf("⚠️ Mail send failed: to=%s subject=%q err=%v", toEmail, subject, err)
		}
	}()
}

// NotifyApproved mails the requester their entry pass. passImage is the
// scannable PNG data URL rendered at mint time; the stored payload itself
// is opaque base64 and would not render in a mail client.
func (s *NotificationService) NotifyApproved(req *models.VisitorRequest, passImage, toEmail, toName string) {
	subject := fmt.Sprintf("Visitor request #%d approved", req.ID)

	visitDate := req.VisitDate.Format("2006-01-02")
	text := fmt.Sprintf(
		"Your visitor request for %s on %s at %s has been approved.\n"+
			"Present the attached QR code at the campus gate between 09:00 and 18:00 on the visit date.",
		req.VisitorName, visitDate, req.VisitTime,
	)

	html := fmt.Sprintf(`<p>Your visitor request for <b>%s</b> on <b>%s</b> at <b>%s</b> has been approved.</p>
<p>Present this QR code at the campus gate on the visit date:</p>
<p><img src="%s" alt="entry pass" width="256" height="256"/></p>`,
		req.VisitorName, visitDate, req.VisitTime, passImage)

	s.send(toEmail, toName, subject, text, html)
}

// NotifyRejected mails the requester the rejection and its reason
func (s *NotificationService) NotifyRejected(req *models.VisitorRequest, toEmail, toName string) {
	subject := fmt.Sprintf("Visitor request #%d rejected", req.ID)

	reason := "No reason was provided."
	if req.RejectReason != nil && *req.RejectReason != "" {
		reason = *req.RejectReason
	}

	text := fmt.Sprintf(
		"Your visitor request for %s on %s was rejected.\nReason: %s",
		req.VisitorName, req.VisitDate.Format("2006-01-02"), reason,
	)
	html := fmt.Sprintf(`<p>Your visitor request for <b>%s</b> on <b>%s</b> was rejected.</p>
<p>Reason: %s</p>`,
		req.VisitorName, req.VisitDate.Format("2006-01-02"), reason)

	s.send(toEmail, toName, subject, text, html)
}

// NotifyPendingDigest mails an admin the count of requests awaiting review
func (s *NotificationService) NotifyPendingDigest(toEmail, toName string, pending int64) {
	subject := fmt.Sprintf("%d visitor requests awaiting review", pending)
	text := fmt.Sprintf("There are %d visitor requests in the review queue.", pending)
	html := fmt.Sprintf("<p>There are <b>%d</b> visitor requests in the review queue.</p>", pending)

	s.send(toEmail, toName, subject, text, html)
}
