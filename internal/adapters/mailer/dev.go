package mailer

import "log"

// DevMailer logs mail instead of sending it
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	log.Printf("📧 [DEV MAIL] to=%s (%s) subject=%q", toEmail, toName, subject)
	log.Printf("📧 [DEV MAIL] body: %s", text)
	return "", nil
}
