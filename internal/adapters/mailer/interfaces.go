package mailer

import "campus-visitpass/internal/config"

// Service sends a single email and returns the provider message id,
// which may be empty for transports that don't assign one.
type Service interface {
	Send(toEmail, toName, subject, text, html string) (string, error)
}

// New selects a mailer implementation from configuration. Unknown
// providers fall back to the dev mailer so a misconfigured box never
// swallows notifications silently.
func New(cfg *config.Config) Service {
	switch cfg.Mail.Provider {
	case "smtp":
		return NewSMTPMailer(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.From, cfg.Mail.SMTPUser, cfg.Mail.SMTPPass)
	case "mailersend":
		return NewMailerSend(cfg.Mail.MailerSendKey, cfg.Mail.FromName, cfg.Mail.From)
	default:
		return NewDevMailer()
	}
}
