package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WelcomeMessageEmailData holds data for the welcome email sent on sign-up.
type WelcomeMessageEmailData struct {
	Email string
	Name  string
}

// SubscriptionConfirmedEmailData holds data for the subscription confirmation email.
type SubscriptionConfirmedEmailData struct {
	Email         string
	EventHeadline string
	EventStart    string
}

// EmailService defines the contract for sending domain-level emails.
// All sends are best-effort: callers log failures and never surface them.
type EmailService interface {
	SendWelcomeMessage(ctx context.Context, data *WelcomeMessageEmailData) error
	SendSubscriptionConfirmed(ctx context.Context, data *SubscriptionConfirmedEmailData) error
}
