package notification

import "context"

type EmailService interface {
	SendText(ctx context.Context, to, subject, body string) error
	SendHTML(ctx context.Context, to, subject, body string) error
}

// Alerter sends to a preconfigured recipient, for alarms that fire with
// nobody around to address them.
type Alerter interface {
	Alert(ctx context.Context, subject, body string) error
}
