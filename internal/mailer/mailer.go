// Package mailer is the notification gateway boundary: a Mailer delivers one
// rendered message to one address, and the rendering functions produce the
// warning and disclosure emails.
package mailer

import (
	"context"
	"log"
)

// Mailer attempts delivery of a single rendered message. Implementations must
// respect ctx cancellation; a returned error means "not sent".
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// LogMailer writes messages to the process log instead of delivering them.
// This is the development transport.
type LogMailer struct{}

// Send implements Mailer
func (LogMailer) Send(ctx context.Context, to, subject, html string) error {
	preview := html
	if len(preview) > 50 {
		preview = preview[:50]
	}
	log.Printf("--- SENDING EMAIL ---\nTo: %s\nSubject: %s\nBody: %s...\n---------------------", to, subject, preview)
	return nil
}
