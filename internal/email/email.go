package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured is returned by a transport that lacks the credentials to send.
var ErrNotConfigured = errors.New("email transport is not configured")

// Message is a single plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Sender delivers messages. Implementations log their own failures.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

func (m Message) validate() error {
	if strings.TrimSpace(m.From) == "" {
		return errors.New("sender address is required")
	}
	if strings.TrimSpace(m.To) == "" {
		return errors.New("recipient address is required")
	}
	if strings.ContainsAny(m.From+m.To, "\r\n") {
		return fmt.Errorf("address must not contain line breaks: %q -> %q", m.From, m.To)
	}
	return nil
}
