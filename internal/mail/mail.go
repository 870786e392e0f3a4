// Package mail delivers account notifications.
package mail

import (
	"context"
	"sync"

	"family_recipes/internal/logger"
)

// Sender delivers a plain-text message to a single recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender writes messages to the log instead of sending them.
// Used when SMTP is disabled and in testing mode.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	if s.log != nil {
		s.log.Infow("mail_suppressed", "to", to, "subject", subject, "body_len", len(body))
	}
	return nil
}

// Message is a captured outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Recorder keeps every message in memory. Safe for concurrent use.
type Recorder struct {
	mu   sync.Mutex
	sent []Message
	Err  error
}

func (r *Recorder) Send(_ context.Context, to, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.sent = append(r.sent, Message{To: to, Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of the recorded messages.
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.sent...)
}
