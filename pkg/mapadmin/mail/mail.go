// Package mail delivers the transactional notifications of mapadmin
package mail

import (
	"context"
	"log/slog"
)

// Message is a plain-text email
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the log instead of delivering them. It is
// used when no SMTP host is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger.With(slog.String("component", "mail"))}
}

// Send implements Sender
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("mail not delivered, no SMTP host configured",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	s.logger.Debug("mail body", slog.String("body", msg.Body))
	return nil
}
