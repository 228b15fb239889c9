// Package notify delivers meeting notifications to external channels. Every
// delivery is fire-and-forget from the scheduler's perspective: failures are
// reported to the caller for logging but never abort meeting creation.
package notify

import (
	"context"
	"log/slog"
	"time"
)

// Message is one notification addressed to a single user.
type Message struct {
	UserID  string `json:"user_id"`
	EventID string `json:"event_id,omitempty"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Notifier delivers a message to one channel.
type Notifier interface {
	Notify(ctx context.Context, message Message) error
}

// EmailSimulator stands in for a real mail provider: it records the delivery
// in the log and reports success. Useful in development and demos where no
// SMTP credentials exist.
type EmailSimulator struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewEmailSimulator constructs a simulator writing to the provided logger.
func NewEmailSimulator(logger *slog.Logger, now func() time.Time) *EmailSimulator {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &EmailSimulator{logger: logger, now: now}
}

// Notify logs the simulated delivery.
func (e *EmailSimulator) Notify(ctx context.Context, message Message) error {
	e.logger.InfoContext(ctx, "simulated email delivery",
		"recipient", message.UserID,
		"subject", message.Subject,
		"event_id", message.EventID,
		"at", e.now().UTC().Format(time.RFC3339),
	)
	return nil
}

// Multi fans a message out to several notifiers. The first failure is
// returned after every notifier has been attempted.
type Multi []Notifier

// Notify delivers to each wrapped notifier in order.
func (m Multi) Notify(ctx context.Context, message Message) error {
	var firstErr error
	for _, notifier := range m {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, message); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
