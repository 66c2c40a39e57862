// Package notification sends WhatsApp messages to customers through the
// Fonnte gateway.
package notification

import (
	"context"
	"errors"
	"time"

	"github.com/setorcuan/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ErrGatewayRejected is returned when the gateway answers but refuses the message
var ErrGatewayRejected = errors.New("notification: gateway rejected message")

// Sender delivers a text message to a WhatsApp destination.
// The bool reports whether the gateway accepted the message.
type Sender interface {
	Send(ctx context.Context, destination, message string) (bool, error)
}

// Notifier is the fire-and-forget side used by event handlers
type Notifier interface {
	Notify(ctx context.Context, destination, message string)
}

// NoopSender accepts and drops every message. Used when notifications are disabled.
type NoopSender struct {
	logger *zap.Logger
}

// NewNoopSender creates a sender that only logs at debug level
func NewNoopSender(logger *zap.Logger) *NoopSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoopSender{logger: logger}
}

// Send logs the message and reports it as sent
func (s *NoopSender) Send(_ context.Context, destination, message string) (bool, error) {
	s.logger.Debug("notification disabled, message dropped",
		zap.String("destination", maskDestination(destination)),
		zap.Int("length", len(message)),
	)
	return true, nil
}

// New builds the sender selected by cfg wrapped in an AsyncNotifier
func New(cfg config.NotificationConfig, logger *zap.Logger) *AsyncNotifier {
	var sender Sender
	if cfg.Enabled {
		sender = NewFonnteClient(cfg)
	} else {
		sender = NewNoopSender(logger)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return NewAsyncNotifier(sender, timeout, logger, WithMaxInFlight(cfg.MaxInFlight))
}

// maskDestination keeps the last four digits of a phone number for logs
func maskDestination(d string) string {
	if len(d) <= 4 {
		return "****"
	}
	return "****" + d[len(d)-4:]
}

var (
	_ Sender = (*NoopSender)(nil)
	_ Sender = (*FonnteClient)(nil)
)
