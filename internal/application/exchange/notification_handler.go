package exchange

import (
	"context"
	"fmt"
	"strings"

	"github.com/setorcuan/backend/internal/domain/account"
	"github.com/setorcuan/backend/internal/domain/exchange"
	"github.com/setorcuan/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Notifier sends a message without waiting for delivery
type Notifier interface {
	Notify(ctx context.Context, destination, message string)
}

// NotificationHandler sends the owner a WhatsApp message when a deposit or
// withdrawal is submitted or resolved
type NotificationHandler struct {
	users    account.UserRepository
	notifier Notifier
	logger   *zap.Logger
}

// NewNotificationHandler creates a new handler for transaction events
func NewNotificationHandler(users account.UserRepository, notifier Notifier, logger *zap.Logger) *NotificationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationHandler{users: users, notifier: notifier, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *NotificationHandler) EventTypes() []string {
	return []string{
		exchange.EventTypeDepositSubmitted,
		exchange.EventTypeDepositValidated,
		exchange.EventTypeDepositCancelled,
		exchange.EventTypeWithdrawalSubmitted,
		exchange.EventTypeWithdrawalProcessing,
		exchange.EventTypeWithdrawalCompleted,
		exchange.EventTypeWithdrawalCancelled,
	}
}

// Handle looks up the owner's WhatsApp number and schedules the message
func (h *NotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	owned, ok := event.(exchange.OwnedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}

	user, err := h.users.FindByID(ctx, owned.Owner())
	if err != nil {
		return fmt.Errorf("load event owner: %w", err)
	}
	if user.Profile.WhatsApp == "" {
		h.logger.Debug("owner has no whatsapp number",
			zap.String("user_id", user.ID.String()),
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	msg, ok := composeMessage(user.Username, event)
	if !ok {
		return nil
	}
	h.notifier.Notify(ctx, user.Profile.WhatsApp, msg)
	return nil
}

func composeMessage(username string, event shared.DomainEvent) (string, bool) {
	var lines []string
	switch e := event.(type) {
	case *exchange.DepositEvent:
		detail := []string{
			"Kategori: " + e.Category,
			"Berat: " + e.WeightKg.String() + " kg",
			fmt.Sprintf("Poin: %d poin", e.Points),
		}
		switch e.EventType() {
		case exchange.EventTypeDepositSubmitted:
			lines = append([]string{fmt.Sprintf("Halo %s! Permintaan tukar sampah kamu diterima.", username)}, detail...)
			lines = append(lines, "Status: Pending konfirmasi", "Admin akan menghubungi kamu segera.")
		case exchange.EventTypeDepositValidated:
			lines = append([]string{fmt.Sprintf("Halo %s! Setoran sampah kamu sudah divalidasi.", username)}, detail...)
			lines = append(lines, "Status: Berhasil", "Poin sudah masuk ke saldo kamu.")
		case exchange.EventTypeDepositCancelled:
			lines = append([]string{fmt.Sprintf("Halo %s! Setoran sampah kamu dibatalkan.", username)}, detail...)
			lines = append(lines, "Status: Dibatalkan")
			if e.Note != "" {
				lines = append(lines, "Catatan: "+e.Note)
			}
		default:
			return "", false
		}
	case *exchange.WithdrawalEvent:
		detail := []string{
			fmt.Sprintf("Jumlah Poin: %d", e.PointAmount),
			"Nominal: Rp " + e.CurrencyAmount.StringFixed(0),
		}
		switch e.EventType() {
		case exchange.EventTypeWithdrawalSubmitted:
			lines = append([]string{fmt.Sprintf("Halo %s! Permintaan tukar poin kamu diterima.", username)}, detail...)
			lines = append(lines, "Status: Pending konfirmasi", "Admin akan menghubungi kamu segera.")
		case exchange.EventTypeWithdrawalProcessing:
			lines = append([]string{fmt.Sprintf("Halo %s! Penukaran poin kamu sedang diproses.", username)}, detail...)
			lines = append(lines, "Status: Diproses")
		case exchange.EventTypeWithdrawalCompleted:
			lines = append([]string{fmt.Sprintf("Halo %s! Penukaran poin kamu berhasil ditransfer.", username)}, detail...)
			lines = append(lines, "Status: Berhasil")
			if e.ProofURL != "" {
				lines = append(lines, "Bukti transfer: "+e.ProofURL)
			}
		case exchange.EventTypeWithdrawalCancelled:
			lines = append([]string{fmt.Sprintf("Halo %s! Penukaran poin kamu dibatalkan.", username)}, detail...)
			lines = append(lines, "Status: Dibatalkan", "Poin kamu tidak berkurang.")
			if e.Note != "" {
				lines = append(lines, "Catatan: "+e.Note)
			}
		default:
			return "", false
		}
	default:
		return "", false
	}
	return strings.Join(lines, "\n"), true
}
