package notification

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/setorcuan/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// DefaultMaxInFlight caps concurrent gateway calls
const DefaultMaxInFlight = 32

// AsyncNotifier sends each message on its own goroutine with a deadline.
// At most maxInFlight sends run at once; a message arriving while all slots
// are busy is logged and dropped. Callers never wait on the gateway.
type AsyncNotifier struct {
	sender      Sender
	timeout     time.Duration
	logger      *zap.Logger
	maxInFlight int64
	slots       *semaphore.Weighted
	wg          sync.WaitGroup
}

// AsyncOption configures an AsyncNotifier
type AsyncOption func(*AsyncNotifier)

// WithMaxInFlight sets the number of concurrent sends; values below 1 are ignored
func WithMaxInFlight(n int) AsyncOption {
	return func(a *AsyncNotifier) {
		if n > 0 {
			a.maxInFlight = int64(n)
		}
	}
}

// NewAsyncNotifier wraps sender
func NewAsyncNotifier(sender Sender, timeout time.Duration, log *zap.Logger, opts ...AsyncOption) *AsyncNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	n := &AsyncNotifier{
		sender:      sender,
		timeout:     timeout,
		logger:      log.Named("notification"),
		maxInFlight: DefaultMaxInFlight,
	}
	for _, opt := range opts {
		opt(n)
	}
	n.slots = semaphore.NewWeighted(n.maxInFlight)
	return n
}

// Notify schedules a send. The send keeps the request's log fields but not
// its cancellation.
func (n *AsyncNotifier) Notify(ctx context.Context, destination, message string) {
	log := logger.Decorate(ctx, n.logger)
	destination = strings.TrimSpace(destination)
	if destination == "" {
		log.Debug("no whatsapp number on file, notification skipped")
		return
	}

	if !n.slots.TryAcquire(1) {
		log.Warn("whatsapp notification dropped, gateway busy",
			zap.String("destination", maskDestination(destination)),
			zap.Int64("max_in_flight", n.maxInFlight),
		)
		return
	}

	detached := context.WithoutCancel(ctx)
	n.wg.Go(func() {
		defer n.slots.Release(1)
		sendCtx, cancel := context.WithTimeout(detached, n.timeout)
		defer cancel()

		ok, err := n.sender.Send(sendCtx, destination, message)
		switch {
		case err != nil:
			log.Warn("whatsapp notification failed",
				zap.String("destination", maskDestination(destination)),
				zap.Error(err),
			)
		case !ok:
			log.Warn("whatsapp notification not accepted",
				zap.String("destination", maskDestination(destination)),
			)
		default:
			log.Debug("whatsapp notification sent",
				zap.String("destination", maskDestination(destination)),
			)
		}
	})
}

// Wait blocks until every scheduled send has finished. Used on shutdown and in tests.
func (n *AsyncNotifier) Wait() {
	n.wg.Wait()
}

var _ Notifier = (*AsyncNotifier)(nil)
