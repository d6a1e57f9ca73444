package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eduplatform/teacher-store/internal/notify"
	"github.com/eduplatform/teacher-store/internal/service"
)

// ErrQueueFull is returned when the mail queue cannot accept more messages.
var ErrQueueFull = errors.New("mail queue full")

// ErrStopped is returned for messages enqueued after Stop.
var ErrStopped = errors.New("mail worker stopped")

// MailWorker delivers email off the request path. It implements notify.Mailer
// so the notification service can use it in place of a direct mailer.
type MailWorker struct {
	next    notify.Mailer
	jobs    chan notify.Message
	logger  *zap.Logger
	timeout time.Duration

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewMailWorker wraps next with a bounded queue drained by `workers` goroutines.
func NewMailWorker(next notify.Mailer, buffer, workers int, logger *zap.Logger) *MailWorker {
	if buffer <= 0 {
		buffer = 64
	}
	if workers <= 0 {
		workers = 1
	}
	w := &MailWorker{
		next:    next,
		jobs:    make(chan notify.Message, buffer),
		logger:  logger,
		timeout: 15 * time.Second,
	}
	for i := 0; i < workers; i++ {
		w.wg.Add(1)
		go w.run()
	}
	return w
}

// Send enqueues msg without waiting for delivery.
func (w *MailWorker) Send(_ context.Context, msg notify.Message) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return ErrStopped
	}
	select {
	case w.jobs <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop stops accepting messages and waits for queued ones to be delivered.
func (w *MailWorker) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.jobs)
	w.mu.Unlock()
	w.wg.Wait()
}

func (w *MailWorker) run() {
	defer w.wg.Done()
	for msg := range w.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		if err := w.next.Send(ctx, msg); err != nil {
			w.logger.Error("email delivery failed",
				zap.String("to", msg.ToEmail),
				zap.String("subject", msg.Subject),
				zap.Error(err))
		}
		cancel()
	}
}

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
