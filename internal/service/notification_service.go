package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/eduplatform/teacher-store/internal/domain"
	"github.com/eduplatform/teacher-store/internal/events"
	"github.com/eduplatform/teacher-store/internal/notify"
	"github.com/eduplatform/teacher-store/internal/repository"
)

// NotificationService turns domain events into teacher emails.
type NotificationService struct {
	dispatcher events.Dispatcher
	users      repository.UserRepository
	mailer     notify.Mailer
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, users repository.UserRepository, mailer notify.Mailer, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		users:      users,
		mailer:     mailer,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventOrderCreated, n.handleOrderCreated)
	n.dispatcher.Subscribe(events.EventPaymentConfirmed, n.handlePaymentConfirmed)
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketMessageAdded, n.handleTicketMessageAdded)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventUserStatusChanged, n.handleUserStatusChanged)
}

func (n *NotificationService) handleOrderCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.OrderCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.logger.Info("OrderCreated", zap.String("order_id", event.AggregateID), zap.String("total", payload.Total))
	return n.emailUser(ctx, payload.UserID, "Order received",
		fmt.Sprintf("We received your order %s for the %s bundle (%s MAD, %s). "+
			"Your content will be unlocked once an administrator confirms the payment.",
			event.AggregateID, payload.BundleTier, payload.Total, payload.PaymentMethod))
}

func (n *NotificationService) handlePaymentConfirmed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PaymentConfirmedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.logger.Info("PaymentConfirmed", zap.String("order_id", event.AggregateID), zap.String("admin_id", event.ActorID))
	return n.emailUser(ctx, payload.UserID, "Payment confirmed",
		fmt.Sprintf("Your payment of %s MAD for order %s has been confirmed. The %s bundle is now available in your dashboard.",
			payload.Total, event.AggregateID, payload.BundleTier))
}

func (n *NotificationService) handleTicketCreated(_ context.Context, event events.Event) error {
	n.logger.Info("TicketCreated", zap.String("ticket_id", event.AggregateID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTicketMessageAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketMessageAddedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.logger.Info("TicketMessageAdded", zap.String("ticket_id", event.AggregateID), zap.String("sender", string(payload.Sender)))
	if payload.Sender != domain.SenderAdmin {
		return nil
	}
	return n.emailUser(ctx, payload.OwnerID, "New reply on: "+payload.Subject,
		fmt.Sprintf("Support replied to your ticket:\n\n%s", payload.BodyPreview))
}

func (n *NotificationService) handleTicketStatusChanged(_ context.Context, event events.Event) error {
	n.logger.Info("TicketStatusChanged", zap.String("ticket_id", event.AggregateID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleUserStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.logger.Info("UserStatusChanged", zap.String("user_id", event.AggregateID), zap.Bool("is_active", payload.IsActive))
	if payload.IsActive {
		return n.emailUser(ctx, event.AggregateID, "Account activated", "Your account has been activated. You can sign in again.")
	}
	return n.emailUser(ctx, event.AggregateID, "Account suspended", "Your account has been suspended. Please contact support for details.")
}

func (n *NotificationService) emailUser(ctx context.Context, userID, subject, body string) error {
	if n.mailer == nil {
		return nil
	}
	user, err := n.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load recipient %s: %w", userID, err)
	}
	return n.mailer.Send(ctx, notify.Message{
		ToName:    user.Name,
		ToEmail:   user.Email,
		Subject:   subject,
		PlainText: body,
	})
}
