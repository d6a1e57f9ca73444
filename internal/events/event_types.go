package events

import (
	"time"

	"github.com/eduplatform/teacher-store/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderCreated        EventType = "order_created"
	EventPaymentConfirmed    EventType = "payment_confirmed"
	EventTicketCreated       EventType = "ticket_created"
	EventTicketMessageAdded  EventType = "ticket_message_added"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventUserStatusChanged   EventType = "user_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	AggregateID string      `json:"aggregate_id"`
	ActorID     string      `json:"actor_id"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// OrderCreatedPayload payload.
type OrderCreatedPayload struct {
	UserID        string               `json:"user_id"`
	BundleTier    domain.BundleTier    `json:"bundle_tier"`
	Total         string               `json:"total"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
}

// PaymentConfirmedPayload payload.
type PaymentConfirmedPayload struct {
	UserID     string            `json:"user_id"`
	BundleTier domain.BundleTier `json:"bundle_tier"`
	Total      string            `json:"total"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	UserID   string                `json:"user_id"`
	Subject  string                `json:"subject"`
	Priority domain.TicketPriority `json:"priority"`
}

// TicketMessageAddedPayload payload.
type TicketMessageAddedPayload struct {
	MessageID   string               `json:"message_id"`
	OwnerID     string               `json:"owner_id"`
	Subject     string               `json:"subject"`
	Sender      domain.MessageSender `json:"sender"`
	BodyPreview string               `json:"body_preview"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OwnerID   string              `json:"owner_id"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Automatic bool                `json:"automatic"`
}

// UserStatusChangedPayload payload.
type UserStatusChangedPayload struct {
	IsActive bool `json:"is_active"`
}
