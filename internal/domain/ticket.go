package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusClosed     TicketStatus = "CLOSED"
	TicketStatusArchived   TicketStatus = "ARCHIVED"
)

// Valid reports whether s is a known ticket status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed, TicketStatusArchived:
		return true
	}
	return false
}

// AcceptsUserReplies is false once the conversation has been closed or archived.
func (s TicketStatus) AcceptsUserReplies() bool {
	return s != TicketStatusClosed && s != TicketStatusArchived
}

// TicketPriority enumerates support urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityNormal TicketPriority = "NORMAL"
	TicketPriorityHigh   TicketPriority = "HIGH"
)

// Ticket is a support conversation owned by a teacher.
type Ticket struct {
	ID        string
	UserID    string
	Subject   string
	Status    TicketStatus
	Priority  TicketPriority
	CreatedAt time.Time
	UpdatedAt time.Time
	Messages  []TicketMessage
}

// TicketWithRequester joins a ticket with its owner's contact fields.
type TicketWithRequester struct {
	Ticket
	RequesterName  string
	RequesterEmail string
}
