package dto

import (
	"time"

	"github.com/eduplatform/teacher-store/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Subject  string `json:"subject" validate:"required,max=200"`
	Message  string `json:"message" validate:"required"`
	Priority string `json:"priority"`
}

// CreateMessageRequest is a reply on a ticket.
type CreateMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// UpdateTicketStatusRequest sets a ticket status by path id.
type UpdateTicketStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminTicketStatusRequest sets a ticket status with the id in the body.
type AdminTicketStatusRequest struct {
	TicketID string `json:"ticketId" validate:"required"`
	Status   string `json:"status" validate:"required"`
}

// TicketMessageResponse represents one conversation entry.
type TicketMessageResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticketId"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// TicketResponse is a ticket with its conversation.
type TicketResponse struct {
	ID        string                  `json:"id"`
	UserID    string                  `json:"userId"`
	Subject   string                  `json:"subject"`
	Status    string                  `json:"status"`
	Priority  string                  `json:"priority"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
	Messages  []TicketMessageResponse `json:"messages"`
	User      *UserRef                `json:"user,omitempty"`
}

// NewTicketMessageResponse maps a message.
func NewTicketMessageResponse(m *domain.TicketMessage) TicketMessageResponse {
	return TicketMessageResponse{
		ID:        m.ID,
		TicketID:  m.TicketID,
		Sender:    string(m.Sender),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// NewTicketResponse maps a ticket and whatever messages were loaded with it.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	msgs := make([]TicketMessageResponse, 0, len(t.Messages))
	for i := range t.Messages {
		msgs = append(msgs, NewTicketMessageResponse(&t.Messages[i]))
	}
	return TicketResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		Subject:   t.Subject,
		Status:    string(t.Status),
		Priority:  string(t.Priority),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		Messages:  msgs,
	}
}

// NewTicketResponses maps a teacher's own tickets.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i]))
	}
	return out
}

// NewAdminTicketResponses maps tickets joined with their requesters.
func NewAdminTicketResponses(tickets []domain.TicketWithRequester) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		resp := NewTicketResponse(&tickets[i].Ticket)
		resp.User = &UserRef{Name: tickets[i].RequesterName, Email: tickets[i].RequesterEmail}
		out = append(out, resp)
	}
	return out
}
