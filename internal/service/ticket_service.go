package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/eduplatform/teacher-store/internal/domain"
	"github.com/eduplatform/teacher-store/internal/events"
	"github.com/eduplatform/teacher-store/internal/repository"
	apperrors "github.com/eduplatform/teacher-store/pkg/util"
)

// TicketService coordinates support ticket workflows.
type TicketService struct {
	tickets   repository.TicketRepository
	messages  repository.TicketMessageRepository
	adminLogs repository.AdminLogRepository
	tx        repository.Transactor
	events    eventPublisher
	logger    *zap.Logger
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	MessageRepo  repository.TicketMessageRepository
	AdminLogRepo repository.AdminLogRepository
	Transactor   repository.Transactor
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Subject  string
	Message  string
	Priority string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:   deps.TicketRepo,
		messages:  deps.MessageRepo,
		adminLogs: deps.AdminLogRepo,
		tx:        deps.Transactor,
		events:    eventPublisher{dispatcher: deps.Dispatcher, logger: logger},
		logger:    logger,
	}
}

// CreateTicket opens a ticket together with its first message, which is always
// authored by the USER side.
func (s *TicketService) CreateTicket(ctx context.Context, actor Actor, input TicketCreateInput) (*domain.Ticket, error) {
	subject := strings.TrimSpace(input.Subject)
	body := strings.TrimSpace(input.Message)
	if subject == "" || body == "" {
		return nil, apperrors.NewValidationError("subject and message are required", nil)
	}

	priority := domain.TicketPriority(strings.ToUpper(strings.TrimSpace(input.Priority)))
	switch priority {
	case "":
		priority = domain.TicketPriorityNormal
	case domain.TicketPriorityLow, domain.TicketPriorityNormal, domain.TicketPriorityHigh:
	default:
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
	}

	ticket := &domain.Ticket{
		UserID:   actor.UserID,
		Subject:  subject,
		Status:   domain.TicketStatusOpen,
		Priority: priority,
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tickets.Create(ctx, ticket); err != nil {
			return err
		}
		first := domain.TicketMessage{TicketID: ticket.ID, Sender: domain.SenderUser, Content: body}
		if err := s.messages.Create(ctx, &first); err != nil {
			return err
		}
		ticket.Messages = []domain.TicketMessage{first}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:        events.EventTicketCreated,
		AggregateID: ticket.ID,
		ActorID:     actor.UserID,
		Payload: events.TicketCreatedPayload{
			UserID:   ticket.UserID,
			Subject:  ticket.Subject,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// ListMyTickets returns the caller's tickets with their conversations.
func (s *TicketService) ListMyTickets(ctx context.Context, actor Actor) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		if tickets[i].Messages, err = s.messages.ListByTicket(ctx, tickets[i].ID); err != nil {
			return nil, err
		}
	}
	return tickets, nil
}

// ListAllTickets returns every ticket with requester details and conversation.
func (s *TicketService) ListAllTickets(ctx context.Context, actor Actor, status string) ([]domain.TicketWithRequester, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	filter := repository.TicketFilter{}
	if status != "" {
		st := domain.TicketStatus(strings.ToUpper(status))
		if !st.Valid() {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
		}
		filter.Status = &st
	}

	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		if tickets[i].Messages, err = s.messages.ListByTicket(ctx, tickets[i].ID); err != nil {
			return nil, err
		}
	}
	return tickets, nil
}

// GetTicket returns a ticket with its conversation to its owner or an admin.
func (s *TicketService) GetTicket(ctx context.Context, actor Actor, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.loadAccessible(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Messages, err = s.messages.ListByTicket(ctx, ticket.ID); err != nil {
		return nil, err
	}
	return ticket, nil
}

// AddMessage appends a reply. Owners may reply until the ticket is closed or
// archived; admins may reply to any ticket. The first admin reply on an OPEN
// ticket moves it to IN_PROGRESS.
func (s *TicketService) AddMessage(ctx context.Context, actor Actor, ticketID, content string) (*domain.TicketMessage, error) {
	body := strings.TrimSpace(content)
	if body == "" {
		return nil, apperrors.NewValidationError("message content is required", map[string]any{"content": "required"})
	}

	ticket, err := s.loadAccessible(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	msg := &domain.TicketMessage{
		TicketID: ticket.ID,
		Sender:   domain.SenderForRole(actor.Role),
		Content:  body,
	}
	var promoted bool
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.tickets.GetForUpdate(ctx, ticket.ID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && !current.Status.AcceptsUserReplies() {
			return apperrors.NewConflict("ticket is closed", map[string]any{"status": current.Status})
		}
		if err := s.messages.Create(ctx, msg); err != nil {
			return err
		}
		if msg.Sender == domain.SenderAdmin {
			changed, err := s.tickets.TransitionStatus(ctx, ticket.ID, domain.TicketStatusOpen, domain.TicketStatusInProgress)
			if err != nil {
				return err
			}
			if changed {
				promoted = true
				return nil
			}
		}
		return s.tickets.Touch(ctx, ticket.ID)
	})
	if err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:        events.EventTicketMessageAdded,
		AggregateID: ticket.ID,
		ActorID:     actor.UserID,
		Payload: events.TicketMessageAddedPayload{
			MessageID:   msg.ID,
			OwnerID:     ticket.UserID,
			Subject:     ticket.Subject,
			Sender:      msg.Sender,
			BodyPreview: stringPreview(msg.Content, 140),
		},
	})
	if promoted {
		s.events.publish(ctx, events.Event{
			Type:        events.EventTicketStatusChanged,
			AggregateID: ticket.ID,
			ActorID:     actor.UserID,
			Payload: events.TicketStatusChangedPayload{
				OwnerID:   ticket.UserID,
				OldStatus: domain.TicketStatusOpen,
				NewStatus: domain.TicketStatusInProgress,
				Automatic: true,
			},
		})
	}
	return msg, nil
}

// UpdateStatus sets any ticket status explicitly and records the audit entry.
func (s *TicketService) UpdateStatus(ctx context.Context, actor Actor, ticketID, status string) (*domain.Ticket, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	next := domain.TicketStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !next.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}

	var (
		updated  *domain.Ticket
		previous domain.TicketStatus
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.tickets.GetForUpdate(ctx, ticketID)
		if err != nil {
			return err
		}
		previous = current.Status
		updated, err = s.tickets.UpdateStatus(ctx, ticketID, next)
		if err != nil {
			return err
		}
		return s.adminLogs.Create(ctx, &domain.AdminLog{
			AdminID:    actor.UserID,
			Action:     domain.ActionUpdateTicketStatus,
			TargetID:   ticketID,
			TargetType: domain.TargetTicket,
			Details:    fmt.Sprintf("Changed ticket status from %s to %s", previous, next),
		})
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}

	if previous != next {
		s.events.publish(ctx, events.Event{
			Type:        events.EventTicketStatusChanged,
			AggregateID: ticketID,
			ActorID:     actor.UserID,
			Payload: events.TicketStatusChangedPayload{
				OwnerID:   updated.UserID,
				OldStatus: previous,
				NewStatus: next,
			},
		})
	}
	return updated, nil
}

func (s *TicketService) loadAccessible(ctx context.Context, actor Actor, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}
	if ticket.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("ticket belongs to another user")
	}
	return ticket, nil
}
