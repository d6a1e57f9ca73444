package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/eduplatform/teacher-store/internal/domain"
	"github.com/eduplatform/teacher-store/internal/repository"
)

type ticketRepository struct {
	db *DB
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[ticket.UserID]; !ok {
		return repository.ErrNotFound
	}

	now := r.db.now()
	ticket.ID = uuid.NewString()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	stored := *ticket
	stored.Messages = nil
	r.db.tickets[ticket.ID] = stored

	id := ticket.ID
	record(ctx, func() { delete(r.db.tickets, id) })
	return nil
}

func (r *ticketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if ticket, ok := r.db.tickets[id]; ok {
		return &ticket, nil
	}
	return nil, repository.ErrNotFound
}

// GetForUpdate needs no row lock here: transactions already run one at a time.
func (r *ticketRepository) GetForUpdate(ctx context.Context, id string) (*domain.Ticket, error) {
	return r.GetByID(ctx, id)
}

func (r *ticketRepository) ListByUser(_ context.Context, userID string) ([]domain.Ticket, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	result := make([]domain.Ticket, 0)
	for _, ticket := range r.db.tickets {
		if ticket.UserID == userID {
			result = append(result, ticket)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UpdatedAt.After(result[j].UpdatedAt) })
	return result, nil
}

func (r *ticketRepository) List(_ context.Context, filter repository.TicketFilter) ([]domain.TicketWithRequester, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	result := make([]domain.TicketWithRequester, 0)
	for _, ticket := range r.db.tickets {
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && ticket.Priority != *filter.Priority {
			continue
		}
		owner := r.db.users[ticket.UserID]
		result = append(result, domain.TicketWithRequester{
			Ticket:         ticket,
			RequesterName:  owner.Name,
			RequesterEmail: owner.Email,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UpdatedAt.After(result[j].UpdatedAt) })
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	ticket, ok := r.db.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	r.db.keepTicket(ctx, ticket)
	ticket.Status = status
	ticket.UpdatedAt = r.db.now()
	r.db.tickets[id] = ticket
	return &ticket, nil
}

func (r *ticketRepository) TransitionStatus(ctx context.Context, id string, from, to domain.TicketStatus) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	ticket, ok := r.db.tickets[id]
	if !ok || ticket.Status != from {
		return false, nil
	}
	r.db.keepTicket(ctx, ticket)
	ticket.Status = to
	ticket.UpdatedAt = r.db.now()
	r.db.tickets[id] = ticket
	return true, nil
}

func (r *ticketRepository) Touch(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	ticket, ok := r.db.tickets[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.db.keepTicket(ctx, ticket)
	ticket.UpdatedAt = r.db.now()
	r.db.tickets[id] = ticket
	return nil
}

type ticketMessageRepository struct {
	db *DB
}

func (r *ticketMessageRepository) Create(ctx context.Context, msg *domain.TicketMessage) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.tickets[msg.TicketID]; !ok {
		return repository.ErrNotFound
	}
	msg.ID = uuid.NewString()
	msg.CreatedAt = r.db.now()
	r.db.messages[msg.TicketID] = append(r.db.messages[msg.TicketID], *msg)

	ticketID, id := msg.TicketID, msg.ID
	record(ctx, func() {
		msgs := r.db.messages[ticketID]
		for i := range msgs {
			if msgs[i].ID == id {
				r.db.messages[ticketID] = append(msgs[:i:i], msgs[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (db *DB) keepTicket(ctx context.Context, prev domain.Ticket) {
	record(ctx, func() { db.tickets[prev.ID] = prev })
}

func (r *ticketMessageRepository) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketMessage, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return append(make([]domain.TicketMessage, 0, len(r.db.messages[ticketID])), r.db.messages[ticketID]...), nil
}
