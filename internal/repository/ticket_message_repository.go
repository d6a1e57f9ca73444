package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eduplatform/teacher-store/internal/domain"
)

// TicketMessageRepository manages ticket conversation messages.
type TicketMessageRepository interface {
	Create(ctx context.Context, msg *domain.TicketMessage) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketMessage, error)
}

type ticketMessageRepository struct {
	pool *pgxpool.Pool
}

// NewTicketMessageRepository builds repository.
func NewTicketMessageRepository(pool *pgxpool.Pool) TicketMessageRepository {
	return &ticketMessageRepository{pool: pool}
}

func (r *ticketMessageRepository) Create(ctx context.Context, msg *domain.TicketMessage) error {
	const query = `
        INSERT INTO ticket_messages (ticket_id, sender, content)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	err := conn(ctx, r.pool).QueryRow(ctx, query,
		msg.TicketID,
		msg.Sender,
		msg.Content,
	).Scan(&msg.ID, &msg.CreatedAt)
	return translate(err)
}

func (r *ticketMessageRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketMessage, error) {
	const query = `
        SELECT id, ticket_id, sender, content, created_at
        FROM ticket_messages WHERE ticket_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := conn(ctx, r.pool).Query(ctx, query, ticketID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := make([]domain.TicketMessage, 0)
	for rows.Next() {
		var msg domain.TicketMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.TicketID,
			&msg.Sender,
			&msg.Content,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
