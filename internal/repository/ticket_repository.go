package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eduplatform/teacher-store/internal/domain"
)

// TicketFilter captures admin search parameters.
type TicketFilter struct {
	Status   *domain.TicketStatus
	Priority *domain.TicketPriority
	Limit    int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	// GetForUpdate reads a ticket and locks its row until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, id string) (*domain.Ticket, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.TicketWithRequester, error)
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error)
	// TransitionStatus sets status to `to` only while it equals `from` and
	// reports whether the row changed.
	TransitionStatus(ctx context.Context, id string, from, to domain.TicketStatus) (bool, error)
	Touch(ctx context.Context, id string) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `t.id, t.user_id, t.subject, t.status, t.priority, t.created_at, t.updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (user_id, subject, status, priority)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	err := conn(ctx, r.pool).QueryRow(ctx, query,
		ticket.UserID,
		ticket.Subject,
		ticket.Status,
		ticket.Priority,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
	return translate(err)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets t WHERE t.id=$1`
	var ticket domain.Ticket
	if err := scanTicket(conn(ctx, r.pool).QueryRow(ctx, query, id), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) GetForUpdate(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets t WHERE t.id=$1 FOR UPDATE`
	var ticket domain.Ticket
	if err := scanTicket(conn(ctx, r.pool).QueryRow(ctx, query, id), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListByUser(ctx context.Context, userID string) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets t WHERE t.user_id=$1 ORDER BY t.updated_at DESC`
	rows, err := conn(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := make([]domain.Ticket, 0)
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.TicketWithRequester, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("t.status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("t.priority=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s, u.name, u.email
        FROM tickets t JOIN users u ON u.id = t.user_id
        WHERE %s ORDER BY t.updated_at DESC`, ticketColumns, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := make([]domain.TicketWithRequester, 0)
	for rows.Next() {
		var item domain.TicketWithRequester
		if err := scanTicket(rows, &item.Ticket, &item.RequesterName, &item.RequesterEmail); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	query := `UPDATE tickets t SET status=$1, updated_at=NOW() WHERE t.id=$2 RETURNING ` + ticketColumns
	var ticket domain.Ticket
	if err := scanTicket(conn(ctx, r.pool).QueryRow(ctx, query, status, id), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) TransitionStatus(ctx context.Context, id string, from, to domain.TicketStatus) (bool, error) {
	const query = `UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`
	cmd, err := conn(ctx, r.pool).Exec(ctx, query, to, id, from)
	if err != nil {
		return false, translate(err)
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *ticketRepository) Touch(ctx context.Context, id string) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `UPDATE tickets SET updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTicket(row pgx.Row, ticket *domain.Ticket, extra ...any) error {
	dest := []any{
		&ticket.ID,
		&ticket.UserID,
		&ticket.Subject,
		&ticket.Status,
		&ticket.Priority,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	}
	return translate(row.Scan(append(dest, extra...)...))
}
