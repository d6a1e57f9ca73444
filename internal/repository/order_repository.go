package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/eduplatform/teacher-store/internal/domain"
)

// OrderFilter narrows the admin order listing.
type OrderFilter struct {
	Status *domain.OrderStatus
	UserID *string
	Limit  int
}

// OrderTotals is the aggregate slice of the dashboard that comes from orders alone.
type OrderTotals struct {
	TotalOrders   int
	PendingOrders int
	PaidOrders    int
	Revenue       decimal.Decimal
}

// OrderRepository encapsulates order persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.OrderWithBuyer, error)
	// ConfirmPending moves a PENDING order to PAID. It returns ErrNotFound for an
	// unknown id and ErrConflict when the order is no longer PENDING.
	ConfirmPending(ctx context.Context, id, adminID string, at time.Time) (*domain.Order, error)
	Totals(ctx context.Context) (OrderTotals, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

const orderColumns = `o.id, o.user_id, o.bundle_tier, o.status, o.total::text, o.payment_method,
               o.payment_reference, o.created_at, o.updated_at, o.confirmed_at, o.confirmed_by::text, o.delivered_at`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	const query = `
        INSERT INTO orders (user_id, bundle_tier, status, total, payment_method, payment_reference)
        VALUES ($1, $2, $3, $4::numeric, $5, $6)
        RETURNING id, created_at, updated_at`

	err := conn(ctx, r.pool).QueryRow(ctx, query,
		order.UserID,
		order.BundleTier,
		order.Status,
		order.Total.String(),
		order.PaymentMethod,
		nullable(order.PaymentReference),
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	return translate(err)
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.id=$1`
	var order domain.Order
	if err := scanOrder(conn(ctx, r.pool).QueryRow(ctx, query, id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.user_id=$1 ORDER BY o.created_at DESC`
	rows, err := conn(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := make([]domain.Order, 0)
	for rows.Next() {
		var order domain.Order
		if err := scanOrder(rows, &order); err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, rows.Err()
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]domain.OrderWithBuyer, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("o.status=$%d", len(args)))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("o.user_id=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s, u.name, u.email
        FROM orders o JOIN users u ON u.id = o.user_id
        WHERE %s ORDER BY o.created_at DESC`, orderColumns, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := make([]domain.OrderWithBuyer, 0)
	for rows.Next() {
		var item domain.OrderWithBuyer
		if err := scanOrder(rows, &item.Order, &item.BuyerName, &item.BuyerEmail); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *orderRepository) ConfirmPending(ctx context.Context, id, adminID string, at time.Time) (*domain.Order, error) {
	q := conn(ctx, r.pool)

	// a failed statement aborts the surrounding tx, so the lookup runs first
	var status domain.OrderStatus
	if err := q.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, id).Scan(&status); err != nil {
		return nil, translate(err)
	}
	if status != domain.OrderStatusPending {
		return nil, ErrConflict
	}

	query := `UPDATE orders o
        SET status='PAID', confirmed_at=$1, confirmed_by=$2, delivered_at=$1, updated_at=$1
        WHERE o.id=$3 AND o.status='PENDING'
        RETURNING ` + orderColumns

	var order domain.Order
	err := scanOrder(q.QueryRow(ctx, query, at, adminID, id), &order)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Totals(ctx context.Context) (OrderTotals, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status='PENDING'),
               COUNT(*) FILTER (WHERE status='PAID'),
               COALESCE(SUM(total) FILTER (WHERE status='PAID'), 0)::text
        FROM orders`

	var (
		totals  OrderTotals
		revenue string
	)
	if err := conn(ctx, r.pool).QueryRow(ctx, query).Scan(
		&totals.TotalOrders,
		&totals.PendingOrders,
		&totals.PaidOrders,
		&revenue,
	); err != nil {
		return OrderTotals{}, translate(err)
	}
	parsed, err := decimal.NewFromString(revenue)
	if err != nil {
		return OrderTotals{}, fmt.Errorf("parse revenue %q: %w", revenue, err)
	}
	totals.Revenue = parsed
	return totals, nil
}

// scanOrder reads orderColumns followed by any extra destinations.
func scanOrder(row pgx.Row, order *domain.Order, extra ...any) error {
	var (
		total     string
		reference *string
	)
	dest := []any{
		&order.ID,
		&order.UserID,
		&order.BundleTier,
		&order.Status,
		&total,
		&order.PaymentMethod,
		&reference,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.ConfirmedAt,
		&order.ConfirmedBy,
		&order.DeliveredAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return translate(err)
	}

	parsed, err := decimal.NewFromString(total)
	if err != nil {
		return fmt.Errorf("parse order total %q: %w", total, err)
	}
	order.Total = parsed
	if reference != nil {
		order.PaymentReference = *reference
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
