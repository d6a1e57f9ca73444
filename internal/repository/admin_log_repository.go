package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eduplatform/teacher-store/internal/domain"
)

// AdminLogFilter narrows the audit trail listing.
type AdminLogFilter struct {
	TargetType *domain.AdminLogTarget
	TargetID   *string
	Limit      int
}

// AdminLogRepository persists the append-only audit trail.
type AdminLogRepository interface {
	Create(ctx context.Context, entry *domain.AdminLog) error
	List(ctx context.Context, filter AdminLogFilter) ([]domain.AdminLog, error)
}

type adminLogRepository struct {
	pool *pgxpool.Pool
}

// NewAdminLogRepository builds repository.
func NewAdminLogRepository(pool *pgxpool.Pool) AdminLogRepository {
	return &adminLogRepository{pool: pool}
}

func (r *adminLogRepository) Create(ctx context.Context, entry *domain.AdminLog) error {
	const query = `
        INSERT INTO admin_logs (admin_id, action, target_id, target_type, details)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	err := conn(ctx, r.pool).QueryRow(ctx, query,
		entry.AdminID,
		entry.Action,
		entry.TargetID,
		entry.TargetType,
		entry.Details,
	).Scan(&entry.ID, &entry.CreatedAt)
	return translate(err)
}

func (r *adminLogRepository) List(ctx context.Context, filter AdminLogFilter) ([]domain.AdminLog, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.TargetType != nil {
		args = append(args, *filter.TargetType)
		clauses = append(clauses, fmt.Sprintf("target_type=$%d", len(args)))
	}
	if filter.TargetID != nil {
		args = append(args, *filter.TargetID)
		clauses = append(clauses, fmt.Sprintf("target_id=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf(`SELECT id, admin_id, action, target_id, target_type, details, created_at
        FROM admin_logs WHERE %s ORDER BY created_at DESC LIMIT %d`, strings.Join(clauses, " AND "), limit)

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := make([]domain.AdminLog, 0)
	for rows.Next() {
		var entry domain.AdminLog
		if err := rows.Scan(
			&entry.ID,
			&entry.AdminID,
			&entry.Action,
			&entry.TargetID,
			&entry.TargetType,
			&entry.Details,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
