package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eduplatform/teacher-store/internal/domain"
)

// UserRepository defines persistence access for teachers and administrators.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
	ListTeachers(ctx context.Context) ([]domain.TeacherSummary, error)
	CountByRole(ctx context.Context, role domain.Role) (int, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, role, education_level, subject, phone, city,
               institution, preferred_language, is_active, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, password_hash, role, education_level, subject, phone, city,
                           institution, preferred_language, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`

	err := conn(ctx, r.pool).QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.EducationLevel,
		user.Subject,
		user.Phone,
		user.City,
		user.Institution,
		user.PreferredLanguage,
		user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return translate(err)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, password_hash=$2, role=$3, education_level=$4, subject=$5, phone=$6,
            city=$7, institution=$8, preferred_language=$9, updated_at=NOW()
        WHERE id=$10
        RETURNING updated_at`

	err := conn(ctx, r.pool).QueryRow(ctx, query,
		user.Name,
		user.PasswordHash,
		user.Role,
		user.EducationLevel,
		user.Subject,
		user.Phone,
		user.City,
		user.Institution,
		user.PreferredLanguage,
		user.ID,
	).Scan(&user.UpdatedAt)
	return translate(err)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return scanUser(conn(ctx, r.pool).QueryRow(ctx, query, email))
}

func (r *userRepository) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	query := `UPDATE users SET is_active=$1, updated_at=NOW() WHERE id=$2 RETURNING ` + userColumns
	return scanUser(conn(ctx, r.pool).QueryRow(ctx, query, active, id))
}

func (r *userRepository) ListTeachers(ctx context.Context) ([]domain.TeacherSummary, error) {
	const query = `
        SELECT u.id, u.name, u.email, u.password_hash, u.role, u.education_level, u.subject, u.phone,
               u.city, u.institution, u.preferred_language, u.is_active, u.created_at, u.updated_at,
               COALESCE(o.order_count, 0)
        FROM users u
        LEFT JOIN (SELECT user_id, COUNT(*) AS order_count FROM orders GROUP BY user_id) o ON o.user_id = u.id
        WHERE u.role = 'USER'
        ORDER BY u.created_at DESC`

	rows, err := conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	result := make([]domain.TeacherSummary, 0)
	for rows.Next() {
		var t domain.TeacherSummary
		dest := append(userDest(&t.User), &t.OrderCount)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *userRepository) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	var count int
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role=$1`, role).Scan(&count)
	return count, translate(err)
}

func userDest(u *domain.User) []any {
	return []any{
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.EducationLevel,
		&u.Subject,
		&u.Phone,
		&u.City,
		&u.Institution,
		&u.PreferredLanguage,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(userDest(&user)...); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}
