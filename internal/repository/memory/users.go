package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/eduplatform/teacher-store/internal/domain"
	"github.com/eduplatform/teacher-store/internal/repository"
)

type userRepository struct {
	db *DB
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}

	now := r.db.now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.db.users[user.ID] = *user
	r.db.userOrder = append(r.db.userOrder, user.ID)

	id := user.ID
	record(ctx, func() {
		delete(r.db.users, id)
		r.db.userOrder = without(r.db.userOrder, id)
	})
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	r.db.keepUser(ctx, stored)
	stored.Name = user.Name
	stored.PasswordHash = user.PasswordHash
	stored.Role = user.Role
	stored.EducationLevel = user.EducationLevel
	stored.Subject = user.Subject
	stored.Phone = user.Phone
	stored.City = user.City
	stored.Institution = user.Institution
	stored.PreferredLanguage = user.PreferredLanguage
	stored.UpdatedAt = r.db.now()
	r.db.users[user.ID] = stored
	user.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if user, ok := r.db.users[id]; ok {
		return &user, nil
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, user := range r.db.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	user, ok := r.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	r.db.keepUser(ctx, user)
	user.IsActive = active
	user.UpdatedAt = r.db.now()
	r.db.users[id] = user
	return &user, nil
}

func (r *userRepository) ListTeachers(_ context.Context) ([]domain.TeacherSummary, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	counts := make(map[string]int)
	for _, order := range r.db.orders {
		counts[order.UserID]++
	}

	result := make([]domain.TeacherSummary, 0)
	for i := len(r.db.userOrder) - 1; i >= 0; i-- {
		user := r.db.users[r.db.userOrder[i]]
		if user.Role != domain.RoleUser {
			continue
		}
		result = append(result, domain.TeacherSummary{User: user, OrderCount: counts[user.ID]})
	}
	return result, nil
}

func (r *userRepository) CountByRole(_ context.Context, role domain.Role) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for _, user := range r.db.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

func (db *DB) keepUser(ctx context.Context, prev domain.User) {
	record(ctx, func() { db.users[prev.ID] = prev })
}
