package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/eduplatform/teacher-store/internal/domain"
	"github.com/eduplatform/teacher-store/internal/repository"
)

type adminLogRepository struct {
	db *DB
}

func (r *adminLogRepository) Create(ctx context.Context, entry *domain.AdminLog) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	entry.ID = uuid.NewString()
	entry.CreatedAt = r.db.now()
	r.db.logs = append(r.db.logs, *entry)

	id := entry.ID
	record(ctx, func() {
		for i := range r.db.logs {
			if r.db.logs[i].ID == id {
				r.db.logs = append(r.db.logs[:i:i], r.db.logs[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (r *adminLogRepository) List(_ context.Context, filter repository.AdminLogFilter) ([]domain.AdminLog, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	result := make([]domain.AdminLog, 0)
	for i := len(r.db.logs) - 1; i >= 0 && len(result) < limit; i-- {
		entry := r.db.logs[i]
		if filter.TargetType != nil && entry.TargetType != *filter.TargetType {
			continue
		}
		if filter.TargetID != nil && entry.TargetID != *filter.TargetID {
			continue
		}
		result = append(result, entry)
	}
	return result, nil
}
