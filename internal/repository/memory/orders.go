package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eduplatform/teacher-store/internal/domain"
	"github.com/eduplatform/teacher-store/internal/repository"
)

type orderRepository struct {
	db *DB
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[order.UserID]; !ok {
		return repository.ErrNotFound
	}

	now := r.db.now()
	order.ID = uuid.NewString()
	order.CreatedAt = now
	order.UpdatedAt = now
	r.db.orders[order.ID] = *order
	r.db.ordOrder = append(r.db.ordOrder, order.ID)

	id := order.ID
	record(ctx, func() {
		delete(r.db.orders, id)
		r.db.ordOrder = without(r.db.ordOrder, id)
	})
	return nil
}

func (r *orderRepository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if order, ok := r.db.orders[id]; ok {
		return &order, nil
	}
	return nil, repository.ErrNotFound
}

func (r *orderRepository) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	result := make([]domain.Order, 0)
	for i := len(r.db.ordOrder) - 1; i >= 0; i-- {
		order := r.db.orders[r.db.ordOrder[i]]
		if order.UserID == userID {
			result = append(result, order)
		}
	}
	return result, nil
}

func (r *orderRepository) List(_ context.Context, filter repository.OrderFilter) ([]domain.OrderWithBuyer, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	result := make([]domain.OrderWithBuyer, 0)
	for i := len(r.db.ordOrder) - 1; i >= 0; i-- {
		order := r.db.orders[r.db.ordOrder[i]]
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		if filter.UserID != nil && order.UserID != *filter.UserID {
			continue
		}
		buyer := r.db.users[order.UserID]
		result = append(result, domain.OrderWithBuyer{Order: order, BuyerName: buyer.Name, BuyerEmail: buyer.Email})
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}

func (r *orderRepository) ConfirmPending(ctx context.Context, id, adminID string, at time.Time) (*domain.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	order, ok := r.db.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if order.Status != domain.OrderStatusPending {
		return nil, repository.ErrConflict
	}
	prev := order
	record(ctx, func() { r.db.orders[id] = prev })

	confirmedAt := at
	confirmedBy := adminID
	order.Status = domain.OrderStatusPaid
	order.ConfirmedAt = &confirmedAt
	order.ConfirmedBy = &confirmedBy
	order.DeliveredAt = &confirmedAt
	order.UpdatedAt = at
	r.db.orders[id] = order
	return &order, nil
}

func (r *orderRepository) Totals(_ context.Context) (repository.OrderTotals, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	totals := repository.OrderTotals{Revenue: decimal.Zero}
	for _, order := range r.db.orders {
		totals.TotalOrders++
		switch order.Status {
		case domain.OrderStatusPending:
			totals.PendingOrders++
		case domain.OrderStatusPaid:
			totals.PaidOrders++
			totals.Revenue = totals.Revenue.Add(order.Total)
		}
	}
	return totals, nil
}
