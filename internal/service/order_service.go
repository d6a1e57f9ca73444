package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/eduplatform/teacher-store/internal/domain"
	"github.com/eduplatform/teacher-store/internal/events"
	"github.com/eduplatform/teacher-store/internal/repository"
	apperrors "github.com/eduplatform/teacher-store/pkg/util"
)

// OrderService coordinates checkout and payment confirmation.
type OrderService struct {
	orders    repository.OrderRepository
	adminLogs repository.AdminLogRepository
	tx        repository.Transactor
	events    eventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// OrderDependencies bundles repositories for the order service.
type OrderDependencies struct {
	OrderRepo    repository.OrderRepository
	AdminLogRepo repository.AdminLogRepository
	Transactor   repository.Transactor
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// CreateOrderInput describes a checkout request.
type CreateOrderInput struct {
	BundleTier       string
	Total            decimal.Decimal
	PaymentMethod    string
	PaymentReference string
}

// NewOrderService constructs the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orders:    deps.OrderRepo,
		adminLogs: deps.AdminLogRepo,
		tx:        deps.Transactor,
		events:    eventPublisher{dispatcher: deps.Dispatcher, logger: logger},
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrder places a PENDING order for the caller. The total must equal the
// catalog price of the tier.
func (s *OrderService) CreateOrder(ctx context.Context, actor Actor, in CreateOrderInput) (*domain.Order, error) {
	bundle, ok := domain.LookupBundle(domain.BundleTier(strings.TrimSpace(in.BundleTier)))
	if !ok {
		return nil, apperrors.NewValidationError("unknown bundle tier", map[string]any{"bundleTier": in.BundleTier})
	}
	if !in.Total.Equal(bundle.Price) {
		return nil, apperrors.NewValidationError("total does not match bundle price", map[string]any{
			"total":    in.Total.String(),
			"expected": bundle.Price.String(),
		})
	}

	method, err := parsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		UserID:           actor.UserID,
		BundleTier:       bundle.Tier,
		Status:           domain.OrderStatusPending,
		Total:            bundle.Price,
		PaymentMethod:    method,
		PaymentReference: strings.TrimSpace(in.PaymentReference),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.String("bundle_tier", string(order.BundleTier)))
	s.events.publish(ctx, events.Event{
		Type:        events.EventOrderCreated,
		AggregateID: order.ID,
		ActorID:     actor.UserID,
		Payload: events.OrderCreatedPayload{
			UserID:        order.UserID,
			BundleTier:    order.BundleTier,
			Total:         order.Total.String(),
			PaymentMethod: order.PaymentMethod,
		},
	})
	return order, nil
}

// ListMyOrders returns the caller's orders, newest first.
func (s *OrderService) ListMyOrders(ctx context.Context, actor Actor) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, actor.UserID)
}

// ListOrders returns every order with buyer details, optionally filtered by status.
func (s *OrderService) ListOrders(ctx context.Context, actor Actor, status string) ([]domain.OrderWithBuyer, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	filter := repository.OrderFilter{}
	if status != "" {
		st := domain.OrderStatus(strings.ToUpper(status))
		if !st.Valid() {
			return nil, apperrors.NewValidationError("invalid order status", map[string]any{"status": status})
		}
		filter.Status = &st
	}
	return s.orders.List(ctx, filter)
}

// ConfirmPayment moves a PENDING order to PAID and records the audit entry in
// the same transaction. A non-PENDING order is a conflict.
func (s *OrderService) ConfirmPayment(ctx context.Context, actor Actor, orderID string) (*domain.Order, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var order *domain.Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		confirmed, err := s.orders.ConfirmPending(ctx, orderID, actor.UserID, s.now())
		if err != nil {
			return err
		}
		order = confirmed
		return s.adminLogs.Create(ctx, &domain.AdminLog{
			AdminID:    actor.UserID,
			Action:     domain.ActionConfirmPayment,
			TargetID:   confirmed.ID,
			TargetType: domain.TargetOrder,
			Details: fmt.Sprintf("Confirmed payment for order %s (%s MAD, %s)",
				confirmed.ID, confirmed.Total.StringFixed(2), confirmed.PaymentMethod),
		})
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperrors.NewNotFound("order")
	case errors.Is(err, repository.ErrConflict):
		return nil, apperrors.NewConflict("order is not pending", map[string]any{"orderId": orderID})
	case err != nil:
		return nil, err
	}

	s.logger.Info("payment confirmed", zap.String("order_id", order.ID), zap.String("admin_id", actor.UserID))
	s.events.publish(ctx, events.Event{
		Type:        events.EventPaymentConfirmed,
		AggregateID: order.ID,
		ActorID:     actor.UserID,
		Payload: events.PaymentConfirmedPayload{
			UserID:     order.UserID,
			BundleTier: order.BundleTier,
			Total:      order.Total.String(),
		},
	})
	return order, nil
}

func parsePaymentMethod(raw string) (domain.PaymentMethod, error) {
	switch method := domain.PaymentMethod(strings.ToUpper(strings.TrimSpace(raw))); method {
	case "":
		return domain.PaymentBankTransfer, nil
	case domain.PaymentBankTransfer, domain.PaymentCashPlus:
		return method, nil
	default:
		return "", apperrors.NewValidationError("invalid payment method", map[string]any{"paymentMethod": raw})
	}
}
