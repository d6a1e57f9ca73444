package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eduplatform/teacher-store/internal/domain"
)

// CreateOrderRequest is a checkout payload. Total accepts a JSON number or string.
type CreateOrderRequest struct {
	BundleTier       string          `json:"bundleTier" validate:"required"`
	Total            decimal.Decimal `json:"total"`
	PaymentMethod    string          `json:"paymentMethod"`
	PaymentReference string          `json:"paymentReference" validate:"max=120"`
}

// BundleResponse is one catalog entry.
type BundleResponse struct {
	Tier     string      `json:"tier"`
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Currency string      `json:"currency"`
}

// OrderResponse is the buyer's view of an order.
type OrderResponse struct {
	ID               string      `json:"id"`
	UserID           string      `json:"userId"`
	BundleTier       string      `json:"bundleTier"`
	Status           string      `json:"status"`
	Total            json.Number `json:"total"`
	PaymentMethod    string      `json:"paymentMethod"`
	PaymentReference string      `json:"paymentReference,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
	ConfirmedAt      *time.Time  `json:"confirmedAt,omitempty"`
	ConfirmedBy      *string     `json:"confirmedBy,omitempty"`
	DeliveredAt      *time.Time  `json:"deliveredAt,omitempty"`
}

// UserRef names the account an admin-facing row belongs to.
type UserRef struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AdminOrderResponse adds buyer details for the back office.
type AdminOrderResponse struct {
	OrderResponse
	User UserRef `json:"user"`
}

// StatsResponse is the admin dashboard payload.
type StatsResponse struct {
	TotalOrders   int                  `json:"totalOrders"`
	PendingOrders int                  `json:"pendingOrders"`
	PaidOrders    int                  `json:"paidOrders"`
	TotalTeachers int                  `json:"totalTeachers"`
	TotalRevenue  json.Number          `json:"totalRevenue"`
	RecentOrders  []AdminOrderResponse `json:"recentOrders"`
}

// Money renders an amount as a JSON number with two decimals.
func Money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// NewBundleResponses maps the catalog.
func NewBundleResponses(bundles []domain.Bundle) []BundleResponse {
	out := make([]BundleResponse, 0, len(bundles))
	for _, b := range bundles {
		out = append(out, BundleResponse{
			Tier:     string(b.Tier),
			Name:     b.Name,
			Price:    Money(b.Price),
			Currency: b.Currency,
		})
	}
	return out
}

// NewOrderResponse maps a domain order.
func NewOrderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:               o.ID,
		UserID:           o.UserID,
		BundleTier:       string(o.BundleTier),
		Status:           string(o.Status),
		Total:            Money(o.Total),
		PaymentMethod:    string(o.PaymentMethod),
		PaymentReference: o.PaymentReference,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		ConfirmedAt:      o.ConfirmedAt,
		ConfirmedBy:      o.ConfirmedBy,
		DeliveredAt:      o.DeliveredAt,
	}
}

// NewOrderResponses maps a buyer's order list.
func NewOrderResponses(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}

// NewAdminOrderResponses maps orders joined with their buyers.
func NewAdminOrderResponses(orders []domain.OrderWithBuyer) []AdminOrderResponse {
	out := make([]AdminOrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, AdminOrderResponse{
			OrderResponse: NewOrderResponse(&orders[i].Order),
			User:          UserRef{Name: orders[i].BuyerName, Email: orders[i].BuyerEmail},
		})
	}
	return out
}

// NewStatsResponse maps the dashboard aggregate.
func NewStatsResponse(s *domain.OrderStats) StatsResponse {
	return StatsResponse{
		TotalOrders:   s.TotalOrders,
		PendingOrders: s.PendingOrders,
		PaidOrders:    s.PaidOrders,
		TotalTeachers: s.TotalTeachers,
		TotalRevenue:  Money(s.TotalRevenue),
		RecentOrders:  NewAdminOrderResponses(s.RecentOrders),
	}
}
