package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus enumerates lifecycle states for orders.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusCancelled:
		return true
	}
	return false
}

// PaymentMethod is how the teacher paid outside the platform.
type PaymentMethod string

const (
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentCashPlus     PaymentMethod = "CASHPLUS"
)

// Order is one bundle purchase awaiting or holding manual payment confirmation.
type Order struct {
	ID               string
	UserID           string
	BundleTier       BundleTier
	Status           OrderStatus
	Total            decimal.Decimal
	PaymentMethod    PaymentMethod
	PaymentReference string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ConfirmedAt      *time.Time
	ConfirmedBy      *string
	DeliveredAt      *time.Time
}

// OrderWithBuyer joins an order with the buyer contact fields shown to admins.
type OrderWithBuyer struct {
	Order
	BuyerName  string
	BuyerEmail string
}

// OrderStats aggregates the admin dashboard counters.
type OrderStats struct {
	TotalOrders   int
	PendingOrders int
	PaidOrders    int
	TotalTeachers int
	TotalRevenue  decimal.Decimal
	RecentOrders  []OrderWithBuyer
}
