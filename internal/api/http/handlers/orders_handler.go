package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/eduplatform/teacher-store/internal/api/dto"
	"github.com/eduplatform/teacher-store/internal/api/validation"
	"github.com/eduplatform/teacher-store/internal/domain"
	"github.com/eduplatform/teacher-store/internal/service"
)

// OrdersHandler serves the catalog and the teacher's own orders.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orderService *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orderService}
}

// ListBundles GET /api/bundles.
func (h *OrdersHandler) ListBundles(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"bundles": dto.NewBundleResponses(domain.Bundles())})
}

// CreateOrder POST /api/orders.
func (h *OrdersHandler) CreateOrder(c *fiber.Ctx) error {
	var req dto.CreateOrderRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}

	order, err := h.orders.CreateOrder(c.UserContext(), actorFrom(c), service.CreateOrderInput{
		BundleTier:       req.BundleTier,
		Total:            req.Total,
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: req.PaymentReference,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Order created successfully",
		"order":   dto.NewOrderResponse(order),
	})
}

// ListMyOrders GET /api/orders.
func (h *OrdersHandler) ListMyOrders(c *fiber.Ctx) error {
	orders, err := h.orders.ListMyOrders(c.UserContext(), actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"orders": dto.NewOrderResponses(orders)})
}
