package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eduplatform/teacher-store/internal/api/dto"
	"github.com/eduplatform/teacher-store/internal/api/validation"
	"github.com/eduplatform/teacher-store/internal/service"
)

// AdminHandler exposes the back-office endpoints. Every route is mounted
// behind auth.RequireAdmin; the services check the role again.
type AdminHandler struct {
	admin   *service.AdminService
	orders  *service.OrderService
	tickets *service.TicketService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService, orderService *service.OrderService, ticketService *service.TicketService) *AdminHandler {
	return &AdminHandler{admin: adminService, orders: orderService, tickets: ticketService}
}

// Stats GET /api/admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.admin.Stats(c.UserContext(), actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewStatsResponse(stats))
}

// ListOrders GET /api/admin/orders?status=.
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.orders.ListOrders(c.UserContext(), actorFrom(c), c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"orders": dto.NewAdminOrderResponses(orders)})
}

// ConfirmPayment POST /api/admin/orders/:id/confirm.
func (h *AdminHandler) ConfirmPayment(c *fiber.Ctx) error {
	order, err := h.orders.ConfirmPayment(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Payment confirmed and content delivered",
		"order":   dto.NewOrderResponse(order),
	})
}

// ListTeachers GET /api/admin/teachers.
func (h *AdminHandler) ListTeachers(c *fiber.Ctx) error {
	teachers, err := h.admin.ListTeachers(c.UserContext(), actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"teachers": dto.NewTeacherResponses(teachers)})
}

// SetTeacherStatus PUT /api/admin/teachers/:id/status.
func (h *AdminHandler) SetTeacherStatus(c *fiber.Ctx) error {
	var req dto.TeacherStatusRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}
	return h.setTeacherStatus(c, c.Params("id"), *req.IsActive)
}

// SetTeacherStatusFromBody PUT /api/admin/teachers with the id in the body.
func (h *AdminHandler) SetTeacherStatusFromBody(c *fiber.Ctx) error {
	var req dto.AdminTeacherStatusRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}
	return h.setTeacherStatus(c, req.UserID, *req.IsActive)
}

func (h *AdminHandler) setTeacherStatus(c *fiber.Ctx, userID string, active bool) error {
	user, err := h.admin.SetTeacherStatus(c.UserContext(), actorFrom(c), userID, active)
	if err != nil {
		return err
	}
	message := "User suspended"
	if user.IsActive {
		message = "User activated"
	}
	return c.JSON(fiber.Map{
		"message": message,
		"user":    dto.TeacherStatusResponse{ID: user.ID, IsActive: user.IsActive},
	})
}

// ListTickets GET /api/admin/tickets?status=.
func (h *AdminHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.tickets.ListAllTickets(c.UserContext(), actorFrom(c), c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"tickets": dto.NewAdminTicketResponses(tickets)})
}

// UpdateTicketStatus PUT /api/admin/tickets/:id/status.
func (h *AdminHandler) UpdateTicketStatus(c *fiber.Ctx) error {
	var req dto.UpdateTicketStatusRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}
	return h.updateTicketStatus(c, c.Params("id"), req.Status)
}

// UpdateTicketStatusFromBody PUT /api/admin/tickets with the id in the body.
func (h *AdminHandler) UpdateTicketStatusFromBody(c *fiber.Ctx) error {
	var req dto.AdminTicketStatusRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}
	return h.updateTicketStatus(c, req.TicketID, req.Status)
}

func (h *AdminHandler) updateTicketStatus(c *fiber.Ctx, ticketID, status string) error {
	ticket, err := h.tickets.UpdateStatus(c.UserContext(), actorFrom(c), ticketID, status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Ticket status updated",
		"ticket":  dto.NewTicketResponse(ticket),
	})
}

// ListLogs GET /api/admin/logs?targetType=&targetId=&limit=.
func (h *AdminHandler) ListLogs(c *fiber.Ctx) error {
	logs, err := h.admin.ListLogs(c.UserContext(), actorFrom(c), service.AdminLogQuery{
		TargetType: c.Query("targetType"),
		TargetID:   c.Query("targetId"),
		Limit:      c.QueryInt("limit", 0),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"logs": dto.NewAdminLogResponses(logs)})
}
