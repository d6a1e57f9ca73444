package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/eduplatform/teacher-store/internal/api/dto"
	"github.com/eduplatform/teacher-store/internal/api/validation"
	"github.com/eduplatform/teacher-store/internal/service"
)

// TicketsHandler manages teacher-facing ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), actorFrom(c), service.TicketCreateInput{
		Subject:  req.Subject,
		Message:  req.Message,
		Priority: req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Ticket created successfully",
		"ticket":  dto.NewTicketResponse(ticket),
	})
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.service.ListMyTickets(c.UserContext(), actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"tickets": dto.NewTicketResponses(tickets)})
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ticket": dto.NewTicketResponse(ticket)})
}

// AddMessage POST /api/tickets/:id/messages.
func (h *TicketsHandler) AddMessage(c *fiber.Ctx) error {
	var req dto.CreateMessageRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}

	msg, err := h.service.AddMessage(c.UserContext(), actorFrom(c), c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":       "Message added successfully",
		"ticketMessage": dto.NewTicketMessageResponse(msg),
	})
}
