package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/deskhive/support-desk/internal/api/dto"
	"github.com/deskhive/support-desk/internal/auth"
	"github.com/deskhive/support-desk/internal/service"
	apperrors "github.com/deskhive/support-desk/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/v1/ticket.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Issue) == "" {
		return apperrors.NewValidationError("issue required", nil)
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), principal.User, req.Issue)
	if err != nil {
		return err
	}
	return success(c, ticket, "Ticket created successful")
}

// ProcessTicket PUT /api/v1/ticket/process.
func (h *TicketsHandler) ProcessTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ProcessTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Ticket == "" || strings.TrimSpace(req.Text) == "" {
		return apperrors.NewValidationError("ticket and text required", nil)
	}

	err := h.service.ProcessTicket(c.UserContext(), principal.User, service.ProcessTicketInput{
		TicketID: req.Ticket,
		Text:     req.Text,
		Status:   req.Status,
	})
	if err != nil {
		return err
	}
	return success(c, nil, "Ticket updated successfully")
}

// CustomerTickets GET /api/v1/ticket/customer.
func (h *TicketsHandler) CustomerTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	page := h.service.CustomerTickets(c.UserContext(), principal.User, c.Queries())
	return success(c, page, "Ticket fetched successfully")
}

// AllTickets GET /api/v1/ticket/staff.
func (h *TicketsHandler) AllTickets(c *fiber.Ctx) error {
	page := h.service.AllTickets(c.UserContext(), c.Queries())
	return success(c, page, "Ticket fetched successfully")
}
