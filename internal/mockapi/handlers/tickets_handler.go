package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/mockapi/service"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	page, limit := pagination(c, 10)
	result, err := h.service.ListTickets(c.UserContext(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// SearchTickets POST /tickets/search.
func (h *TicketsHandler) SearchTickets(c *fiber.Ctx) error {
	var req domain.SearchTicketRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	page, limit := pagination(c, 10)
	result, err := h.service.SearchTickets(c.UserContext(), req, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req domain.CreateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(ticket)
}

// UpdateTicket PUT /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req domain.UpdateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.UpdateTicket(c.UserContext(), c.Params("id"), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if err := h.service.DeleteTicket(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return message(c, "ticket deleted")
}

// AddTags POST /tickets/:id/tags.
func (h *TicketsHandler) AddTags(c *fiber.Ctx) error {
	var req domain.AddTagRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.service.AddTags(c.UserContext(), c.Params("id"), req); err != nil {
		return err
	}
	return message(c, "tags added")
}

// RemoveTag DELETE /tickets/:id/tags/:tagId.
func (h *TicketsHandler) RemoveTag(c *fiber.Ctx) error {
	tagID, err := int64Param(c, "tagId")
	if err != nil {
		return err
	}
	if err := h.service.RemoveTag(c.UserContext(), c.Params("id"), tagID); err != nil {
		return err
	}
	return message(c, "tag removed")
}
