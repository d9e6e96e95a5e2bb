package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/mockapi/service"
)

// EntriesHandler manages thread entry endpoints.
type EntriesHandler struct {
	service *service.TicketService
}

// NewEntriesHandler constructs handler.
func NewEntriesHandler(ticketService *service.TicketService) *EntriesHandler {
	return &EntriesHandler{service: ticketService}
}

// CreateEntry POST /tickets/:id/entries.
func (h *EntriesHandler) CreateEntry(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req domain.CreateEntryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	entry, err := h.service.CreateEntry(c.UserContext(), c.Params("id"), userID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// GetEntry GET /entries/:id.
func (h *EntriesHandler) GetEntry(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	entry, err := h.service.GetEntry(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(entry)
}

// UpdateEntry PUT /entries/:id.
func (h *EntriesHandler) UpdateEntry(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	var req domain.UpdateEntryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	entry, err := h.service.UpdateEntry(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(entry)
}

// DeleteEntry DELETE /entries/:id.
func (h *EntriesHandler) DeleteEntry(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteEntry(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "entry deleted")
}

// AddTags POST /entries/:id/tags.
func (h *EntriesHandler) AddTags(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	var req domain.AddTagRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.service.AddEntryTags(c.UserContext(), id, req); err != nil {
		return err
	}
	return message(c, "tags added")
}

// RemoveTag DELETE /entries/:id/tags/:tagId.
func (h *EntriesHandler) RemoveTag(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	tagID, err := int64Param(c, "tagId")
	if err != nil {
		return err
	}
	if err := h.service.RemoveEntryTag(c.UserContext(), id, tagID); err != nil {
		return err
	}
	return message(c, "tag removed")
}
