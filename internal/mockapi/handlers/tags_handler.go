package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/mockapi/service"
)

// TagsHandler manages the tag catalogue endpoints.
type TagsHandler struct {
	service *service.TagService
}

// NewTagsHandler constructs handler.
func NewTagsHandler(tagService *service.TagService) *TagsHandler {
	return &TagsHandler{service: tagService}
}

// ListTags GET /tags.
func (h *TagsHandler) ListTags(c *fiber.Ctx) error {
	page, limit := pagination(c, 10)
	result, err := h.service.ListTags(c.UserContext(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GetTag GET /tags/:id.
func (h *TagsHandler) GetTag(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	tag, err := h.service.GetTag(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(tag)
}

// CreateTag POST /tags.
func (h *TagsHandler) CreateTag(c *fiber.Ctx) error {
	var req domain.CreateTagRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	tag, err := h.service.CreateTag(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

// UpdateTag PUT /tags/:id.
func (h *TagsHandler) UpdateTag(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	var req domain.UpdateTagRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	tag, err := h.service.UpdateTag(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(tag)
}

// DeleteTag DELETE /tags/:id.
func (h *TagsHandler) DeleteTag(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteTag(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "tag deleted")
}
