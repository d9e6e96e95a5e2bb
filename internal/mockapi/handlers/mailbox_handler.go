package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-client/internal/mockapi/service"
)

// MailboxHandler serves the /plugins/ews endpoints.
type MailboxHandler struct {
	service *service.MailboxService
}

// NewMailboxHandler constructs handler.
func NewMailboxHandler(mailboxService *service.MailboxService) *MailboxHandler {
	return &MailboxHandler{service: mailboxService}
}

// Health GET /plugins/ews/health.
func (h *MailboxHandler) Health(c *fiber.Ctx) error {
	return c.JSON(h.service.Health(c.UserContext()))
}

// ListEmails GET /plugins/ews/emails.
func (h *MailboxHandler) ListEmails(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 {
		limit = 50
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	result, err := h.service.ListEmails(c.UserContext(), c.Query("mailbox"), c.Query("folder", "inbox"), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GetEmailDetail GET /plugins/ews/email.
func (h *MailboxHandler) GetEmailDetail(c *fiber.Ctx) error {
	result, err := h.service.GetEmailDetail(c.UserContext(), c.Query("mailbox"), c.Query("item_id"))
	if err != nil {
		return err
	}
	return c.JSON(result)
}
