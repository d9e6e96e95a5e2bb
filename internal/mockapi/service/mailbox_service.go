package service

import (
	"context"
	"strings"

	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/mockapi/repository"
	apperrors "github.com/spec-kit/helpdesk-client/pkg/util"
)

// MailboxService serves the read-only mailbox plugin.
type MailboxService struct {
	mail repository.MailboxRepository
}

// NewMailboxService builds the service.
func NewMailboxService(mail repository.MailboxRepository) *MailboxService {
	return &MailboxService{mail: mail}
}

// Health reports the plugin as available.
func (s *MailboxService) Health(context.Context) domain.MailboxHealthResponse {
	return domain.MailboxHealthResponse{Status: "ok", Message: "mailbox plugin is available"}
}

// ListEmails pages through one folder.
func (s *MailboxService) ListEmails(ctx context.Context, mailbox, folder string, limit, offset int) (*domain.ListEmailsResponse, error) {
	if strings.TrimSpace(mailbox) == "" {
		return nil, apperrors.NewValidationError("mailbox is required")
	}
	emails, total, err := s.mail.List(ctx, mailbox, folder, limit, offset)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &domain.ListEmailsResponse{Emails: emails, Total: total, Limit: limit, Offset: offset}, nil
}

// GetEmailDetail returns one message and the rest of its conversation.
func (s *MailboxService) GetEmailDetail(ctx context.Context, mailbox, itemID string) (*domain.GetEmailDetailResponse, error) {
	if strings.TrimSpace(mailbox) == "" || strings.TrimSpace(itemID) == "" {
		return nil, apperrors.NewValidationError("mailbox and item_id are required")
	}
	email, err := s.mail.Get(ctx, mailbox, itemID)
	if err != nil {
		return nil, mapNotFound(err, "email")
	}
	thread, err := s.mail.Thread(ctx, mailbox, email.ConversationID, email.ItemID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &domain.GetEmailDetailResponse{Email: *email, Thread: thread}, nil
}
