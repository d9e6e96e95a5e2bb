package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/spec-kit/helpdesk-client/internal/domain"
)

// MailRecord is one message of a read-only mailbox folder.
type MailRecord struct {
	Mailbox string
	Folder  string
	Preview string
	Email   domain.EmailDetail
}

// MailboxRepository serves messages seeded at start-up.
type MailboxRepository interface {
	Add(ctx context.Context, rec MailRecord) error
	// List returns a folder's messages newest first plus the folder size.
	List(ctx context.Context, mailbox, folder string, limit, offset int) ([]domain.EmailListItem, int, error)
	Get(ctx context.Context, mailbox, itemID string) (*domain.EmailDetail, error)
	// Thread lists the other messages of a conversation, oldest first.
	Thread(ctx context.Context, mailbox, conversationID, excludeItemID string) ([]domain.EmailListItem, error)
}

type mailboxRepository struct {
	mu      sync.RWMutex
	records []MailRecord
}

// NewMailboxRepository instantiates repository.
func NewMailboxRepository() MailboxRepository {
	return &mailboxRepository{}
}

func (r *mailboxRepository) Add(_ context.Context, rec MailRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

func (r *mailboxRepository) List(_ context.Context, mailbox, folder string, limit, offset int) ([]domain.EmailListItem, int, error) {
	r.mu.RLock()
	var matched []MailRecord
	for _, rec := range r.records {
		if strings.EqualFold(rec.Mailbox, mailbox) && strings.EqualFold(rec.Folder, folder) {
			matched = append(matched, rec)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Email.ReceivedDate > matched[j].Email.ReceivedDate
	})
	items := make([]domain.EmailListItem, 0, len(matched))
	for _, rec := range matched {
		items = append(items, listItem(rec))
	}
	if offset >= len(items) {
		return []domain.EmailListItem{}, len(items), nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], len(items), nil
}

func (r *mailboxRepository) Get(_ context.Context, mailbox, itemID string) (*domain.EmailDetail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if strings.EqualFold(rec.Mailbox, mailbox) && rec.Email.ItemID == itemID {
			email := rec.Email
			return &email, nil
		}
	}
	return nil, ErrNotFound
}

func (r *mailboxRepository) Thread(_ context.Context, mailbox, conversationID, excludeItemID string) ([]domain.EmailListItem, error) {
	if conversationID == "" {
		return nil, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var thread []domain.EmailListItem
	for _, rec := range r.records {
		if strings.EqualFold(rec.Mailbox, mailbox) && rec.Email.ConversationID == conversationID && rec.Email.ItemID != excludeItemID {
			thread = append(thread, listItem(rec))
		}
	}
	sort.SliceStable(thread, func(i, j int) bool { return thread[i].ReceivedDate < thread[j].ReceivedDate })
	return thread, nil
}

func listItem(rec MailRecord) domain.EmailListItem {
	e := rec.Email
	return domain.EmailListItem{
		ItemID:         e.ItemID,
		ConversationID: e.ConversationID,
		Subject:        e.Subject,
		From:           e.From.Name,
		FromEmail:      e.From.Address,
		ReceivedDate:   e.ReceivedDate,
		HasAttachments: e.HasAttachments,
		IsRead:         e.IsRead,
		Preview:        rec.Preview,
	}
}
