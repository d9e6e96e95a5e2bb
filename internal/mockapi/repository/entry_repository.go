package repository

import (
	"context"
	"maps"
	"sync"

	"github.com/spec-kit/helpdesk-client/internal/domain"
)

// EntryRecord is a stored thread entry. Tags are kept as links and resolved by the service.
type EntryRecord struct {
	domain.Entry
	TagLinks []TagLink
}

// EntryRepository encapsulates entry persistence.
type EntryRepository interface {
	Create(ctx context.Context, entry *EntryRecord) error
	Update(ctx context.Context, entry *EntryRecord) error
	GetByID(ctx context.Context, id int64) (*EntryRecord, error)
	Delete(ctx context.Context, id int64) error
	// ListByTicket returns entries in creation order.
	ListByTicket(ctx context.Context, ticketID string) ([]EntryRecord, error)
	DeleteByTicket(ctx context.Context, ticketID string) error
	RemoveTagEverywhere(ctx context.Context, tagID int64) error
}

type entryRepository struct {
	mu      sync.RWMutex
	entries map[int64]*EntryRecord
	nextID  int64
	now     Clock
}

// NewEntryRepository instantiates repository.
func NewEntryRepository(now Clock) EntryRepository {
	return &entryRepository{entries: make(map[int64]*EntryRecord), now: now}
}

func (r *entryRepository) Create(_ context.Context, entry *EntryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	entry.ID = r.nextID
	entry.CreatedAt = timestamp(r.now())
	entry.UpdatedAt = entry.CreatedAt
	r.entries[entry.ID] = cloneEntry(entry)
	return nil
}

func (r *entryRepository) Update(_ context.Context, entry *EntryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.entries[entry.ID]
	if !ok {
		return ErrNotFound
	}
	entry.CreatedAt = existing.CreatedAt
	entry.UpdatedAt = timestamp(r.now())
	r.entries[entry.ID] = cloneEntry(entry)
	return nil
}

func (r *entryRepository) GetByID(_ context.Context, id int64) (*EntryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneEntry(e), nil
}

func (r *entryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *entryRepository) ListByTicket(_ context.Context, ticketID string) ([]EntryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []EntryRecord
	for _, id := range sortedKeys(r.entries) {
		if e := r.entries[id]; e.TicketID == ticketID {
			out = append(out, *cloneEntry(e))
		}
	}
	return out, nil
}

func (r *entryRepository) DeleteByTicket(_ context.Context, ticketID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.entries {
		if e.TicketID == ticketID {
			delete(r.entries, id)
		}
	}
	return nil
}

func (r *entryRepository) RemoveTagEverywhere(_ context.Context, tagID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		e.TagLinks = withoutTag(e.TagLinks, tagID)
	}
	return nil
}

func cloneEntry(e *EntryRecord) *EntryRecord {
	out := *e
	out.TagLinks = append([]TagLink{}, e.TagLinks...)
	out.References = append([]domain.Reference(nil), e.References...)
	if e.Payload != nil {
		out.Payload = maps.Clone(e.Payload)
	}
	return &out
}
