package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-client/internal/domain"
)

// TagLink attaches a tag to a ticket or entry with an optional category.
type TagLink struct {
	TagID    int64
	Category string
}

// TicketRecord is a stored ticket.
type TicketRecord struct {
	domain.TicketSummary
	AssignedUserID string
	Tags           []TagLink
	seq            uint64
}

// TicketMatcher selects tickets for listing. Nil matches everything.
type TicketMatcher func(TicketRecord) bool

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *TicketRecord) error
	Update(ctx context.Context, ticket *TicketRecord) error
	GetByID(ctx context.Context, id string) (*TicketRecord, error)
	Delete(ctx context.Context, id string) error
	// List returns matching tickets newest first plus the total match count.
	List(ctx context.Context, match TicketMatcher, pageNum, limit int) ([]TicketRecord, int, error)
	RemoveTagEverywhere(ctx context.Context, tagID int64) error
}

type ticketRepository struct {
	mu      sync.RWMutex
	tickets map[string]*TicketRecord
	seq     uint64
	now     Clock
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(now Clock) TicketRepository {
	return &ticketRepository{tickets: make(map[string]*TicketRecord), now: now}
}

func (r *ticketRepository) Create(_ context.Context, ticket *TicketRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ticket.ID = uuid.NewString()
	ticket.seq = r.seq
	ticket.CreatedAt = timestamp(r.now())
	ticket.UpdatedAt = ticket.CreatedAt
	r.tickets[ticket.ID] = cloneTicket(ticket)
	return nil
}

// Update replaces the stored ticket and bumps updated_at, never moving it backwards.
func (r *ticketRepository) Update(_ context.Context, ticket *TicketRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tickets[ticket.ID]
	if !ok {
		return ErrNotFound
	}
	ticket.seq = existing.seq
	ticket.CreatedAt = existing.CreatedAt
	ticket.UpdatedAt = timestamp(r.now())
	if ticket.UpdatedAt < existing.UpdatedAt {
		ticket.UpdatedAt = existing.UpdatedAt
	}
	r.tickets[ticket.ID] = cloneTicket(ticket)
	return nil
}

func (r *ticketRepository) GetByID(_ context.Context, id string) (*TicketRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneTicket(t), nil
}

func (r *ticketRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[id]; !ok {
		return ErrNotFound
	}
	delete(r.tickets, id)
	return nil
}

func (r *ticketRepository) List(_ context.Context, match TicketMatcher, pageNum, limit int) ([]TicketRecord, int, error) {
	r.mu.RLock()
	matched := make([]TicketRecord, 0, len(r.tickets))
	for _, t := range r.tickets {
		if match == nil || match(*t) {
			matched = append(matched, *cloneTicket(t))
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].seq > matched[j].seq })
	return page(matched, pageNum, limit), len(matched), nil
}

func (r *ticketRepository) RemoveTagEverywhere(_ context.Context, tagID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		t.Tags = withoutTag(t.Tags, tagID)
	}
	return nil
}

func cloneTicket(t *TicketRecord) *TicketRecord {
	out := *t
	out.Tags = append([]TagLink{}, t.Tags...)
	return &out
}

func withoutTag(links []TagLink, tagID int64) []TagLink {
	kept := links[:0:0]
	for _, l := range links {
		if l.TagID != tagID {
			kept = append(kept, l)
		}
	}
	return kept
}

// AddTagLinks merges ids into links, updating the category of links already present.
func AddTagLinks(links []TagLink, ids []int64, category string) []TagLink {
	out := append([]TagLink{}, links...)
	for _, id := range ids {
		found := false
		for i := range out {
			if out[i].TagID == id {
				out[i].Category = category
				found = true
				break
			}
		}
		if !found {
			out = append(out, TagLink{TagID: id, Category: category})
		}
	}
	return out
}

// RemoveTagLink drops tagID from links and reports whether it was present.
func RemoveTagLink(links []TagLink, tagID int64) ([]TagLink, bool) {
	kept := withoutTag(links, tagID)
	return kept, len(kept) != len(links)
}
