// Package store holds client-side view state for domain entities.
package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/events"
	"github.com/spec-kit/helpdesk-client/internal/observability"
	"github.com/spec-kit/helpdesk-client/internal/resource"
	apperrors "github.com/spec-kit/helpdesk-client/pkg/util"
)

const (
	msgFetchTicketsFailed = "Failed to fetch tickets"
	msgFetchTicketFailed  = "Failed to fetch ticket"
	msgCreateTicketFailed = "Failed to create ticket"
	msgUpdateTicketFailed = "Failed to update ticket"
	msgDeleteTicketFailed = "Failed to delete ticket"
	msgSearchFailed       = "Failed to search tickets"
	msgAddEntryFailed     = "Failed to add entry"
	msgDeleteEntryFailed  = "Failed to delete entry"
)

// TicketSnapshot is an immutable copy of the ticket store state.
type TicketSnapshot struct {
	Tickets     []domain.TicketSummary
	Current     *domain.TicketDetail
	TotalCount  int
	TotalPages  int
	CurrentPage int
	Loading     bool
	Error       string
}

// TicketDependencies wires the store to its resource clients.
type TicketDependencies struct {
	Tickets    resource.TicketClient
	Entries    resource.EntryClient
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// TicketStore holds the current ticket page and the ticket being viewed.
//
// List loads and detail loads are sequenced separately: a response is applied
// only when no newer load of the same kind was issued while it was in flight.
type TicketStore struct {
	tickets    resource.TicketClient
	entries    resource.EntryClient
	dispatcher events.Dispatcher
	logger     *zap.Logger

	mu          sync.RWMutex
	list        []domain.TicketSummary
	current     *domain.TicketDetail
	totalCount  int
	totalPages  int
	currentPage int
	inflight    int
	errMsg      string
	listSeq     uint64
	detailSeq   uint64
}

// NewTicketStore builds an empty store positioned on page 1.
func NewTicketStore(deps TicketDependencies) *TicketStore {
	return &TicketStore{
		tickets:     deps.Tickets,
		entries:     deps.Entries,
		dispatcher:  deps.Dispatcher,
		logger:      observability.Named(deps.Logger, "store.ticket"),
		currentPage: 1,
	}
}

// FetchTickets replaces the held page with page of size limit.
func (s *TicketStore) FetchTickets(ctx context.Context, page, limit int) bool {
	seq := s.begin(&s.listSeq)
	defer s.end(ctx)

	resp, err := s.tickets.List(ctx, page, limit)
	return s.applyPage(seq, resp, err, msgFetchTicketsFailed)
}

// SearchTickets replaces the held page with the matches of filter.
func (s *TicketStore) SearchTickets(ctx context.Context, filter domain.SearchTicketRequest, page, limit int) bool {
	seq := s.begin(&s.listSeq)
	defer s.end(ctx)

	resp, err := s.tickets.Search(ctx, filter, page, limit)
	return s.applyPage(seq, resp, err, msgSearchFailed)
}

// FetchTicket replaces the held detail.
func (s *TicketStore) FetchTicket(ctx context.Context, id string) bool {
	s.begin(nil)
	defer s.end(ctx)
	return s.loadDetail(ctx, id)
}

// CreateTicket creates a ticket and makes it the held detail. The list is left alone.
func (s *TicketStore) CreateTicket(ctx context.Context, req domain.CreateTicketRequest) *domain.TicketDetail {
	seq := s.begin(&s.detailSeq)
	defer s.end(ctx)

	created, err := s.tickets.Create(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failLocked(err, msgCreateTicketFailed)
		return nil
	}
	if seq == s.detailSeq {
		s.current = created.Clone()
	}
	return created.Clone()
}

// UpdateTicket sends the changes. When id is the held detail it is re-fetched so
// the store reflects the server's authoritative state.
func (s *TicketStore) UpdateTicket(ctx context.Context, id string, req domain.UpdateTicketRequest) bool {
	s.begin(nil)
	defer s.end(ctx)

	if _, err := s.tickets.Update(ctx, id, req); err != nil {
		s.mu.Lock()
		s.failLocked(err, msgUpdateTicketFailed)
		s.mu.Unlock()
		return false
	}

	s.mu.RLock()
	isCurrent := s.current != nil && s.current.ID == id
	s.mu.RUnlock()
	if isCurrent {
		// a failed refetch is reported through Error; the update itself succeeded
		s.loadDetail(ctx, id)
	}
	return true
}

// DeleteTicket removes id from the held list and drops the detail if it matches.
func (s *TicketStore) DeleteTicket(ctx context.Context, id string) bool {
	s.begin(nil)
	defer s.end(ctx)

	if _, err := s.tickets.Delete(ctx, id); err != nil {
		s.mu.Lock()
		s.failLocked(err, msgDeleteTicketFailed)
		s.mu.Unlock()
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.list {
		if t.ID == id {
			s.list = append(s.list[:i:i], s.list[i+1:]...)
			break
		}
	}
	if s.current != nil && s.current.ID == id {
		s.current = nil
		s.detailSeq++
	}
	return true
}

// AddEntry posts an entry and appends it to the held detail when ticketID matches.
func (s *TicketStore) AddEntry(ctx context.Context, ticketID string, req domain.CreateEntryRequest) *domain.Entry {
	s.begin(nil)
	defer s.end(ctx)

	entry, err := s.entries.Create(ctx, ticketID, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failLocked(err, msgAddEntryFailed)
		return nil
	}
	if s.current != nil && s.current.ID == ticketID {
		entries := make([]domain.Entry, 0, len(s.current.Entries)+1)
		entries = append(entries, s.current.Entries...)
		s.current.Entries = append(entries, entry.Clone())
	}
	out := entry.Clone()
	return &out
}

// DeleteEntry deletes an entry and removes it from the held detail when ticketID matches.
func (s *TicketStore) DeleteEntry(ctx context.Context, ticketID string, entryID int64) bool {
	s.begin(nil)
	defer s.end(ctx)

	if _, err := s.entries.Delete(ctx, entryID); err != nil {
		s.mu.Lock()
		s.failLocked(err, msgDeleteEntryFailed)
		s.mu.Unlock()
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && s.current.ID == ticketID {
		kept := make([]domain.Entry, 0, len(s.current.Entries))
		for _, e := range s.current.Entries {
			if e.ID != entryID {
				kept = append(kept, e)
			}
		}
		s.current.Entries = kept
	}
	return true
}

// ClearCurrentTicket drops the held detail and discards detail loads still in flight.
func (s *TicketStore) ClearCurrentTicket() {
	s.mu.Lock()
	s.current = nil
	s.detailSeq++
	s.mu.Unlock()
	s.publish(context.Background())
}

// Tickets returns a copy of the held page.
func (s *TicketStore) Tickets() []domain.TicketSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.TicketSummary{}, s.list...)
}

// CurrentTicket returns a copy of the held detail, or nil.
func (s *TicketStore) CurrentTicket() *domain.TicketDetail {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

func (s *TicketStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

func (s *TicketStore) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// Snapshot returns a copy of the whole state.
func (s *TicketStore) Snapshot() TicketSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TicketSnapshot{
		Tickets:     append([]domain.TicketSummary{}, s.list...),
		Current:     s.current.Clone(),
		TotalCount:  s.totalCount,
		TotalPages:  s.totalPages,
		CurrentPage: s.currentPage,
		Loading:     s.inflight > 0,
		Error:       s.errMsg,
	}
}

func (s *TicketStore) loadDetail(ctx context.Context, id string) bool {
	s.mu.Lock()
	s.detailSeq++
	seq := s.detailSeq
	s.mu.Unlock()

	detail, err := s.tickets.Get(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.detailSeq {
		s.logger.Debug("discarding superseded ticket load", zap.String("ticket_id", id))
		return err == nil
	}
	if err != nil {
		s.failLocked(err, msgFetchTicketFailed)
		return false
	}
	s.current = detail.Clone()
	return true
}

func (s *TicketStore) applyPage(seq uint64, resp *domain.Paginated[domain.TicketSummary], err error, fallback string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.listSeq {
		s.logger.Debug("discarding superseded ticket page")
		return err == nil
	}
	if err != nil {
		s.failLocked(err, fallback)
		return false
	}
	s.list = append([]domain.TicketSummary{}, resp.Data...)
	s.totalCount = resp.TotalCount
	s.totalPages = resp.TotalPages
	s.currentPage = resp.Page
	return true
}

// begin marks an action in flight and clears the error. When slot is set it
// also issues the next sequence number of that slot.
func (s *TicketStore) begin(slot *uint64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight++
	s.errMsg = ""
	if slot == nil {
		return 0
	}
	*slot++
	return *slot
}

func (s *TicketStore) end(ctx context.Context) {
	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
	s.publish(ctx)
}

func (s *TicketStore) failLocked(err error, fallback string) {
	s.errMsg = apperrors.Message(err, fallback)
	s.logger.Info("ticket action failed", zap.String("error", s.errMsg))
}

func (s *TicketStore) publish(ctx context.Context) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, events.NewEvent(events.EventTicketStoreChanged, s.Snapshot())); err != nil {
		s.logger.Warn("ticket store subscriber failed", zap.Error(err))
	}
}
