package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/mockapi/repository"
	apperrors "github.com/spec-kit/helpdesk-client/pkg/util"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets repository.TicketRepository
	entries repository.EntryRepository
	tags    repository.TagRepository
	users   repository.UserRepository
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	EntryRepo  repository.EntryRepository
	TagRepo    repository.TagRepository
	UserRepo   repository.UserRepository
}

// NewTicketService builds the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets: deps.TicketRepo,
		entries: deps.EntryRepo,
		tags:    deps.TagRepo,
		users:   deps.UserRepo,
	}
}

// ListTickets pages through all tickets, newest first.
func (s *TicketService) ListTickets(ctx context.Context, pageNum, limit int) (*domain.Paginated[domain.TicketSummary], error) {
	return s.list(ctx, nil, pageNum, limit)
}

// SearchTickets pages through tickets matching every non-empty filter field.
func (s *TicketService) SearchTickets(ctx context.Context, req domain.SearchTicketRequest, pageNum, limit int) (*domain.Paginated[domain.TicketSummary], error) {
	query := strings.ToLower(strings.TrimSpace(req.Query))
	match := func(t repository.TicketRecord) bool {
		if len(req.Status) > 0 && !slices.Contains(req.Status, t.Status) {
			return false
		}
		if len(req.Priority) > 0 && !slices.Contains(req.Priority, t.Priority) {
			return false
		}
		if len(req.RequestType) > 0 && !slices.Contains(req.RequestType, t.RequestType) {
			return false
		}
		if req.AssignedUserID != "" && t.AssignedUserID != req.AssignedUserID {
			return false
		}
		for _, id := range req.TagIDs {
			if !slices.ContainsFunc(t.Tags, func(l repository.TagLink) bool { return l.TagID == id }) {
				return false
			}
		}
		if req.DueDateFrom != "" && (t.DueDate == "" || t.DueDate < req.DueDateFrom) {
			return false
		}
		if req.DueDateTo != "" && (t.DueDate == "" || t.DueDate > req.DueDateTo) {
			return false
		}
		if query != "" && !strings.Contains(strings.ToLower(t.Title), query) && !s.entriesMention(ctx, t.ID, query) {
			return false
		}
		return true
	}
	return s.list(ctx, match, pageNum, limit)
}

// GetTicket returns the detail view including entries and tags.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.TicketDetail, error) {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "ticket")
	}
	return s.detail(ctx, t)
}

// CreateTicket stores a ticket with its mandatory initial entry.
func (s *TicketService) CreateTicket(ctx context.Context, authorID string, req domain.CreateTicketRequest) (*domain.TicketDetail, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.NewValidationError("title is required")
	}
	if strings.TrimSpace(req.InitialEntry.Body) == "" {
		return nil, apperrors.NewValidationError("initial_entry.body is required")
	}
	t := &repository.TicketRecord{
		TicketSummary: domain.TicketSummary{
			Title:       strings.TrimSpace(req.Title),
			Status:      withDefault(req.Status, domain.TicketStatusOpen),
			Priority:    withDefault(req.Priority, domain.TicketPriorityMedium),
			RequestType: withDefault(req.RequestType, domain.RequestTypeGeneralInquiry),
			DueDate:     req.DueDate,
		},
		AssignedUserID: req.AssignedUserID,
	}
	if err := s.validateTicket(ctx, t); err != nil {
		return nil, err
	}
	if err := s.requireTags(ctx, req.TagIDs); err != nil {
		return nil, err
	}
	t.Tags = repository.AddTagLinks(nil, req.TagIDs, "")

	if err := s.tickets.Create(ctx, t); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if _, err := s.createEntry(ctx, t.ID, authorID, req.InitialEntry); err != nil {
		_ = s.tickets.Delete(ctx, t.ID)
		return nil, err
	}
	return s.detail(ctx, t)
}

// UpdateTicket applies the non-nil fields of req. Status, priority and assignee
// changes are recorded as EVENT entries authored by actorID.
func (s *TicketService) UpdateTicket(ctx context.Context, id, actorID string, req domain.UpdateTicketRequest) (*domain.TicketSummary, error) {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "ticket")
	}
	before := *t
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, apperrors.NewValidationError("title must not be empty")
		}
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.RequestType != nil {
		t.RequestType = *req.RequestType
	}
	if req.AssignedUserID != nil {
		t.AssignedUserID = *req.AssignedUserID
	}
	if req.DueDate != nil {
		t.DueDate = *req.DueDate
	}
	if err := s.validateTicket(ctx, t); err != nil {
		return nil, err
	}
	if err := s.tickets.Update(ctx, t); err != nil {
		return nil, mapNotFound(err, "ticket")
	}
	if err := s.recordChanges(ctx, &before, t, actorID); err != nil {
		return nil, err
	}
	summary := t.TicketSummary
	return &summary, nil
}

// DeleteTicket removes a ticket and its entries.
func (s *TicketService) DeleteTicket(ctx context.Context, id string) error {
	if err := s.tickets.Delete(ctx, id); err != nil {
		return mapNotFound(err, "ticket")
	}
	if err := s.entries.DeleteByTicket(ctx, id); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// AddTags attaches tags to a ticket.
func (s *TicketService) AddTags(ctx context.Context, id string, req domain.AddTagRequest) error {
	if len(req.TagIDs) == 0 {
		return apperrors.NewValidationError("tag_ids is required")
	}
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return mapNotFound(err, "ticket")
	}
	if err := s.requireTags(ctx, req.TagIDs); err != nil {
		return err
	}
	t.Tags = repository.AddTagLinks(t.Tags, req.TagIDs, req.Category)
	return mapNotFound(s.tickets.Update(ctx, t), "ticket")
}

// RemoveTag detaches a tag from a ticket.
func (s *TicketService) RemoveTag(ctx context.Context, id string, tagID int64) error {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return mapNotFound(err, "ticket")
	}
	links, removed := repository.RemoveTagLink(t.Tags, tagID)
	if !removed {
		return apperrors.NewNotFound("tag")
	}
	t.Tags = links
	return mapNotFound(s.tickets.Update(ctx, t), "ticket")
}

func (s *TicketService) list(ctx context.Context, match repository.TicketMatcher, pageNum, limit int) (*domain.Paginated[domain.TicketSummary], error) {
	records, total, err := s.tickets.List(ctx, match, pageNum, limit)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	data := make([]domain.TicketSummary, 0, len(records))
	for _, r := range records {
		data = append(data, r.TicketSummary)
	}
	return &domain.Paginated[domain.TicketSummary]{
		Data:       data,
		Page:       pageNum,
		Limit:      limit,
		TotalCount: total,
		TotalPages: domain.TotalPagesFor(total, limit),
	}, nil
}

func (s *TicketService) detail(ctx context.Context, t *repository.TicketRecord) (*domain.TicketDetail, error) {
	d := &domain.TicketDetail{TicketSummary: t.TicketSummary, AssignedUserID: t.AssignedUserID}
	if t.AssignedUserID != "" {
		d.AssignedUserName = s.userName(ctx, t.AssignedUserID)
	}
	tags, err := s.resolveTags(ctx, t.Tags)
	if err != nil {
		return nil, err
	}
	d.Tags = tags

	records, err := s.entries.ListByTicket(ctx, t.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	d.Entries = make([]domain.Entry, 0, len(records))
	for _, r := range records {
		e := r.Entry
		e.Tags, e.References, e.Payload = nil, nil, nil
		e.AuthorUserName = s.userName(ctx, e.AuthorUserID)
		d.Entries = append(d.Entries, e)
	}
	return d, nil
}

func (s *TicketService) validateTicket(ctx context.Context, t *repository.TicketRecord) error {
	switch {
	case !t.Status.Valid():
		return apperrors.NewValidationError("invalid status")
	case !t.Priority.Valid():
		return apperrors.NewValidationError("invalid priority")
	case !t.RequestType.Valid():
		return apperrors.NewValidationError("invalid request_type")
	}
	if t.AssignedUserID != "" {
		if _, err := s.users.GetByID(ctx, t.AssignedUserID); err != nil {
			return apperrors.NewValidationError("assigned user does not exist")
		}
	}
	return nil
}

func (s *TicketService) requireTags(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		if _, err := s.tags.GetByID(ctx, id); err != nil {
			return apperrors.NewNotFound("tag")
		}
	}
	return nil
}

func (s *TicketService) resolveTags(ctx context.Context, links []repository.TagLink) ([]domain.Tag, error) {
	tags := make([]domain.Tag, 0, len(links))
	for _, l := range links {
		tag, err := s.tags.GetByID(ctx, l.TagID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		tag.Category = l.Category
		tags = append(tags, *tag)
	}
	return tags, nil
}

func (s *TicketService) userName(ctx context.Context, userID string) *domain.UserName {
	if userID == "" {
		return nil
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil
	}
	name := u.Name
	return &name
}

func (s *TicketService) entriesMention(ctx context.Context, ticketID, query string) bool {
	entries, err := s.entries.ListByTicket(ctx, ticketID)
	if err != nil {
		return false
	}
	return slices.ContainsFunc(entries, func(e repository.EntryRecord) bool {
		return strings.Contains(strings.ToLower(e.Body), query)
	})
}

func withDefault[T ~string](v, fallback T) T {
	if v == "" {
		return fallback
	}
	return v
}

// mapNotFound turns repository.ErrNotFound into a 404 for resource and anything else into a 500.
func mapNotFound(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource)
	default:
		return apperrors.NewInternalError(err)
	}
}
