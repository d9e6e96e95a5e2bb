package service

import (
	"context"
	"strings"

	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/mockapi/repository"
	apperrors "github.com/spec-kit/helpdesk-client/pkg/util"
)

// Reference target kinds.
const (
	TargetTicket = "TICKET"
	TargetEntry  = "ENTRY"
	TargetUser   = "USER"
)

// GetEntry returns an entry with its tags, references and payload.
func (s *TicketService) GetEntry(ctx context.Context, id int64) (*domain.Entry, error) {
	rec, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "entry")
	}
	return s.entryDetail(ctx, rec)
}

// CreateEntry appends an entry to a ticket thread.
func (s *TicketService) CreateEntry(ctx context.Context, ticketID, authorID string, req domain.CreateEntryRequest) (*domain.Entry, error) {
	t, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapNotFound(err, "ticket")
	}
	entry, err := s.createEntry(ctx, ticketID, authorID, req)
	if err != nil {
		return nil, err
	}
	// touch the ticket so updated_at reflects thread activity
	if err := s.tickets.Update(ctx, t); err != nil {
		return nil, mapNotFound(err, "ticket")
	}
	return entry, nil
}

// UpdateEntry applies the non-nil fields of req.
func (s *TicketService) UpdateEntry(ctx context.Context, id int64, req domain.UpdateEntryRequest) (*domain.Entry, error) {
	rec, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "entry")
	}
	if req.Body != nil {
		rec.Body = *req.Body
	}
	if req.Format != nil {
		rec.Format = *req.Format
	}
	if req.Payload != nil {
		rec.Payload = req.Payload
	}
	if err := validateFormat(rec.Format); err != nil {
		return nil, err
	}
	if err := s.entries.Update(ctx, rec); err != nil {
		return nil, mapNotFound(err, "entry")
	}
	return s.entryDetail(ctx, rec)
}

// DeleteEntry removes an entry.
func (s *TicketService) DeleteEntry(ctx context.Context, id int64) error {
	return mapNotFound(s.entries.Delete(ctx, id), "entry")
}

// AddEntryTags attaches tags to an entry.
func (s *TicketService) AddEntryTags(ctx context.Context, id int64, req domain.AddTagRequest) error {
	if len(req.TagIDs) == 0 {
		return apperrors.NewValidationError("tag_ids is required")
	}
	rec, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return mapNotFound(err, "entry")
	}
	if err := s.requireTags(ctx, req.TagIDs); err != nil {
		return err
	}
	rec.TagLinks = repository.AddTagLinks(rec.TagLinks, req.TagIDs, req.Category)
	return mapNotFound(s.entries.Update(ctx, rec), "entry")
}

// RemoveEntryTag detaches a tag from an entry.
func (s *TicketService) RemoveEntryTag(ctx context.Context, id, tagID int64) error {
	rec, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return mapNotFound(err, "entry")
	}
	links, removed := repository.RemoveTagLink(rec.TagLinks, tagID)
	if !removed {
		return apperrors.NewNotFound("tag")
	}
	rec.TagLinks = links
	return mapNotFound(s.entries.Update(ctx, rec), "entry")
}

func (s *TicketService) createEntry(ctx context.Context, ticketID, authorID string, req domain.CreateEntryRequest) (*domain.Entry, error) {
	if strings.TrimSpace(req.Body) == "" && req.EntryType != domain.EntryTypeEvent {
		return nil, apperrors.NewValidationError("body is required")
	}
	rec := &repository.EntryRecord{
		Entry: domain.Entry{
			TicketID:      ticketID,
			EntryType:     withDefault(req.EntryType, domain.EntryTypeComment),
			Body:          req.Body,
			Format:        withDefault(req.Format, domain.FormatPlainText),
			ParentEntryID: req.ParentEntryID,
			AuthorUserID:  authorID,
			Payload:       req.Payload,
		},
	}
	switch rec.EntryType {
	case domain.EntryTypeComment, domain.EntryTypeFile, domain.EntryTypeSchedule, domain.EntryTypeEvent:
	default:
		return nil, apperrors.NewValidationError("invalid entry_type")
	}
	if err := validateFormat(rec.Format); err != nil {
		return nil, err
	}
	if req.ParentEntryID != 0 {
		parent, err := s.entries.GetByID(ctx, req.ParentEntryID)
		if err != nil || parent.TicketID != ticketID {
			return nil, apperrors.NewValidationError("parent entry does not belong to this ticket")
		}
	}
	if err := s.requireTags(ctx, req.TagIDs); err != nil {
		return nil, err
	}
	rec.TagLinks = repository.AddTagLinks(nil, req.TagIDs, "")

	refs, err := s.buildReferences(ctx, req.References)
	if err != nil {
		return nil, err
	}
	rec.References = refs

	if err := s.entries.Create(ctx, rec); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	for i := range rec.References {
		rec.References[i].CreatedAt = rec.CreatedAt
	}
	if err := s.entries.Update(ctx, rec); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return s.entryDetail(ctx, rec)
}

func (s *TicketService) buildReferences(ctx context.Context, reqs []domain.CreateReferenceRequest) ([]domain.Reference, error) {
	refs := make([]domain.Reference, 0, len(reqs))
	for _, r := range reqs {
		targets := 0
		ref := domain.Reference{}
		if r.TargetTicketID != "" {
			targets++
			if _, err := s.tickets.GetByID(ctx, r.TargetTicketID); err != nil {
				return nil, apperrors.NewValidationError("referenced ticket does not exist")
			}
			ref.TargetType, ref.TargetTicketID = TargetTicket, r.TargetTicketID
		}
		if r.TargetEntryID != 0 {
			targets++
			if _, err := s.entries.GetByID(ctx, r.TargetEntryID); err != nil {
				return nil, apperrors.NewValidationError("referenced entry does not exist")
			}
			ref.TargetType, ref.TargetEntryID = TargetEntry, r.TargetEntryID
		}
		if r.TargetUserID != "" {
			targets++
			name := s.userName(ctx, r.TargetUserID)
			if name == nil {
				return nil, apperrors.NewValidationError("referenced user does not exist")
			}
			ref.TargetType, ref.TargetUserID, ref.TargetUserName = TargetUser, r.TargetUserID, name
		}
		if targets != 1 {
			return nil, apperrors.NewValidationError("a reference needs exactly one target")
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (s *TicketService) entryDetail(ctx context.Context, rec *repository.EntryRecord) (*domain.Entry, error) {
	e := rec.Entry
	tags, err := s.resolveTags(ctx, rec.TagLinks)
	if err != nil {
		return nil, err
	}
	e.Tags = tags
	e.AuthorUserName = s.userName(ctx, e.AuthorUserID)
	return &e, nil
}

func validateFormat(f domain.ContentFormat) error {
	switch f {
	case domain.FormatPlainText, domain.FormatMarkdown, domain.FormatHTML, domain.FormatNone:
		return nil
	}
	return apperrors.NewValidationError("invalid format")
}
