package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/mockapi/repository"
	apperrors "github.com/spec-kit/helpdesk-client/pkg/util"
)

var colorCodePattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// TagService manages the tag catalogue.
type TagService struct {
	tags    repository.TagRepository
	tickets repository.TicketRepository
	entries repository.EntryRepository
}

// NewTagService builds the service.
func NewTagService(tags repository.TagRepository, tickets repository.TicketRepository, entries repository.EntryRepository) *TagService {
	return &TagService{tags: tags, tickets: tickets, entries: entries}
}

// ListTags pages through tags ordered by id.
func (s *TagService) ListTags(ctx context.Context, pageNum, limit int) (*domain.Paginated[domain.Tag], error) {
	tags, total, err := s.tags.List(ctx, pageNum, limit)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &domain.Paginated[domain.Tag]{
		Data:       tags,
		Page:       pageNum,
		Limit:      limit,
		TotalCount: total,
		TotalPages: domain.TotalPagesFor(total, limit),
	}, nil
}

func (s *TagService) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "tag")
	}
	return tag, nil
}

func (s *TagService) CreateTag(ctx context.Context, req domain.CreateTagRequest) (*domain.Tag, error) {
	tag := &domain.Tag{Name: strings.TrimSpace(req.Name), ColorCode: req.ColorCode}
	if err := validateTag(tag); err != nil {
		return nil, err
	}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, mapTagError(err)
	}
	return tag, nil
}

func (s *TagService) UpdateTag(ctx context.Context, id int64, req domain.UpdateTagRequest) (*domain.Tag, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "tag")
	}
	if req.Name != nil {
		tag.Name = strings.TrimSpace(*req.Name)
	}
	if req.ColorCode != nil {
		tag.ColorCode = *req.ColorCode
	}
	if err := validateTag(tag); err != nil {
		return nil, err
	}
	if err := s.tags.Update(ctx, tag); err != nil {
		return nil, mapTagError(err)
	}
	return tag, nil
}

// DeleteTag removes a tag and detaches it everywhere.
func (s *TagService) DeleteTag(ctx context.Context, id int64) error {
	if err := s.tags.Delete(ctx, id); err != nil {
		return mapNotFound(err, "tag")
	}
	if err := s.tickets.RemoveTagEverywhere(ctx, id); err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.entries.RemoveTagEverywhere(ctx, id); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

func validateTag(tag *domain.Tag) error {
	if tag.Name == "" {
		return apperrors.NewValidationError("name is required")
	}
	if tag.ColorCode != "" && !colorCodePattern.MatchString(tag.ColorCode) {
		return apperrors.NewValidationError("color_code must look like #RRGGBB")
	}
	return nil
}

func mapTagError(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperrors.NewConflict("tag name already exists")
	}
	return mapNotFound(err, "tag")
}
