package service

import (
	"context"

	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/mockapi/repository"
	apperrors "github.com/spec-kit/helpdesk-client/pkg/util"
)

// Change types carried in the payload of history EVENT entries.
const (
	ChangeStatus   = "status_changed"
	ChangePriority = "priority_changed"
	ChangeAssignee = "assignee_changed"
)

// recordChanges appends one EVENT entry per tracked field that differs between before and after.
func (s *TicketService) recordChanges(ctx context.Context, before, after *repository.TicketRecord, actorID string) error {
	type change struct {
		kind     string
		from, to string
	}
	var changes []change
	if before.Status != after.Status {
		changes = append(changes, change{ChangeStatus, string(before.Status), string(after.Status)})
	}
	if before.Priority != after.Priority {
		changes = append(changes, change{ChangePriority, string(before.Priority), string(after.Priority)})
	}
	if before.AssignedUserID != after.AssignedUserID {
		changes = append(changes, change{ChangeAssignee, before.AssignedUserID, after.AssignedUserID})
	}

	for _, c := range changes {
		rec := &repository.EntryRecord{
			Entry: domain.Entry{
				TicketID:     after.ID,
				EntryType:    domain.EntryTypeEvent,
				Format:       domain.FormatNone,
				AuthorUserID: actorID,
				Payload: map[string]any{
					"change_type": c.kind,
					"old_value":   c.from,
					"new_value":   c.to,
				},
			},
		}
		if err := s.entries.Create(ctx, rec); err != nil {
			return apperrors.NewInternalError(err)
		}
	}
	return nil
}
