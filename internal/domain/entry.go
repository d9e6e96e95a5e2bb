package domain

import (
	"maps"
	"slices"
)

// EntryType differentiates items in a ticket thread.
type EntryType string

const (
	EntryTypeComment  EntryType = "COMMENT"
	EntryTypeFile     EntryType = "FILE"
	EntryTypeSchedule EntryType = "SCHEDULE"
	EntryTypeEvent    EntryType = "EVENT"
)

// ContentFormat tells renderers how to interpret an entry body.
type ContentFormat string

const (
	FormatPlainText ContentFormat = "PLAIN_TEXT"
	FormatMarkdown  ContentFormat = "MARKDOWN"
	FormatHTML      ContentFormat = "HTML"
	FormatNone      ContentFormat = "NONE"
)

// Reference is a directed link from an entry to a ticket, another entry or a user.
type Reference struct {
	TargetType     string    `json:"target_type"`
	TargetTicketID string    `json:"target_ticket_id,omitempty"`
	TargetEntryID  int64     `json:"target_entry_id,omitempty"`
	TargetUserID   string    `json:"target_user_id,omitempty"`
	TargetUserName *UserName `json:"target_user_name,omitempty"`
	CreatedAt      string    `json:"created_at"`
}

// Entry is one item of a ticket thread. Tags, References and Payload are only
// populated by the entry detail endpoints.
type Entry struct {
	ID             int64          `json:"id"`
	TicketID       string         `json:"ticket_id,omitempty"`
	EntryType      EntryType      `json:"entry_type"`
	Body           string         `json:"body"`
	Format         ContentFormat  `json:"format"`
	ParentEntryID  int64          `json:"parent_entry_id,omitempty"`
	AuthorUserID   string         `json:"author_user_id"`
	AuthorUserName *UserName      `json:"author_user_name,omitempty"`
	CreatedAt      string         `json:"created_at"`
	UpdatedAt      string         `json:"updated_at"`
	Tags           []Tag          `json:"tags,omitempty"`
	References     []Reference    `json:"references,omitempty"`
	Payload        map[string]any `json:"payload,omitempty"`
}

// Clone copies e so the result shares no tags, references or payload with it.
func (e Entry) Clone() Entry {
	out := e
	if e.AuthorUserName != nil {
		name := *e.AuthorUserName
		out.AuthorUserName = &name
	}
	out.Tags = slices.Clone(e.Tags)
	if e.References != nil {
		out.References = make([]Reference, len(e.References))
		for i, ref := range e.References {
			if ref.TargetUserName != nil {
				name := *ref.TargetUserName
				ref.TargetUserName = &name
			}
			out.References[i] = ref
		}
	}
	out.Payload = clonePayload(e.Payload)
	return out
}

// clonePayload copies the nested maps and arrays that decoded JSON produces.
func clonePayload(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := maps.Clone(m)
	for k, v := range out {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return clonePayload(val)
	case []any:
		items := slices.Clone(val)
		for i, item := range items {
			items[i] = cloneValue(item)
		}
		return items
	default:
		return v
	}
}

// CreateReferenceRequest names exactly one target.
type CreateReferenceRequest struct {
	TargetTicketID string `json:"target_ticket_id,omitempty"`
	TargetEntryID  int64  `json:"target_entry_id,omitempty"`
	TargetUserID   string `json:"target_user_id,omitempty"`
}

// CreateEntryRequest payload.
type CreateEntryRequest struct {
	EntryType     EntryType                `json:"entry_type,omitempty"`
	Body          string                   `json:"body"`
	Format        ContentFormat            `json:"format,omitempty"`
	ParentEntryID int64                    `json:"parent_entry_id,omitempty"`
	TagIDs        []int64                  `json:"tag_ids,omitempty"`
	References    []CreateReferenceRequest `json:"references,omitempty"`
	Payload       map[string]any           `json:"payload,omitempty"`
}

// UpdateEntryRequest payload; nil fields are left untouched.
type UpdateEntryRequest struct {
	Body    *string        `json:"body,omitempty"`
	Format  *ContentFormat `json:"format,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}
