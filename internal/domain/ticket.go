package domain

import "slices"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen           TicketStatus = "OPEN"
	TicketStatusWaitingForInfo TicketStatus = "WAITING_FOR_INFO"
	TicketStatusInProgress     TicketStatus = "IN_PROGRESS"
	TicketStatusResolved       TicketStatus = "RESOLVED"
	TicketStatusClosed         TicketStatus = "CLOSED"
	TicketStatusReopened       TicketStatus = "REOPENED"
)

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "LOW"
	TicketPriorityMedium   TicketPriority = "MEDIUM"
	TicketPriorityHigh     TicketPriority = "HIGH"
	TicketPriorityCritical TicketPriority = "CRITICAL"
)

// TicketRequestType classifies what the requester asks for.
type TicketRequestType string

const (
	RequestTypeBug            TicketRequestType = "BUG"
	RequestTypeMaintenance    TicketRequestType = "MAINTENANCE"
	RequestTypeFeatureRequest TicketRequestType = "FEATURE_REQUEST"
	RequestTypeGeneralInquiry TicketRequestType = "GENERAL_INQUIRY"
)

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusWaitingForInfo, TicketStatusInProgress,
		TicketStatusResolved, TicketStatusClosed, TicketStatusReopened:
		return true
	}
	return false
}

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// Valid reports whether r is a known request type.
func (r TicketRequestType) Valid() bool {
	switch r {
	case RequestTypeBug, RequestTypeMaintenance, RequestTypeFeatureRequest, RequestTypeGeneralInquiry:
		return true
	}
	return false
}

// TicketSummary is the list view of a ticket.
type TicketSummary struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Status      TicketStatus      `json:"status"`
	Priority    TicketPriority    `json:"priority"`
	RequestType TicketRequestType `json:"request_type"`
	DueDate     string            `json:"due_date,omitempty"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

// TicketDetail is the detail view of a ticket including its entry thread.
type TicketDetail struct {
	TicketSummary
	AssignedUserID   string    `json:"assigned_user_id,omitempty"`
	AssignedUserName *UserName `json:"assigned_user_name,omitempty"`
	Entries          []Entry   `json:"entries,omitempty"`
	Tags             []Tag     `json:"tags,omitempty"`
}

// Clone returns a deep copy so snapshots never alias store state.
func (t *TicketDetail) Clone() *TicketDetail {
	if t == nil {
		return nil
	}
	out := *t
	if t.AssignedUserName != nil {
		name := *t.AssignedUserName
		out.AssignedUserName = &name
	}
	if t.Entries != nil {
		out.Entries = make([]Entry, len(t.Entries))
		for i, e := range t.Entries {
			out.Entries[i] = e.Clone()
		}
	}
	out.Tags = slices.Clone(t.Tags)
	return &out
}

// CreateTicketRequest payload. InitialEntry is mandatory.
type CreateTicketRequest struct {
	Title          string             `json:"title"`
	Status         TicketStatus       `json:"status,omitempty"`
	Priority       TicketPriority     `json:"priority,omitempty"`
	RequestType    TicketRequestType  `json:"request_type,omitempty"`
	AssignedUserID string             `json:"assigned_user_id,omitempty"`
	DueDate        string             `json:"due_date,omitempty"`
	TagIDs         []int64            `json:"tag_ids,omitempty"`
	InitialEntry   CreateEntryRequest `json:"initial_entry"`
}

// UpdateTicketRequest carries the fields to change; nil fields are left untouched.
type UpdateTicketRequest struct {
	Title          *string            `json:"title,omitempty"`
	Status         *TicketStatus      `json:"status,omitempty"`
	Priority       *TicketPriority    `json:"priority,omitempty"`
	RequestType    *TicketRequestType `json:"request_type,omitempty"`
	AssignedUserID *string            `json:"assigned_user_id,omitempty"`
	DueDate        *string            `json:"due_date,omitempty"`
}

// SearchTicketRequest captures search filters. Empty fields do not constrain the result.
type SearchTicketRequest struct {
	Query          string              `json:"query,omitempty"`
	Status         []TicketStatus      `json:"status,omitempty"`
	Priority       []TicketPriority    `json:"priority,omitempty"`
	RequestType    []TicketRequestType `json:"request_type,omitempty"`
	AssignedUserID string              `json:"assigned_user_id,omitempty"`
	TagIDs         []int64             `json:"tag_ids,omitempty"`
	DueDateFrom    string              `json:"due_date_from,omitempty"`
	DueDateTo      string              `json:"due_date_to,omitempty"`
}
