package domain

// EmailAddress is a display name plus address.
type EmailAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// EmailListItem is one row of a mailbox folder listing.
type EmailListItem struct {
	ItemID         string `json:"item_id"`
	ConversationID string `json:"conversation_id,omitempty"`
	Subject        string `json:"subject"`
	From           string `json:"from"`
	FromEmail      string `json:"from_email"`
	ReceivedDate   string `json:"received_date"`
	HasAttachments bool   `json:"has_attachments"`
	IsRead         bool   `json:"is_read"`
	Preview        string `json:"preview,omitempty"`
}

// AttachmentInfo describes an email attachment without its content.
type AttachmentInfo struct {
	AttachmentID string `json:"attachment_id"`
	Name         string `json:"name"`
	ContentType  string `json:"content_type"`
	ContentID    string `json:"content_id,omitempty"`
	Size         int64  `json:"size"`
	IsInline     bool   `json:"is_inline"`
}

// EmailBodyType is either Text or HTML.
type EmailBodyType string

const (
	EmailBodyText EmailBodyType = "Text"
	EmailBodyHTML EmailBodyType = "HTML"
)

// EmailDetail is a full message.
type EmailDetail struct {
	ItemID            string           `json:"item_id"`
	ConversationID    string           `json:"conversation_id,omitempty"`
	Subject           string           `json:"subject"`
	Body              string           `json:"body"`
	BodyType          EmailBodyType    `json:"body_type"`
	From              EmailAddress     `json:"from"`
	ToRecipients      []EmailAddress   `json:"to_recipients"`
	CcRecipients      []EmailAddress   `json:"cc_recipients,omitempty"`
	BccRecipients     []EmailAddress   `json:"bcc_recipients,omitempty"`
	ReceivedDate      string           `json:"received_date"`
	SentDate          string           `json:"sent_date"`
	HasAttachments    bool             `json:"has_attachments"`
	IsRead            bool             `json:"is_read"`
	Importance        string           `json:"importance,omitempty"`
	Categories        []string         `json:"categories,omitempty"`
	InternetMessageID string           `json:"internet_message_id,omitempty"`
	Attachments       []AttachmentInfo `json:"attachments,omitempty"`
}

// ListEmailsResponse payload.
type ListEmailsResponse struct {
	Emails []EmailListItem `json:"emails"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// GetEmailDetailResponse payload.
type GetEmailDetailResponse struct {
	Email  EmailDetail     `json:"email"`
	Thread []EmailListItem `json:"thread,omitempty"`
}

// MailboxHealthResponse payload.
type MailboxHealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
