package resource

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spec-kit/helpdesk-client/internal/api/httpclient"
	"github.com/spec-kit/helpdesk-client/internal/domain"
)

// Mailbox listing defaults.
const (
	DefaultMailFolder = "inbox"
	DefaultMailLimit  = 50
)

// ListEmailsOptions narrows a folder listing. Zero values select the defaults.
type ListEmailsOptions struct {
	Folder string
	Limit  int
	Offset int
}

// MailboxClient wraps the read-only mailbox plugin endpoints.
type MailboxClient interface {
	Health(ctx context.Context) (*domain.MailboxHealthResponse, error)
	ListEmails(ctx context.Context, mailbox string, opts ListEmailsOptions) (*domain.ListEmailsResponse, error)
	GetEmailDetail(ctx context.Context, mailbox, itemID string) (*domain.GetEmailDetailResponse, error)
}

type mailboxClient struct {
	http *httpclient.Client
}

// NewMailboxClient instantiates the client.
func NewMailboxClient(c *httpclient.Client) MailboxClient {
	return &mailboxClient{http: c}
}

func (m *mailboxClient) Health(ctx context.Context) (*domain.MailboxHealthResponse, error) {
	return httpclient.Request[domain.MailboxHealthResponse](ctx, m.http, http.MethodGet, "/plugins/ews/health", nil)
}

func (m *mailboxClient) ListEmails(ctx context.Context, mailbox string, opts ListEmailsOptions) (*domain.ListEmailsResponse, error) {
	if opts.Folder == "" {
		opts.Folder = DefaultMailFolder
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultMailLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	q := url.Values{}
	q.Set("mailbox", mailbox)
	q.Set("folder", opts.Folder)
	q.Set("limit", strconv.Itoa(opts.Limit))
	q.Set("offset", strconv.Itoa(opts.Offset))
	endpoint := httpclient.Endpoint(q, "plugins", "ews", "emails")
	return httpclient.Request[domain.ListEmailsResponse](ctx, m.http, http.MethodGet, endpoint, nil)
}

func (m *mailboxClient) GetEmailDetail(ctx context.Context, mailbox, itemID string) (*domain.GetEmailDetailResponse, error) {
	q := url.Values{}
	q.Set("mailbox", mailbox)
	q.Set("item_id", itemID)
	endpoint := httpclient.Endpoint(q, "plugins", "ews", "email")
	return httpclient.Request[domain.GetEmailDetailResponse](ctx, m.http, http.MethodGet, endpoint, nil)
}
