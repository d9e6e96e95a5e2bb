package resource

import "github.com/spec-kit/helpdesk-client/internal/api/httpclient"

// Clients bundles every resource client built on one HTTP client.
type Clients struct {
	Auth    AuthClient
	Tickets TicketClient
	Entries EntryClient
	Tags    TagClient
	Mailbox MailboxClient
	Users   UserClient
}

// NewClients wires all resource clients to c.
func NewClients(c *httpclient.Client) Clients {
	return Clients{
		Auth:    NewAuthClient(c),
		Tickets: NewTicketClient(c),
		Entries: NewEntryClient(c),
		Tags:    NewTagClient(c),
		Mailbox: NewMailboxClient(c),
		Users:   NewUserClient(c),
	}
}
