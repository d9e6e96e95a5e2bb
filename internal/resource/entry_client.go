package resource

import (
	"context"
	"net/http"

	"github.com/spec-kit/helpdesk-client/internal/api/httpclient"
	"github.com/spec-kit/helpdesk-client/internal/domain"
)

// EntryClient wraps the entry endpoints. Entries are created under their ticket.
type EntryClient interface {
	Get(ctx context.Context, id int64) (*domain.Entry, error)
	Create(ctx context.Context, ticketID string, req domain.CreateEntryRequest) (*domain.Entry, error)
	Update(ctx context.Context, id int64, req domain.UpdateEntryRequest) (*domain.Entry, error)
	Delete(ctx context.Context, id int64) (*domain.MessageResponse, error)
	AddTags(ctx context.Context, id int64, req domain.AddTagRequest) (*domain.MessageResponse, error)
	RemoveTag(ctx context.Context, id, tagID int64) (*domain.MessageResponse, error)
}

type entryClient struct {
	http *httpclient.Client
}

// NewEntryClient instantiates the client.
func NewEntryClient(c *httpclient.Client) EntryClient {
	return &entryClient{http: c}
}

func (e *entryClient) Get(ctx context.Context, id int64) (*domain.Entry, error) {
	return httpclient.Request[domain.Entry](ctx, e.http, http.MethodGet, httpclient.Endpoint(nil, "entries", idSegment(id)), nil)
}

func (e *entryClient) Create(ctx context.Context, ticketID string, req domain.CreateEntryRequest) (*domain.Entry, error) {
	return httpclient.Request[domain.Entry](ctx, e.http, http.MethodPost, httpclient.Endpoint(nil, "tickets", ticketID, "entries"), req)
}

func (e *entryClient) Update(ctx context.Context, id int64, req domain.UpdateEntryRequest) (*domain.Entry, error) {
	return httpclient.Request[domain.Entry](ctx, e.http, http.MethodPut, httpclient.Endpoint(nil, "entries", idSegment(id)), req)
}

func (e *entryClient) Delete(ctx context.Context, id int64) (*domain.MessageResponse, error) {
	return httpclient.Request[domain.MessageResponse](ctx, e.http, http.MethodDelete, httpclient.Endpoint(nil, "entries", idSegment(id)), nil)
}

func (e *entryClient) AddTags(ctx context.Context, id int64, req domain.AddTagRequest) (*domain.MessageResponse, error) {
	return httpclient.Request[domain.MessageResponse](ctx, e.http, http.MethodPost, httpclient.Endpoint(nil, "entries", idSegment(id), "tags"), req)
}

func (e *entryClient) RemoveTag(ctx context.Context, id, tagID int64) (*domain.MessageResponse, error) {
	endpoint := httpclient.Endpoint(nil, "entries", idSegment(id), "tags", idSegment(tagID))
	return httpclient.Request[domain.MessageResponse](ctx, e.http, http.MethodDelete, endpoint, nil)
}
