package resource

import (
	"context"
	"net/http"

	"github.com/spec-kit/helpdesk-client/internal/api/httpclient"
	"github.com/spec-kit/helpdesk-client/internal/domain"
)

// TicketClient wraps the /tickets endpoints.
type TicketClient interface {
	List(ctx context.Context, page, limit int) (*domain.Paginated[domain.TicketSummary], error)
	Get(ctx context.Context, id string) (*domain.TicketDetail, error)
	Create(ctx context.Context, req domain.CreateTicketRequest) (*domain.TicketDetail, error)
	Update(ctx context.Context, id string, req domain.UpdateTicketRequest) (*domain.TicketSummary, error)
	Delete(ctx context.Context, id string) (*domain.MessageResponse, error)
	Search(ctx context.Context, req domain.SearchTicketRequest, page, limit int) (*domain.Paginated[domain.TicketSummary], error)
	AddTags(ctx context.Context, id string, req domain.AddTagRequest) (*domain.MessageResponse, error)
	RemoveTag(ctx context.Context, id string, tagID int64) (*domain.MessageResponse, error)
}

type ticketClient struct {
	http *httpclient.Client
}

// NewTicketClient instantiates the client.
func NewTicketClient(c *httpclient.Client) TicketClient {
	return &ticketClient{http: c}
}

func (t *ticketClient) List(ctx context.Context, page, limit int) (*domain.Paginated[domain.TicketSummary], error) {
	endpoint := httpclient.Endpoint(pageQuery(page, limit, DefaultLimit), "tickets")
	return httpclient.Request[domain.Paginated[domain.TicketSummary]](ctx, t.http, http.MethodGet, endpoint, nil)
}

func (t *ticketClient) Get(ctx context.Context, id string) (*domain.TicketDetail, error) {
	return httpclient.Request[domain.TicketDetail](ctx, t.http, http.MethodGet, httpclient.Endpoint(nil, "tickets", id), nil)
}

func (t *ticketClient) Create(ctx context.Context, req domain.CreateTicketRequest) (*domain.TicketDetail, error) {
	return httpclient.Request[domain.TicketDetail](ctx, t.http, http.MethodPost, "/tickets", req)
}

func (t *ticketClient) Update(ctx context.Context, id string, req domain.UpdateTicketRequest) (*domain.TicketSummary, error) {
	return httpclient.Request[domain.TicketSummary](ctx, t.http, http.MethodPut, httpclient.Endpoint(nil, "tickets", id), req)
}

func (t *ticketClient) Delete(ctx context.Context, id string) (*domain.MessageResponse, error) {
	return httpclient.Request[domain.MessageResponse](ctx, t.http, http.MethodDelete, httpclient.Endpoint(nil, "tickets", id), nil)
}

func (t *ticketClient) Search(ctx context.Context, req domain.SearchTicketRequest, page, limit int) (*domain.Paginated[domain.TicketSummary], error) {
	endpoint := httpclient.Endpoint(pageQuery(page, limit, DefaultLimit), "tickets", "search")
	return httpclient.Request[domain.Paginated[domain.TicketSummary]](ctx, t.http, http.MethodPost, endpoint, req)
}

func (t *ticketClient) AddTags(ctx context.Context, id string, req domain.AddTagRequest) (*domain.MessageResponse, error) {
	return httpclient.Request[domain.MessageResponse](ctx, t.http, http.MethodPost, httpclient.Endpoint(nil, "tickets", id, "tags"), req)
}

func (t *ticketClient) RemoveTag(ctx context.Context, id string, tagID int64) (*domain.MessageResponse, error) {
	endpoint := httpclient.Endpoint(nil, "tickets", id, "tags", idSegment(tagID))
	return httpclient.Request[domain.MessageResponse](ctx, t.http, http.MethodDelete, endpoint, nil)
}
