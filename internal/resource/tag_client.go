package resource

import (
	"context"
	"net/http"

	"github.com/spec-kit/helpdesk-client/internal/api/httpclient"
	"github.com/spec-kit/helpdesk-client/internal/domain"
)

// TagClient wraps the /tags endpoints.
type TagClient interface {
	List(ctx context.Context, page, limit int) (*domain.Paginated[domain.Tag], error)
	Get(ctx context.Context, id int64) (*domain.Tag, error)
	Create(ctx context.Context, req domain.CreateTagRequest) (*domain.Tag, error)
	Update(ctx context.Context, id int64, req domain.UpdateTagRequest) (*domain.Tag, error)
	Delete(ctx context.Context, id int64) (*domain.MessageResponse, error)
}

type tagClient struct {
	http *httpclient.Client
}

// NewTagClient instantiates the client.
func NewTagClient(c *httpclient.Client) TagClient {
	return &tagClient{http: c}
}

func (t *tagClient) List(ctx context.Context, page, limit int) (*domain.Paginated[domain.Tag], error) {
	endpoint := httpclient.Endpoint(pageQuery(page, limit, DefaultLimit), "tags")
	return httpclient.Request[domain.Paginated[domain.Tag]](ctx, t.http, http.MethodGet, endpoint, nil)
}

func (t *tagClient) Get(ctx context.Context, id int64) (*domain.Tag, error) {
	return httpclient.Request[domain.Tag](ctx, t.http, http.MethodGet, httpclient.Endpoint(nil, "tags", idSegment(id)), nil)
}

func (t *tagClient) Create(ctx context.Context, req domain.CreateTagRequest) (*domain.Tag, error) {
	return httpclient.Request[domain.Tag](ctx, t.http, http.MethodPost, "/tags", req)
}

func (t *tagClient) Update(ctx context.Context, id int64, req domain.UpdateTagRequest) (*domain.Tag, error) {
	return httpclient.Request[domain.Tag](ctx, t.http, http.MethodPut, httpclient.Endpoint(nil, "tags", idSegment(id)), req)
}

func (t *tagClient) Delete(ctx context.Context, id int64) (*domain.MessageResponse, error) {
	return httpclient.Request[domain.MessageResponse](ctx, t.http, http.MethodDelete, httpclient.Endpoint(nil, "tags", idSegment(id)), nil)
}
