package resource

import (
	"context"
	"net/http"

	"github.com/spec-kit/helpdesk-client/internal/api/httpclient"
	"github.com/spec-kit/helpdesk-client/internal/domain"
)

// UserClient wraps the /users endpoint.
type UserClient interface {
	List(ctx context.Context, page, limit int) (*domain.Paginated[domain.UserInfo], error)
}

type userClient struct {
	http *httpclient.Client
}

// NewUserClient instantiates the client.
func NewUserClient(c *httpclient.Client) UserClient {
	return &userClient{http: c}
}

func (u *userClient) List(ctx context.Context, page, limit int) (*domain.Paginated[domain.UserInfo], error) {
	endpoint := httpclient.Endpoint(pageQuery(page, limit, DefaultUserLimit), "users")
	return httpclient.Request[domain.Paginated[domain.UserInfo]](ctx, u.http, http.MethodGet, endpoint, nil)
}
