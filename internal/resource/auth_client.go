package resource

import (
	"context"
	"net/http"

	"github.com/spec-kit/helpdesk-client/internal/api/httpclient"
	"github.com/spec-kit/helpdesk-client/internal/domain"
)

// AuthClient wraps the /auth endpoints.
type AuthClient interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.RegisterResponse, error)
	Me(ctx context.Context) (*domain.MeResponse, error)
	Refresh(ctx context.Context) (*domain.TokenResponse, error)
	Logout(ctx context.Context) (*domain.MessageResponse, error)
	LogoutAll(ctx context.Context) (*domain.MessageResponse, error)
}

type authClient struct {
	http *httpclient.Client
}

// NewAuthClient instantiates the client.
func NewAuthClient(c *httpclient.Client) AuthClient {
	return &authClient{http: c}
}

func (a *authClient) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	return httpclient.Request[domain.LoginResponse](ctx, a.http, http.MethodPost, "/auth/login", req)
}

func (a *authClient) Register(ctx context.Context, req domain.RegisterRequest) (*domain.RegisterResponse, error) {
	return httpclient.Request[domain.RegisterResponse](ctx, a.http, http.MethodPost, "/auth/register", req)
}

func (a *authClient) Me(ctx context.Context) (*domain.MeResponse, error) {
	return httpclient.Request[domain.MeResponse](ctx, a.http, http.MethodGet, "/auth/me", nil)
}

func (a *authClient) Refresh(ctx context.Context) (*domain.TokenResponse, error) {
	return httpclient.Request[domain.TokenResponse](ctx, a.http, http.MethodPost, "/auth/refresh", nil)
}

func (a *authClient) Logout(ctx context.Context) (*domain.MessageResponse, error) {
	return httpclient.Request[domain.MessageResponse](ctx, a.http, http.MethodPost, "/auth/logout", nil)
}

func (a *authClient) LogoutAll(ctx context.Context) (*domain.MessageResponse, error) {
	return httpclient.Request[domain.MessageResponse](ctx, a.http, http.MethodPost, "/auth/logout-all", nil)
}
