package mockapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/spec-kit/helpdesk-client/internal/config"
	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/mockapi/handlers"
)

var testConfig = config.MockAPIConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 15, BcryptCost: 4}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(context.Background(), testConfig, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

type call struct {
	method string
	path   string
	body   any
	token  string
	cookie *http.Cookie
}

func do(t *testing.T, s *Server, c call) *http.Response {
	t.Helper()
	var body io.Reader
	if c.body != nil {
		encoded, err := json.Marshal(c.body)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		body = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(c.method, c.path, body)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	resp, err := s.App.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", c.method, c.path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, want %d (body %s)", resp.StatusCode, want, raw)
	}
}

func refreshCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == handlers.RefreshCookieName {
			return c
		}
	}
	return nil
}

func login(t *testing.T, s *Server, loginID, password string) (string, *http.Cookie) {
	t.Helper()
	resp := do(t, s, call{method: http.MethodPost, path: "/api/auth/login", body: domain.LoginRequest{LoginID: loginID, Password: password}})
	expectStatus(t, resp, http.StatusOK)
	out := decode[domain.LoginResponse](t, resp)
	return out.Tokens.AccessToken, refreshCookie(resp)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	resp := do(t, s, call{method: http.MethodGet, path: "/api/health"})
	expectStatus(t, resp, http.StatusOK)

	resp = do(t, s, call{method: http.MethodGet, path: "/metrics"})
	expectStatus(t, resp, http.StatusOK)
	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), "helpdesk_mockapi_responses_total") {
		t.Errorf("metrics output lacks response counter:\n%s", raw)
	}
}

func TestErrorBodyShape(t *testing.T) {
	s := newTestServer(t)

	resp := do(t, s, call{method: http.MethodGet, path: "/api/tickets"})
	expectStatus(t, resp, http.StatusUnauthorized)
	body := decode[domain.ErrorResponse](t, resp)
	if body.Error != "UNAUTHORIZED" || body.Message != "missing authorization header" {
		t.Errorf("body = %+v", body)
	}

	resp = do(t, s, call{method: http.MethodGet, path: "/api/nowhere"})
	expectStatus(t, resp, http.StatusNotFound)
	if body := decode[domain.ErrorResponse](t, resp); body.Error != "NOT_FOUND" || body.Message == "" {
		t.Errorf("unknown route body = %+v", body)
	}

	resp = do(t, s, call{method: http.MethodPost, path: "/api/auth/login", body: domain.LoginRequest{LoginID: SeedAdminLogin, Password: "nope"}})
	expectStatus(t, resp, http.StatusUnauthorized)
	if body := decode[domain.ErrorResponse](t, resp); body.Message != "invalid credentials" {
		t.Errorf("login failure body = %+v", body)
	}
}

func TestAuthCookieFlow(t *testing.T) {
	s := newTestServer(t)
	token, cookie := login(t, s, SeedAdminLogin, SeedAdminPassword)
	if cookie == nil || !cookie.HttpOnly || cookie.Path != "/" {
		t.Fatalf("refresh cookie = %+v", cookie)
	}

	resp := do(t, s, call{method: http.MethodGet, path: "/api/auth/me", token: token})
	expectStatus(t, resp, http.StatusOK)
	me := decode[domain.MeResponse](t, resp)
	if me.User.LoginID != SeedAdminLogin || len(me.Roles) != 2 {
		t.Errorf("me = %+v", me)
	}

	resp = do(t, s, call{method: http.MethodPost, path: "/api/auth/refresh", cookie: cookie})
	expectStatus(t, resp, http.StatusOK)
	if tokens := decode[domain.TokenResponse](t, resp); tokens.AccessToken == "" || tokens.TokenType != "Bearer" {
		t.Errorf("tokens = %+v", tokens)
	}
	rotated := refreshCookie(resp)
	if rotated == nil || rotated.Value == cookie.Value {
		t.Fatalf("refresh cookie not rotated: %+v", rotated)
	}

	resp = do(t, s, call{method: http.MethodPost, path: "/api/auth/refresh", cookie: cookie})
	expectStatus(t, resp, http.StatusUnauthorized)

	resp = do(t, s, call{method: http.MethodPost, path: "/api/auth/logout", cookie: rotated})
	expectStatus(t, resp, http.StatusOK)
	resp = do(t, s, call{method: http.MethodPost, path: "/api/auth/refresh", cookie: rotated})
	expectStatus(t, resp, http.StatusUnauthorized)
}

func TestRegisterAndRoles(t *testing.T) {
	s := newTestServer(t)
	resp := do(t, s, call{method: http.MethodPost, path: "/api/auth/register", body: domain.RegisterRequest{
		LoginID: "dave", Email: "dave@example.com", Password: "password123",
	}})
	expectStatus(t, resp, http.StatusCreated)
	reg := decode[domain.RegisterResponse](t, resp)
	if reg.User.LoginID != "dave" || reg.Tokens.AccessToken == "" || reg.Message == "" {
		t.Fatalf("register = %+v", reg)
	}

	resp = do(t, s, call{method: http.MethodPost, path: "/api/tags", token: reg.Tokens.AccessToken, body: domain.CreateTagRequest{Name: "x"}})
	expectStatus(t, resp, http.StatusForbidden)

	resp = do(t, s, call{method: http.MethodGet, path: "/api/tags?page=1&limit=2", token: reg.Tokens.AccessToken})
	expectStatus(t, resp, http.StatusOK)
	tags := decode[domain.Paginated[domain.Tag]](t, resp)
	if len(tags.Data) != 2 || tags.TotalCount != 3 || tags.TotalPages != 2 {
		t.Errorf("tags page = %+v", tags)
	}

	resp = do(t, s, call{method: http.MethodGet, path: "/api/users", token: reg.Tokens.AccessToken})
	expectStatus(t, resp, http.StatusOK)
	if users := decode[domain.Paginated[domain.UserInfo]](t, resp); users.TotalCount != 3 || users.Limit != 100 {
		t.Errorf("users = %+v", users)
	}
}

func TestTicketRoutes(t *testing.T) {
	s := newTestServer(t)
	token, _ := login(t, s, SeedUserLogin, SeedUserPassword)

	resp := do(t, s, call{method: http.MethodGet, path: "/api/tickets", token: token})
	expectStatus(t, resp, http.StatusOK)
	list := decode[domain.Paginated[domain.TicketSummary]](t, resp)
	if list.TotalCount != 3 || list.Page != 1 || list.Limit != 10 {
		t.Fatalf("list = %+v", list)
	}

	resp = do(t, s, call{method: http.MethodPost, path: "/api/tickets", token: token, body: domain.CreateTicketRequest{
		Title:        "Monitor flickers",
		InitialEntry: domain.CreateEntryRequest{Body: "since Monday"},
	}})
	expectStatus(t, resp, http.StatusCreated)
	created := decode[domain.TicketDetail](t, resp)

	resp = do(t, s, call{method: http.MethodPost, path: "/api/tickets/" + created.ID + "/entries", token: token, body: domain.CreateEntryRequest{Body: "still flickering"}})
	expectStatus(t, resp, http.StatusCreated)
	entry := decode[domain.Entry](t, resp)

	resp = do(t, s, call{method: http.MethodGet, path: "/api/entries/" + strconv.FormatInt(entry.ID, 10), token: token})
	expectStatus(t, resp, http.StatusOK)

	resp = do(t, s, call{method: http.MethodGet, path: "/api/entries/abc", token: token})
	expectStatus(t, resp, http.StatusBadRequest)

	resp = do(t, s, call{method: http.MethodPost, path: "/api/tickets/search?limit=5", token: token, body: domain.SearchTicketRequest{Query: "flicker"}})
	expectStatus(t, resp, http.StatusOK)
	found := decode[domain.Paginated[domain.TicketSummary]](t, resp)
	if found.TotalCount != 1 || found.Data[0].ID != created.ID || found.Limit != 5 {
		t.Errorf("search = %+v", found)
	}

	resp = do(t, s, call{method: http.MethodDelete, path: "/api/tickets/" + created.ID, token: token})
	expectStatus(t, resp, http.StatusOK)
	resp = do(t, s, call{method: http.MethodGet, path: "/api/tickets/" + created.ID, token: token})
	expectStatus(t, resp, http.StatusNotFound)
	if body := decode[domain.ErrorResponse](t, resp); body.Message != "ticket not found" {
		t.Errorf("body = %+v", body)
	}
}

func TestMailboxRoutes(t *testing.T) {
	s := newTestServer(t)
	token, _ := login(t, s, SeedAdminLogin, SeedAdminPassword)

	resp := do(t, s, call{method: http.MethodGet, path: "/api/plugins/ews/emails?mailbox=" + SeedMailbox, token: token})
	expectStatus(t, resp, http.StatusOK)
	list := decode[domain.ListEmailsResponse](t, resp)
	if list.Total != 2 || list.Limit != 50 || list.Emails[0].ItemID != "AAMk-2" {
		t.Fatalf("list = %+v", list)
	}

	resp = do(t, s, call{method: http.MethodGet, path: "/api/plugins/ews/email?mailbox=" + SeedMailbox + "&item_id=AAMk-2", token: token})
	expectStatus(t, resp, http.StatusOK)
	detail := decode[domain.GetEmailDetailResponse](t, resp)
	if detail.Email.BodyType != domain.EmailBodyHTML || len(detail.Thread) != 2 {
		t.Errorf("detail = %+v", detail)
	}

	resp = do(t, s, call{method: http.MethodGet, path: "/api/plugins/ews/emails", token: token})
	expectStatus(t, resp, http.StatusBadRequest)
}
