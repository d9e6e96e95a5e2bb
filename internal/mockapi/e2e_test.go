package mockapi_test

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/spec-kit/helpdesk-client/internal/api/httpclient"
	"github.com/spec-kit/helpdesk-client/internal/config"
	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/events"
	"github.com/spec-kit/helpdesk-client/internal/mockapi"
	"github.com/spec-kit/helpdesk-client/internal/persistence"
	"github.com/spec-kit/helpdesk-client/internal/resource"
	"github.com/spec-kit/helpdesk-client/internal/session"
	"github.com/spec-kit/helpdesk-client/internal/store"
)

type harness struct {
	clients resource.Clients
	tokens  *session.TokenHolder
	session *session.Store
	tickets *store.TicketStore

	mu     sync.Mutex
	events []events.EventType
}

func startBackend(t *testing.T) string {
	t.Helper()
	srv, err := mockapi.New(context.Background(), config.MockAPIConfig{
		JWTSecret:             "e2e-secret",
		AccessTokenTTLMinutes: 15,
		BcryptCost:            4,
	}, nil)
	if err != nil {
		t.Fatalf("mockapi.New: %v", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return "http://" + ln.Addr().String() + "/api"
}

func newHarness(t *testing.T, baseURL string) *harness {
	t.Helper()
	ctx := context.Background()
	tokens, err := session.NewTokenHolder(ctx, persistence.NewMemoryStore(), nil)
	if err != nil {
		t.Fatalf("NewTokenHolder: %v", err)
	}
	client, err := httpclient.New(httpclient.Config{
		BaseURL:            baseURL,
		Timeout:            5 * time.Second,
		IncludeCredentials: true,
		Tokens:             tokens,
	})
	if err != nil {
		t.Fatalf("httpclient.New: %v", err)
	}
	h := &harness{clients: resource.NewClients(client), tokens: tokens}

	dispatcher := events.NewInMemoryDispatcher()
	record := func(_ context.Context, e events.Event) error {
		h.mu.Lock()
		h.events = append(h.events, e.Type)
		h.mu.Unlock()
		return nil
	}
	dispatcher.Subscribe(events.EventSessionChanged, record)
	dispatcher.Subscribe(events.EventTicketStoreChanged, record)

	h.session = session.NewStore(session.Dependencies{Auth: h.clients.Auth, Tokens: tokens, Dispatcher: dispatcher})
	h.tickets = store.NewTicketStore(store.TicketDependencies{Tickets: h.clients.Tickets, Entries: h.clients.Entries, Dispatcher: dispatcher})
	return h
}

func TestEndToEnd_SessionLifecycle(t *testing.T) {
	h := newHarness(t, startBackend(t))
	ctx := context.Background()

	if h.session.Login(ctx, mockapi.SeedAdminLogin, "wrong") {
		t.Fatal("login with a wrong password succeeded")
	}
	if h.session.Error() != "invalid credentials" || h.session.IsAuthenticated() {
		t.Fatalf("after failed login: error %q, authenticated %v", h.session.Error(), h.session.IsAuthenticated())
	}

	if !h.session.Login(ctx, mockapi.SeedAdminLogin, mockapi.SeedAdminPassword) {
		t.Fatalf("login failed: %s", h.session.Error())
	}
	if h.session.Error() != "" || !h.session.IsAuthenticated() {
		t.Fatalf("after login: error %q", h.session.Error())
	}
	if !h.session.FetchMe(ctx) || !h.session.HasRole("admin") {
		t.Fatalf("FetchMe: roles %v, error %q", h.session.Roles(), h.session.Error())
	}
	if _, ok := h.session.TokenExpiry(); !ok {
		t.Error("access token carries no expiry")
	}

	if !h.session.RefreshToken(ctx) {
		t.Fatalf("refresh via cookie failed: %s", h.session.Error())
	}
	if !h.session.FetchMe(ctx) {
		t.Fatal("refreshed token rejected")
	}

	h.session.Logout(ctx)
	if h.session.IsAuthenticated() || h.session.User() != nil || h.tokens.AccessToken() != "" {
		t.Fatal("logout left session state behind")
	}
	if h.session.RefreshToken(ctx) {
		t.Error("refresh succeeded after logout revoked the cookie")
	}
	if h.session.FetchMe(ctx) {
		t.Error("FetchMe without a token should be a no-op")
	}
}

func TestEndToEnd_TicketStore(t *testing.T) {
	h := newHarness(t, startBackend(t))
	ctx := context.Background()
	if !h.session.Login(ctx, mockapi.SeedUserLogin, mockapi.SeedUserPassword) {
		t.Fatalf("login failed: %s", h.session.Error())
	}

	if !h.tickets.FetchTickets(ctx, 1, 2) {
		t.Fatalf("FetchTickets: %s", h.tickets.Error())
	}
	snap := h.tickets.Snapshot()
	if len(snap.Tickets) != 2 || snap.TotalCount != 3 || snap.TotalPages != 2 || snap.CurrentPage != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}

	created := h.tickets.CreateTicket(ctx, domain.CreateTicketRequest{
		Title:        "Laptop battery swollen",
		Priority:     domain.TicketPriorityCritical,
		InitialEntry: domain.CreateEntryRequest{Body: "The case is bending."},
	})
	if created == nil {
		t.Fatalf("CreateTicket: %s", h.tickets.Error())
	}
	if cur := h.tickets.CurrentTicket(); cur == nil || cur.ID != created.ID || len(cur.Entries) != 1 {
		t.Fatalf("current after create = %+v", cur)
	}

	entry := h.tickets.AddEntry(ctx, created.ID, domain.CreateEntryRequest{Body: "Please stop using it."})
	if entry == nil {
		t.Fatalf("AddEntry: %s", h.tickets.Error())
	}
	if cur := h.tickets.CurrentTicket(); len(cur.Entries) != 2 {
		t.Fatalf("entries after AddEntry = %d", len(cur.Entries))
	}

	status := domain.TicketStatusInProgress
	if !h.tickets.UpdateTicket(ctx, created.ID, domain.UpdateTicketRequest{Status: &status}) {
		t.Fatalf("UpdateTicket: %s", h.tickets.Error())
	}
	if cur := h.tickets.CurrentTicket(); cur.Status != status {
		t.Errorf("current status = %s, want refetched %s", cur.Status, status)
	}

	if !h.tickets.DeleteEntry(ctx, created.ID, entry.ID) {
		t.Fatalf("DeleteEntry: %s", h.tickets.Error())
	}

	if !h.tickets.SearchTickets(ctx, domain.SearchTicketRequest{Query: "battery"}, 1, 10) {
		t.Fatalf("SearchTickets: %s", h.tickets.Error())
	}
	if got := h.tickets.Tickets(); len(got) != 1 || got[0].ID != created.ID {
		t.Fatalf("search result = %+v", got)
	}

	if !h.tickets.DeleteTicket(ctx, created.ID) {
		t.Fatalf("DeleteTicket: %s", h.tickets.Error())
	}
	if h.tickets.CurrentTicket() != nil || len(h.tickets.Tickets()) != 0 {
		t.Error("deleted ticket still held")
	}

	if h.tickets.FetchTicket(ctx, created.ID) {
		t.Fatal("fetching a deleted ticket succeeded")
	}
	if h.tickets.Error() != "ticket not found" {
		t.Errorf("error = %q, want server message", h.tickets.Error())
	}
	if h.tickets.Loading() {
		t.Error("loading flag left set")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.events) == 0 {
		t.Error("no store events were published")
	}
}

func TestEndToEnd_ResourceClients(t *testing.T) {
	h := newHarness(t, startBackend(t))
	ctx := context.Background()
	if !h.session.Login(ctx, mockapi.SeedAdminLogin, mockapi.SeedAdminPassword) {
		t.Fatalf("login failed: %s", h.session.Error())
	}

	tag, err := h.clients.Tags.Create(ctx, domain.CreateTagRequest{Name: "printer", ColorCode: "#123456"})
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	page, err := h.clients.Tickets.List(ctx, 0, 0)
	if err != nil || page.Limit != resource.DefaultLimit {
		t.Fatalf("list = %+v, %v", page, err)
	}
	if _, err := h.clients.Tickets.AddTags(ctx, page.Data[0].ID, domain.AddTagRequest{TagIDs: []int64{tag.ID}}); err != nil {
		t.Fatalf("add tags: %v", err)
	}
	detail, err := h.clients.Tickets.Get(ctx, page.Data[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	found := false
	for _, tg := range detail.Tags {
		found = found || tg.ID == tag.ID
	}
	if !found {
		t.Errorf("tag %d not attached: %+v", tag.ID, detail.Tags)
	}

	health, err := h.clients.Mailbox.Health(ctx)
	if err != nil || health.Status != "ok" {
		t.Fatalf("mailbox health = %+v, %v", health, err)
	}
	emails, err := h.clients.Mailbox.ListEmails(ctx, mockapi.SeedMailbox, resource.ListEmailsOptions{})
	if err != nil || emails.Total != 2 {
		t.Fatalf("emails = %+v, %v", emails, err)
	}
	users, err := h.clients.Users.List(ctx, 0, 0)
	if err != nil || users.TotalCount != 2 {
		t.Fatalf("users = %+v, %v", users, err)
	}
}
