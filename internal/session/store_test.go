package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/events"
	"github.com/spec-kit/helpdesk-client/internal/persistence"
	apperrors "github.com/spec-kit/helpdesk-client/pkg/util"
)

type fakeAuth struct {
	mu          sync.Mutex
	loginResp   *domain.LoginResponse
	loginErr    error
	registerErr error
	meResp      *domain.MeResponse
	meErr       error
	refreshResp *domain.TokenResponse
	refreshErr  error
	logoutErr   error
	logoutCalls int
	logoutAll   int
}

func (f *fakeAuth) Login(context.Context, domain.LoginRequest) (*domain.LoginResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAuth) Register(_ context.Context, req domain.RegisterRequest) (*domain.RegisterResponse, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &domain.RegisterResponse{
		Message: "registered",
		User:    domain.UserInfo{ID: "u-2", LoginID: req.LoginID, Email: req.Email, Name: req.Name},
		Tokens:  domain.TokenResponse{AccessToken: "T-reg", TokenType: "Bearer"},
	}, nil
}

func (f *fakeAuth) Me(context.Context) (*domain.MeResponse, error) {
	return f.meResp, f.meErr
}

func (f *fakeAuth) Refresh(context.Context) (*domain.TokenResponse, error) {
	return f.refreshResp, f.refreshErr
}

func (f *fakeAuth) Logout(context.Context) (*domain.MessageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	return &domain.MessageResponse{Message: "bye"}, f.logoutErr
}

func (f *fakeAuth) LogoutAll(context.Context) (*domain.MessageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutAll++
	return &domain.MessageResponse{Message: "bye"}, f.logoutErr
}

var alice = domain.UserInfo{ID: "u-1", LoginID: "alice", Email: "alice@example.com", Name: domain.UserName{Display: "Alice"}}

func newTestStore(t *testing.T, auth *fakeAuth, kv persistence.KeyValueStore) (*Store, events.Dispatcher) {
	t.Helper()
	tokens, err := NewTokenHolder(context.Background(), kv, nil)
	if err != nil {
		t.Fatalf("NewTokenHolder: %v", err)
	}
	dispatcher := events.NewInMemoryDispatcher()
	return NewStore(Dependencies{Auth: auth, Tokens: tokens, Dispatcher: dispatcher}), dispatcher
}

func persistedToken(t *testing.T, kv persistence.KeyValueStore) (string, bool) {
	t.Helper()
	val, ok, err := kv.Get(context.Background(), persistence.KeyAccessToken)
	if err != nil {
		t.Fatalf("kv.Get: %v", err)
	}
	return val, ok
}

func TestLogin_Success(t *testing.T) {
	kv := persistence.NewMemoryStore()
	auth := &fakeAuth{loginResp: &domain.LoginResponse{User: alice, Tokens: domain.TokenResponse{AccessToken: "T1"}}}
	store, _ := newTestStore(t, auth, kv)

	if !store.Login(context.Background(), "alice", "x") {
		t.Fatalf("Login returned false, error=%q", store.Error())
	}
	if !store.IsAuthenticated() {
		t.Error("IsAuthenticated = false after login")
	}
	if got := store.User(); got == nil || *got != alice {
		t.Errorf("User = %+v, want %+v", got, alice)
	}
	if tok, _ := persistedToken(t, kv); tok != "T1" {
		t.Errorf("persisted token = %q, want T1", tok)
	}
	if store.Loading() {
		t.Error("Loading still true after login")
	}
}

func TestLogin_FailureSetsError(t *testing.T) {
	kv := persistence.NewMemoryStore()
	auth := &fakeAuth{loginErr: apperrors.NewAPIError(http.StatusUnauthorized, "invalid credentials")}
	store, _ := newTestStore(t, auth, kv)

	if store.Login(context.Background(), "alice", "wrong") {
		t.Fatal("Login returned true")
	}
	if store.Error() != "invalid credentials" {
		t.Errorf("Error = %q", store.Error())
	}
	if store.IsAuthenticated() {
		t.Error("authenticated after failed login")
	}
	if _, ok := persistedToken(t, kv); ok {
		t.Error("token persisted after failed login")
	}
	if store.Loading() {
		t.Error("Loading still true after failure")
	}

	auth.loginErr = nil
	auth.loginResp = &domain.LoginResponse{User: alice, Tokens: domain.TokenResponse{AccessToken: "T2"}}
	if !store.Login(context.Background(), "alice", "x") {
		t.Fatal("second Login failed")
	}
	if store.Error() != "" {
		t.Errorf("Error not reset: %q", store.Error())
	}
}

func TestRegister_SignsIn(t *testing.T) {
	kv := persistence.NewMemoryStore()
	store, _ := newTestStore(t, &fakeAuth{}, kv)

	ok := store.Register(context.Background(), domain.RegisterRequest{LoginID: "bob", Email: "bob@example.com", Password: "pw"})
	if !ok {
		t.Fatalf("Register returned false: %q", store.Error())
	}
	if tok, _ := persistedToken(t, kv); tok != "T-reg" {
		t.Errorf("persisted token = %q", tok)
	}
	if u := store.User(); u == nil || u.LoginID != "bob" {
		t.Errorf("User = %+v", u)
	}
}

func TestRegister_TransportErrorMessage(t *testing.T) {
	auth := &fakeAuth{registerErr: &apperrors.TransportError{Op: "POST /auth/register", Err: errors.New("connection refused")}}
	store, _ := newTestStore(t, auth, persistence.NewMemoryStore())

	if store.Register(context.Background(), domain.RegisterRequest{LoginID: "bob"}) {
		t.Fatal("Register returned true")
	}
	if store.Error() == "" {
		t.Error("Error empty after transport failure")
	}
}

func TestLoginFetchMeLogout_ClearsEverything(t *testing.T) {
	kv := persistence.NewMemoryStore()
	auth := &fakeAuth{
		loginResp: &domain.LoginResponse{User: alice, Tokens: domain.TokenResponse{AccessToken: "T1"}},
		meResp:    &domain.MeResponse{User: alice, Roles: []string{"agent", "admin"}},
		logoutErr: errors.New("server down"),
	}
	store, _ := newTestStore(t, auth, kv)
	ctx := context.Background()

	store.Login(ctx, "alice", "x")
	if !store.FetchMe(ctx) {
		t.Fatal("FetchMe returned false")
	}
	if !store.HasRole("admin") || store.HasRole("root") {
		t.Errorf("roles = %v", store.Roles())
	}

	store.Logout(ctx)
	if store.IsAuthenticated() {
		t.Error("authenticated after logout")
	}
	if _, ok := persistedToken(t, kv); ok {
		t.Error("token still persisted after logout")
	}
	if store.User() != nil || len(store.Roles()) != 0 {
		t.Errorf("user/roles not cleared: %+v %v", store.User(), store.Roles())
	}
	if auth.logoutCalls != 1 {
		t.Errorf("server logout calls = %d, want 1", auth.logoutCalls)
	}
}

func TestFetchMe_WithoutTokenIsNoop(t *testing.T) {
	auth := &fakeAuth{meErr: errors.New("should not be called")}
	store, _ := newTestStore(t, auth, persistence.NewMemoryStore())

	if store.FetchMe(context.Background()) {
		t.Fatal("FetchMe returned true without token")
	}
	if auth.logoutCalls != 0 {
		t.Error("FetchMe without token must not log out")
	}
}

func TestFetchMe_FailureLogsOut(t *testing.T) {
	kv := persistence.NewMemoryStore()
	_ = kv.Set(context.Background(), persistence.KeyAccessToken, "stale")
	auth := &fakeAuth{meErr: apperrors.NewAPIError(http.StatusUnauthorized, "token expired")}
	store, _ := newTestStore(t, auth, kv)

	if !store.IsAuthenticated() {
		t.Fatal("persisted token did not seed the session")
	}
	if store.FetchMe(context.Background()) {
		t.Fatal("FetchMe returned true")
	}
	if store.IsAuthenticated() {
		t.Error("authenticated after failed FetchMe")
	}
	if _, ok := persistedToken(t, kv); ok {
		t.Error("token still persisted")
	}
	if store.Loading() {
		t.Error("Loading still true")
	}
}

func TestRefreshToken(t *testing.T) {
	ctx := context.Background()
	kv := persistence.NewMemoryStore()
	auth := &fakeAuth{
		loginResp:   &domain.LoginResponse{User: alice, Tokens: domain.TokenResponse{AccessToken: "T1"}},
		refreshResp: &domain.TokenResponse{AccessToken: "T2"},
	}
	store, _ := newTestStore(t, auth, kv)
	store.Login(ctx, "alice", "x")

	if !store.RefreshToken(ctx) {
		t.Fatal("RefreshToken returned false")
	}
	if tok, _ := persistedToken(t, kv); tok != "T2" {
		t.Errorf("persisted token = %q, want T2", tok)
	}
	if u := store.User(); u == nil || u.ID != alice.ID {
		t.Error("refresh must not touch the user")
	}

	auth.refreshErr = apperrors.NewAPIError(http.StatusUnauthorized, "refresh token revoked")
	if store.RefreshToken(ctx) {
		t.Fatal("RefreshToken returned true on failure")
	}
	if store.IsAuthenticated() {
		t.Error("authenticated after failed refresh")
	}
	if _, ok := persistedToken(t, kv); ok {
		t.Error("token still persisted after failed refresh")
	}

	// a second failure on an already anonymous session is harmless
	if store.RefreshToken(ctx) || store.IsAuthenticated() {
		t.Error("repeated refresh failure changed state")
	}
}

func TestLogoutAll(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{loginResp: &domain.LoginResponse{User: alice, Tokens: domain.TokenResponse{AccessToken: "T1"}}}
	store, _ := newTestStore(t, auth, persistence.NewMemoryStore())
	store.Login(ctx, "alice", "x")

	store.LogoutAll(ctx)
	if auth.logoutAll != 1 || store.IsAuthenticated() {
		t.Errorf("logoutAll calls = %d, authenticated = %v", auth.logoutAll, store.IsAuthenticated())
	}
}

func TestStore_PublishesOneEventPerOperation(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{loginResp: &domain.LoginResponse{User: alice, Tokens: domain.TokenResponse{AccessToken: "T1"}}}
	store, dispatcher := newTestStore(t, auth, persistence.NewMemoryStore())

	var snaps []Snapshot
	dispatcher.Subscribe(events.EventSessionChanged, func(_ context.Context, e events.Event) error {
		snaps = append(snaps, e.Payload.(Snapshot))
		return nil
	})

	store.Login(ctx, "alice", "x")
	detached := store.Snapshot()
	detached.User.Name.Display = "mutated"
	if store.User().Name.Display != "Alice" {
		t.Error("snapshot should be detached from store state")
	}
	store.Logout(ctx)

	if len(snaps) != 2 {
		t.Fatalf("events = %d, want 2", len(snaps))
	}
	if !snaps[0].Authenticated || snaps[0].User == nil || snaps[0].Loading {
		t.Errorf("login snapshot = %+v", snaps[0])
	}
	if snaps[1].Authenticated || snaps[1].User != nil {
		t.Errorf("logout snapshot = %+v", snaps[1])
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("any"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	kv := persistence.NewMemoryStore()
	_ = kv.Set(context.Background(), persistence.KeyAccessToken, signed)
	store, _ := newTestStore(t, &fakeAuth{}, kv)

	got, ok := store.TokenExpiry()
	if !ok || !got.Equal(exp) {
		t.Errorf("TokenExpiry = %v, %v; want %v", got, ok, exp)
	}
	if _, ok := Expiry("opaque-token"); ok {
		t.Error("opaque token should have no expiry")
	}
	if _, ok := Expiry(""); ok {
		t.Error("empty token should have no expiry")
	}
}

type failingKV struct{ persistence.KeyValueStore }

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk gone")
}

func TestNewTokenHolder_LoadError(t *testing.T) {
	if _, err := NewTokenHolder(context.Background(), failingKV{}, nil); err == nil {
		t.Fatal("expected load error")
	}
}
