package session

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/events"
	"github.com/spec-kit/helpdesk-client/internal/observability"
	"github.com/spec-kit/helpdesk-client/internal/resource"
	apperrors "github.com/spec-kit/helpdesk-client/pkg/util"
)

const (
	msgLoginFailed        = "Login failed"
	msgRegistrationFailed = "Registration failed"
)

// Snapshot is an immutable copy of the session state.
type Snapshot struct {
	User          *domain.UserInfo
	AccessToken   string
	Roles         []string
	Authenticated bool
	Loading       bool
	Error         string
}

// Dependencies wires the store to its collaborators.
type Dependencies struct {
	Auth       resource.AuthClient
	Tokens     *TokenHolder
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// Store is the session state container. Concurrent operations are not serialised:
// whichever finishes last wins for user, roles and token.
type Store struct {
	auth       resource.AuthClient
	tokens     *TokenHolder
	dispatcher events.Dispatcher
	logger     *zap.Logger

	mu       sync.RWMutex
	user     *domain.UserInfo
	roles    []string
	inflight int
	errMsg   string
}

// NewStore builds the store. The authenticated state is seeded from deps.Tokens.
func NewStore(deps Dependencies) *Store {
	return &Store{
		auth:       deps.Auth,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
		logger:     observability.Named(deps.Logger, "session"),
	}
}

// Login exchanges credentials for a session.
func (s *Store) Login(ctx context.Context, loginID, password string) bool {
	s.begin(true)
	defer s.end(ctx)

	resp, err := s.auth.Login(ctx, domain.LoginRequest{LoginID: loginID, Password: password})
	if err != nil {
		s.fail(apperrors.Message(err, msgLoginFailed))
		s.logger.Info("login failed", zap.String("login_id", loginID), zap.Error(err))
		return false
	}
	s.establish(ctx, resp.User, resp.Tokens.AccessToken)
	return true
}

// Register creates an account and signs it in.
func (s *Store) Register(ctx context.Context, req domain.RegisterRequest) bool {
	s.begin(true)
	defer s.end(ctx)

	resp, err := s.auth.Register(ctx, req)
	if err != nil {
		s.fail(apperrors.Message(err, msgRegistrationFailed))
		s.logger.Info("registration failed", zap.String("login_id", req.LoginID), zap.Error(err))
		return false
	}
	s.establish(ctx, resp.User, resp.Tokens.AccessToken)
	return true
}

// FetchMe reloads the user and roles. Without a token it returns false and does nothing.
// Any failure ends the session.
func (s *Store) FetchMe(ctx context.Context) bool {
	if s.tokens.AccessToken() == "" {
		return false
	}
	s.begin(false)
	defer s.end(ctx)

	resp, err := s.auth.Me(ctx)
	if err != nil {
		s.logger.Info("fetch current user failed, clearing session", zap.Error(err))
		s.signOut(ctx, s.auth.Logout)
		return false
	}

	user := resp.User
	roles := append([]string{}, resp.Roles...)
	s.mu.Lock()
	s.user = &user
	s.roles = roles
	s.mu.Unlock()
	return true
}

// RefreshToken swaps the access token in place. Failure ends the session.
func (s *Store) RefreshToken(ctx context.Context) bool {
	s.begin(false)
	defer s.end(ctx)

	resp, err := s.auth.Refresh(ctx)
	if err != nil {
		s.logger.Info("token refresh failed, clearing session", zap.Error(err))
		s.signOut(ctx, s.auth.Logout)
		return false
	}
	if err := s.tokens.Set(ctx, resp.AccessToken); err != nil {
		s.logger.Warn("refreshed token kept in memory only", zap.Error(err))
	}
	return true
}

// Logout notifies the server and always clears the local session.
func (s *Store) Logout(ctx context.Context) {
	s.signOut(ctx, s.auth.Logout)
	s.publish(ctx)
}

// LogoutAll revokes every session of the user on the server, then clears locally.
func (s *Store) LogoutAll(ctx context.Context) {
	s.signOut(ctx, s.auth.LogoutAll)
	s.publish(ctx)
}

// IsAuthenticated is true iff an access token is held.
func (s *Store) IsAuthenticated() bool {
	return s.tokens.AccessToken() != ""
}

// User returns a copy of the current user, or nil.
func (s *Store) User() *domain.UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Roles returns a copy of the role set.
func (s *Store) Roles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.roles...)
}

// HasRole reports whether role was granted by the last FetchMe.
func (s *Store) HasRole(role string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.roles, role)
}

// Loading is true while any operation is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// Error returns the message of the last failed login or registration.
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// TokenExpiry returns the exp claim of the held token when it is a JWT.
func (s *Store) TokenExpiry() (time.Time, bool) {
	return Expiry(s.tokens.AccessToken())
}

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	token := s.tokens.AccessToken()
	snap := Snapshot{
		AccessToken:   token,
		Roles:         append([]string{}, s.roles...),
		Authenticated: token != "",
		Loading:       s.inflight > 0,
		Error:         s.errMsg,
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

func (s *Store) establish(ctx context.Context, user domain.UserInfo, token string) {
	if err := s.tokens.Set(ctx, token); err != nil {
		s.logger.Warn("access token kept in memory only", zap.Error(err))
	}
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	s.logger.Info("session established", zap.String("user_id", user.ID))
}

// signOut makes a best-effort server call and then clears the local session.
func (s *Store) signOut(ctx context.Context, call func(context.Context) (*domain.MessageResponse, error)) {
	if _, err := call(ctx); err != nil {
		s.logger.Debug("server logout ignored", zap.Error(err))
	}
	if err := s.tokens.Clear(ctx); err != nil {
		s.logger.Warn("persisted token not erased", zap.Error(err))
	}
	s.mu.Lock()
	s.user = nil
	s.roles = nil
	s.mu.Unlock()
}

func (s *Store) begin(resetError bool) {
	s.mu.Lock()
	s.inflight++
	if resetError {
		s.errMsg = ""
	}
	s.mu.Unlock()
}

// end publishes the single change event of an operation.
func (s *Store) end(ctx context.Context) {
	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
	s.publish(ctx)
}

func (s *Store) fail(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

func (s *Store) publish(ctx context.Context) {
	if s.dispatcher == nil {
		return
	}
	snap := s.Snapshot()
	if err := s.dispatcher.Publish(ctx, events.NewEvent(events.EventSessionChanged, snap)); err != nil {
		s.logger.Warn("session subscriber failed", zap.Error(err))
	}
}
