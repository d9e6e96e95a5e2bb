// Package service implements the development backend's use cases over the in-memory repositories.
package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk-client/internal/config"
	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/mockapi/auth"
	"github.com/spec-kit/helpdesk-client/internal/mockapi/repository"
	apperrors "github.com/spec-kit/helpdesk-client/pkg/util"
)

// RefreshTokenTTL bounds how long a refresh cookie stays valid.
const RefreshTokenTTL = 7 * 24 * time.Hour

// Session is the result of a successful sign-in.
type Session struct {
	User         domain.UserInfo
	Roles        []string
	Tokens       domain.TokenResponse
	RefreshToken string
}

// AuthService coordinates registration, login and token rotation.
type AuthService struct {
	users      repository.UserRepository
	refresh    repository.RefreshTokenRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	now        repository.Clock
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Clock            repository.Clock
}

// NewAuthService builds the service.
func NewAuthService(cfg config.MockAPIConfig, deps AuthDependencies) *AuthService {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		users:      deps.UserRepo,
		refresh:    deps.RefreshTokenRepo,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes, now),
		bcryptCost: cfg.BcryptCost,
		now:        now,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Register creates an account with the user role and signs it in.
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*Session, error) {
	req.LoginID = strings.TrimSpace(req.LoginID)
	req.Email = strings.TrimSpace(req.Email)
	if req.LoginID == "" || req.Email == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("login_id, email and password are required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, apperrors.NewValidationError("invalid email address")
	}
	if len(req.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters")
	}
	return s.createAccount(ctx, req, []string{auth.RoleUser})
}

// CreateAccount registers a user with explicit roles. It is used for seeding.
func (s *AuthService) CreateAccount(ctx context.Context, req domain.RegisterRequest, roles []string) (*domain.UserInfo, error) {
	session, err := s.createAccount(ctx, req, roles)
	if err != nil {
		return nil, err
	}
	return &session.User, nil
}

func (s *AuthService) createAccount(ctx context.Context, req domain.RegisterRequest, roles []string) (*Session, error) {
	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user := &repository.UserRecord{
		UserInfo:     domain.UserInfo{LoginID: req.LoginID, Email: req.Email, Name: req.Name},
		PasswordHash: hash,
		Roles:        roles,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("login id or email already registered")
		}
		return nil, apperrors.NewInternalError(err)
	}
	return s.issue(ctx, user)
}

// Login authenticates by login id and password.
func (s *AuthService) Login(ctx context.Context, loginID, password string) (*Session, error) {
	if strings.TrimSpace(loginID) == "" || password == "" {
		return nil, apperrors.NewValidationError("login_id and password are required")
	}
	user, err := s.users.GetByLoginID(ctx, loginID)
	if err != nil {
		return nil, apperrors.NewUnauthorized(auth.ErrInvalidCredentials.Error())
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized(err.Error())
	}
	return s.issue(ctx, user)
}

// Refresh rotates a refresh token and issues a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, apperrors.NewUnauthorized("missing refresh token")
	}
	stored, err := s.refresh.Get(ctx, refreshToken)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid refresh token")
	}
	if err := s.refresh.Delete(ctx, refreshToken); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, apperrors.NewUnauthorized("user no longer exists")
	}
	return s.issue(ctx, user)
}

// Logout revokes one refresh token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.refresh.Delete(ctx, refreshToken)
}

// LogoutAll revokes every refresh token of the user.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) (int, error) {
	return s.refresh.DeleteByUser(ctx, userID)
}

// Me returns the user and roles behind an access token.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.UserInfo, []string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, apperrors.NewNotFound("user")
	}
	return &user.UserInfo, user.Roles, nil
}

// ListUsers pages through accounts.
func (s *AuthService) ListUsers(ctx context.Context, pageNum, limit int) (*domain.Paginated[domain.UserInfo], error) {
	users, total, err := s.users.List(ctx, pageNum, limit)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &domain.Paginated[domain.UserInfo]{
		Data:       users,
		Page:       pageNum,
		Limit:      limit,
		TotalCount: total,
		TotalPages: domain.TotalPagesFor(total, limit),
	}, nil
}

func (s *AuthService) issue(ctx context.Context, user *repository.UserRecord) (*Session, error) {
	access, _, err := s.tokenMgr.GenerateToken(user.ID, user.Roles)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	refresh, err := auth.NewRefreshToken()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if err := s.refresh.Save(ctx, repository.RefreshToken{
		Token:     refresh,
		UserID:    user.ID,
		ExpiresAt: s.now().Add(RefreshTokenTTL),
	}); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{
		User:  user.UserInfo,
		Roles: append([]string{}, user.Roles...),
		Tokens: domain.TokenResponse{
			AccessToken: access,
			TokenType:   "Bearer",
			ExpiresIn:   int(s.tokenMgr.TTL().Seconds()),
		},
		RefreshToken: refresh,
	}, nil
}
