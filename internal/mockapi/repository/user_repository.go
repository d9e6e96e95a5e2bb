package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-client/internal/domain"
)

// UserRecord is a stored account.
type UserRecord struct {
	domain.UserInfo
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
}

// UserRepository encapsulates account persistence.
type UserRepository interface {
	Create(ctx context.Context, user *UserRecord) error
	GetByID(ctx context.Context, id string) (*UserRecord, error)
	GetByLoginID(ctx context.Context, loginID string) (*UserRecord, error)
	List(ctx context.Context, pageNum, limit int) ([]domain.UserInfo, int, error)
}

type userRepository struct {
	mu      sync.RWMutex
	byID    map[string]*UserRecord
	byLogin map[string]string
	byEmail map[string]string
	now     Clock
}

// NewUserRepository instantiates repository.
func NewUserRepository(now Clock) UserRepository {
	return &userRepository{
		byID:    make(map[string]*UserRecord),
		byLogin: make(map[string]string),
		byEmail: make(map[string]string),
		now:     now,
	}
}

func (r *userRepository) Create(_ context.Context, user *UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	login := strings.ToLower(user.LoginID)
	email := strings.ToLower(user.Email)
	if _, taken := r.byLogin[login]; taken {
		return ErrDuplicate
	}
	if _, taken := r.byEmail[email]; taken && email != "" {
		return ErrDuplicate
	}

	user.ID = uuid.NewString()
	user.CreatedAt = r.now()
	stored := *user
	stored.Roles = append([]string{}, user.Roles...)
	r.byID[user.ID] = &stored
	r.byLogin[login] = user.ID
	if email != "" {
		r.byEmail[email] = user.ID
	}
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	out.Roles = append([]string{}, u.Roles...)
	return &out, nil
}

func (r *userRepository) GetByLoginID(ctx context.Context, loginID string) (*UserRecord, error) {
	r.mu.RLock()
	id, ok := r.byLogin[strings.ToLower(loginID)]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) List(_ context.Context, pageNum, limit int) ([]domain.UserInfo, int, error) {
	r.mu.RLock()
	all := make([]*UserRecord, 0, len(r.byID))
	for _, u := range r.byID {
		all = append(all, u)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].LoginID < all[j].LoginID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	infos := make([]domain.UserInfo, 0, len(all))
	for _, u := range all {
		infos = append(infos, u.UserInfo)
	}
	return page(infos, pageNum, limit), len(infos), nil
}
