package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/spec-kit/helpdesk-client/internal/domain"
)

// TagRepository encapsulates tag persistence.
type TagRepository interface {
	Create(ctx context.Context, tag *domain.Tag) error
	Update(ctx context.Context, tag *domain.Tag) error
	GetByID(ctx context.Context, id int64) (*domain.Tag, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, pageNum, limit int) ([]domain.Tag, int, error)
}

type tagRepository struct {
	mu     sync.RWMutex
	tags   map[int64]domain.Tag
	nextID int64
}

// NewTagRepository instantiates repository.
func NewTagRepository() TagRepository {
	return &tagRepository{tags: make(map[int64]domain.Tag)}
}

func (r *tagRepository) Create(_ context.Context, tag *domain.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nameTakenLocked(tag.Name, 0) {
		return ErrDuplicate
	}
	r.nextID++
	tag.ID = r.nextID
	r.tags[tag.ID] = *tag
	return nil
}

func (r *tagRepository) Update(_ context.Context, tag *domain.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tags[tag.ID]; !ok {
		return ErrNotFound
	}
	if r.nameTakenLocked(tag.Name, tag.ID) {
		return ErrDuplicate
	}
	r.tags[tag.ID] = *tag
	return nil
}

func (r *tagRepository) GetByID(_ context.Context, id int64) (*domain.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tags[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (r *tagRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tags[id]; !ok {
		return ErrNotFound
	}
	delete(r.tags, id)
	return nil
}

func (r *tagRepository) List(_ context.Context, pageNum, limit int) ([]domain.Tag, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]domain.Tag, 0, len(r.tags))
	for _, id := range sortedKeys(r.tags) {
		all = append(all, r.tags[id])
	}
	return page(all, pageNum, limit), len(all), nil
}

func (r *tagRepository) nameTakenLocked(name string, except int64) bool {
	for id, t := range r.tags {
		if id != except && strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}
