package handlers

import (
	"context"
	"sync"

	"userhub/internal/adapters/persistence/models"
	"userhub/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// In-memory repositories backing the handler tests. The embedded
// interfaces cover methods these flows never reach.

type memUserRepo struct {
	repositories.UserRepository
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*models.User{}}
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) GetByRefreshToken(_ context.Context, token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.RefreshToken != nil && *u.RefreshToken == token {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) SetRefreshToken(_ context.Context, userID string, token *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if token == nil {
		u.RefreshToken = nil
		return nil
	}
	t := *token
	u.RefreshToken = &t
	return nil
}

func (r *memUserRepo) RotateRefreshToken(_ context.Context, userID, current, next string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok || u.RefreshToken == nil || *u.RefreshToken != current {
		return false, nil
	}
	t := next
	u.RefreshToken = &t
	return true, nil
}

func (r *memUserRepo) ClearRefreshToken(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.RefreshToken != nil && *u.RefreshToken == token {
			u.RefreshToken = nil
			return true, nil
		}
	}
	return false, nil
}

type memDetailRepo struct {
	repositories.UserDetailRepository
	mu      sync.Mutex
	details map[string]*models.UserDetail // keyed by UserID
}

func newMemDetailRepo() *memDetailRepo {
	return &memDetailRepo{details: map[string]*models.UserDetail{}}
}

func (r *memDetailRepo) Create(_ context.Context, detail *models.UserDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *detail
	r.details[detail.UserID] = &copied
	return nil
}

func (r *memDetailRepo) GetByUserID(_ context.Context, userID string) (*models.UserDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.details[userID]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memDetailRepo) Update(_ context.Context, detail *models.UserDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.details[detail.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *detail
	r.details[detail.UserID] = &copied
	return nil
}

func (r *memDetailRepo) DeleteByUserID(_ context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.details[userID]; !ok {
		return false, nil
	}
	delete(r.details, userID)
	return true, nil
}

func (r *memDetailRepo) List(_ context.Context, offset, limit int) ([]*models.UserDetail, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*models.UserDetail, 0, len(r.details))
	for _, d := range r.details {
		copied := *d
		all = append(all, &copied)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}
