package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"userhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// In-memory repository fakes. They mirror the store's semantics the
// services rely on: gorm.ErrRecordNotFound on misses, guarded refresh
// token rotation, and cascade delete of the profile row.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User

	details *fakeDetailRepo // cascade target, optional
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.RefreshToken != nil {
		token := *u.RefreshToken
		c.RefreshToken = &token
	}
	return &c
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByRefreshToken(_ context.Context, token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.RefreshToken != nil && *u.RefreshToken == token {
			return cloneUser(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.users, id)
	r.mu.Unlock()
	if r.details != nil {
		_, _ = r.details.DeleteByUserID(ctx, id)
	}
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, offset, limit int) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, cloneUser(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
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

func (r *fakeUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) SetRefreshToken(_ context.Context, userID string, token *string) error {
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

func (r *fakeUserRepo) RotateRefreshToken(_ context.Context, userID, current, next string) (bool, error) {
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

func (r *fakeUserRepo) ClearRefreshToken(_ context.Context, token string) (bool, error) {
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

func (r *fakeUserRepo) ListWithRefreshToken(_ context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, u := range r.users {
		if u.RefreshToken != nil {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

type fakeDetailRepo struct {
	mu      sync.Mutex
	details map[string]*models.UserDetail // keyed by UserID

	users *fakeUserRepo // embedded user source, optional
}

func newFakeDetailRepo() *fakeDetailRepo {
	return &fakeDetailRepo{details: map[string]*models.UserDetail{}}
}

func cloneDetail(d *models.UserDetail) *models.UserDetail {
	c := *d
	return &c
}

func (r *fakeDetailRepo) Create(_ context.Context, detail *models.UserDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if detail.CreatedAt.IsZero() {
		detail.CreatedAt = time.Now()
	}
	r.details[detail.UserID] = cloneDetail(detail)
	return nil
}

func (r *fakeDetailRepo) GetByUserID(ctx context.Context, userID string) (*models.UserDetail, error) {
	r.mu.Lock()
	d, ok := r.details[userID]
	if !ok {
		r.mu.Unlock()
		return nil, gorm.ErrRecordNotFound
	}
	out := cloneDetail(d)
	r.mu.Unlock()
	if r.users != nil {
		if u, err := r.users.GetByID(ctx, userID); err == nil {
			out.User = u
		}
	}
	return out, nil
}

func (r *fakeDetailRepo) Update(_ context.Context, detail *models.UserDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.details[detail.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.details[detail.UserID] = cloneDetail(detail)
	return nil
}

func (r *fakeDetailRepo) DeleteByUserID(_ context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.details[userID]; !ok {
		return false, nil
	}
	delete(r.details, userID)
	return true, nil
}

func (r *fakeDetailRepo) List(ctx context.Context, offset, limit int) ([]*models.UserDetail, int64, error) {
	r.mu.Lock()
	all := make([]*models.UserDetail, 0, len(r.details))
	for _, d := range r.details {
		all = append(all, cloneDetail(d))
	}
	r.mu.Unlock()
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	page := all[offset:end]
	if r.users != nil {
		for _, d := range page {
			if u, err := r.users.GetByID(ctx, d.UserID); err == nil {
				d.User = u
			}
		}
	}
	return page, total, nil
}
