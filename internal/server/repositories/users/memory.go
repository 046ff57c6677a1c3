package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/funrun/internal/common"
	"github.com/dmitrijs2005/funrun/internal/server/models"
)

// MemoryRepository keeps users in insertion order. It backs the in-memory
// repository manager.
type MemoryRepository struct {
	mu    sync.RWMutex
	users []*models.User
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: time.Now}
}

func (r *MemoryRepository) find(match func(*models.User) bool) *models.User {
	for _, u := range r.users {
		if match(u) {
			return u
		}
	}
	return nil
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.find(func(u *models.User) bool { return u.Email == user.Email }) != nil {
		return nil, common.ErrorAlreadyExists
	}
	user.CreatedAt = r.now()
	user.UpdatedAt = user.CreatedAt
	r.users = append(r.users, copyUser(user))
	return user, nil
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if u := r.find(func(u *models.User) bool { return u.Email == email }); u != nil {
		return copyUser(u), nil
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if u := r.find(func(u *models.User) bool { return u.ID == id }); u != nil {
		return copyUser(u), nil
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.find(func(u *models.User) bool { return u.Email == email }) != nil, nil
}

func (r *MemoryRepository) SetResetToken(ctx context.Context, email string, tokenHash string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(func(u *models.User) bool { return u.Email == email })
	if u == nil {
		return common.ErrorNotFound
	}
	u.ResetTokenHash = &tokenHash
	u.ResetTokenExpiry = &expiry
	u.UpdatedAt = r.now()
	return nil
}

func (r *MemoryRepository) UpdatePassword(ctx context.Context, email string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(func(u *models.User) bool { return u.Email == email })
	if u == nil {
		return common.ErrorNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetTokenHash = nil
	u.ResetTokenExpiry = nil
	u.UpdatedAt = r.now()
	return nil
}

// All returns copies of every user in insertion order.
func (r *MemoryRepository) All() []models.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out
}

// Reset drops every user.
func (r *MemoryRepository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = nil
}
