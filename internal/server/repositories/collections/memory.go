package collections

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/funrun/internal/common"
	"github.com/dmitrijs2005/funrun/internal/server/models"
)

// MemoryRepository pages over in-memory rows. The users collection is read
// live from the users source so it always matches the users repository.
type MemoryRepository struct {
	mu    sync.RWMutex
	rows  map[Name][]any
	users func() []models.User
}

func NewMemoryRepository(users func() []models.User) *MemoryRepository {
	return &MemoryRepository{rows: map[Name][]any{}, users: users}
}

// Add appends rows to a collection other than users.
func (r *MemoryRepository) Add(name Name, rows ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[name] = append(r.rows[name], rows...)
}

// Reset drops every stored row.
func (r *MemoryRepository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = map[Name][]any{}
}

func (r *MemoryRepository) snapshot(name Name) ([]any, error) {
	if !Known(name) {
		return nil, common.ErrUnknownCollection
	}
	if name == Users {
		us := r.users()
		out := make([]any, 0, len(us))
		for _, u := range us {
			out = append(out, u)
		}
		return out, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]any(nil), r.rows[name]...), nil
}

func (r *MemoryRepository) Count(ctx context.Context, name Name) (int64, error) {
	rows, err := r.snapshot(name)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (r *MemoryRepository) List(ctx context.Context, name Name, limit, offset int) ([]any, error) {
	rows, err := r.snapshot(name)
	if err != nil {
		return nil, err
	}

	out := make([]any, 0)
	for i := offset; i >= 0 && i < len(rows) && i-offset < limit; i++ {
		out = append(out, rows[i])
	}
	return out, nil
}
