package fixtures

import (
	"context"

	"github.com/dmitrijs2005/funrun/internal/server/models"
	"github.com/dmitrijs2005/funrun/internal/server/repositories/collections"
)

// MemoryRepository writes fixtures into an in-memory collections store.
// Wipe also runs the users reset hook so the data set starts empty.
type MemoryRepository struct {
	store      *collections.MemoryRepository
	resetUsers func()
}

func NewMemoryRepository(store *collections.MemoryRepository, resetUsers func()) *MemoryRepository {
	return &MemoryRepository{store: store, resetUsers: resetUsers}
}

func (r *MemoryRepository) Wipe(ctx context.Context) error {
	r.store.Reset()
	r.resetUsers()
	return nil
}

func (r *MemoryRepository) InsertRunnerProfile(ctx context.Context, p *models.RunnerProfile) error {
	r.store.Add(collections.RunnerProfiles, *p)
	return nil
}

func (r *MemoryRepository) InsertMarshalProfile(ctx context.Context, p *models.MarshalProfile) error {
	r.store.Add(collections.MarshalProfiles, *p)
	return nil
}

func (r *MemoryRepository) InsertEvent(ctx context.Context, e *models.Event) error {
	r.store.Add(collections.Events, *e)
	return nil
}

func (r *MemoryRepository) InsertEventCategory(ctx context.Context, c *models.EventCategory) error {
	r.store.Add(collections.EventCategories, *c)
	return nil
}

// LinkEventCategory is a no-op: links are not a browsable collection.
func (r *MemoryRepository) LinkEventCategory(ctx context.Context, eventID, categoryID string) error {
	return nil
}

func (r *MemoryRepository) InsertEventStaff(ctx context.Context, s *models.EventStaff) error {
	r.store.Add(collections.EventStaff, *s)
	return nil
}

func (r *MemoryRepository) InsertParticipant(ctx context.Context, p *models.Participant) error {
	r.store.Add(collections.Participants, *p)
	return nil
}

func (r *MemoryRepository) InsertResult(ctx context.Context, res *models.Result) error {
	r.store.Add(collections.Results, *res)
	return nil
}
