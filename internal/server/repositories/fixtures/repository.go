// Package fixtures writes the demo data set. Only the seeder uses it.
package fixtures

import (
	"context"

	"github.com/dmitrijs2005/funrun/internal/server/models"
)

type Repository interface {
	Wipe(ctx context.Context) error
	InsertRunnerProfile(ctx context.Context, p *models.RunnerProfile) error
	InsertMarshalProfile(ctx context.Context, p *models.MarshalProfile) error
	InsertEvent(ctx context.Context, e *models.Event) error
	InsertEventCategory(ctx context.Context, c *models.EventCategory) error
	LinkEventCategory(ctx context.Context, eventID, categoryID string) error
	InsertEventStaff(ctx context.Context, s *models.EventStaff) error
	InsertParticipant(ctx context.Context, p *models.Participant) error
	InsertResult(ctx context.Context, r *models.Result) error
}
