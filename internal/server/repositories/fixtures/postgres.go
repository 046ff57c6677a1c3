package fixtures

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/funrun/internal/dbx"
	"github.com/dmitrijs2005/funrun/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// wipeOrder deletes children before parents.
var wipeOrder = []string{
	"results",
	"participants",
	"event_staff",
	"event_to_category",
	"event_categories",
	"events",
	"marshal_profile",
	"runner_profile",
	"users",
}

func (r *PostgresRepository) Wipe(ctx context.Context) error {
	for _, table := range wipeOrder {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("db error: wipe %s: %w", table, err)
		}
	}
	return nil
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) InsertRunnerProfile(ctx context.Context, p *models.RunnerProfile) error {
	return r.exec(ctx,
		`INSERT INTO runner_profile (id, user_id, date_of_birth, gender, address, tshirt_size,
		   emergency_contact_name, emergency_contact_phone, emergency_contact_relationship)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.UserID, p.DateOfBirth, p.Gender, p.Address, p.TShirtSize,
		p.EmergencyContactName, p.EmergencyContactPhone, p.EmergencyContactRelationship)
}

func (r *PostgresRepository) InsertMarshalProfile(ctx context.Context, p *models.MarshalProfile) error {
	return r.exec(ctx,
		`INSERT INTO marshal_profile (id, user_id, date_of_birth, gender, address, organization_name,
		   role_position, social_media_links, responsibilities)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.UserID, p.DateOfBirth, p.Gender, p.Address, p.OrganizationName,
		p.RolePosition, p.SocialMediaLinks, p.Responsibilities)
}

func (r *PostgresRepository) InsertEvent(ctx context.Context, e *models.Event) error {
	return r.exec(ctx,
		`INSERT INTO events (id, event_name, event_date, location, target_audience, description, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.EventName, e.EventDate, e.Location, e.TargetAudience, e.Description, e.CreatedBy)
}

func (r *PostgresRepository) InsertEventCategory(ctx context.Context, c *models.EventCategory) error {
	return r.exec(ctx,
		`INSERT INTO event_categories (id, category_name, description, target_audience, created_by)
		 VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.CategoryName, c.Description, c.TargetAudience, c.CreatedBy)
}

func (r *PostgresRepository) LinkEventCategory(ctx context.Context, eventID, categoryID string) error {
	return r.exec(ctx,
		`INSERT INTO event_to_category (event_id, category_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		eventID, categoryID)
}

func (r *PostgresRepository) InsertEventStaff(ctx context.Context, s *models.EventStaff) error {
	return r.exec(ctx,
		`INSERT INTO event_staff (id, event_id, user_id, role_in_event, responsibilities)
		 VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.EventID, s.UserID, string(s.RoleInEvent), s.Responsibilities)
}

func (r *PostgresRepository) InsertParticipant(ctx context.Context, p *models.Participant) error {
	return r.exec(ctx,
		`INSERT INTO participants (id, user_id, rfid_number, category_id, payment_status, registration_status)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.UserID, p.RFIDNumber, p.CategoryID, string(p.PaymentStatus), string(p.RegistrationStatus))
}

// InsertResult skips a participant that already has a result in the category.
func (r *PostgresRepository) InsertResult(ctx context.Context, res *models.Result) error {
	return r.exec(ctx,
		`INSERT INTO results (id, participant_id, category_id, completion_time, ranking, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (participant_id, category_id) DO NOTHING`,
		res.ID, res.ParticipantID, res.CategoryID, res.CompletionTime, res.Ranking, res.Notes)
}
