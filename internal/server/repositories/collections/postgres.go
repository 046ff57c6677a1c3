package collections

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/funrun/internal/common"
	"github.com/dmitrijs2005/funrun/internal/dbx"
	"github.com/dmitrijs2005/funrun/internal/server/models"
)

type scanner interface {
	Scan(dest ...any) error
}

type source struct {
	table string
	list  string
	scan  func(scanner) (any, error)
}

var sources = map[Name]source{
	Users: {
		table: "users",
		list: `SELECT u.id, u.name, u.email, u.phone_number, u.role, u.created_at, u.updated_at
		 FROM users u
		 ORDER BY u.created_at, u.id
		 LIMIT $1 OFFSET $2`,
		scan: scanUser,
	},
	RunnerProfiles: {
		table: "runner_profile",
		list: `SELECT p.id, p.user_id, p.date_of_birth, p.gender, p.address, p.tshirt_size,
		        p.emergency_contact_name, p.emergency_contact_phone, p.emergency_contact_relationship,
		        p.created_at, p.updated_at, u.name, u.email
		 FROM runner_profile p JOIN users u ON u.id = p.user_id
		 ORDER BY p.created_at, p.id
		 LIMIT $1 OFFSET $2`,
		scan: scanRunnerProfile,
	},
	MarshalProfiles: {
		table: "marshal_profile",
		list: `SELECT p.id, p.user_id, p.date_of_birth, p.gender, p.address, p.organization_name,
		        p.role_position, p.social_media_links, p.responsibilities,
		        p.created_at, p.updated_at, u.name, u.email
		 FROM marshal_profile p JOIN users u ON u.id = p.user_id
		 ORDER BY p.created_at, p.id
		 LIMIT $1 OFFSET $2`,
		scan: scanMarshalProfile,
	},
	Events: {
		table: "events",
		list: `SELECT e.id, e.event_name, e.event_date, e.location, e.target_audience, e.description,
		        e.created_by, e.created_at, e.updated_at, u.name
		 FROM events e JOIN users u ON u.id = e.created_by
		 ORDER BY e.created_at, e.id
		 LIMIT $1 OFFSET $2`,
		scan: scanEvent,
	},
	EventCategories: {
		table: "event_categories",
		list: `SELECT c.id, c.category_name, c.description, c.target_audience,
		        c.created_by, c.created_at, c.updated_at, u.name
		 FROM event_categories c JOIN users u ON u.id = c.created_by
		 ORDER BY c.created_at, c.id
		 LIMIT $1 OFFSET $2`,
		scan: scanEventCategory,
	},
	EventStaff: {
		table: "event_staff",
		list: `SELECT s.id, s.event_id, s.user_id, s.role_in_event, s.responsibilities, s.assigned_at,
		        u.name, u.email, e.event_name
		 FROM event_staff s
		 JOIN users u ON u.id = s.user_id
		 JOIN events e ON e.id = s.event_id
		 ORDER BY s.assigned_at, s.id
		 LIMIT $1 OFFSET $2`,
		scan: scanEventStaff,
	},
	Participants: {
		table: "participants",
		list: `SELECT p.id, p.user_id, p.rfid_number, p.category_id, p.payment_status,
		        p.registration_status, p.registered_at, u.name, u.email, c.category_name
		 FROM participants p
		 JOIN users u ON u.id = p.user_id
		 JOIN event_categories c ON c.id = p.category_id
		 ORDER BY p.registered_at, p.id
		 LIMIT $1 OFFSET $2`,
		scan: scanParticipant,
	},
	Results: {
		table: "results",
		list: `SELECT r.id, r.participant_id, r.category_id, r.completion_time, r.ranking, r.notes, r.recorded_at,
		        p.id, p.user_id, p.rfid_number, p.category_id, p.payment_status, p.registration_status,
		        p.registered_at, u.name, c.category_name
		 FROM results r
		 JOIN participants p ON p.id = r.participant_id
		 JOIN users u ON u.id = p.user_id
		 JOIN event_categories c ON c.id = r.category_id
		 ORDER BY r.recorded_at, r.id
		 LIMIT $1 OFFSET $2`,
		scan: scanResult,
	},
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func lookup(name Name) (source, error) {
	s, ok := sources[name]
	if !ok {
		return source{}, common.ErrUnknownCollection
	}
	return s, nil
}

func (r *PostgresRepository) Count(ctx context.Context, name Name) (int64, error) {
	s, err := lookup(name)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+s.table).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}

// List returns one page of the collection. The result is never nil so an
// empty page encodes as [].
func (r *PostgresRepository) List(ctx context.Context, name Name, limit, offset int) ([]any, error) {
	s, err := lookup(name)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, s.list, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]any, 0)
	for rows.Next() {
		item, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func nullable[T any](v sql.Null[T]) *T {
	if !v.Valid {
		return nil
	}
	return &v.V
}

func scanUser(s scanner) (any, error) {
	u := models.User{}
	var phone sql.Null[string]
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &phone, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.PhoneNumber = nullable(phone)
	return u, nil
}

func scanRunnerProfile(s scanner) (any, error) {
	p := models.RunnerProfile{User: &models.UserRef{}}
	err := s.Scan(&p.ID, &p.UserID, &p.DateOfBirth, &p.Gender, &p.Address, &p.TShirtSize,
		&p.EmergencyContactName, &p.EmergencyContactPhone, &p.EmergencyContactRelationship,
		&p.CreatedAt, &p.UpdatedAt, &p.User.Name, &p.User.Email)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func scanMarshalProfile(s scanner) (any, error) {
	p := models.MarshalProfile{User: &models.UserRef{}}
	var links sql.Null[string]
	err := s.Scan(&p.ID, &p.UserID, &p.DateOfBirth, &p.Gender, &p.Address, &p.OrganizationName,
		&p.RolePosition, &links, &p.Responsibilities,
		&p.CreatedAt, &p.UpdatedAt, &p.User.Name, &p.User.Email)
	if err != nil {
		return nil, err
	}
	p.SocialMediaLinks = nullable(links)
	return p, nil
}

func scanEvent(s scanner) (any, error) {
	e := models.Event{Creator: &models.UserRef{}}
	err := s.Scan(&e.ID, &e.EventName, &e.EventDate, &e.Location, &e.TargetAudience, &e.Description,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt, &e.Creator.Name)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func scanEventCategory(s scanner) (any, error) {
	c := models.EventCategory{Creator: &models.UserRef{}}
	err := s.Scan(&c.ID, &c.CategoryName, &c.Description, &c.TargetAudience,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt, &c.Creator.Name)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func scanEventStaff(s scanner) (any, error) {
	st := models.EventStaff{User: &models.UserRef{}, Event: &models.EventRef{}}
	err := s.Scan(&st.ID, &st.EventID, &st.UserID, &st.RoleInEvent, &st.Responsibilities, &st.AssignedAt,
		&st.User.Name, &st.User.Email, &st.Event.EventName)
	if err != nil {
		return nil, err
	}
	return st, nil
}

func scanParticipant(s scanner) (any, error) {
	p := models.Participant{User: &models.UserRef{}, Category: &models.CategoryRef{}}
	var rfid sql.Null[string]
	err := s.Scan(&p.ID, &p.UserID, &rfid, &p.CategoryID, &p.PaymentStatus,
		&p.RegistrationStatus, &p.RegisteredAt, &p.User.Name, &p.User.Email, &p.Category.CategoryName)
	if err != nil {
		return nil, err
	}
	p.RFIDNumber = nullable(rfid)
	return p, nil
}

func scanResult(s scanner) (any, error) {
	p := &models.Participant{User: &models.UserRef{}}
	r := models.Result{Participant: p, Category: &models.CategoryRef{}}
	var (
		notes, rfid sql.Null[string]
	)
	err := s.Scan(&r.ID, &r.ParticipantID, &r.CategoryID, &r.CompletionTime, &r.Ranking, &notes, &r.RecordedAt,
		&p.ID, &p.UserID, &rfid, &p.CategoryID, &p.PaymentStatus, &p.RegistrationStatus,
		&p.RegisteredAt, &p.User.Name, &r.Category.CategoryName)
	if err != nil {
		return nil, err
	}
	r.Notes = nullable(notes)
	p.RFIDNumber = nullable(rfid)
	return r, nil
}
