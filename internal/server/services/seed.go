package services

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrijs2005/funrun/internal/dbx"
	"github.com/dmitrijs2005/funrun/internal/logging"
	"github.com/dmitrijs2005/funrun/internal/server/auth"
	"github.com/dmitrijs2005/funrun/internal/server/models"
	"github.com/dmitrijs2005/funrun/internal/server/repositories/fixtures"
	"github.com/dmitrijs2005/funrun/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/funrun/internal/server/repositories/users"
	"github.com/google/uuid"
)

// SeedSummary counts what Seed wrote.
type SeedSummary struct {
	Users           int
	RunnerProfiles  int
	MarshalProfiles int
	Events          int
	Categories      int
	CategoryLinks   int
	Staff           int
	Participants    int
	Results         int
}

// Seeder replaces the database content with the demo data set.
type Seeder struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	hashCost    int
	newID       func() string
}

func NewSeeder(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *Seeder {
	return &Seeder{db: db, repomanager: m, log: log, hashCost: auth.DefaultCost, newID: uuid.NewString}
}

type seedUser struct {
	name, email, password string
	phone                 *string
	role                  models.Role
}

func strPtr(s string) *string { return &s }

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

var seedUsers = []seedUser{
	{"Admin User", "admin@example.com", "admin123", strPtr("09123456789"), models.RoleAdmin},
	{"Runner User", "runner@example.com", "runner123", strPtr("09876543210"), models.RoleRunner},
	{"Marshal User", "marshal@example.com", "marshal123", nil, models.RoleMarshal},
}

// categoryPatterns link events to categories by name. An event matching no
// pattern goes to the first category.
var categoryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)fun run`),
	regexp.MustCompile(`(?i)marathon`),
	regexp.MustCompile(`(?i)kids|dash`),
}

var staffDuties = []struct {
	role models.StaffRole
	duty string
}{
	{models.StaffEventMarshal, "Overall event coordination, safety management, emergency response oversight"},
	{models.StaffSubMarshal, "Runner guidance, route supervision, checkpoint management"},
	{models.StaffCoordinator, "Registration assistance, refreshment distribution, finish line support"},
}

func pick[T any](s []T, i int) T {
	if i < len(s) {
		return s[i]
	}
	return s[0]
}

// Seed wipes every table and loads the demo data in one transaction.
func (s *Seeder) Seed(ctx context.Context) (*SeedSummary, error) {
	sum := &SeedSummary{}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		fx := s.repomanager.Fixtures(tx)
		if err := fx.Wipe(ctx); err != nil {
			return err
		}

		created, err := s.seedUsers(ctx, s.repomanager.Users(tx))
		if err != nil {
			return err
		}
		sum.Users = len(created)

		return s.seedDomain(ctx, fx, created, sum)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "database seeded",
		"users", sum.Users, "events", sum.Events, "participants", sum.Participants, "results", sum.Results)
	return sum, nil
}

func (s *Seeder) seedUsers(ctx context.Context, repo users.Repository) ([]*models.User, error) {
	out := make([]*models.User, 0, len(seedUsers))
	for _, su := range seedUsers {
		hash, err := auth.HashSecret(su.password, s.hashCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u, err := repo.Create(ctx, &models.User{
			ID:           s.newID(),
			Name:         su.name,
			Email:        su.email,
			PasswordHash: hash,
			PhoneNumber:  su.phone,
			Role:         su.role,
		})
		if err != nil {
			return nil, fmt.Errorf("create user %s: %w", su.email, err)
		}
		out = append(out, u)
	}
	return out, nil
}

func byRole(us []*models.User, roles ...models.Role) []*models.User {
	var out []*models.User
	for _, u := range us {
		for _, r := range roles {
			if u.Role == r {
				out = append(out, u)
				break
			}
		}
	}
	return out
}

func (s *Seeder) seedDomain(ctx context.Context, fx fixtures.Repository, us []*models.User, sum *SeedSummary) error {
	staff := byRole(us, models.RoleAdmin, models.RoleMarshal)
	if len(staff) == 0 {
		return fmt.Errorf("seed: no admin or marshal users")
	}

	for i, p := range []models.RunnerProfile{
		{DateOfBirth: date("1990-05-15T00:00:00Z"), Gender: "Male", Address: "123 Runner St, Surigao City", TShirtSize: "M",
			EmergencyContactName: "Emergency Contact 1", EmergencyContactPhone: "09111222333", EmergencyContactRelationship: "Spouse"},
		{DateOfBirth: date("1988-10-20T00:00:00Z"), Gender: "Female", Address: "456 Marathon Ave, Surigao City", TShirtSize: "S",
			EmergencyContactName: "Emergency Contact 2", EmergencyContactPhone: "09222333444", EmergencyContactRelationship: "Parent"},
		{DateOfBirth: date("1995-03-12T00:00:00Z"), Gender: "Other", Address: "789 Sprint Blvd, Surigao City", TShirtSize: "L",
			EmergencyContactName: "Emergency Contact 3", EmergencyContactPhone: "09333444555", EmergencyContactRelationship: "Sibling"},
	} {
		p.ID, p.UserID = s.newID(), pick(us, i).ID
		if err := fx.InsertRunnerProfile(ctx, &p); err != nil {
			return err
		}
		sum.RunnerProfiles++
	}

	for i, p := range []models.MarshalProfile{
		{DateOfBirth: date("1985-07-12T00:00:00Z"), Gender: "Male", Address: "123 Marshal Ave, Surigao City",
			OrganizationName: "Surigao Running Club", RolePosition: "Head Marshal",
			SocialMediaLinks: strPtr("facebook.com/marshal1, instagram.com/marshal1"),
			Responsibilities: "Route supervision, Safety coordination, Emergency response management"},
		{DateOfBirth: date("1990-03-25T00:00:00Z"), Gender: "Female", Address: "456 Safety St, Surigao City",
			OrganizationName: "Surigao Athletics Association", RolePosition: "Course Marshal",
			SocialMediaLinks: strPtr("twitter.com/marshal2"),
			Responsibilities: "Runner guidance, Traffic control, First aid assistance"},
		{DateOfBirth: date("1992-11-05T00:00:00Z"), Gender: "Other", Address: "789 Security Blvd, Surigao City",
			OrganizationName: "STI Surigao Volunteers", RolePosition: "Event Marshal",
			Responsibilities: "Start/finish line management, Checkpoint supervision, Timing coordination"},
	} {
		p.ID, p.UserID = s.newID(), pick(us, i).ID
		if err := fx.InsertMarshalProfile(ctx, &p); err != nil {
			return err
		}
		sum.MarshalProfiles++
	}

	events := []*models.Event{
		{EventName: "STI Surigao Fun Run 2025", EventDate: date("2025-06-15T06:00:00Z"),
			Location: "Surigao City Sports Complex", TargetAudience: "All fitness levels, ages 15-60",
			Description: "Annual charity fun run organized by STI Surigao to raise funds for local education initiatives. Multiple categories: 3K, 5K, and 10K."},
		{EventName: "Surigao Marathon Challenge", EventDate: date("2025-09-20T05:30:00Z"),
			Location: "Surigao Boulevard", TargetAudience: "Experienced runners, ages 18+",
			Description: "Challenging marathon along the scenic coast of Surigao. Half marathon and full marathon categories available. Prizes for top finishers."},
		{EventName: "Kids Dash for Health", EventDate: date("2025-08-01T07:00:00Z"),
			Location: "Luneta Park, Surigao City", TargetAudience: "Children ages 5-12",
			Description: "Fun-filled running event for kids to promote health and fitness. Includes 500m and 1K distances with medals for all participants."},
	}
	for i, e := range events {
		e.ID, e.CreatedBy = s.newID(), pick(staff, i).ID
		if err := fx.InsertEvent(ctx, e); err != nil {
			return err
		}
		sum.Events++
	}

	categories := []*models.EventCategory{
		{CategoryName: "5K Run", Description: "A 5-kilometer running event suitable for beginners and intermediate runners.",
			TargetAudience: "All fitness levels, ages 12+"},
		{CategoryName: "10K Run", Description: "A 10-kilometer running event for intermediate and experienced runners.",
			TargetAudience: "Intermediate runners, ages 15+"},
		{CategoryName: "Kids Fun Run", Description: "Short-distance runs designed specifically for children.",
			TargetAudience: "Children ages 5-12"},
	}
	for _, c := range categories {
		c.ID, c.CreatedBy = s.newID(), staff[0].ID
		if err := fx.InsertEventCategory(ctx, c); err != nil {
			return err
		}
		sum.Categories++
	}

	for _, e := range events {
		linked := false
		for i, re := range categoryPatterns {
			if re.MatchString(e.EventName) {
				if err := fx.LinkEventCategory(ctx, e.ID, categories[i].ID); err != nil {
					return err
				}
				sum.CategoryLinks++
				linked = true
			}
		}
		if !linked {
			if err := fx.LinkEventCategory(ctx, e.ID, categories[0].ID); err != nil {
				return err
			}
			sum.CategoryLinks++
		}
	}

	for _, e := range events {
		for j := 0; j < len(staff) && j < len(staffDuties); j++ {
			st := &models.EventStaff{
				ID: s.newID(), EventID: e.ID, UserID: staff[j].ID,
				RoleInEvent: staffDuties[j].role, Responsibilities: staffDuties[j].duty,
			}
			if err := fx.InsertEventStaff(ctx, st); err != nil {
				return err
			}
			sum.Staff++
		}
	}

	// runners and guests first, then everyone else
	entrants := byRole(us, models.RoleRunner, models.RoleGuest)
	for _, u := range us {
		if u.Role != models.RoleRunner && u.Role != models.RoleGuest {
			entrants = append(entrants, u)
		}
	}

	participants := []*models.Participant{
		{RFIDNumber: strPtr("RF2504A918B7C3"), PaymentStatus: models.PaymentVerified, RegistrationStatus: models.RegistrationApproved},
		{RFIDNumber: strPtr("RF3612D734E2F1"), PaymentStatus: models.PaymentPaid, RegistrationStatus: models.RegistrationApproved},
		{RFIDNumber: strPtr("RF1908B623C7A4"), PaymentStatus: models.PaymentPending, RegistrationStatus: models.RegistrationPending},
	}
	for i, p := range participants {
		p.ID, p.UserID, p.CategoryID = s.newID(), pick(entrants, i).ID, pick(categories, i).ID
		if err := fx.InsertParticipant(ctx, p); err != nil {
			return err
		}
		sum.Participants++
	}

	return s.seedResults(ctx, fx, participants, categories, sum)
}

func (s *Seeder) seedResults(ctx context.Context, fx fixtures.Repository, ps []*models.Participant, cs []*models.EventCategory, sum *SeedSummary) error {
	var approved []*models.Participant
	for _, p := range ps {
		if p.RegistrationStatus == models.RegistrationApproved {
			approved = append(approved, p)
		}
	}
	if len(approved) == 0 {
		approved = ps
	}

	categoryName := map[string]string{}
	for _, c := range cs {
		categoryName[c.ID] = c.CategoryName
	}

	times := []struct {
		match, hit, miss string
		notes            *string
	}{
		{"", "00:23:45.21", "00:23:45.21", strPtr("Excellent performance, personal best time")},
		{"10K", "00:52:18.43", "00:25:31.09", strPtr("Strong finish, consistent pace throughout")},
		{"Kids", "00:05:12.87", "00:28:45.63", nil},
	}

	seen := map[string]bool{}
	for i, t := range times {
		p := approved[0]
		if i < len(approved) {
			p = approved[i]
		}
		key := p.ID + "/" + p.CategoryID
		if seen[key] {
			continue
		}
		seen[key] = true

		completion := t.miss
		if i < len(approved) && strings.Contains(categoryName[p.CategoryID], t.match) {
			completion = t.hit
		}

		r := &models.Result{
			ID: s.newID(), ParticipantID: p.ID, CategoryID: p.CategoryID,
			CompletionTime: completion, Ranking: i + 1, Notes: t.notes,
		}
		if err := fx.InsertResult(ctx, r); err != nil {
			return err
		}
		sum.Results++
	}
	return nil
}
