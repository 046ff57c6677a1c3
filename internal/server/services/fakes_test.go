package services

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/funrun/internal/common"
	"github.com/dmitrijs2005/funrun/internal/dbx"
	"github.com/dmitrijs2005/funrun/internal/server/mailer"
	"github.com/dmitrijs2005/funrun/internal/server/models"
	"github.com/dmitrijs2005/funrun/internal/server/repositories/collections"
	"github.com/dmitrijs2005/funrun/internal/server/repositories/fixtures"
	usersrepo "github.com/dmitrijs2005/funrun/internal/server/repositories/users"
)

// memUsers is a users repository backed by a map, keyed by e-mail.
type memUsers struct {
	mu    sync.Mutex
	byKey map[string]*models.User

	getErr    error
	createErr error
	setErr    error
	existsErr error
	// existsLies makes ExistsByEmail report false, to simulate a race with
	// a concurrent registration.
	existsLies bool
}

func newMemUsers() *memUsers {
	return &memUsers{byKey: map[string]*models.User{}}
}

func clone(u *models.User) *models.User {
	c := *u
	return &c
}

func (m *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	if _, ok := m.byKey[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.byKey[u.Email] = clone(u)
	return u, nil
}

func (m *memUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.byKey[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

func (m *memUsers) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.byKey {
		if u.ID == id {
			return clone(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.existsErr != nil {
		return false, m.existsErr
	}
	if m.existsLies {
		return false, nil
	}
	_, ok := m.byKey[email]
	return ok, nil
}

func (m *memUsers) SetResetToken(ctx context.Context, email string, tokenHash string, expiry time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	u, ok := m.byKey[email]
	if !ok {
		return common.ErrorNotFound
	}
	u.ResetTokenHash = &tokenHash
	u.ResetTokenExpiry = &expiry
	return nil
}

func (m *memUsers) UpdatePassword(ctx context.Context, email string, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byKey[email]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetTokenHash = nil
	u.ResetTokenExpiry = nil
	return nil
}

func (m *memUsers) get(email string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byKey[email]
}

// memCollections serves pages out of in-memory slices.
type memCollections struct {
	data     map[collections.Name][]any
	countErr error
	listErr  error
}

func (m *memCollections) Count(ctx context.Context, name collections.Name) (int64, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return int64(len(m.data[name])), nil
}

func (m *memCollections) List(ctx context.Context, name collections.Name, limit, offset int) ([]any, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	rows := m.data[name]
	out := make([]any, 0)
	for i := offset; i < len(rows) && i-offset < limit; i++ {
		out = append(out, rows[i])
	}
	return out, nil
}

// recFixtures records what the seeder writes.
type recFixtures struct {
	wiped        int
	runners      []*models.RunnerProfile
	marshals     []*models.MarshalProfile
	events       []*models.Event
	categories   []*models.EventCategory
	links        [][2]string
	staff        []*models.EventStaff
	participants []*models.Participant
	results      []*models.Result

	eventErr error
}

func (f *recFixtures) Wipe(ctx context.Context) error { f.wiped++; return nil }
func (f *recFixtures) InsertRunnerProfile(ctx context.Context, p *models.RunnerProfile) error {
	c := *p
	f.runners = append(f.runners, &c)
	return nil
}
func (f *recFixtures) InsertMarshalProfile(ctx context.Context, p *models.MarshalProfile) error {
	c := *p
	f.marshals = append(f.marshals, &c)
	return nil
}
func (f *recFixtures) InsertEvent(ctx context.Context, e *models.Event) error {
	if f.eventErr != nil {
		return f.eventErr
	}
	f.events = append(f.events, e)
	return nil
}
func (f *recFixtures) InsertEventCategory(ctx context.Context, c *models.EventCategory) error {
	f.categories = append(f.categories, c)
	return nil
}
func (f *recFixtures) LinkEventCategory(ctx context.Context, eventID, categoryID string) error {
	f.links = append(f.links, [2]string{eventID, categoryID})
	return nil
}
func (f *recFixtures) InsertEventStaff(ctx context.Context, s *models.EventStaff) error {
	f.staff = append(f.staff, s)
	return nil
}
func (f *recFixtures) InsertParticipant(ctx context.Context, p *models.Participant) error {
	f.participants = append(f.participants, p)
	return nil
}
func (f *recFixtures) InsertResult(ctx context.Context, r *models.Result) error {
	f.results = append(f.results, r)
	return nil
}

type fakeRepoManager struct {
	u *memUsers
	c *memCollections
	f *recFixtures
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error   { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository         { return m.u }
func (m *fakeRepoManager) Collections(db dbx.DBTX) collections.Repository { return m.c }
func (m *fakeRepoManager) Fixtures(db dbx.DBTX) fixtures.Repository       { return m.f }

// fakeMailer keeps every message it was asked to send.
type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.PasswordReset
	err  error
}

func (f *fakeMailer) SendPasswordReset(ctx context.Context, msg mailer.PasswordReset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) last() mailer.PasswordReset {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}
