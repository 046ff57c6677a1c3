package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/funrun/internal/common"
	"github.com/dmitrijs2005/funrun/internal/logging"
	"github.com/dmitrijs2005/funrun/internal/server/config"
	"github.com/dmitrijs2005/funrun/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type authFixture struct {
	svc    *AuthService
	users  *memUsers
	mail   *fakeMailer
	clock  *clock
	nextID int
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()

	f := &authFixture{
		users: newMemUsers(),
		mail:  &fakeMailer{},
		clock: &clock{t: time.Now().UTC().Truncate(time.Second)},
	}
	rm := &fakeRepoManager{u: f.users}
	f.svc = NewAuthService(nil, rm, f.mail, logging.Nop{}, cfg)
	f.svc.hashCost = bcrypt.MinCost
	f.svc.now = f.clock.now
	return f
}

func (f *authFixture) register(t *testing.T, email, password string, role models.Role) *models.User {
	t.Helper()
	u, err := f.svc.RegisterUser(context.Background(), Registration{
		Name: "User " + email, Email: email, Password: password, Role: string(role),
	})
	require.NoError(t, err)
	return u
}

// issue requests a reset for email and returns the raw token from the mailed link.
func (f *authFixture) issue(t *testing.T, email string) string {
	t.Helper()
	require.NoError(t, f.svc.IssuePasswordResetToken(context.Background(), email))
	link, err := url.Parse(f.mail.last().ResetURL)
	require.NoError(t, err)
	return link.Query().Get("token")
}

func TestRegisterUser_ThenDuplicate(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	in := Registration{Name: "A", Email: "a@x.com", Password: "pw123456", Role: "Runner"}
	u, err := f.svc.RegisterUser(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, models.RoleRunner, u.Role)

	stored := f.users.get("a@x.com")
	assert.NotEqual(t, "pw123456", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw123456")))

	_, err = f.svc.RegisterUser(ctx, in)
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
	assert.Equal(t, "user with this email already exists", err.Error())
}

func TestRegisterUser_Validation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   Registration
		want error
	}{
		{"no name", Registration{Email: "a@x.com", Password: "p", Role: "Runner"}, common.ErrMissingFields},
		{"no email", Registration{Name: "A", Password: "p", Role: "Runner"}, common.ErrMissingFields},
		{"no password", Registration{Name: "A", Email: "a@x.com", Role: "Runner"}, common.ErrMissingFields},
		{"no role", Registration{Name: "A", Email: "a@x.com", Password: "p"}, common.ErrMissingFields},
		{"bad role", Registration{Name: "A", Email: "a@x.com", Password: "p", Role: "Superuser"}, common.ErrInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RegisterUser(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, f.users.byKey)
}

func TestRegisterUser_EmptyPhoneStoredAsNull(t *testing.T) {
	f := newAuthFixture(t)
	empty := ""

	_, err := f.svc.RegisterUser(context.Background(), Registration{
		Name: "A", Email: "a@x.com", Password: "p", Role: "Guest", PhoneNumber: &empty,
	})
	require.NoError(t, err)
	assert.Nil(t, f.users.get("a@x.com").PhoneNumber)
}

func TestRegisterUser_UniqueViolationRace(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "a@x.com", "pw", models.RoleRunner)
	f.users.existsLies = true

	_, err := f.svc.RegisterUser(context.Background(), Registration{Name: "A", Email: "a@x.com", Password: "pw", Role: "Runner"})
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
}

func TestRegisterUser_StoreFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.users.existsErr = errors.New("db down")

	_, err := f.svc.RegisterUser(context.Background(), Registration{Name: "A", Email: "a@x.com", Password: "pw", Role: "Runner"})
	assert.ErrorIs(t, err, common.ErrUpstreamFailure)
}

func TestAuthenticate_Indistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "ann@x.com", "secret1", models.RoleMarshal)

	s, err := f.svc.Authenticate(ctx, "ann@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleMarshal, s.Claims.Role)
	assert.Equal(t, "ann@x.com", s.Claims.Email)

	claims, err := f.svc.ParseSession(s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.Claims.ID, claims.ID)

	_, wrongPw := f.svc.Authenticate(ctx, "ann@x.com", "secret2")
	_, unknown := f.svc.Authenticate(ctx, "bob@x.com", "secret1")
	_, empty := f.svc.Authenticate(ctx, "", "")

	for _, err := range []error{wrongPw, unknown, empty} {
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
		assert.Equal(t, wrongPw.Error(), err.Error())
	}
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.users.getErr = errors.New("db down")

	_, err := f.svc.Authenticate(context.Background(), "ann@x.com", "pw")
	assert.ErrorIs(t, err, common.ErrUpstreamFailure)
	assert.NotErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestIssuePasswordResetToken_UnknownEmailIsSilent(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.IssuePasswordResetToken(context.Background(), "nobody@x.com")
	assert.NoError(t, err)
	assert.Empty(t, f.mail.sent)
}

func TestIssuePasswordResetToken_StoresHashAndMailsLink(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ann+1@x.com", "pw", models.RoleRunner)

	token := f.issue(t, "ann+1@x.com")
	assert.Len(t, token, 2*resetTokenBytes)

	msg := f.mail.last()
	assert.Equal(t, "ann+1@x.com", msg.To)
	assert.Equal(t, "http://localhost:3000/reset-password?token="+token+"&email=ann%2B1%40x.com", msg.ResetURL)

	stored := f.users.get("ann+1@x.com")
	require.True(t, stored.HasResetToken())
	assert.NotEqual(t, token, *stored.ResetTokenHash)
	assert.Equal(t, f.clock.t.Add(time.Hour), *stored.ResetTokenExpiry)
}

func TestIssuePasswordResetToken_Failures(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ann@x.com", "pw", models.RoleRunner)

	f.mail.err = errors.New("relay down")
	err := f.svc.IssuePasswordResetToken(context.Background(), "ann@x.com")
	assert.ErrorIs(t, err, common.ErrMailDelivery)

	f.mail.err = nil
	f.users.setErr = errors.New("db down")
	err = f.svc.IssuePasswordResetToken(context.Background(), "ann@x.com")
	assert.ErrorIs(t, err, common.ErrUpstreamFailure)

	assert.ErrorIs(t, f.svc.IssuePasswordResetToken(context.Background(), ""), common.ErrMissingFields)
}

func TestVerifyPasswordResetToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "ann@x.com", "pw", models.RoleRunner)

	assert.ErrorIs(t, f.svc.VerifyPasswordResetToken(ctx, "ann@x.com", "abc"), common.ErrNoTokenOnFile)
	assert.ErrorIs(t, f.svc.VerifyPasswordResetToken(ctx, "ghost@x.com", "abc"), common.ErrTokenMismatch)

	token := f.issue(t, "ann@x.com")
	assert.ErrorIs(t, f.svc.VerifyPasswordResetToken(ctx, "ann@x.com", "abc"), common.ErrTokenMismatch)

	// repeatable: verification consumes nothing
	assert.NoError(t, f.svc.VerifyPasswordResetToken(ctx, "ann@x.com", token))
	assert.NoError(t, f.svc.VerifyPasswordResetToken(ctx, "ann@x.com", token))
}

func TestResetToken_ExpiryBoundary(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "ann@x.com", "pw", models.RoleRunner)
	token := f.issue(t, "ann@x.com")

	f.clock.advance(time.Hour - time.Nanosecond)
	assert.NoError(t, f.svc.VerifyPasswordResetToken(ctx, "ann@x.com", token))

	f.clock.advance(time.Nanosecond)
	assert.ErrorIs(t, f.svc.VerifyPasswordResetToken(ctx, "ann@x.com", token), common.ErrTokenExpired)
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, "ann@x.com", token, "new"), common.ErrTokenExpired)

	f.clock.advance(time.Hour)
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, "ann@x.com", token, "new"), common.ErrTokenExpired)
}

func TestResetPassword_SingleUse(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "ann@x.com", "old-pw", models.RoleRunner)
	token := f.issue(t, "ann@x.com")

	require.NoError(t, f.svc.ResetPassword(ctx, "ann@x.com", token, "new-pw"))

	stored := f.users.get("ann@x.com")
	assert.Nil(t, stored.ResetTokenHash)
	assert.Nil(t, stored.ResetTokenExpiry)

	assert.ErrorIs(t, f.svc.ResetPassword(ctx, "ann@x.com", token, "other"), common.ErrNoTokenOnFile)

	_, err := f.svc.Authenticate(ctx, "ann@x.com", "new-pw")
	assert.NoError(t, err)
	_, err = f.svc.Authenticate(ctx, "ann@x.com", "old-pw")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestResetToken_ReissueInvalidatesPrevious(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "ann@x.com", "pw", models.RoleRunner)

	first := f.issue(t, "ann@x.com")
	second := f.issue(t, "ann@x.com")
	require.NotEqual(t, first, second)

	assert.ErrorIs(t, f.svc.VerifyPasswordResetToken(ctx, "ann@x.com", first), common.ErrTokenMismatch)
	assert.NoError(t, f.svc.ResetPassword(ctx, "ann@x.com", second, "new-pw"))
}

func TestResetPassword_MissingFields(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.ResetPassword(ctx, "ann@x.com", "t", ""), common.ErrMissingFields)
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, "", "t", "pw"), common.ErrMissingFields)
	assert.ErrorIs(t, f.svc.VerifyPasswordResetToken(ctx, "ann@x.com", ""), common.ErrMissingFields)
}

func TestEmailExistsAndCurrentUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	u := f.register(t, "ann@x.com", "pw", models.RoleAdmin)

	ok, err := f.svc.EmailExists(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.svc.EmailExists(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := f.svc.CurrentUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", got.Email)

	_, err = f.svc.CurrentUser(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestLongPasswords_RegisterLoginAndReset(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	long := strings.Repeat("p", 73)
	f.register(t, "ann@x.com", long, models.RoleRunner)

	_, err := f.svc.Authenticate(ctx, "ann@x.com", long)
	require.NoError(t, err)

	token := f.issue(t, "ann@x.com")
	longer := strings.Repeat("q", 100)
	require.NoError(t, f.svc.ResetPassword(ctx, "ann@x.com", token, longer))

	_, err = f.svc.Authenticate(ctx, "ann@x.com", longer)
	require.NoError(t, err)
}

func TestAuthenticate_PlaceholderHashFallback(t *testing.T) {
	f := newAuthFixture(t)
	f.svc.hashCost = bcrypt.MaxCost + 1

	_, err := f.svc.Authenticate(context.Background(), "nobody@x.com", "pw")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Equal(t, fallbackPlaceholderHash, f.svc.dummyHash)

	_, err = bcrypt.Cost([]byte(fallbackPlaceholderHash))
	assert.NoError(t, err)
}

func TestIssuePasswordResetToken_MailCarriesValidity(t *testing.T) {
	f := newAuthFixture(t)
	f.svc.resetValidity = 30 * time.Minute
	f.register(t, "ann@x.com", "pw", models.RoleRunner)

	f.issue(t, "ann@x.com")
	assert.Equal(t, 30*time.Minute, f.mail.last().ValidFor)
}
