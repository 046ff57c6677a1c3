// Package services contains server-side business logic. AuthService covers
// login, registration and the password reset flow; CollectionService pages
// through the browsable collections; Seeder loads the demo data set.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/funrun/internal/common"
	"github.com/dmitrijs2005/funrun/internal/logging"
	"github.com/dmitrijs2005/funrun/internal/server/auth"
	"github.com/dmitrijs2005/funrun/internal/server/config"
	"github.com/dmitrijs2005/funrun/internal/server/mailer"
	"github.com/dmitrijs2005/funrun/internal/server/models"
	"github.com/dmitrijs2005/funrun/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// resetTokenBytes is the entropy of a reset token before hex encoding.
const resetTokenBytes = 32

// Session is an established login: the signed token and what it asserts.
type Session struct {
	Token  string
	Claims auth.SessionClaims
}

// Registration is the input of RegisterUser.
type Registration struct {
	Name        string
	Email       string
	Password    string
	Role        string
	PhoneNumber *string
}

type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	mailer      mailer.Mailer
	log         logging.Logger

	secretKey       []byte
	sessionValidity time.Duration
	resetValidity   time.Duration
	baseURL         string

	hashCost int
	now      func() time.Time
	newID    func() string

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, ml mailer.Mailer, log logging.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		db:              db,
		repomanager:     m,
		mailer:          ml,
		log:             log,
		secretKey:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidityDuration,
		resetValidity:   cfg.ResetTokenValidityDuration,
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		hashCost:        auth.DefaultCost,
		now:             time.Now,
		newID:           uuid.NewString,
	}
}

func upstream(err error) error {
	return fmt.Errorf("%w: %w", common.ErrUpstreamFailure, err)
}

// Authenticate checks the credentials and signs a session. Unknown e-mail,
// wrong password and missing input all fail with the same
// common.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, common.ErrInvalidCredentials
	}

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn the same bcrypt work as a real comparison
			auth.CompareSecret(s.placeholderHash(ctx), password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, upstream(err)
	}

	if !auth.CompareSecret(user.PasswordHash, password) {
		return nil, common.ErrInvalidCredentials
	}

	claims := auth.ClaimsFor(user, s.now(), s.sessionValidity)
	token, err := auth.GenerateSessionToken(claims, s.secretKey)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}

	return &Session{Token: token, Claims: claims}, nil
}

// ParseSession verifies a session token issued by Authenticate.
func (s *AuthService) ParseSession(token string) (*auth.SessionClaims, error) {
	return auth.ParseSessionToken(token, s.secretKey)
}

// fallbackPlaceholderHash is a well-formed cost 10 bcrypt hash that no
// password is expected to match.
const fallbackPlaceholderHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func (s *AuthService) placeholderHash(ctx context.Context) string {
	s.dummyOnce.Do(func() {
		seed, err := common.MakeRandHexString(16)
		if err != nil {
			seed = "placeholder"
		}
		h, err := auth.HashSecret(seed, s.hashCost)
		if err != nil {
			s.log.Error(ctx, "placeholder hash failed, using fallback", "error", err)
			h = fallbackPlaceholderHash
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

// RegisterUser creates an account. The returned user carries no secrets
// once encoded.
func (s *AuthService) RegisterUser(ctx context.Context, in Registration) (*models.User, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return nil, common.ErrMissingFields
	}

	role, err := models.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	exists, err := repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, upstream(err)
	}
	if exists {
		return nil, common.ErrDuplicateEmail
	}

	hash, err := auth.HashSecret(in.Password, s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	phone := in.PhoneNumber
	if phone != nil && *phone == "" {
		phone = nil
	}

	user, err := repo.Create(ctx, &models.User{
		ID:           s.newID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		PhoneNumber:  phone,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, upstream(err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *AuthService) EmailExists(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	exists, err := s.repomanager.Users(s.db).ExistsByEmail(ctx, email)
	if err != nil {
		return false, upstream(err)
	}
	return exists, nil
}

// CurrentUser loads the live record of a session's user.
func (s *AuthService) CurrentUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, upstream(err)
	}
	return user, nil
}

// ResetURL builds the link mailed to the user.
func (s *AuthService) ResetURL(token, email string) string {
	return s.baseURL + "/reset-password?token=" + token + "&email=" + url.QueryEscape(email)
}

// IssuePasswordResetToken stores a fresh token hash for email, replacing
// any earlier one, and mails the raw token. An unknown e-mail is a silent
// success.
func (s *AuthService) IssuePasswordResetToken(ctx context.Context, email string) error {
	if email == "" {
		return common.ErrMissingFields
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.log.Debug(ctx, "reset requested for unknown email")
			return nil
		}
		return upstream(err)
	}

	token, err := common.MakeRandHexString(resetTokenBytes)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	hash, err := auth.HashSecret(token, s.hashCost)
	if err != nil {
		return fmt.Errorf("hash reset token: %w", err)
	}

	if err := repo.SetResetToken(ctx, user.Email, hash, s.now().Add(s.resetValidity)); err != nil {
		return upstream(err)
	}

	msg := mailer.PasswordReset{
		To:       user.Email,
		Name:     user.Name,
		ResetURL: s.ResetURL(token, user.Email),
		ValidFor: s.resetValidity,
	}
	if err := s.mailer.SendPasswordReset(ctx, msg); err != nil {
		return fmt.Errorf("%w: %w", common.ErrMailDelivery, err)
	}

	return nil
}

// checkResetToken applies the three reset token checks in order: a token on
// file, not expired, matching hash.
func (s *AuthService) checkResetToken(user *models.User, token string) error {
	if !user.HasResetToken() {
		return common.ErrNoTokenOnFile
	}
	if !s.now().Before(*user.ResetTokenExpiry) {
		return common.ErrTokenExpired
	}
	if !auth.CompareSecret(*user.ResetTokenHash, token) {
		return common.ErrTokenMismatch
	}
	return nil
}

func (s *AuthService) loadForReset(ctx context.Context, email, token string) (*models.User, error) {
	if email == "" || token == "" {
		return nil, common.ErrMissingFields
	}

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrTokenMismatch
		}
		return nil, upstream(err)
	}

	if err := s.checkResetToken(user, token); err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyPasswordResetToken reports whether token would be accepted by
// ResetPassword right now. It changes nothing.
func (s *AuthService) VerifyPasswordResetToken(ctx context.Context, email, token string) error {
	_, err := s.loadForReset(ctx, email, token)
	return err
}

// ResetPassword consumes the token: the new hash is stored and the token
// cleared in one update.
func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	if newPassword == "" {
		return common.ErrMissingFields
	}

	user, err := s.loadForReset(ctx, email, token)
	if err != nil {
		return err
	}

	hash, err := auth.HashSecret(newPassword, s.hashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repomanager.Users(s.db).UpdatePassword(ctx, user.Email, hash); err != nil {
		return upstream(err)
	}

	s.log.Info(ctx, "password reset", "user_id", user.ID)
	return nil
}
