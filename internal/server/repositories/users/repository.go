package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/funrun/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	SetResetToken(ctx context.Context, email string, tokenHash string, expiry time.Time) error
	UpdatePassword(ctx context.Context, email string, passwordHash string) error
}
