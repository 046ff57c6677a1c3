package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/funrun/internal/common"
	"github.com/dmitrijs2005/funrun/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the signed session: the registered claims plus the user
// identity and role the gate decides on.
type SessionClaims struct {
	jwt.RegisteredClaims
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// ClaimsFor builds session claims for u valid from now for validity.
func ClaimsFor(u *models.User, now time.Time, validity time.Duration) SessionClaims {
	return SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

func GenerateSessionToken(claims SessionClaims, secretKey []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseSessionToken verifies the signature and expiry. Expired tokens map to
// common.ErrSessionExpired, anything else unusable to common.ErrInvalidToken.
func ParseSessionToken(tokenString string, secretKey []byte) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrSessionExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
