package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/DivaAnanda/accenprove-sub001/internal/models"
)

// TokenTTL is how long an issued session token stays valid. Tokens are not
// refreshed when a user's role changes; privileged checks re-read the role
// from the users table instead of trusting the claim.
const TokenTTL = 7 * 24 * time.Hour

// TokenClaims is the identity payload embedded in a session token.
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed session tokens. The secret is
// injected so tests can run with their own signing keys.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given signing secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: TokenTTL}
}

// Issue signs a token for the given user with the fixed expiry.
func (s *TokenService) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates signature and expiry. Any failure (malformed, expired, bad
// signature) yields ok=false; callers treat all of them as unauthenticated and
// never surface the subtype to the client.
func (s *TokenService) Verify(tokenString string) (*TokenClaims, bool) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	return claims, true
}
