package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dynotest/internal/models"
)

// ErrInvalidToken is the only verification error exposed. Signature,
// expiry and claim failures all collapse into it so a caller cannot
// probe which check rejected the token.
var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	Session models.UserSession `json:"session"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies session tokens. Tokens are stateless:
// expiry is the only invalidation mechanism.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required but was empty")
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured token lifetime, used for cookie max-age.
func (t *Tokens) TTL() time.Duration { return t.ttl }

// Issue signs a token carrying session with the given lifetime. A ttl
// of zero uses the configured default.
func (t *Tokens) Issue(session models.UserSession, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = t.ttl
	}
	now := time.Now()
	claims := &Claims{
		Session: session,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify checks signature and time claims and returns the embedded
// session. Every failure mode returns ErrInvalidToken.
func (t *Tokens) Verify(tokenString string) (models.UserSession, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return models.UserSession{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return models.UserSession{}, ErrInvalidToken
	}
	return claims.Session, nil
}
