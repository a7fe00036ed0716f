package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the claims the backend puts in its access tokens.
type SessionClaims struct {
	UserID   int64  `json:"id"`
	Username string `json:"usuario"`
	Name     string `json:"nombre"`
	Role     string `json:"rol"`
	jwt.RegisteredClaims
}

// JWTManager reads the backend's access tokens. The backend owns the signing
// key; when it is shared with the terminal the signature is checked, otherwise
// the claims are only decoded and every upstream call is still authorized by
// the backend itself.
type JWTManager struct {
	secretKey []byte
	issuer    string
}

// NewJWTManager creates a new JWT manager. An empty secret disables signature checks.
func NewJWTManager(secret, issuer string) *JWTManager {
	return &JWTManager{
		secretKey: []byte(secret),
		issuer:    issuer,
	}
}

// Verifies reports whether signatures are checked.
func (m *JWTManager) Verifies() bool {
	return len(m.secretKey) > 0
}

// ParseSessionToken validates (or decodes) a bearer token and returns its claims.
func (m *JWTManager) ParseSessionToken(tokenString string) (*SessionClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, errors.New("empty token")
	}

	claims := &SessionClaims{}
	if !m.Verifies() {
		if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
			return nil, err
		}
		if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
			return nil, jwt.ErrTokenExpired
		}
		return claims, validateClaims(claims)
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secretKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, validateClaims(claims)
}

func validateClaims(c *SessionClaims) error {
	if c.UserID <= 0 {
		return errors.New("token has no user id")
	}
	return nil
}

// SignSessionToken issues a token the same shape as the backend's. The
// terminal never logs users in; this exists for local tooling and tests.
func (m *JWTManager) SignSessionToken(userID int64, username, name, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		UserID:   userID,
		Username: username,
		Name:     name,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	key := m.secretKey
	if len(key) == 0 {
		key = []byte("unsigned")
	}
	return token.SignedString(key)
}
