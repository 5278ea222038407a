package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Claims represents the session JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64    `json:"userId,omitempty"`
	Roles  []string `json:"roles,omitempty"`
}

const SessionTTL = 7 * 24 * time.Hour

// GenerateSessionToken creates a signed JWT for a local-mode session.
func GenerateSessionToken(subject string, userID int64, secret string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
		UserID: userID,
		Roles:  []string{"admin"},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// DecodeIdentity extracts the caller's identity from a session token without
// verifying the signature. Used only to auto-populate ownership fields; the
// backing service is the authority on the token. Absence is a normal
// outcome: a malformed token returns ok=false, never an error.
func DecodeIdentity(token string) (identity any, ok bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}

	for _, key := range []string{"userId", "id", "sub"} {
		switch v := claims[key].(type) {
		case float64:
			return int64(v), true
		case string:
			if v != "" {
				return v, true
			}
		}
	}
	return nil, false
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
