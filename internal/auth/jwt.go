package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded shape of a bearer token. The payload at issuance
// is caller-supplied and opaque; email is the only field the rest of the
// system reads.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret    []byte
	accessTTL time.Duration
}

func NewManager(secret string, accessTTL time.Duration) *Manager {
	return &Manager{
		secret:    []byte(secret),
		accessTTL: accessTTL,
	}
}

// Issue signs whatever payload the caller hands over. The endpoint is
// deliberately open; callers are trusted to claim any identity, and
// nothing here checks the claim against who is asking.
func (m *Manager) Issue(payload map[string]any) (string, error) {
	now := time.Now().UTC()

	claims := jwt.MapClaims{}

	for k, v := range payload {
		claims[k] = v
	}

	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(m.accessTTL))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(m.secret)
}

var ErrInvalidToken = errors.New("invalid token")

// Verify validates signature and expiry. Every failure mode collapses to
// ErrInvalidToken; callers map it to a single unauthorized response.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256

		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
