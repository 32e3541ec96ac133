// Package share issues and verifies signed plan-sharing tokens, so a stored
// plan can be handed to someone else without exposing the owner's history.
package share

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTTL = 7 * 24 * time.Hour

// Signer issues and verifies share tokens for stored plans.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner creates a Signer over the configured secret. An empty secret is
// rejected up front rather than silently signing with nothing.
func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, fmt.Errorf("share token secret is empty")
	}
	return &Signer{secret: []byte(secret), ttl: defaultTTL}, nil
}

// Issue signs a token granting read access to one stored plan.
func (s *Signer) Issue(planID int64) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatInt(planID, 10),
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
		"aud": "plan-share",
	})
	return token.SignedString(s.secret)
}

// Verify checks the token's signature, audience and expiry, returning the
// plan id it grants access to.
func (s *Signer) Verify(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithAudience("plan-share"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, fmt.Errorf("invalid share token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid share token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("share token has no subject: %w", err)
	}
	planID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("share token subject is not a plan id: %w", err)
	}
	return planID, nil
}
