package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kobrals/feeriequest-3d/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what a verified credential tells the server.
type Claims struct {
	AccountID domain.AccountID
	Username  string
	ExpiresAt time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
}

// TokenProvider issues and verifies HS256 credentials.
type TokenProvider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenProvider(secret string, ttl time.Duration) *TokenProvider {
	return &TokenProvider{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a credential for the account.
func (p *TokenProvider) Issue(id domain.AccountID, username string) (string, error) {
	now := p.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  id.String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
		Name: username,
	}
	if p.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(p.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign credential: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry. Every failure maps to ErrInvalidCredential.
func (p *TokenProvider) Verify(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, fmt.Errorf("%w: empty token", domain.ErrInvalidCredential)
	}

	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}
	if parsed.Subject == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", domain.ErrInvalidCredential)
	}

	out := Claims{AccountID: domain.AccountID(parsed.Subject), Username: parsed.Name}
	if parsed.ExpiresAt != nil {
		out.ExpiresAt = parsed.ExpiresAt.Time
	}
	return out, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: token expired", domain.ErrInvalidCredential)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: bad signature", domain.ErrInvalidCredential)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: malformed token", domain.ErrInvalidCredential)
	default:
		return fmt.Errorf("%w: %v", domain.ErrInvalidCredential, err)
	}
}
