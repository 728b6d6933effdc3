package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/ahscorp/hiring-hive-platform/internal/config"
	"github.com/ahscorp/hiring-hive-platform/internal/model"
)

// DefaultIssuer is the issuer claim when none is configured.
const DefaultIssuer = "hiring-hive"

// DefaultTokenTTL is the session lifetime when none is configured.
const DefaultTokenTTL = 12 * time.Hour

// ErrMissingSecret is returned when no signing key is configured.
var ErrMissingSecret = errors.New("SECRET_KEY is not set")

// Claims are the JWT claims of a session token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates session tokens.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer from the auth configuration.
func NewTokenIssuer(cfg config.AuthConfig) (*TokenIssuer, error) {
	if cfg.SecretKey == "" {
		return nil, ErrMissingSecret
	}
	t := &TokenIssuer{
		secret: []byte(cfg.SecretKey),
		issuer: cfg.Issuer,
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}
	if t.issuer == "" {
		t.issuer = DefaultIssuer
	}
	if t.ttl <= 0 {
		t.ttl = DefaultTokenTTL
	}
	return t, nil
}

// Issuer returns the issuer claim of generated tokens.
func (t *TokenIssuer) Issuer() string { return t.issuer }

// GenerateToken signs a token for user and returns it with its session.
func (t *TokenIssuer) GenerateToken(user model.User) (string, *Session, error) {
	now := t.now()
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    t.issuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", nil, fmt.Errorf("Failed to sign token: %w", err)
	}
	s, err := SessionFromClaims(&claims)
	if err != nil {
		return "", nil, err
	}
	return signed, s, nil
}

// ValidateToken parses token and checks its signature, expiry and issuer.
func (t *TokenIssuer) ValidateToken(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Invalid token")
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("Invalid access token")
	}
	if !claims.VerifyIssuer(t.issuer, true) {
		return nil, jwt.ErrTokenInvalidIssuer
	}
	return claims, nil
}

// SessionFromClaims converts validated claims to a session.
func SessionFromClaims(c *Claims) (*Session, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, fmt.Errorf("Invalid token subject: %w", err)
	}
	s := &Session{UserID: id, Email: c.Email, Role: c.Role, TokenID: c.ID}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s, nil
}
