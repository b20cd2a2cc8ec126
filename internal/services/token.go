package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	types "github.com/yungbote/campusshare-backend/internal/domain"
)

const DefaultTokenTTL = 30 * 24 * time.Hour

// Claims is the session token payload. Subject holds the identity id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type TokenService interface {
	Issue(u *types.User) (string, error)
	Parse(tokenString string) (*Claims, error)
	TTL() time.Duration
}

type TokenConfig struct {
	Secret string
	TTL    time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

func NewTokenService(cfg TokenConfig) (TokenService, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, fmt.Errorf("token secret required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &tokenService{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		now:    cfg.Now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(cfg.Now),
		),
	}, nil
}

func (ts *tokenService) TTL() time.Duration { return ts.ttl }

func (ts *tokenService) Issue(u *types.User) (string, error) {
	if u == nil || u.ID == uuid.Nil {
		return "", fmt.Errorf("issue token: identity required")
	}
	now := ts.now()
	claims := Claims{
		Role: string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature, algorithm and expiry. Every failure is an
// ErrUnauthenticated.
func (ts *tokenService) Parse(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, unauthenticated("Not authorized, no token", nil)
	}
	claims := &Claims{}
	_, err := ts.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return ts.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, unauthenticated("Token expired", err)
		}
		return nil, unauthenticated("Not authorized, token failed", err)
	}
	if _, err := claims.UserID(); err != nil {
		return nil, unauthenticated("Not authorized, token failed", err)
	}
	return claims, nil
}
