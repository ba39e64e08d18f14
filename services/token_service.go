package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/dlsystem/blogbackend/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const minKeyLength = 32

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
	ErrMalformedKey = fmt.Errorf("signing key must be at least %d bytes", minKeyLength)
)

type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

type Claims struct {
	Kind TokenKind   `json:"token_type"`
	Role models.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserName is the subject the token was issued for.
func (c *Claims) UserName() string {
	return c.Subject
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenService signs and verifies access and refresh tokens. It holds no
// mutable state and is safe for concurrent use.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if len(accessSecret) < minKeyLength || len(refreshSecret) < minKeyLength {
		return nil, ErrMalformedKey
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}, nil
}

// WithClock returns a copy of s that reads the time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	cp := *s
	cp.now = now
	return &cp
}

func (s *TokenService) Issue(user *models.User) (TokenPair, error) {
	access, err := s.IssueAccess(user)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(user, RefreshToken, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *TokenService) IssueAccess(user *models.User) (string, error) {
	return s.sign(user, AccessToken, s.accessSecret, s.accessTTL)
}

func (s *TokenService) sign(user *models.User, kind TokenKind, secret []byte, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		Kind: kind,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserName,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Verify checks signature, expiry and kind. Expected failures are reported as
// ErrTokenInvalid or ErrTokenExpired, never as a panic.
func (s *TokenService) Verify(raw string, kind TokenKind) (*Claims, error) {
	secret := s.accessSecret
	if kind == RefreshToken {
		secret = s.refreshSecret
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Kind != kind || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
