package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dlsystem/blogbackend/apperr"
	"github.com/dlsystem/blogbackend/logger"
	"github.com/dlsystem/blogbackend/models"
	"github.com/dlsystem/blogbackend/repository"
	"github.com/dlsystem/blogbackend/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RegisterInput struct {
	FirstName string
	LastName  string
	UserName  string
	Role      models.Role
	Password  string
}

func (in RegisterInput) Missing() []string {
	return missing(
		field("first_name", in.FirstName),
		field("last_name", in.LastName),
		field("user_name", in.UserName),
		field("user_type", string(in.Role)),
		field("password", in.Password),
	)
}

type LoginResult struct {
	User   *models.User
	Tokens *TokenPair
}

// AuthService registers accounts and resolves request identities.
type AuthService struct {
	users  repository.UserRepository
	hasher utils.PasswordHasher
	tokens *TokenService
	now    func() time.Time
}

func NewAuthService(users repository.UserRepository, hasher utils.PasswordHasher, tokens *TokenService) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		now:    time.Now,
	}
}

// Register creates a normal account. A taken user name is a conflict for any
// role; otherwise a request for a role other than normal creates nothing and
// returns (nil, nil).
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if m := in.Missing(); len(m) > 0 {
		return nil, apperr.Validation(m...)
	}
	if err := s.ensureAvailable(ctx, in.UserName); err != nil {
		return nil, err
	}
	if in.Role != models.RoleNormal {
		logger.Debug("self registration with non normal role ignored", zap.String("user_type", string(in.Role)))
		return nil, nil
	}
	return s.createUser(ctx, in)
}

// CreateAdmin lets an admin create an account of any role.
func (s *AuthService) CreateAdmin(ctx context.Context, actor *models.User, in RegisterInput) (*models.User, error) {
	if actor == nil {
		return nil, apperr.Authentication(msgNoCredentials)
	}
	if actor.Role != models.RoleAdmin {
		return nil, apperr.Authorization("only admins can create accounts")
	}
	if m := in.Missing(); len(m) > 0 {
		return nil, apperr.Validation(m...)
	}
	if !in.Role.Valid() {
		return nil, apperr.Invalid("user_type must be one of normal, admin")
	}
	return s.createUser(ctx, in)
}

func (s *AuthService) ensureAvailable(ctx context.Context, userName string) error {
	exists, err := s.users.Exists(ctx, strings.TrimSpace(userName))
	if err != nil {
		return storeError(err, "user")
	}
	if exists {
		return apperr.Conflict("user name already taken")
	}
	return nil
}

func (s *AuthService) createUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	userName := strings.TrimSpace(in.UserName)
	if err := s.ensureAvailable(ctx, userName); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperr.Internal("failed to hash password").WithCause(err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		UserName:     userName,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         in.Role,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("user name already taken")
		}
		return nil, storeError(err, "user")
	}
	return user, nil
}

// ResolveToken returns the current user behind a bearer access token.
func (s *AuthService) ResolveToken(ctx context.Context, raw string) (*models.User, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, apperr.Authentication(msgNoCredentials)
	}
	claims, err := s.tokens.Verify(raw, AccessToken)
	if err != nil {
		return nil, tokenError(err)
	}
	return s.activeUser(ctx, claims.UserName())
}

// ResolvePassword checks a user name and password pair.
func (s *AuthService) ResolvePassword(ctx context.Context, userName, password string) (*models.User, error) {
	if m := missing(field("id_code", userName), field("password", password)); len(m) > 0 {
		return nil, apperr.Validation(m...)
	}
	user, err := s.users.GetByUserName(ctx, strings.TrimSpace(userName))
	if err != nil {
		return nil, storeError(err, "user")
	}
	if err := s.hasher.Check(user.PasswordHash, password); err != nil {
		return nil, apperr.InvalidCredentials()
	}
	if !user.Active {
		return nil, apperr.Authentication("account disabled")
	}
	return user, nil
}

// ManualLogin resolves the password and, when remember is set, issues a
// token pair.
func (s *AuthService) ManualLogin(ctx context.Context, userName, password string, remember bool) (*LoginResult, error) {
	user, err := s.ResolvePassword(ctx, userName, password)
	if err != nil {
		return nil, err
	}
	result := &LoginResult{User: user}
	if remember {
		pair, err := s.tokens.Issue(user)
		if err != nil {
			return nil, apperr.Internal("failed to issue tokens").WithCause(err)
		}
		result.Tokens = &pair
	}
	return result, nil
}

// Refresh trades a refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apperr.Validation("refresh")
	}
	claims, err := s.tokens.Verify(raw, RefreshToken)
	if err != nil {
		return "", tokenError(err)
	}
	user, err := s.activeUser(ctx, claims.UserName())
	if err != nil {
		return "", err
	}
	access, err := s.tokens.IssueAccess(user)
	if err != nil {
		return "", apperr.Internal("failed to issue token").WithCause(err)
	}
	return access, nil
}

func (s *AuthService) activeUser(ctx context.Context, userName string) (*models.User, error) {
	user, err := s.users.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Authentication("user not found")
		}
		return nil, storeError(err, "user")
	}
	if !user.Active {
		return nil, apperr.Authentication("user is inactive")
	}
	return user, nil
}

func tokenError(err error) error {
	if errors.Is(err, ErrTokenExpired) {
		return apperr.Authentication("token has expired").WithCause(err)
	}
	return apperr.Authentication("token is invalid").WithCause(err)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
