package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dlsystem/blogbackend/logger"
	"github.com/dlsystem/blogbackend/models"
	"github.com/dlsystem/blogbackend/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeedAdminUser creates the configured admin account unless a user with that
// name already exists.
func SeedAdminUser(ctx context.Context, users repository.UserRepository, hasher PasswordHasher, userName, password string) error {
	userName = strings.TrimSpace(userName)
	if userName == "" || password == "" {
		return fmt.Errorf("missing ADMIN_USER_NAME or ADMIN_PASSWORD env vars")
	}

	exists, err := users.Exists(ctx, userName)
	if err != nil {
		return fmt.Errorf("seed admin lookup failed: %w", err)
	}
	if exists {
		logger.Info("Admin user already exists", zap.String("user_name", userName))
		return nil
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now().UTC()
	admin := &models.User{
		ID:           uuid.NewString(),
		UserName:     userName,
		FirstName:    "Admin",
		LastName:     "Admin",
		Role:         models.RoleAdmin,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, admin); err != nil {
		// lost a race with another instance
		if errors.Is(err, repository.ErrDuplicate) {
			return nil
		}
		return fmt.Errorf("seed admin insert failed: %w", err)
	}

	logger.Info("Admin user seeded", zap.String("user_name", userName))
	return nil
}
