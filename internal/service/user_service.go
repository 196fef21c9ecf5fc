package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tasker-be/internal/apperrors"
	"tasker-be/internal/cache"
	"tasker-be/internal/entities"
	"tasker-be/internal/repository"
)

const avatarCacheTTL = 1 * time.Hour

// Profile fields a client is allowed to change
var updatableUserFields = map[string]bool{
	"name":     true,
	"email":    true,
	"password": true,
	"age":      true,
}

// UserService defines the interface for profile business logic
type UserService interface {
	UpdateProfile(userID string, fields map[string]interface{}) (*entities.User, error)
	DeleteAccount(ctx context.Context, userID string) error
	SetAvatar(ctx context.Context, userID string, avatar []byte) error
	ClearAvatar(ctx context.Context, userID string) error
	GetAvatar(ctx context.Context, userID string) ([]byte, error)
}

type userService struct {
	userRepo repository.UserRepository
	cache    cache.Cache
}

// NewUserService creates a new user service. The cache client may be nil;
// avatar reads then always hit the database.
func NewUserService(userRepo repository.UserRepository, cacheClient cache.Cache) UserService {
	return &userService{
		userRepo: userRepo,
		cache:    cacheClient,
	}
}

// UpdateProfile applies an allow-listed set of field changes. An unknown
// field rejects the whole request before anything is validated or written.
func (s *userService) UpdateProfile(userID string, fields map[string]interface{}) (*entities.User, error) {
	for field := range fields {
		if !updatableUserFields[field] {
			return nil, apperrors.NewValidationError(field, "is not an updatable field")
		}
	}

	var name, email, passwordHash *string
	var age *int

	if raw, ok := fields["name"]; ok {
		value, ok := raw.(string)
		if !ok {
			return nil, apperrors.NewValidationError("name", "must be a string")
		}
		normalized, err := normalizeName(value)
		if err != nil {
			return nil, err
		}
		name = &normalized
	}
	if raw, ok := fields["email"]; ok {
		value, ok := raw.(string)
		if !ok {
			return nil, apperrors.NewValidationError("email", "must be a string")
		}
		normalized, err := normalizeEmail(value)
		if err != nil {
			return nil, err
		}
		email = &normalized
	}
	if raw, ok := fields["password"]; ok {
		value, ok := raw.(string)
		if !ok {
			return nil, apperrors.NewValidationError("password", "must be a string")
		}
		if err := validatePassword(value); err != nil {
			return nil, err
		}
		// The plaintext is hashed exactly once, here; the repository only
		// ever sees the hash.
		hashed, err := bcrypt.GenerateFromPassword([]byte(value), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		hashedStr := string(hashed)
		passwordHash = &hashedStr
	}
	if raw, ok := fields["age"]; ok {
		// JSON numbers decode as float64
		value, ok := raw.(float64)
		if !ok || value != float64(int(value)) {
			return nil, apperrors.NewValidationError("age", "must be an integer")
		}
		intValue := int(value)
		if err := validateAge(intValue); err != nil {
			return nil, err
		}
		age = &intValue
	}

	return s.userRepo.Update(userID, name, email, passwordHash, age)
}

// DeleteAccount destroys the user record; the repository transaction also
// removes every owned task and active token.
func (s *userService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.userRepo.Delete(userID); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Delete(ctx, avatarCacheKey(userID))
	}
	return nil
}

// SetAvatar stores the uploaded avatar bytes
func (s *userService) SetAvatar(ctx context.Context, userID string, avatar []byte) error {
	if len(avatar) == 0 {
		return apperrors.NewValidationError("avatar", "must not be empty")
	}
	if err := s.userRepo.SetAvatar(userID, avatar); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Delete(ctx, avatarCacheKey(userID))
	}
	return nil
}

// ClearAvatar removes the stored avatar
func (s *userService) ClearAvatar(ctx context.Context, userID string) error {
	if err := s.userRepo.SetAvatar(userID, nil); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Delete(ctx, avatarCacheKey(userID))
	}
	return nil
}

// GetAvatar returns the avatar bytes, going through the cache when available
func (s *userService) GetAvatar(ctx context.Context, userID string) ([]byte, error) {
	if s.cache != nil {
		if avatar, err := s.cache.GetBytes(ctx, avatarCacheKey(userID)); err == nil && len(avatar) > 0 {
			return avatar, nil
		}
	}

	avatar, err := s.userRepo.GetAvatar(userID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetBytes(ctx, avatarCacheKey(userID), avatar, avatarCacheTTL)
	}
	return avatar, nil
}

func avatarCacheKey(userID string) string {
	return fmt.Sprintf("avatar:%s", userID)
}
