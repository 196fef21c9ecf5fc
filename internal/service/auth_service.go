package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"tasker-be/internal/apperrors"
	"tasker-be/internal/jwt"
	"tasker-be/internal/models"
	"tasker-be/internal/repository"
)

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Signup(req *models.SignupRequest) (*models.AuthResponse, error)
	Login(req *models.LoginRequest) (*models.AuthResponse, error)
	Logout(userID, token string) error
	LogoutAll(userID string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *jwt.JWTService
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtService *jwt.JWTService) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Signup creates a new user account and logs it in. The plaintext password
// is hashed here, before persistence; the stored value is only ever the hash.
func (s *authService) Signup(req *models.SignupRequest) (*models.AuthResponse, error) {
	name, err := normalizeName(req.Name)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	age := 0
	if req.Age != nil {
		age = *req.Age
	}
	if err := validateAge(age); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(name, email, string(hashedPassword), age)
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		User:  models.NewUserResponse(user),
		Token: token,
	}, nil
}

// Login authenticates a user by email and password. Unknown email and wrong
// password produce the same error, so accounts cannot be enumerated.
func (s *authService) Login(req *models.LoginRequest) (*models.AuthResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		User:  models.NewUserResponse(user),
		Token: token,
	}, nil
}

// Logout removes exactly the presenting token from the user's active list.
// Other sessions keep working.
func (s *authService) Logout(userID, token string) error {
	return s.userRepo.RemoveToken(userID, token)
}

// LogoutAll clears every active token for the user
func (s *authService) LogoutAll(userID string) error {
	return s.userRepo.ClearTokens(userID)
}

// issueToken signs a token and appends it to the user's active list
func (s *authService) issueToken(userID string) (string, error) {
	token, err := s.jwtService.GenerateToken(userID)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	if err := s.userRepo.AddToken(userID, token); err != nil {
		return "", err
	}
	return token, nil
}
